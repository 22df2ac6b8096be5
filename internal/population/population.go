// Package population models individuals whose phenotype blends a fixed
// genetic value with a resettable environmental value, and the session
// that reshuffles the environment round by round.
//
// A Session is not safe for concurrent use. Front-ends mutate it and then
// read fresh state, or subscribe to its events.
package population

import (
	"cmp"
	"errors"
	"math"
	"slices"

	"regressdemo/internal/stats"
)

// DefaultRankSize is the number of ids in each of the top and bottom sets
const DefaultRankSize = 5

var (
	ErrEmptyPopulation = errors.New("population size must be at least 1")
	ErrInvalidWeight   = errors.New("genetic weight is not a number")
)

// Delta is the signed phenotype change of one individual across a reshuffle
type Delta struct {
	ID     int     `json:"id"`
	Change float64 `json:"change"`
}

// Deltas holds the changes reported by the most recent reshuffle.
// Previous* cover the ids ranked before it, New* the ids ranked after it.
type Deltas struct {
	PreviousTop    []Delta `json:"previous_top"`
	PreviousBottom []Delta `json:"previous_bottom"`
	NewTop         []Delta `json:"new_top"`
	NewBottom      []Delta `json:"new_bottom"`
}

// Empty reports whether no reshuffle has produced deltas yet
func (d Deltas) Empty() bool {
	return len(d.PreviousTop) == 0 && len(d.PreviousBottom) == 0 &&
		len(d.NewTop) == 0 && len(d.NewBottom) == 0
}

// Changes extracts the change values of a delta list
func Changes(ds []Delta) []float64 {
	out := make([]float64, len(ds))
	for i, d := range ds {
		out[i] = d.Change
	}
	return out
}

// Session manages the population and its genetic weight across rounds
type Session struct {
	individuals []*Individual
	byID        map[int]*Individual
	src         Source

	weight   float64
	round    int
	rankSize int

	previous    *Snapshot
	top, bottom []int
	deltas      Deltas

	listeners []Listener
}

// Option configures a new Session
type Option func(*Session)

// WithWeight sets the initial genetic weight (clamped to [0, 1])
func WithWeight(w float64) Option {
	return func(s *Session) {
		if !math.IsNaN(w) {
			s.weight = ClampWeight(w)
		}
	}
}

// WithRankSize sets how many ids the top and bottom sets hold
func WithRankSize(k int) Option {
	return func(s *Session) {
		if k > 0 {
			s.rankSize = k
		}
	}
}

// Generate draws 2n samples from src and returns individuals with ids 1..n
func Generate(n int, src Source) ([]*Individual, error) {
	if n < 1 {
		return nil, ErrEmptyPopulation
	}
	out := make([]*Individual, n)
	for i := 0; i < n; i++ {
		intrinsic := src.Rand()
		extrinsic := src.Rand()
		out[i] = NewIndividual(i+1, intrinsic, extrinsic)
	}
	return out, nil
}

// NewSession generates a population of n individuals and ranks it at round 1
func NewSession(n int, src Source, opts ...Option) (*Session, error) {
	individuals, err := Generate(n, src)
	if err != nil {
		return nil, err
	}

	s := &Session{
		individuals: individuals,
		byID:        make(map[int]*Individual, n),
		src:         src,
		weight:      DefaultWeight,
		round:       1,
		rankSize:    DefaultRankSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, ind := range individuals {
		s.byID[ind.id] = ind
	}

	s.RecomputePhenotypes()
	s.top, s.bottom = s.Rank()
	return s, nil
}

// Len returns the population size
func (s *Session) Len() int {
	return len(s.individuals)
}

// Weight returns the genetic weight fraction
func (s *Session) Weight() float64 {
	return s.weight
}

// Round starts at 1 and advances once per reshuffle
func (s *Session) Round() int {
	return s.round
}

// Individual returns the individual with the given id
func (s *Session) Individual(id int) (*Individual, bool) {
	ind, ok := s.byID[id]
	return ind, ok
}

// SetWeight clamps w to [0, 1], recomputes phenotypes and re-ranks.
// NaN is rejected and leaves the session unchanged.
func (s *Session) SetWeight(w float64) error {
	if math.IsNaN(w) {
		return ErrInvalidWeight
	}
	s.weight = ClampWeight(w)
	s.RecomputePhenotypes()
	s.top, s.bottom = s.Rank()
	s.emit(EventWeightChanged)
	return nil
}

// RecomputePhenotypes recomputes every phenotype at the current weight
func (s *Session) RecomputePhenotypes() {
	for _, ind := range s.individuals {
		ind.PhenotypeAt(s.weight)
	}
}

// Reshuffle snapshots the population, draws a new extrinsic value for every
// individual, re-ranks, records deltas and advances the round.
func (s *Session) Reshuffle() {
	snap := newSnapshot(s.round, s.weight, s.individuals)
	prevTop, prevBottom := s.top, s.bottom

	for _, ind := range s.individuals {
		ind.extrinsic = s.src.Rand()
	}
	s.RecomputePhenotypes()
	s.top, s.bottom = s.Rank()

	s.previous = snap
	s.deltas = Deltas{
		PreviousTop:    s.changes(prevTop, snap),
		PreviousBottom: s.changes(prevBottom, snap),
		NewTop:         s.changes(s.top, snap),
		NewBottom:      s.changes(s.bottom, snap),
	}
	s.round++
	s.emit(EventReshuffled)
}

func (s *Session) changes(ids []int, snap *Snapshot) []Delta {
	out := make([]Delta, 0, len(ids))
	for _, id := range ids {
		before, ok := snap.Phenotype(id)
		if !ok {
			continue
		}
		out = append(out, Delta{ID: id, Change: s.byID[id].phenotype - before})
	}
	return out
}

// Rank sorts by phenotype descending, keeping population order among
// equal phenotypes, and returns the first and last rank-size ids.
// With fewer than twice the rank size the two sets overlap.
func (s *Session) Rank() (top, bottom []int) {
	sorted := slices.Clone(s.individuals)
	slices.SortStableFunc(sorted, func(a, b *Individual) int {
		return cmp.Compare(b.phenotype, a.phenotype)
	})

	k := min(s.rankSize, len(sorted))
	top = make([]int, k)
	bottom = make([]int, k)
	for i := 0; i < k; i++ {
		top[i] = sorted[i].id
		bottom[i] = sorted[len(sorted)-k+i].id
	}
	return top, bottom
}

// TopIDs returns the ids of the most recent top set, highest first
func (s *Session) TopIDs() []int {
	return slices.Clone(s.top)
}

// BottomIDs returns the ids of the most recent bottom set, highest first
func (s *Session) BottomIDs() []int {
	return slices.Clone(s.bottom)
}

// Top returns rows for the most recent top set
func (s *Session) Top() []Row {
	return s.rows(s.top)
}

// Bottom returns rows for the most recent bottom set
func (s *Session) Bottom() []Row {
	return s.rows(s.bottom)
}

func (s *Session) rows(ids []int) []Row {
	out := make([]Row, len(ids))
	for i, id := range ids {
		out[i] = s.byID[id].Row()
	}
	return out
}

// Rows returns every individual in population order
func (s *Session) Rows() []Row {
	out := make([]Row, len(s.individuals))
	for i, ind := range s.individuals {
		out[i] = ind.Row()
	}
	return out
}

// Phenotypes returns every phenotype in population order
func (s *Session) Phenotypes() []float64 {
	out := make([]float64, len(s.individuals))
	for i, ind := range s.individuals {
		out[i] = ind.phenotype
	}
	return out
}

// Previous returns the snapshot taken before the last reshuffle, or nil
func (s *Session) Previous() *Snapshot {
	return s.previous
}

// Deltas returns the changes recorded by the last reshuffle
func (s *Session) Deltas() Deltas {
	return s.deltas
}

// Statistics returns the current summary and, once a reshuffle has
// happened, the summary of the pre-reshuffle snapshot.
func (s *Session) Statistics() (current, previous stats.Summary, ok bool) {
	current = stats.Summarize(s.Phenotypes())
	if s.previous == nil {
		return current, stats.Summary{}, false
	}
	return current, s.previous.Summary(), true
}
