package population

import "regressdemo/internal/stats"

// Entry is one individual's values at snapshot time
type Entry struct {
	Intrinsic     float64 `json:"intrinsic"`
	Extrinsic     float64 `json:"extrinsic"`
	Genetic       float64 `json:"genetic"`
	Environmental float64 `json:"environmental"`
	Phenotype     float64 `json:"phenotype"`
}

// Snapshot is an immutable copy of the population keyed by id.
// All methods are safe on a nil Snapshot.
type Snapshot struct {
	round   int
	weight  float64
	order   []int
	entries map[int]Entry
}

func newSnapshot(round int, weight float64, individuals []*Individual) *Snapshot {
	s := &Snapshot{
		round:   round,
		weight:  weight,
		order:   make([]int, len(individuals)),
		entries: make(map[int]Entry, len(individuals)),
	}
	for i, ind := range individuals {
		s.order[i] = ind.id
		s.entries[ind.id] = Entry{
			Intrinsic:     ind.intrinsic,
			Extrinsic:     ind.extrinsic,
			Genetic:       ind.genetic,
			Environmental: ind.environmental,
			Phenotype:     ind.phenotype,
		}
	}
	return s
}

// Round is the round the snapshot was taken in
func (s *Snapshot) Round() int {
	if s == nil {
		return 0
	}
	return s.round
}

// Weight is the genetic weight in effect when the snapshot was taken
func (s *Snapshot) Weight() float64 {
	if s == nil {
		return 0
	}
	return s.weight
}

func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Entry looks up an individual by id
func (s *Snapshot) Entry(id int) (Entry, bool) {
	if s == nil {
		return Entry{}, false
	}
	e, ok := s.entries[id]
	return e, ok
}

// Phenotype looks up an individual's phenotype by id
func (s *Snapshot) Phenotype(id int) (float64, bool) {
	e, ok := s.Entry(id)
	return e.Phenotype, ok
}

// Phenotypes returns all phenotypes in population order
func (s *Snapshot) Phenotypes() []float64 {
	if s == nil {
		return nil
	}
	out := make([]float64, len(s.order))
	for i, id := range s.order {
		out[i] = s.entries[id].Phenotype
	}
	return out
}

// Summary returns mean and std dev of the snapshot phenotypes
func (s *Snapshot) Summary() stats.Summary {
	return stats.Summarize(s.Phenotypes())
}
