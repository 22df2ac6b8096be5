package population

// DefaultWeight is the genetic weight used for an individual's first phenotype
const DefaultWeight = 0.5

// Individual is one member of the population.
// The intrinsic value is fixed at creation; only the owning Session
// replaces the extrinsic value.
type Individual struct {
	id        int
	intrinsic float64
	extrinsic float64

	genetic       float64
	environmental float64
	phenotype     float64
}

// Row is a read-only view of an individual for display
type Row struct {
	ID            int     `json:"id"`
	Phenotype     float64 `json:"phenotype"`
	Genetic       float64 `json:"genetic"`
	Environmental float64 `json:"environmental"`
}

// NewIndividual creates an individual with its phenotype computed at DefaultWeight
func NewIndividual(id int, intrinsic, extrinsic float64) *Individual {
	ind := &Individual{
		id:        id,
		intrinsic: intrinsic,
		extrinsic: extrinsic,
	}
	ind.PhenotypeAt(DefaultWeight)
	return ind
}

// PhenotypeAt returns w*intrinsic + (1-w)*extrinsic and stores the
// genetic score, environmental score and phenotype it computed.
func (ind *Individual) PhenotypeAt(w float64) float64 {
	ind.genetic = ind.intrinsic * w
	ind.environmental = ind.extrinsic * (1 - w)
	ind.phenotype = ind.genetic + ind.environmental
	return ind.phenotype
}

func (ind *Individual) ID() int                     { return ind.id }
func (ind *Individual) Intrinsic() float64          { return ind.intrinsic }
func (ind *Individual) Extrinsic() float64          { return ind.extrinsic }
func (ind *Individual) GeneticScore() float64       { return ind.genetic }
func (ind *Individual) EnvironmentalScore() float64 { return ind.environmental }
func (ind *Individual) Phenotype() float64          { return ind.phenotype }

// Row returns the display view of the individual
func (ind *Individual) Row() Row {
	return Row{
		ID:            ind.id,
		Phenotype:     ind.phenotype,
		Genetic:       ind.genetic,
		Environmental: ind.environmental,
	}
}
