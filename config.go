package shapefit

import "math"

// Config holds the search parameters for one refinement run.
type Config struct {
	// PopulationSize is the number of candidates per generation.
	PopulationSize int `yaml:"population_size"`

	// EliteCount is how many top candidates survive unchanged into the next
	// generation. Must be less than PopulationSize.
	EliteCount int `yaml:"elite_count"`

	// MutationMagnitude is the largest change, in pixels, applied to one
	// coordinate when a shape is evolved.
	MutationMagnitude int `yaml:"mutation_magnitude"`

	// MinSize and MaxSize bound the width and height of generated shapes.
	MinSize int `yaml:"min_size"`
	MaxSize int `yaml:"max_size"`

	// Margin is how far, in pixels, shapes may extend past each canvas edge.
	Margin int `yaml:"margin"`

	// GenerationCap is the maximum number of generations per search.
	GenerationCap int `yaml:"generation_cap"`

	// ImprovementThreshold ends a search early once the best fitness grows
	// by less than this between two generations. Zero disables it.
	ImprovementThreshold int64 `yaml:"improvement_threshold"`

	// MaxIterations is the number of shapes the refinement loop tries to
	// commit. Zero returns the canvas untouched.
	MaxIterations int `yaml:"max_iterations"`

	// SimilarityThreshold stops refinement once the normalized difference
	// between canvas and target falls below it. Zero disables it.
	SimilarityThreshold float64 `yaml:"similarity_threshold"`

	// Kinds restricts the generated shape kinds. Empty means all kinds.
	Kinds []Kind `yaml:"kinds"`

	// PolygonSides is the largest vertex count of a generated polygon.
	PolygonSides int `yaml:"polygon_sides"`
}

// DefaultConfig returns a config suited to images a few hundred pixels across.
func DefaultConfig() Config {
	return Config{
		PopulationSize:      200,
		EliteCount:          20,
		MutationMagnitude:   10,
		MinSize:             10,
		MaxSize:             100,
		Margin:              100,
		GenerationCap:       10,
		MaxIterations:       500,
		SimilarityThreshold: 0.1,
		PolygonSides:        10,
	}
}

// minPolygonSides is the vertex count of the simplest polygon.
const minPolygonSides = 3

// Validate reports the first invalid field, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.PopulationSize <= 0:
		return configErrorf("population size %d must be positive", c.PopulationSize)
	case c.EliteCount <= 0:
		return configErrorf("elite count %d must be positive", c.EliteCount)
	case c.EliteCount >= c.PopulationSize:
		return configErrorf("elite count %d must be less than population size %d", c.EliteCount, c.PopulationSize)
	case c.GenerationCap <= 0:
		return configErrorf("generation cap %d must be positive", c.GenerationCap)
	case c.MinSize <= 0:
		return configErrorf("min size %d must be positive", c.MinSize)
	case c.MinSize > c.MaxSize:
		return configErrorf("min size %d exceeds max size %d", c.MinSize, c.MaxSize)
	case c.Margin < 0:
		return configErrorf("margin %d must not be negative", c.Margin)
	case c.MutationMagnitude < 0:
		return configErrorf("mutation magnitude %d must not be negative", c.MutationMagnitude)
	case c.ImprovementThreshold < 0:
		return configErrorf("improvement threshold %d must not be negative", c.ImprovementThreshold)
	case c.MaxIterations < 0:
		return configErrorf("max iterations %d must not be negative", c.MaxIterations)
	case math.IsNaN(c.SimilarityThreshold) || c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1:
		return configErrorf("similarity threshold %v must be in [0, 1]", c.SimilarityThreshold)
	}
	for _, k := range c.Kinds {
		if !k.Valid() {
			return configErrorf("unknown shape kind %d", k)
		}
	}
	if c.allows(Polygon) && c.PolygonSides < minPolygonSides {
		return configErrorf("polygon sides %d must be at least %d", c.PolygonSides, minPolygonSides)
	}
	return nil
}

// kinds returns the kinds shapes are drawn from.
func (c Config) kinds() []Kind {
	if len(c.Kinds) == 0 {
		return AllKinds
	}
	return c.Kinds
}

func (c Config) allows(k Kind) bool {
	for _, kk := range c.kinds() {
		if kk == k {
			return true
		}
	}
	return false
}
