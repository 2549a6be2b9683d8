package shapefit

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestNewEngineRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"inverted sizes", func(c *Config) { c.MinSize, c.MaxSize = 20, 10 }},
		{"elites equal population", func(c *Config) { c.EliteCount = c.PopulationSize }},
		{"elites above population", func(c *Config) { c.EliteCount = c.PopulationSize + 1 }},
		{"zero population", func(c *Config) { c.PopulationSize = 0 }},
		{"negative population", func(c *Config) { c.PopulationSize = -1 }},
		{"zero generation cap", func(c *Config) { c.GenerationCap = 0 }},
		{"zero elites", func(c *Config) { c.EliteCount = 0 }},
		{"negative margin", func(c *Config) { c.Margin = -1 }},
		{"negative mutation", func(c *Config) { c.MutationMagnitude = -1 }},
		{"zero min size", func(c *Config) { c.MinSize = 0 }},
		{"similarity above one", func(c *Config) { c.SimilarityThreshold = 1.5 }},
		{"similarity NaN", func(c *Config) { c.SimilarityThreshold = math.NaN() }},
		{"negative iterations", func(c *Config) { c.MaxIterations = -1 }},
		{"unknown kind", func(c *Config) { c.Kinds = []Kind{Kind(8)} }},
		{"polygon sides", func(c *Config) { c.PolygonSides = 2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := smallConfig()
			tt.modify(&cfg)
			eng, err := NewEngine(NewGrid(10, 10), cfg, WithWorkers(1))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("NewEngine() error = %v, want ErrInvalidConfig", err)
			}
			if eng != nil {
				t.Error("NewEngine() returned an engine with an error")
			}
		})
	}
}

func TestNewEngineNilTarget(t *testing.T) {
	eng, err := NewEngine(nil, smallConfig())
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("NewEngine(nil) error = %v, want ErrInvalidConfig", err)
	}
	if eng != nil {
		t.Error("NewEngine(nil) returned an engine")
	}
	if _, err := NewGenerator(nil, smallConfig(), testRand(1)); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("NewGenerator(nil) error = %v, want ErrInvalidConfig", err)
	}
}

func TestRankOrder(t *testing.T) {
	white := NewGridFilled(100, 100, White)
	eng := newTestEngine(t, white, smallConfig(), WithWorkers(2))

	full := func(c RGB) Shape {
		return Shape{Kind: Rectangle, Min: Point{0, 0}, Max: Point{99, 99}, Color: c}
	}
	shapes := []Shape{
		{Kind: Rectangle, Min: Point{-10, -10}, Max: Point{-1, -1}},
		full(RGB{0, 0, 0}),
		full(White),
		full(RGB{255, 0, 0}),
		full(RGB{127, 127, 127}),
	}
	ranked := eng.Rank(white, shapes)
	want := []Shape{shapes[2], shapes[4], shapes[3], shapes[1], shapes[0]}
	for i := range want {
		if !reflect.DeepEqual(ranked[i].Shape, want[i]) {
			t.Errorf("rank %d = %v, want %v", i, ranked[i].Shape, want[i])
		}
	}
	if ranked[len(ranked)-1].Fitness != WorstFitness {
		t.Errorf("off-canvas shape fitness = %d, want WorstFitness", ranked[len(ranked)-1].Fitness)
	}
}

// With a single generation on a black canvas and a white target, every
// candidate is white, so the winner is the one covering the most pixels.
func TestRunGenerationSingleGenerationPicksLargestArea(t *testing.T) {
	target := NewGridFilled(100, 100, White)
	canvas := NewGrid(100, 100)
	cfg := DefaultConfig()
	cfg.PopulationSize = 50
	cfg.EliteCount = 5
	cfg.GenerationCap = 1

	eng := newTestEngine(t, target, cfg, WithRand(testRand(30)))
	gen, err := eng.RunGeneration(canvas)
	if err != nil {
		t.Fatalf("RunGeneration() = %v", err)
	}

	// A generator on the same seed draws the same seed population.
	twin, err := NewGenerator(target, cfg, testRand(30))
	if err != nil {
		t.Fatal(err)
	}
	maxArea := 0
	for _, s := range twin.RandomShapes(cfg.PopulationSize) {
		maxArea = max(maxArea, s.Area)
	}

	if gen.Generations != 1 {
		t.Errorf("Generations = %d, want 1", gen.Generations)
	}
	if gen.Best.Shape.Area != maxArea {
		t.Errorf("best area = %d, want largest %d", gen.Best.Shape.Area, maxArea)
	}
	if want := 765 * int64(maxArea); gen.Best.Fitness != want {
		t.Errorf("best fitness = %d, want %d", gen.Best.Fitness, want)
	}
}

func TestRunGenerationMonotonic(t *testing.T) {
	rng := testRand(31)
	target := noiseGrid(rng, 40, 40)
	canvas := NewCanvas(target)
	cfg := smallConfig()
	cfg.GenerationCap = 12

	eng := newTestEngine(t, target, cfg, WithSeed(5))
	for range 5 {
		gen, err := eng.RunGeneration(canvas)
		if err != nil {
			t.Fatal(err)
		}
		if len(gen.History) != gen.Generations {
			t.Fatalf("len(History) = %d, Generations = %d", len(gen.History), gen.Generations)
		}
		if gen.Generations > cfg.GenerationCap {
			t.Fatalf("Generations = %d exceeds cap %d", gen.Generations, cfg.GenerationCap)
		}
		for i := 1; i < len(gen.History); i++ {
			if gen.History[i] < gen.History[i-1] {
				t.Fatalf("best fitness regressed at generation %d: %v", i+1, gen.History)
			}
		}
		if last := gen.History[len(gen.History)-1]; last != gen.Best.Fitness {
			t.Errorf("last history entry %d != best %d", last, gen.Best.Fitness)
		}
		if got := Fitness(canvas, target, gen.Best.Shape); got != gen.Best.Fitness {
			t.Errorf("re-scored best = %d, recorded %d", got, gen.Best.Fitness)
		}
	}
}

func TestRunGenerationImprovementThreshold(t *testing.T) {
	target := noiseGrid(testRand(32), 30, 30)
	cfg := smallConfig()
	cfg.GenerationCap = 50
	cfg.ImprovementThreshold = math.MaxInt64

	eng := newTestEngine(t, target, cfg, WithSeed(6))
	gen, err := eng.RunGeneration(NewCanvas(target))
	if err != nil {
		t.Fatal(err)
	}
	if gen.Generations != 2 {
		t.Errorf("Generations = %d, want 2 (second generation cannot improve enough)", gen.Generations)
	}
}

func TestRunGenerationDeterministic(t *testing.T) {
	target := quadrantGrid(40, 30)
	canvas := NewCanvas(target)
	cfg := smallConfig()

	run := func(workers int) Generation {
		eng := newTestEngine(t, target, cfg, WithSeed(99), WithWorkers(workers))
		gen, err := eng.RunGeneration(canvas)
		if err != nil {
			t.Fatal(err)
		}
		return gen
	}
	a, b, c := run(1), run(1), run(4)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("two serial runs differ:\n%+v\n%+v", a, b)
	}
	if !reflect.DeepEqual(a, c) {
		t.Errorf("serial and parallel runs differ:\n%+v\n%+v", a, c)
	}
}

func TestRunGenerationNoViableCandidate(t *testing.T) {
	// A 1x1 target with a huge margin and 1px shapes: nothing lands on it.
	target := NewGridFilled(1, 1, White)
	cfg := smallConfig()
	cfg.PopulationSize = 4
	cfg.EliteCount = 1
	cfg.MinSize = 1
	cfg.MaxSize = 1
	cfg.Margin = 5000
	cfg.Kinds = []Kind{Rectangle}

	eng := newTestEngine(t, target, cfg, WithSeed(7), WithWorkers(1))
	gen, err := eng.RunGeneration(NewGrid(1, 1))
	if !errors.Is(err, ErrNoViableCandidate) {
		t.Fatalf("RunGeneration() error = %v, want ErrNoViableCandidate", err)
	}
	if gen.Generations != 1 {
		t.Errorf("Generations = %d, want 1", gen.Generations)
	}
}

func TestRunGenerationDimensionMismatch(t *testing.T) {
	eng := newTestEngine(t, NewGrid(10, 10), smallConfig())
	if _, err := eng.RunGeneration(NewGrid(10, 11)); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("RunGeneration() error = %v, want ErrDimensionMismatch", err)
	}
}

func TestBreedKeepsElites(t *testing.T) {
	target := noiseGrid(testRand(33), 20, 20)
	cfg := smallConfig()
	eng := newTestEngine(t, target, cfg, WithSeed(8), WithWorkers(1))

	ranked := eng.Rank(NewCanvas(target), eng.Generator().RandomShapes(cfg.PopulationSize))
	next := eng.breed(ranked, nil)
	if len(next) != cfg.PopulationSize {
		t.Fatalf("len(next) = %d, want %d", len(next), cfg.PopulationSize)
	}
	for i := 0; i < cfg.EliteCount; i++ {
		if !reflect.DeepEqual(next[i], ranked[i].Shape) {
			t.Errorf("elite %d changed: %v -> %v", i, ranked[i].Shape, next[i])
		}
	}
	for i := cfg.EliteCount; i < len(next); i++ {
		parent := ranked[(i-cfg.EliteCount)%cfg.EliteCount].Shape
		if next[i].Kind != parent.Kind {
			t.Errorf("child %d kind %v, parent kind %v", i, next[i].Kind, parent.Kind)
		}
	}
}

func BenchmarkRunGeneration(b *testing.B) {
	target := noiseGrid(testRand(34), 128, 128)
	canvas := NewCanvas(target)
	cfg := DefaultConfig()
	eng, err := NewEngine(target, cfg, WithSeed(1))
	if err != nil {
		b.Fatal(err)
	}
	defer eng.Close()
	for b.Loop() {
		if _, err := eng.RunGeneration(canvas); err != nil {
			b.Fatal(err)
		}
	}
}
