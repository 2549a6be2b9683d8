package shapefit

import (
	"math/rand/v2"
	"testing"
)

// noiseGrid returns a grid of random pixels.
func noiseGrid(rng *rand.Rand, width, height int) *Grid {
	g := NewGrid(width, height)
	for i := range g.pix {
		g.pix[i] = uint8(rng.IntN(256))
	}
	return g
}

// quadrantGrid returns a grid split into red, green, blue and white quadrants.
func quadrantGrid(width, height int) *Grid {
	g := NewGrid(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			switch {
			case x < width/2 && y < height/2:
				g.Set(x, y, RGB{255, 0, 0})
			case y < height/2:
				g.Set(x, y, RGB{0, 255, 0})
			case x < width/2:
				g.Set(x, y, RGB{0, 0, 255})
			default:
				g.Set(x, y, White)
			}
		}
	}
	return g
}

// smallConfig returns a config cheap enough for unit tests.
func smallConfig() Config {
	return Config{
		PopulationSize:    30,
		EliteCount:        5,
		MutationMagnitude: 3,
		MinSize:           2,
		MaxSize:           16,
		Margin:            4,
		GenerationCap:     4,
		MaxIterations:     15,
		PolygonSides:      6,
	}
}

func newTestEngine(t *testing.T, target *Grid, cfg Config, opts ...Option) *Engine {
	t.Helper()
	eng, err := NewEngine(target, cfg, opts...)
	if err != nil {
		t.Fatalf("NewEngine() = %v", err)
	}
	t.Cleanup(eng.Close)
	return eng
}

func testRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed+1))
}
