package main

import (
	"bufio"
	"bytes"
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/shapefit"
	"github.com/gogpu/shapefit/internal/imageio"
)

// writeTarget saves a small two-color image and returns its path.
func writeTarget(t *testing.T, dir, name string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 24, 16))
	for y := range 16 {
		for x := range 24 {
			c := color.RGBA{R: 220, G: 30, B: 30, A: 255}
			if x >= 12 {
				c = color.RGBA{R: 20, G: 40, B: 200, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	path := filepath.Join(dir, name)
	if err := imageio.Save(path, img); err != nil {
		t.Fatal(err)
	}
	return path
}

// readShapes parses a file written by writeShapes.
func readShapes(t *testing.T, path string) []shapefit.Shape {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()

	var shapes []shapefit.Shape
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s, err := shapefit.ParseShape(sc.Text())
		if err != nil {
			t.Fatalf("ParseShape(%q) = %v", sc.Text(), err)
		}
		shapes = append(shapes, s)
	}
	if err := sc.Err(); err != nil {
		t.Fatal(err)
	}
	return shapes
}

func smallRunArgs(out string) []string {
	return []string{
		"-out", out,
		"-iterations", "6",
		"-population", "12",
		"-elites", "3",
		"-generations", "2",
		"-min-size", "2",
		"-max-size", "10",
		"-margin", "2",
		"-mutation", "2",
		"-similarity", "0",
		"-seed", "3",
		"-workers", "2",
	}
}

func TestRunWritesOutputs(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	a := writeTarget(t, dir, "a.png")
	b := writeTarget(t, dir, "b.png")

	args := append(smallRunArgs(out), "-plot", "-diff", "-jobs", "2", a, b)
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), args, &stdout, &stderr); code != 0 {
		t.Fatalf("run() = %d, stderr:\n%s", code, stderr.String())
	}

	for _, name := range []string{"a", "b"} {
		for _, suffix := range []string{".png", ".shapes", ".trace.png", ".diff.png"} {
			if _, err := os.Stat(filepath.Join(out, name+suffix)); err != nil {
				t.Errorf("missing output: %v", err)
			}
		}
	}
	if got := strings.Count(stdout.String(), "shapes in"); got != 2 {
		t.Errorf("summary lines = %d, want 2:\n%s", got, stdout.String())
	}
}

// The saved shapes replayed over the starting canvas reproduce the image.
func TestRunShapesReplay(t *testing.T) {
	dir := t.TempDir()
	path := writeTarget(t, dir, "t.png")

	args := append(smallRunArgs(dir), "-background", "#000000", path)
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), args, &stdout, &stderr); code != 0 {
		t.Fatalf("run() = %d, stderr:\n%s", code, stderr.String())
	}

	replay := shapefit.NewGrid(24, 16)
	for _, s := range readShapes(t, filepath.Join(dir, "t.shapes")) {
		shapefit.Render(replay, s)
	}
	img, _, err := imageio.Load(filepath.Join(dir, "t.png"))
	if err != nil {
		t.Fatal(err)
	}
	if d := shapefit.Difference(replay, shapefit.FromImage(img)); d != 0 {
		t.Errorf("replayed shapes differ from the saved image by %d", d)
	}
}

func TestRunFailures(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"usage", nil, 2},
		{"missing target", append(smallRunArgs(dir), filepath.Join(dir, "nope.png")), 1},
		{"bad background", append(smallRunArgs(dir), "-background", "red", writeTarget(t, dir, "x.png")), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(context.Background(), tt.args, &stdout, &stderr); code != tt.code {
				t.Errorf("run() = %d, want %d; stderr:\n%s", code, tt.code, stderr.String())
			}
		})
	}
}

func TestRunHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"-h"}, &stdout, &stderr); code != 0 {
		t.Errorf("run(-h) = %d, want 0", code)
	}
	if !strings.Contains(stderr.String(), "usage: shapefit") {
		t.Errorf("help output missing usage:\n%s", stderr.String())
	}
}

func TestJobFor(t *testing.T) {
	o := defaultOptions()
	o.Seed = 10
	if got := jobFor(o, 2, "x.png").seed; got != 12 {
		t.Errorf("seed = %d, want 12", got)
	}
	o.Seed = 0
	if got := jobFor(o, 2, "x.png").seed; got != 0 {
		t.Errorf("seed = %d, want 0 (random)", got)
	}

	j := jobFor(defaultOptions(), 0, filepath.Join("in", "cat.photo.jpg"))
	j.out = "out"
	if got, want := j.outputBase(), filepath.Join("out", "cat.photo"); got != want {
		t.Errorf("outputBase() = %q, want %q", got, want)
	}
}
