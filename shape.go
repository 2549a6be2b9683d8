package shapefit

import (
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/gogpu/shapefit/internal/raster"
)

// Kind identifies the geometry of a Shape.
type Kind uint8

// Shape kinds.
const (
	Rectangle Kind = iota
	Ellipse
	Polygon

	numKinds
)

var kindNames = [numKinds]string{
	Rectangle: "rectangle",
	Ellipse:   "ellipse",
	Polygon:   "polygon",
}

// AllKinds lists every shape kind.
var AllKinds = []Kind{Rectangle, Ellipse, Polygon}

// String returns the lowercase kind name.
func (k Kind) String() string {
	if k.Valid() {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k < numKinds
}

// ParseKind parses a kind name as returned by Kind.String.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(s, name) {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown kind %q", ErrInvalidShape, s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: unknown kind %d", ErrInvalidShape, k)
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	kind, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// Point is an integer pixel coordinate. Points may lie outside the canvas.
type Point struct {
	X, Y int
}

// Shape is a candidate or committed shape.
//
// Rectangles and ellipses are described by the inclusive bounding box
// Min..Max; the ellipse is the one inscribed in that box. Polygons are
// described by Points, filled with the non-zero winding rule. A pixel is
// covered when its center lies inside the shape, and only covered pixels
// inside the canvas form the shape's footprint.
type Shape struct {
	Kind   Kind
	Min    Point
	Max    Point
	Points []Point

	// Color is the mean target color under the footprint.
	Color RGB

	// Area is the number of footprint pixels Color was averaged over.
	// Zero marks a shape that lies entirely off the canvas.
	Area int
}

// kindOps is the per-kind behavior table. Generation and mutation entries
// live in generator.go.
type kindOps struct {
	bounds func(s *Shape) image.Rectangle
	spans  func(dst []raster.Span, s *Shape, width, height int) []raster.Span
	random func(g *Generator, s *Shape)
	mutate func(g *Generator, s *Shape)
}

var kindTable = [numKinds]kindOps{
	Rectangle: {bounds: boxBounds, spans: rectSpans, random: randomBox, mutate: mutateBox},
	Ellipse:   {bounds: boxBounds, spans: ellipseSpans, random: randomBox, mutate: mutateBox},
	Polygon:   {bounds: polygonBounds, spans: polygonSpans, random: randomPolygon, mutate: mutatePolygon},
}

func boxBounds(s *Shape) image.Rectangle {
	return image.Rect(s.Min.X, s.Min.Y, s.Max.X+1, s.Max.Y+1)
}

func polygonBounds(s *Shape) image.Rectangle {
	if len(s.Points) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: image.Point(s.Points[0]), Max: image.Point(s.Points[0])}
	for _, p := range s.Points[1:] {
		r.Min.X = min(r.Min.X, p.X)
		r.Min.Y = min(r.Min.Y, p.Y)
		r.Max.X = max(r.Max.X, p.X)
		r.Max.Y = max(r.Max.Y, p.Y)
	}
	// Covered pixel centers lie below the largest coordinates, so Max is
	// already exclusive.
	return r
}

func rectSpans(dst []raster.Span, s *Shape, width, height int) []raster.Span {
	return raster.Rect(dst, s.Min.X, s.Min.Y, s.Max.X, s.Max.Y, width, height)
}

func ellipseSpans(dst []raster.Span, s *Shape, width, height int) []raster.Span {
	return raster.Ellipse(dst, s.Min.X, s.Min.Y, s.Max.X, s.Max.Y, width, height)
}

func polygonSpans(dst []raster.Span, s *Shape, width, height int) []raster.Span {
	pts := make([]raster.Point, len(s.Points))
	for i, p := range s.Points {
		pts[i] = raster.Point(p)
	}
	return raster.Polygon(dst, pts, width, height)
}

// Bounds returns the smallest rectangle containing every pixel the shape
// could cover, ignoring the canvas.
func (s Shape) Bounds() image.Rectangle {
	if !s.Kind.Valid() {
		return image.Rectangle{}
	}
	return kindTable[s.Kind].bounds(&s)
}

// Clip returns Bounds intersected with a width x height canvas.
func (s Shape) Clip(width, height int) image.Rectangle {
	return s.Bounds().Intersect(image.Rect(0, 0, width, height))
}

// Footprint returns the number of pixels the shape covers on a
// width x height canvas.
func (s Shape) Footprint(width, height int) int {
	buf := getSpans()
	defer putSpans(buf)
	*buf = s.appendSpans((*buf)[:0], width, height)
	return raster.Count(*buf)
}

// appendSpans appends the shape's on-canvas footprint to dst.
func (s *Shape) appendSpans(dst []raster.Span, width, height int) []raster.Span {
	if !s.Kind.Valid() {
		return dst
	}
	return kindTable[s.Kind].spans(dst, s, width, height)
}

// Clone returns a copy of s that shares no memory with it.
func (s Shape) Clone() Shape {
	if s.Points != nil {
		s.Points = append([]Point(nil), s.Points...)
	}
	return s
}

// String formats the shape as its kind, its points and its color, e.g.
// "ellipse (3,4) (20,31) #7f2a10". ParseShape reverses it.
func (s Shape) String() string {
	var b strings.Builder
	b.WriteString(s.Kind.String())
	pts := s.Points
	if s.Kind != Polygon {
		pts = []Point{s.Min, s.Max}
	}
	for _, p := range pts {
		fmt.Fprintf(&b, " (%d,%d)", p.X, p.Y)
	}
	b.WriteByte(' ')
	b.WriteString(s.Color.Hex())
	return b.String()
}

// ParseShape parses the format produced by Shape.String. The returned
// shape's Area is zero; derive it against a target if needed.
func ParseShape(str string) (Shape, error) {
	fields := strings.Fields(str)
	if len(fields) < 4 {
		return Shape{}, fmt.Errorf("%w: %q", ErrInvalidShape, str)
	}
	kind, err := ParseKind(fields[0])
	if err != nil {
		return Shape{}, err
	}
	color, err := ParseHex(fields[len(fields)-1])
	if err != nil {
		return Shape{}, fmt.Errorf("%w: %w", ErrInvalidShape, err)
	}

	pts := make([]Point, 0, len(fields)-2)
	for _, f := range fields[1 : len(fields)-1] {
		var p Point
		if _, err := fmt.Sscanf(f, "(%d,%d)", &p.X, &p.Y); err != nil {
			return Shape{}, fmt.Errorf("%w: point %q: %w", ErrInvalidShape, f, err)
		}
		pts = append(pts, p)
	}

	s := Shape{Kind: kind, Color: color}
	switch kind {
	case Polygon:
		if len(pts) < 3 {
			return Shape{}, fmt.Errorf("%w: polygon needs at least 3 points, got %d", ErrInvalidShape, len(pts))
		}
		s.Points = pts
	default:
		if len(pts) != 2 {
			return Shape{}, fmt.Errorf("%w: %s needs 2 points, got %d", ErrInvalidShape, kind, len(pts))
		}
		s.Min, s.Max = pts[0], pts[1]
	}
	return s, nil
}

// spanPool recycles footprint buffers between scoring calls, which run on
// many goroutines at once.
var spanPool = sync.Pool{
	New: func() any {
		buf := make([]raster.Span, 0, 256)
		return &buf
	},
}

func getSpans() *[]raster.Span {
	return spanPool.Get().(*[]raster.Span)
}

func putSpans(buf *[]raster.Span) {
	*buf = (*buf)[:0]
	spanPool.Put(buf)
}
