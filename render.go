package shapefit

// Render paints s.Color over the shape's on-canvas footprint in grid,
// replacing the previous pixel values. It is used both on scratch copies and
// on the real canvas; callers choose which.
func Render(grid *Grid, s Shape) {
	buf := getSpans()
	defer putSpans(buf)
	*buf = s.appendSpans((*buf)[:0], grid.width, grid.height)
	for _, sp := range *buf {
		grid.fillSpan(sp.X0, sp.X1, sp.Y, s.Color)
	}
}
