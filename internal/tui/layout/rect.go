package layout

// Rect is a terminal cell rectangle. Right and Bottom are exclusive.
type Rect struct {
	X, Y          int
	Width, Height int
}

func (r Rect) Left() int   { return r.X }
func (r Rect) Right() int  { return r.X + r.Width }
func (r Rect) Top() int    { return r.Y }
func (r Rect) Bottom() int { return r.Y + r.Height }

// Empty reports whether r covers no cells.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Intersect returns the overlap of r and o, or a zero Rect.
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := max(r.Left(), o.Left()), max(r.Top(), o.Top())
	x1, y1 := min(r.Right(), o.Right()), min(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}
