package core

// Lattice describes a W×H grid of points stored in row-major order.
type Lattice struct {
	W, H int
}

// NewLattice returns a lattice with the given dimensions. Non-positive
// dimensions produce an empty lattice.
func NewLattice(w, h int) Lattice {
	if w <= 0 || h <= 0 {
		return Lattice{}
	}
	return Lattice{W: w, H: h}
}

// Len reports the number of points in the lattice.
func (l Lattice) Len() int { return l.W * l.H }

// Index returns the linear slice index for coordinates (x, y).
func (l Lattice) Index(x, y int) int { return y*l.W + x }

// Coords converts a linear index back to (x, y).
func (l Lattice) Coords(i int) (int, int) {
	if l.W == 0 {
		return 0, 0
	}
	return i % l.W, i / l.W
}

// InBounds reports whether (x, y) addresses a point of the lattice.
func (l Lattice) InBounds(x, y int) bool {
	return x >= 0 && x < l.W && y >= 0 && y < l.H
}

// Valid reports whether i is a valid linear index.
func (l Lattice) Valid(i int) bool { return i >= 0 && i < l.Len() }

var neighbourOffsets4 = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// Neighbors4 appends the in-bounds von Neumann neighbours of (x, y) to dst in
// E, W, S, N order and returns the extended slice.
func (l Lattice) Neighbors4(dst []int, x, y int) []int {
	for _, off := range neighbourOffsets4 {
		nx, ny := x+off[0], y+off[1]
		if !l.InBounds(nx, ny) {
			continue
		}
		dst = append(dst, l.Index(nx, ny))
	}
	return dst
}
