package systems

// Blocker reports cells that falling material must treat as non-empty.
type Blocker interface {
	Occupied(x, y int) bool
}

// Occupancy counts ants per cell. It is rebuilt at the start of every tick
// and kept current as grid-stepping ants move.
type Occupancy struct {
	w, h   int
	counts []uint16
}

// NewOccupancy creates an occupancy grid covering the given cell size.
func NewOccupancy(w, h int) *Occupancy {
	return &Occupancy{w: w, h: h, counts: make([]uint16, w*h)}
}

// Clear removes all ants from the grid.
func (o *Occupancy) Clear() {
	clear(o.counts)
}

// Insert marks the cell containing (x, y).
func (o *Occupancy) Insert(x, y float32) {
	if i := o.cellIndex(x, y); i >= 0 {
		o.counts[i]++
	}
}

// Move transfers one ant between the cells containing two positions.
func (o *Occupancy) Move(fromX, fromY, toX, toY float32) {
	from := o.cellIndex(fromX, fromY)
	to := o.cellIndex(toX, toY)
	if from == to {
		return
	}
	if from >= 0 && o.counts[from] > 0 {
		o.counts[from]--
	}
	if to >= 0 {
		o.counts[to]++
	}
}

// Occupied reports whether any ant stands in cell (x, y).
func (o *Occupancy) Occupied(x, y int) bool {
	if x < 0 || x >= o.w || y < 0 || y >= o.h {
		return false
	}
	return o.counts[y*o.w+x] > 0
}

// Count returns the number of ants in cell (x, y).
func (o *Occupancy) Count(x, y int) int {
	if x < 0 || x >= o.w || y < 0 || y >= o.h {
		return 0
	}
	return int(o.counts[y*o.w+x])
}

// cellIndex returns the flat index for a position, or -1 outside the grid.
func (o *Occupancy) cellIndex(x, y float32) int {
	if x < 0 || y < 0 {
		return -1
	}
	col, row := int(x), int(y)
	if col >= o.w || row >= o.h {
		return -1
	}
	return row*o.w + col
}
