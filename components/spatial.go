package components

// Position represents an ant's position in cell units. The cell an ant
// stands in is (int(X), int(Y)).
type Position struct {
	X, Y float32
}

// Velocity represents an ant's velocity in cells per second. Only the
// forager profile integrates it; grid-stepping profiles leave it at zero.
type Velocity struct {
	X, Y float32
}

// Cell returns the integer cell coordinates of the position.
func (p Position) Cell() (int, int) {
	return int(p.X), int(p.Y)
}
