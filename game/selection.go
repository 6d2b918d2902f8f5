package game

import "math"

// nearestAnt returns the ID of the ant closest to (wx, wy) within radius
// cells.
func nearestAnt(ants []AntView, wx, wy, radius float32) (uint32, bool) {
	var best uint32
	found := false
	bestD := radius * radius
	for _, a := range ants {
		dx, dy := a.X-wx, a.Y-wy
		d := dx*dx + dy*dy
		if d <= bestD {
			best, bestD, found = a.ID, d, true
		}
	}
	return best, found
}

func length(x, y float32) float32 {
	return float32(math.Sqrt(float64(x*x + y*y)))
}
