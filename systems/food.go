package systems

// Point is a cell coordinate.
type Point struct {
	X, Y int
}

// FoodItem is a resource pile that hungry foragers seek out. Each unit
// eaten adds one to the colony stock.
type FoodItem struct {
	X, Y   int
	Amount int
}

// FoodSet holds the food items present in the world.
type FoodSet struct {
	Items []FoodItem
}

// Add places a new item or tops up an existing one at the same cell.
func (f *FoodSet) Add(x, y, amount int) {
	if amount <= 0 {
		return
	}
	for i := range f.Items {
		if f.Items[i].X == x && f.Items[i].Y == y {
			f.Items[i].Amount += amount
			return
		}
	}
	f.Items = append(f.Items, FoodItem{X: x, Y: y, Amount: amount})
}

// Nearest returns the index of the item closest to (x, y), or -1.
func (f *FoodSet) Nearest(x, y float32) int {
	best := -1
	var bestD float32
	for i, it := range f.Items {
		d := distanceSq(x, y, float32(it.X)+0.5, float32(it.Y)+0.5)
		if best < 0 || d < bestD {
			best, bestD = i, d
		}
	}
	return best
}

// Consume takes one unit from item i, removing it when exhausted.
func (f *FoodSet) Consume(i int) bool {
	if i < 0 || i >= len(f.Items) {
		return false
	}
	f.Items[i].Amount--
	if f.Items[i].Amount <= 0 {
		f.Items = append(f.Items[:i], f.Items[i+1:]...)
	}
	return true
}

// Len returns the number of items.
func (f *FoodSet) Len() int { return len(f.Items) }
