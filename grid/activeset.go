package grid

// ActiveSet is a sparse set of cell indices that may still move.
// dense holds the members; slot maps a cell index to its position in dense
// plus one, so zero means absent. Add, Remove and Contains are O(1) and
// never allocate once the set is built.
type ActiveSet struct {
	dense []int32
	slot  []int32
}

// NewActiveSet creates an empty set able to hold indices in [0, n).
func NewActiveSet(n int) *ActiveSet {
	return &ActiveSet{
		dense: make([]int32, 0, n),
		slot:  make([]int32, n),
	}
}

// Add inserts i. Out-of-range indices are ignored.
func (s *ActiveSet) Add(i int) {
	if i < 0 || i >= len(s.slot) || s.slot[i] != 0 {
		return
	}
	s.dense = append(s.dense, int32(i))
	s.slot[i] = int32(len(s.dense))
}

// Remove deletes i by swapping the last member into its slot.
func (s *ActiveSet) Remove(i int) {
	if i < 0 || i >= len(s.slot) {
		return
	}
	pos := s.slot[i]
	if pos == 0 {
		return
	}
	last := s.dense[len(s.dense)-1]
	s.dense[pos-1] = last
	s.slot[last] = pos
	s.dense = s.dense[:len(s.dense)-1]
	s.slot[i] = 0
}

// Contains reports membership.
func (s *ActiveSet) Contains(i int) bool {
	return i >= 0 && i < len(s.slot) && s.slot[i] != 0
}

// Len returns the number of members.
func (s *ActiveSet) Len() int { return len(s.dense) }

// Indices returns the members in arbitrary order. The slice is owned by the
// set and is invalidated by the next Add or Remove.
func (s *ActiveSet) Indices() []int32 { return s.dense }

// Clear empties the set.
func (s *ActiveSet) Clear() {
	for _, i := range s.dense {
		s.slot[i] = 0
	}
	s.dense = s.dense[:0]
}
