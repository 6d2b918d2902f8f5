package game

import "testing"

func TestNearestAnt(t *testing.T) {
	ants := []AntView{
		{ID: 1, X: 10, Y: 10},
		{ID: 2, X: 12, Y: 10},
		{ID: 3, X: 30, Y: 5},
	}
	tests := []struct {
		name   string
		wx, wy float32
		id     uint32
		ok     bool
	}{
		{"on first", 10, 10, 1, true},
		{"closer to second", 11.6, 10, 2, true},
		{"out of radius", 20, 20, 0, false},
		{"far ant", 29, 5.5, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := nearestAnt(ants, tt.wx, tt.wy, 2)
			if ok != tt.ok || (ok && id != tt.id) {
				t.Errorf("nearestAnt = (%d, %v), want (%d, %v)", id, ok, tt.id, tt.ok)
			}
		})
	}
}

func TestAntInfo(t *testing.T) {
	info := antInfo(AntView{ID: 4, VX: 3, VY: 4})
	if info.Speed != 5 {
		t.Errorf("speed = %v, want 5", info.Speed)
	}
	if info.Carry != "nothing" {
		t.Errorf("carry = %q, want nothing", info.Carry)
	}
}

func TestFindAnt(t *testing.T) {
	s := newTestSession(t, "sandbox")
	ants := s.Ants()
	if len(ants) == 0 {
		t.Fatal("no ants")
	}
	v, ok := s.FindAnt(ants[len(ants)-1].ID)
	if !ok || v.ID != ants[len(ants)-1].ID {
		t.Errorf("FindAnt(%d) = (%d, %v)", ants[len(ants)-1].ID, v.ID, ok)
	}
	if _, ok := s.FindAnt(1 << 30); ok {
		t.Error("FindAnt found a missing ID")
	}
}
