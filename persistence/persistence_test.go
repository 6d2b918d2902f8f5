package persistence

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"

	"github.com/50thycal/ant-farm/grid"
)

func sampleSnapshot() *Snapshot {
	profile := "forager"
	hunger := float32(0.25)
	return &Snapshot{
		Version: SnapshotVersion,
		Seed:    42,
		Tick:    120,
		Width:   4,
		Height:  3,
		Rows:    []string{"....", ".s..", "dd##"},
		Nest:    []int{0, 1},
		Ants: []AntState{
			{ID: 1, X: 0.5, Y: 0.5, Profile: &profile, Hunger: &hunger},
			{ID: 2, X: 2.5, Y: 1.5},
		},
		Food:   []FoodState{{X: 3, Y: 0, Amount: 2}},
		Marker: &PointState{X: 1, Y: 0},
		Fields: []FieldState{{Name: "food", Values: make([]float32, 12)}},
		Stock:  1,
		NextID: 3,
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	snap := sampleSnapshot()

	data, err := Marshal(snap)
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	require.Equal(t, snap, got)
}

func TestSnapshot_Grid(t *testing.T) {
	snap := sampleSnapshot()
	g, err := snap.Grid()
	require.NoError(t, err)

	require.Equal(t, grid.Sand, g.MaterialAt(1, 1))
	require.Equal(t, grid.Dirt, g.MaterialAt(0, 2))
	require.Equal(t, grid.Stone, g.MaterialAt(3, 2))
	require.True(t, g.IsNest(0, 0))
	require.True(t, g.IsNest(1, 0))
	require.False(t, g.IsNest(2, 0))

	require.Equal(t, snap.Rows, EncodeRows(g))
	require.Equal(t, snap.Nest, NestIndices(g))
}

func TestSnapshot_GridRejectsBadRows(t *testing.T) {
	tests := []struct {
		name string
		mod  func(s *Snapshot)
	}{
		{"short row", func(s *Snapshot) { s.Rows[1] = "..." }},
		{"missing row", func(s *Snapshot) { s.Rows = s.Rows[:2] }},
		{"zero width", func(s *Snapshot) { s.Width = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sampleSnapshot()
			tt.mod(s)
			_, err := s.Grid()
			require.Error(t, err)
		})
	}
}

func compress(t *testing.T, doc []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = enc.Write(doc)
	require.NoError(t, err)
	require.NoError(t, enc.Close())
	return buf.Bytes()
}

func TestDecode_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing rows", `{"version":2,"width":1,"height":1,"ants":[]}`},
		{"bad material", `{"version":2,"width":1,"height":1,"rows":["x"],"ants":[]}`},
		{"bad profile", `{"version":2,"width":1,"height":1,"rows":["."],"ants":[{"id":1,"x":0,"y":0,"profile":"queen"}]}`},
		{"hunger above one", `{"version":2,"width":1,"height":1,"rows":["."],"ants":[{"id":1,"x":0,"y":0,"hunger":2}]}`},
		{"negative climb", `{"version":3,"width":1,"height":1,"rows":["."],"ants":[{"id":1,"x":0,"y":0,"climb_remaining":-1}]}`},
		{"target without y", `{"version":3,"width":1,"height":1,"rows":["."],"ants":[{"id":1,"x":0,"y":0,"target":{"x":1}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal(compress(t, []byte(tt.doc)))
			require.Error(t, err)
		})
	}
}

func TestDecode_Version(t *testing.T) {
	future := `{"version":99,"width":1,"height":1,"rows":["."],"ants":[]}`
	_, err := Unmarshal(compress(t, []byte(future)))
	require.ErrorIs(t, err, ErrVersion)

	// Version 1 documents carry no optional fields and still load.
	old := `{"version":1,"width":2,"height":1,"rows":[".s"],"ants":[{"id":1,"x":0.5,"y":0.5}]}`
	snap, err := Unmarshal(compress(t, []byte(old)))
	require.NoError(t, err)
	require.Len(t, snap.Ants, 1)
	require.Nil(t, snap.Ants[0].Profile)
	require.Nil(t, snap.Ants[0].Hunger)

	// Version 2 documents lack in-progress ant state.
	v2 := `{"version":2,"width":2,"height":1,"rows":[".s"],"ants":[{"id":1,"x":0.5,"y":0.5,"mode":"climb"}]}`
	snap, err = Unmarshal(compress(t, []byte(v2)))
	require.NoError(t, err)
	require.Nil(t, snap.Ants[0].ClimbRemaining)
	require.Nil(t, snap.Ants[0].Target)
}

func TestDecode_InProgressState(t *testing.T) {
	doc := `{"version":3,"width":2,"height":1,"rows":[".s"],"ants":[{"id":1,"x":0.5,"y":0.5,` +
		`"mode":"climb","climb_remaining":3,"shaft_top":0,"target":{"x":1,"y":0,"active":true},"dig_cooldown":2,"marker_reached":true}]}`
	snap, err := Unmarshal(compress(t, []byte(doc)))
	require.NoError(t, err)
	a := snap.Ants[0]
	require.NotNil(t, a.ClimbRemaining)
	require.Equal(t, int32(3), *a.ClimbRemaining)
	require.NotNil(t, a.ShaftTop)
	require.Equal(t, 0, *a.ShaftTop)
	require.Equal(t, &Target{X: 1, Y: 0, Active: true}, a.Target)
	require.Equal(t, int32(2), *a.DigCooldown)
	require.True(t, *a.MarkerReached)
}

func TestValidate_AcceptsEncodedSnapshot(t *testing.T) {
	doc, err := json.Marshal(sampleSnapshot())
	require.NoError(t, err)
	require.NoError(t, Validate(doc))
}

func TestFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "snap.json.zst")
	snap := sampleSnapshot()

	require.NoError(t, WriteFile(path, snap))
	got, err := ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, snap, got)
}

func TestStore_PutGetKeysDelete(t *testing.T) {
	store, err := OpenStore(filepath.Join(t.TempDir(), "farm.db"))
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Get("missing")
	require.ErrorIs(t, err, ErrNotFound)

	snap := sampleSnapshot()
	require.NoError(t, store.Put("a", snap))

	snap2 := sampleSnapshot()
	snap2.Tick = 500
	require.NoError(t, store.Put("b", snap2))

	got, err := store.Get("a")
	require.NoError(t, err)
	require.Equal(t, snap, got)

	// Put replaces.
	snap.Tick = 999
	require.NoError(t, store.Put("a", snap))
	got, err = store.Get("a")
	require.NoError(t, err)
	require.EqualValues(t, 999, got.Tick)

	keys, err := store.Keys()
	require.NoError(t, err)
	require.Len(t, keys, 2)
	names := []string{keys[0].Key, keys[1].Key}
	require.ElementsMatch(t, []string{"a", "b"}, names)

	require.NoError(t, store.Delete("a"))
	require.ErrorIs(t, store.Delete("a"), ErrNotFound)
	_, err = store.Get("a")
	require.ErrorIs(t, err, ErrNotFound)
}
