package systems

import (
	"gonum.org/v1/gonum/blas/blas32"

	"github.com/50thycal/ant-farm/config"
)

// Field is one scalar layer co-indexed with the grid. Values stay in [0,1].
type Field struct {
	Name      string
	Decay     float32 // Subtracted per second
	Diffusion float32 // Fraction per second moved toward the neighbour mean
	Deposit   float32 // Default amount laid by an ant per step

	Values []float32
	mean   []float32 // Scratch buffer for the pre-diffusion neighbour mean
}

// PheromoneSystem decays and diffuses named scalar fields.
type PheromoneSystem struct {
	W, H   int
	fields []*Field
	index  map[string]int
}

// NewPheromoneSystem creates one field per config entry.
func NewPheromoneSystem(w, h int, cfgs []config.FieldConfig) *PheromoneSystem {
	s := &PheromoneSystem{
		W:     w,
		H:     h,
		index: make(map[string]int, len(cfgs)),
	}
	for _, fc := range cfgs {
		s.AddField(fc.Name, float32(fc.Decay), float32(fc.Diffusion), float32(fc.Deposit))
	}
	return s
}

// AddField registers a field. Re-adding an existing name resets its rates
// but keeps its values.
func (s *PheromoneSystem) AddField(name string, decay, diffusion, deposit float32) *Field {
	if i, ok := s.index[name]; ok {
		f := s.fields[i]
		f.Decay, f.Diffusion, f.Deposit = decay, diffusion, deposit
		return f
	}
	f := &Field{
		Name:      name,
		Decay:     decay,
		Diffusion: diffusion,
		Deposit:   deposit,
		Values:    make([]float32, s.W*s.H),
		mean:      make([]float32, s.W*s.H),
	}
	s.index[name] = len(s.fields)
	s.fields = append(s.fields, f)
	return f
}

// Field returns the named field or nil.
func (s *PheromoneSystem) Field(name string) *Field {
	if i, ok := s.index[name]; ok {
		return s.fields[i]
	}
	return nil
}

// Fields returns all fields in registration order.
func (s *PheromoneSystem) Fields() []*Field { return s.fields }

// Step advances every field by dt seconds: decay, then smoothing toward the
// 5-point mean computed from a snapshot of the decayed values, then clamp.
func (s *PheromoneSystem) Step(dt float32) {
	if dt <= 0 {
		return
	}
	for _, f := range s.fields {
		s.stepField(f, dt)
	}
}

func (s *PheromoneSystem) stepField(f *Field, dt float32) {
	vals := f.Values

	if d := f.Decay * dt; d > 0 {
		for i, v := range vals {
			v -= d
			if v < 0 {
				v = 0
			}
			vals[i] = v
		}
	}

	k := clamp01(f.Diffusion * dt)
	if k > 0 {
		s.neighbourMean(vals, f.mean)

		// vals = (1-k)*vals + k*mean
		n := len(vals)
		vv := blas32.Vector{N: n, Inc: 1, Data: vals}
		mv := blas32.Vector{N: n, Inc: 1, Data: f.mean}
		blas32.Scal(1-k, vv)
		blas32.Axpy(k, mv, vv)
	}

	for i, v := range vals {
		vals[i] = clamp01(v)
	}
}

// neighbourMean writes the mean of each cell and its in-bounds orthogonal
// neighbours into dst. src is never written.
func (s *PheromoneSystem) neighbourMean(src, dst []float32) {
	w, h := s.W, s.H
	for y := 0; y < h; y++ {
		row := y * w
		for x := 0; x < w; x++ {
			i := row + x
			sum := src[i]
			n := float32(1)
			if x > 0 {
				sum += src[i-1]
				n++
			}
			if x < w-1 {
				sum += src[i+1]
				n++
			}
			if y > 0 {
				sum += src[i-w]
				n++
			}
			if y < h-1 {
				sum += src[i+w]
				n++
			}
			dst[i] = sum / n
		}
	}
}

// Deposit adds amount to the named field at (x, y), clamped at 1.
// Out-of-bounds cells, unknown fields and non-positive amounts are ignored.
func (s *PheromoneSystem) Deposit(name string, x, y int, amount float32) {
	if amount <= 0 || x < 0 || x >= s.W || y < 0 || y >= s.H {
		return
	}
	f := s.Field(name)
	if f == nil {
		return
	}
	i := y*s.W + x
	f.Values[i] = clamp01(f.Values[i] + amount)
}

// Sample returns the field value at (x, y), or 0 outside the grid.
func (s *PheromoneSystem) Sample(name string, x, y int) float32 {
	if x < 0 || x >= s.W || y < 0 || y >= s.H {
		return 0
	}
	f := s.Field(name)
	if f == nil {
		return 0
	}
	return f.Values[y*s.W+x]
}

// Gradient returns the orthogonal neighbour of (x, y) with the highest value
// of the named field. ok is false when no neighbour exceeds the current cell.
func (s *PheromoneSystem) Gradient(name string, x, y int) (dx, dy int, value float32, ok bool) {
	best := s.Sample(name, x, y)
	for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
		v := s.Sample(name, x+d[0], y+d[1])
		if v > best {
			best = v
			dx, dy = d[0], d[1]
			ok = true
		}
	}
	return dx, dy, best, ok
}

// Mass returns the sum of all values in the named field.
func (s *PheromoneSystem) Mass(name string) float32 {
	f := s.Field(name)
	if f == nil {
		return 0
	}
	return blas32.Asum(blas32.Vector{N: len(f.Values), Inc: 1, Data: f.Values})
}

// Values returns the backing slice of the named field for rendering.
func (s *PheromoneSystem) Values(name string) []float32 {
	if f := s.Field(name); f != nil {
		return f.Values
	}
	return nil
}

// Clear zeroes every field.
func (s *PheromoneSystem) Clear() {
	for _, f := range s.fields {
		clear(f.Values)
	}
}
