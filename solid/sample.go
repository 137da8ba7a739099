package solid

import (
	"math"
	"sync/atomic"

	"github.com/gogpu/bottleclip/csg"
	"github.com/gogpu/bottleclip/internal/parallel"
)

// Grid is a regular lattice of sample points covering a box: cell centers
// at Min + (i+0.5)*Step along each axis.
type Grid struct {
	Min        csg.Vec3
	Step       float64
	NX, NY, NZ int
}

// NewGrid returns the lattice of cells of size step covering b.
func NewGrid(b csg.Box3, step float64) Grid {
	if !b.Valid || step <= 0 {
		return Grid{Step: step}
	}
	size := b.Size()
	return Grid{
		Min:  b.Min,
		Step: step,
		NX:   max(1, int(math.Ceil(size.X/step))),
		NY:   max(1, int(math.Ceil(size.Y/step))),
		NZ:   max(1, int(math.Ceil(size.Z/step))),
	}
}

// Point returns the center of cell (i, j, k).
func (g Grid) Point(i, j, k int) csg.Vec3 {
	return csg.V3(
		g.Min.X+(float64(i)+0.5)*g.Step,
		g.Min.Y+(float64(j)+0.5)*g.Step,
		g.Min.Z+(float64(k)+0.5)*g.Step,
	)
}

// Len returns the number of cells.
func (g Grid) Len() int {
	return g.NX * g.NY * g.NZ
}

// Occupancy samples s on g. The result is indexed i + NX*(j + NY*k).
func Occupancy(s *Solid, g Grid) []bool {
	cells := make([]bool, g.Len())
	pool := parallel.NewWorkerPool(0)
	defer pool.Close()

	pool.Range(g.NZ, func(k int) {
		base := g.NX * g.NY * k
		for j := range g.NY {
			for i := range g.NX {
				cells[base+i+g.NX*j] = s.Contains(g.Point(i, j, k))
			}
		}
	})
	return cells
}

// Volume estimates the volume of s in cubic millimeters by sampling cells
// of size step.
func Volume(s *Solid, step float64) float64 {
	g := NewGrid(s.Bounds(), step)
	var inside atomic.Int64

	pool := parallel.NewWorkerPool(0)
	defer pool.Close()
	pool.Range(g.NZ, func(k int) {
		var n int64
		for j := range g.NY {
			for i := range g.NX {
				if s.Contains(g.Point(i, j, k)) {
					n++
				}
			}
		}
		inside.Add(n)
	})
	return float64(inside.Load()) * step * step * step
}

// Components counts the connected components of the occupied cells of size
// step. Cells touching at a face, edge or corner are connected, so a stroke
// thinner than step does not split a part.
func Components(s *Solid, step float64) int {
	g := NewGrid(s.Bounds(), step)
	cells := Occupancy(s, g)

	seen := make([]bool, len(cells))
	var (
		count int
		stack []int
	)
	for start, in := range cells {
		if !in || seen[start] {
			continue
		}
		count++
		seen[start] = true
		stack = append(stack[:0], start)
		for len(stack) > 0 {
			c := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			i := c % g.NX
			j := (c / g.NX) % g.NY
			k := c / (g.NX * g.NY)
			for dk := -1; dk <= 1; dk++ {
				for dj := -1; dj <= 1; dj++ {
					for di := -1; di <= 1; di++ {
						ni, nj, nk := i+di, j+dj, k+dk
						if ni < 0 || nj < 0 || nk < 0 || ni >= g.NX || nj >= g.NY || nk >= g.NZ {
							continue
						}
						n := ni + g.NX*(nj+g.NY*nk)
						if cells[n] && !seen[n] {
							seen[n] = true
							stack = append(stack, n)
						}
					}
				}
			}
		}
	}
	return count
}

// AngularSpan returns how many degrees of the circle of radius r at height
// z lie inside s, sampled at the given number of evenly spaced angles.
func AngularSpan(s *Solid, z, r float64, samples int) float64 {
	occupied := ring(s, z, r, samples)
	n := 0
	for _, in := range occupied {
		if in {
			n++
		}
	}
	return float64(n) * 360 / float64(samples)
}

// LargestGap returns the widest run of empty samples on the circle of
// radius r at height z, in degrees, and the direction of its middle in
// degrees counterclockwise from +X. A circle with no material reports 360.
func LargestGap(s *Solid, z, r float64, samples int) (width, center float64) {
	occupied := ring(s, z, r, samples)

	first := -1
	for i, in := range occupied {
		if in {
			first = i
			break
		}
	}
	if first < 0 {
		return 360, 0
	}

	step := 360 / float64(samples)
	best, bestStart := 0, 0
	run, runStart := 0, 0
	// Walk once around, starting on material so no run wraps.
	for n := 1; n <= samples; n++ {
		i := (first + n) % samples
		if !occupied[i] {
			if run == 0 {
				runStart = i
			}
			run++
			continue
		}
		if run > best {
			best, bestStart = run, runStart
		}
		run = 0
	}

	width = float64(best) * step
	center = math.Mod(float64(bestStart)*step+width/2-step/2, 360)
	return width, center
}

func ring(s *Solid, z, r float64, samples int) []bool {
	out := make([]bool, samples)
	for i := range out {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / float64(samples))
		out[i] = s.Contains(csg.V3(r*cos, r*sin, z))
	}
	return out
}
