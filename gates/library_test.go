//go:build unit
// +build unit

package gates

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/qubox-team/qubox-engine/simcore/core"
	"github.com/stretchr/testify/assert"
)

const unitarityTol = 1e-9

func TestFixedGates(t *testing.T) {
	h, ok := Fixed(core.KindH)
	assert.True(t, ok)

	// H|0> = |+>
	plus := h.MulVec([]complex128{1, 0})
	inv := complex(1/math.Sqrt2, 0)
	assert.InDelta(t, 0, cmplx.Abs(plus[0]-inv), 1e-12)
	assert.InDelta(t, 0, cmplx.Abs(plus[1]-inv), 1e-12)

	_, ok = Fixed(core.KindCNOT)
	assert.False(t, ok)
}

func TestFixedTableIsImmutable(t *testing.T) {
	x1, _ := Fixed(core.KindX)
	x1.Set(0, 0, 42)
	x2, _ := Fixed(core.KindX)
	assert.Equal(t, complex128(0), x2.At(0, 0))
}

func TestSingleQubitUnitarity(t *testing.T) {
	kinds := []core.GateKind{core.KindH, core.KindX, core.KindY, core.KindZ, core.KindS, core.KindT}
	angles := []float64{0, 0.3, math.Pi / 2, math.Pi, 2.5}

	for n := 1; n <= 6; n++ {
		for target := 0; target < n; target++ {
			for _, k := range kinds {
				g, ok := Fixed(k)
				assert.True(t, ok)
				assert.True(t, Expand(g, target, n).IsUnitary(unitarityTol),
					"%s on qubit %d of %d", k, target, n)
			}
			for _, k := range []core.GateKind{core.KindRx, core.KindRy, core.KindRz, core.KindP} {
				for _, theta := range angles {
					g, ok := Parametric(k, theta)
					assert.True(t, ok)
					assert.True(t, Expand(g, target, n).IsUnitary(unitarityTol),
						"%s(%f) on qubit %d of %d", k, theta, target, n)
				}
			}
		}
	}
}

func TestMultiQubitUnitarity(t *testing.T) {
	for n := 2; n <= 6; n++ {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				assert.True(t, SWAP(i, j, n).IsUnitary(unitarityTol), "SWAP(%d,%d,%d)", i, j, n)
				assert.True(t, CNOT(i, j, n).IsUnitary(unitarityTol), "CNOT(%d,%d,%d)", i, j, n)
			}
		}
	}
	for n := 3; n <= 6; n++ {
		for c1 := 0; c1 < n; c1++ {
			for c2 := 0; c2 < n; c2++ {
				for tg := 0; tg < n; tg++ {
					if c1 == c2 || c1 == tg || c2 == tg {
						continue
					}
					assert.True(t, Toffoli(c1, c2, tg, n).IsUnitary(unitarityTol),
						"Toffoli(%d,%d,%d,%d)", c1, c2, tg, n)
				}
			}
		}
	}
}

func TestCNOTPermutation(t *testing.T) {
	// control on qubit 0 (MSB), target on qubit 1: |10> <-> |11>
	m := CNOT(0, 1, 2)
	tests := []struct {
		name string
		in   int
		want int
	}{
		{name: "00 fixed", in: 0, want: 0},
		{name: "01 fixed", in: 1, want: 1},
		{name: "10 flips to 11", in: 2, want: 3},
		{name: "11 flips to 10", in: 3, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := make([]complex128, 4)
			in[tt.in] = 1
			out := m.MulVec(in)
			assert.InDelta(t, 1, cmplx.Abs(out[tt.want]), 1e-12)
		})
	}
}

func TestSWAPPermutation(t *testing.T) {
	m := SWAP(0, 2, 3)
	// |100| -> |001|
	in := make([]complex128, 8)
	in[4] = 1
	out := m.MulVec(in)
	assert.InDelta(t, 1, cmplx.Abs(out[1]), 1e-12)
}

func TestRzForm(t *testing.T) {
	theta := 1.3
	m := Rz(theta)
	assert.InDelta(t, 0, cmplx.Abs(m.At(0, 0)-cmplx.Exp(complex(0, -theta/2))), 1e-12)
	assert.InDelta(t, 0, cmplx.Abs(m.At(1, 1)-cmplx.Exp(complex(0, theta/2))), 1e-12)
	assert.Equal(t, complex128(0), m.At(0, 1))
	assert.Equal(t, complex128(0), m.At(1, 0))
}

func TestExpandPlacesGateAtMSB(t *testing.T) {
	x, _ := Fixed(core.KindX)
	// X on qubit 0 of 2: |00> -> |10>
	out := Expand(x, 0, 2).MulVec([]complex128{1, 0, 0, 0})
	assert.InDelta(t, 1, cmplx.Abs(out[2]), 1e-12)
	// X on qubit 1 of 2: |00> -> |01>
	out = Expand(x, 1, 2).MulVec([]complex128{1, 0, 0, 0})
	assert.InDelta(t, 1, cmplx.Abs(out[1]), 1e-12)
}
