// Package gates holds the unitary matrix definitions for the simulator:
// fixed and parametric single-qubit gates as 2x2 matrices, and direct
// full-space builders for the multi-qubit permutation gates.
//
// Convention: qubit 0 occupies the most significant bit of a basis index.
package gates

import (
	"math"
	"math/cmplx"

	"github.com/qubox-team/qubox-engine/simcore/core"
)

func m2(a, b, c, d complex128) Matrix {
	return Matrix{Dim: 2, Data: []complex128{a, b, c, d}}
}

var fixedTable = map[core.GateKind]Matrix{
	core.KindX: m2(0, 1, 1, 0),
	core.KindY: m2(0, -1i, 1i, 0),
	core.KindZ: m2(1, 0, 0, -1),
	core.KindH: m2(complex(1/math.Sqrt2, 0), complex(1/math.Sqrt2, 0),
		complex(1/math.Sqrt2, 0), complex(-1/math.Sqrt2, 0)),
	core.KindS: m2(1, 0, 0, 1i),
	core.KindT: m2(1, 0, 0, cmplx.Exp(complex(0, math.Pi/4))),
}

// I is the 2x2 identity.
func I() Matrix {
	return Identity(2)
}

// Fixed returns the constant matrix of a non-parametric single-qubit kind.
func Fixed(k core.GateKind) (Matrix, bool) {
	m, ok := fixedTable[k]
	if !ok {
		return Matrix{}, false
	}
	// callers may not mutate the table
	out := NewMatrix(2)
	copy(out.Data, m.Data)
	return out, true
}

// Rx is the rotation around the X axis by theta.
func Rx(theta float64) Matrix {
	c := complex(math.Cos(theta/2), 0)
	js := complex(0, -math.Sin(theta/2))
	return m2(c, js, js, c)
}

// Ry is the rotation around the Y axis by theta.
func Ry(theta float64) Matrix {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	return m2(c, -s, s, c)
}

// Rz is the rotation around the Z axis by theta.
func Rz(theta float64) Matrix {
	return m2(cmplx.Exp(complex(0, -theta/2)), 0, 0, cmplx.Exp(complex(0, theta/2)))
}

// Phase is the general phase gate P(phi).
func Phase(phi float64) Matrix {
	return m2(1, 0, 0, cmplx.Exp(complex(0, phi)))
}

// Parametric builds the matrix of a parametric kind for the given angle.
func Parametric(k core.GateKind, theta float64) (Matrix, bool) {
	switch k {
	case core.KindRx:
		return Rx(theta), true
	case core.KindRy:
		return Ry(theta), true
	case core.KindRz:
		return Rz(theta), true
	case core.KindP:
		return Phase(theta), true
	default:
		return Matrix{}, false
	}
}

// bit extracts the value of qubit pos from basis index i under the
// qubit-0-is-MSB convention.
func bit(i, pos, n int) int {
	return (i >> (n - 1 - pos)) & 1
}

// flip toggles qubit pos of basis index i.
func flip(i, pos, n int) int {
	return i ^ (1 << (n - 1 - pos))
}

// SWAP is the full-space permutation matrix exchanging qubits q1 and q2
// of an n-qubit register.
func SWAP(q1, q2, n int) Matrix {
	dim := 1 << n
	m := NewMatrix(dim)
	for i := 0; i < dim; i++ {
		j := i
		if bit(i, q1, n) != bit(i, q2, n) {
			j = flip(flip(i, q1, n), q2, n)
		}
		m.Set(j, i, 1)
	}
	return m
}

// CNOT is the full-space conditional bit flip: identity except that for
// every basis index with the control bit set, the index and its
// target-flipped partner are exchanged.
func CNOT(control, target, n int) Matrix {
	dim := 1 << n
	m := Identity(dim)
	for i := 0; i < dim; i++ {
		if bit(i, control, n) != 1 {
			continue
		}
		j := flip(i, target, n)
		m.Set(i, i, 0)
		m.Set(j, j, 0)
		m.Set(i, j, 1)
		m.Set(j, i, 1)
	}
	return m
}

// Toffoli is the doubly controlled bit flip, conditioned on both control
// bits being 1.
func Toffoli(c1, c2, target, n int) Matrix {
	dim := 1 << n
	m := Identity(dim)
	for i := 0; i < dim; i++ {
		if bit(i, c1, n) != 1 || bit(i, c2, n) != 1 {
			continue
		}
		j := flip(i, target, n)
		m.Set(i, i, 0)
		m.Set(j, j, 0)
		m.Set(i, j, 1)
		m.Set(j, i, 1)
	}
	return m
}

// Expand lifts a 2x2 gate to the full n-qubit operator: the tensor product
// of identities with g at the target position.
func Expand(g Matrix, target, n int) Matrix {
	out := I()
	if target == 0 {
		out = g
	}
	for i := 1; i < n; i++ {
		f := I()
		if i == target {
			f = g
		}
		out = Kron(out, f)
	}
	return out
}
