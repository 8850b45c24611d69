package gates

import (
	"fmt"
	"math/cmplx"
)

// Matrix is a dense square complex matrix in row-major order.
type Matrix struct {
	Dim  int
	Data []complex128
}

func NewMatrix(dim int) Matrix {
	return Matrix{Dim: dim, Data: make([]complex128, dim*dim)}
}

func Identity(dim int) Matrix {
	m := NewMatrix(dim)
	for i := 0; i < dim; i++ {
		m.Data[i*dim+i] = 1
	}
	return m
}

func (m Matrix) At(r, c int) complex128 {
	return m.Data[r*m.Dim+c]
}

func (m Matrix) Set(r, c int, v complex128) {
	m.Data[r*m.Dim+c] = v
}

func (m Matrix) Mul(o Matrix) Matrix {
	if m.Dim != o.Dim {
		panic(fmt.Sprintf("dimension mismatch: %d != %d", m.Dim, o.Dim))
	}
	out := NewMatrix(m.Dim)
	for r := 0; r < m.Dim; r++ {
		for k := 0; k < m.Dim; k++ {
			a := m.At(r, k)
			if a == 0 {
				continue
			}
			for c := 0; c < m.Dim; c++ {
				out.Data[r*m.Dim+c] += a * o.At(k, c)
			}
		}
	}
	return out
}

func (m Matrix) MulVec(v []complex128) []complex128 {
	if m.Dim != len(v) {
		panic(fmt.Sprintf("dimension mismatch: %d != %d", m.Dim, len(v)))
	}
	out := make([]complex128, m.Dim)
	for r := 0; r < m.Dim; r++ {
		var sum complex128
		for c := 0; c < m.Dim; c++ {
			sum += m.At(r, c) * v[c]
		}
		out[r] = sum
	}
	return out
}

// Dagger is the conjugate transpose.
func (m Matrix) Dagger() Matrix {
	out := NewMatrix(m.Dim)
	for r := 0; r < m.Dim; r++ {
		for c := 0; c < m.Dim; c++ {
			out.Set(c, r, cmplx.Conj(m.At(r, c)))
		}
	}
	return out
}

// Kron is the tensor product a ⊗ b.
func Kron(a, b Matrix) Matrix {
	out := NewMatrix(a.Dim * b.Dim)
	for ar := 0; ar < a.Dim; ar++ {
		for ac := 0; ac < a.Dim; ac++ {
			f := a.At(ar, ac)
			if f == 0 {
				continue
			}
			for br := 0; br < b.Dim; br++ {
				for bc := 0; bc < b.Dim; bc++ {
					out.Set(ar*b.Dim+br, ac*b.Dim+bc, f*b.At(br, bc))
				}
			}
		}
	}
	return out
}

// KronVec is the tensor product of two column vectors.
func KronVec(a, b []complex128) []complex128 {
	out := make([]complex128, len(a)*len(b))
	for i, av := range a {
		for j, bv := range b {
			out[i*len(b)+j] = av * bv
		}
	}
	return out
}

// IsUnitary reports whether m·m† = I within tol, entrywise.
func (m Matrix) IsUnitary(tol float64) bool {
	prod := m.Mul(m.Dagger())
	for r := 0; r < m.Dim; r++ {
		for c := 0; c < m.Dim; c++ {
			want := complex128(0)
			if r == c {
				want = 1
			}
			if cmplx.Abs(prod.At(r, c)-want) > tol {
				return false
			}
		}
	}
	return true
}
