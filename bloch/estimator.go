// Package bloch extracts an approximate single-qubit pure state from the
// full state vector by partial trace. The reconstruction is exact only when
// the target qubit is unentangled with the rest of the register; for
// entangled qubits it is a lossy heuristic, not a faithful mixed state.
package bloch

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/qubox-team/qubox-engine/simcore/core"
)

// ReducedDensity is the 2x2 reduced density matrix of qubit target,
// obtained by tracing out every other qubit. Indexed [row][col].
func ReducedDensity(state core.StateVector, target, n int) ([2][2]complex128, error) {
	var rho [2][2]complex128
	if target < 0 || target >= n {
		return rho, fmt.Errorf("%w: %d", core.ErrorInvalidIndex, target)
	}
	if len(state) != 1<<n {
		return rho, fmt.Errorf("state vector length %d does not match %d qubits", len(state), n)
	}
	tbit := 1 << (n - 1 - target)
	for i := range state {
		if i&tbit != 0 {
			continue
		}
		a0 := state[i]
		a1 := state[i|tbit]
		rho[0][0] += a0 * cmplx.Conj(a0)
		rho[0][1] += a0 * cmplx.Conj(a1)
		rho[1][0] += a1 * cmplx.Conj(a0)
		rho[1][1] += a1 * cmplx.Conj(a1)
	}
	return rho, nil
}

// ReducedState recovers an approximate ket from the reduced density matrix:
// amplitude 0 is sqrt(rho00); amplitude 1 is sqrt(rho11) carrying half the
// phase of rho01 when rho01 is nonzero.
func ReducedState(state core.StateVector, target, n int) ([2]complex128, error) {
	rho, err := ReducedDensity(state, target, n)
	if err != nil {
		return [2]complex128{}, err
	}
	var ket [2]complex128
	ket[0] = cmplx.Sqrt(rho[0][0])
	if rho[0][1] != 0 {
		phase := cmplx.Phase(rho[0][1]) / 2
		ket[1] = cmplx.Sqrt(rho[1][1]) * cmplx.Exp(complex(0, phase))
	} else {
		ket[1] = cmplx.Sqrt(rho[1][1])
	}
	return ket, nil
}

// Vector maps a 2-amplitude ket to Bloch sphere coordinates
// x=2·Re(α*β), y=2·Im(α*β), z=|α|²−|β|². The zero vector maps to the
// center of the sphere.
func Vector(ket [2]complex128) [3]float64 {
	norm := math.Sqrt(real(ket[0]*cmplx.Conj(ket[0])) + real(ket[1]*cmplx.Conj(ket[1])))
	if norm < 1e-10 {
		return [3]float64{0, 0, 0}
	}
	alpha := ket[0] / complex(norm, 0)
	beta := ket[1] / complex(norm, 0)
	cross := cmplx.Conj(alpha) * beta
	return [3]float64{
		2 * real(cross),
		2 * imag(cross),
		real(alpha*cmplx.Conj(alpha)) - real(beta*cmplx.Conj(beta)),
	}
}
