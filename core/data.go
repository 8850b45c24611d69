package core

import (
	"fmt"
	"math"
	"math/cmplx"
	"time"

	"github.com/go-faster/jx"
	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"
)

type GateKind int

const (
	KindH GateKind = iota
	KindX
	KindY
	KindZ
	KindS
	KindT
	KindRx
	KindRy
	KindRz
	KindP
	KindSWAP
	KindCNOT
	KindToffoli
	KindBell
	KindMeasure
	KindReset
	KindCustom
	KindConditional
)

func (k GateKind) String() string {
	switch k {
	case KindH:
		return "H"
	case KindX:
		return "X"
	case KindY:
		return "Y"
	case KindZ:
		return "Z"
	case KindS:
		return "S"
	case KindT:
		return "T"
	case KindRx:
		return "Rx"
	case KindRy:
		return "Ry"
	case KindRz:
		return "Rz"
	case KindP:
		return "P"
	case KindSWAP:
		return "SWAP"
	case KindCNOT:
		return "CNOT"
	case KindToffoli:
		return "Toffoli"
	case KindBell:
		return "Bell"
	case KindMeasure:
		return "Measure"
	case KindReset:
		return "Reset"
	case KindCustom:
		return "Custom"
	case KindConditional:
		return "Conditional"
	default:
		return "unknown"
	}
}

func ToGateKind(s string) (GateKind, error) {
	switch s {
	case "H":
		return KindH, nil
	case "X":
		return KindX, nil
	case "Y":
		return KindY, nil
	case "Z":
		return KindZ, nil
	case "S":
		return KindS, nil
	case "T":
		return KindT, nil
	case "Rx":
		return KindRx, nil
	case "Ry":
		return KindRy, nil
	case "Rz":
		return KindRz, nil
	case "P":
		return KindP, nil
	case "SWAP":
		return KindSWAP, nil
	case "CNOT":
		return KindCNOT, nil
	case "Toffoli":
		return KindToffoli, nil
	case "Bell":
		return KindBell, nil
	case "Measure":
		return KindMeasure, nil
	case "Reset":
		return KindReset, nil
	default:
		return 0, fmt.Errorf("unknown gate kind: %s", s)
	}
}

// Arity is the fixed target count of a kind. KindCustom and KindConditional
// have no fixed arity and return -1.
func (k GateKind) Arity() int {
	switch k {
	case KindH, KindX, KindY, KindZ, KindS, KindT,
		KindRx, KindRy, KindRz, KindP, KindMeasure, KindReset:
		return 1
	case KindSWAP, KindCNOT, KindBell:
		return 2
	case KindToffoli:
		return 3
	default:
		return -1
	}
}

func (k GateKind) Parametric() bool {
	switch k {
	case KindRx, KindRy, KindRz, KindP:
		return true
	default:
		return false
	}
}

// Instruction is one queued circuit operation. Name is set only for
// KindCustom (the macro name); Condition only for KindConditional.
type Instruction struct {
	Kind      GateKind
	Name      string
	Targets   []int
	Params    []float64
	Condition string
}

type StateVector []complex128

func (s StateVector) Norm() float64 {
	sum := 0.0
	for _, a := range s {
		sum += real(a * cmplx.Conj(a))
	}
	return math.Sqrt(sum)
}

// JSONString renders the amplitudes as [re,im] pairs.
func (s StateVector) JSONString() string {
	e := &jx.Encoder{}
	e.ArrStart()
	for _, a := range s {
		e.ArrStart()
		e.Float64(real(a))
		e.Float64(imag(a))
		e.ArrEnd()
	}
	e.ArrEnd()
	return e.String()
}

// BasisLabel is the length-n bit string of basis index i, qubit 0 at the
// most significant bit.
func BasisLabel(i, n int) string {
	return fmt.Sprintf("%0*b", n, i)
}

type Distribution map[string]float64
type Counts map[string]uint32

var jsonIter = jsoniter.ConfigCompatibleWithStandardLibrary

func (d Distribution) String() string {
	st, err := jsonIter.Marshal(d)
	if err != nil {
		zap.L().Error("Failed to marshal core.Distribution")
		return ""
	}
	return string(st)
}

func (c Counts) String() string {
	st, err := jsonIter.Marshal(c)
	if err != nil {
		zap.L().Error("Failed to marshal core.Counts")
		return ""
	}
	return string(st)
}

type Status int

const (
	RUNNING Status = iota
	SUCCEEDED
	FAILED
)

func (s Status) String() string {
	switch s {
	case RUNNING:
		return "running"
	case SUCCEEDED:
		return "succeeded"
	case FAILED:
		return "failed"
	default:
		return "unknown"
	}
}

type RunResult struct {
	Counts        Counts         `json:"counts"`
	Distribution  Distribution   `json:"distribution"`
	Measurements  map[int]string `json:"measurements"`
	Message       string         `json:"message"`
	ExecutionTime time.Duration  `json:"execution_time"`
}

func NewRunResult() *RunResult {
	return &RunResult{
		Counts:       make(Counts),
		Distribution: make(Distribution),
		Measurements: make(map[int]string),
	}
}

func (r *RunResult) ToString() string {
	st, err := jsonIter.Marshal(r)
	if err != nil {
		zap.L().Error("Failed to marshal core.RunResult")
		return ""
	}
	st = pretty.Pretty(st)
	return string(st)
}

// RunData is one simulation request handled by the CLI.
type RunData struct {
	ID      string
	QASM    string
	Shots   int
	Qubit   int
	Status  Status
	Result  *RunResult
	Created strfmt.DateTime
	Ended   strfmt.DateTime
}

func NewRunData() *RunData {
	return &RunData{
		ID:      uuid.NewString(),
		Result:  NewRunResult(),
		Created: strfmt.DateTime(time.Now()),
	}
}
