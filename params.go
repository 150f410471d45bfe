// Copyright ©2026 The sparselin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sparselin

import "os"

// FactorKind selects the numeric factorization variant.
type FactorKind int

const (
	LU FactorKind = iota
	LLT
	LDLT
	LDLH
)

func (k FactorKind) String() string {
	switch k {
	case LU:
		return "LU"
	case LLT:
		return "LLT"
	case LDLT:
		return "LDLT"
	case LDLH:
		return "LDLH"
	default:
		return "unknown"
	}
}

// RefineKind selects the iterative refinement driver.
type RefineKind int

const (
	GMRES RefineKind = iota
	CG
	BiCGStab
	Simple
)

// SymKind describes the symmetry class of the input matrix.
type SymKind int

const (
	General SymKind = iota
	Symmetric
	Hermitian
)

// Params holds the solver's integer and floating-point configuration
// (spec's iparm/dparm arrays), as a typed record rather than raw slices.
type Params struct {
	// Verbose: 0 silent, 1 summary, 2 detailed, 3 debug.
	Verbose int

	Factorization FactorKind
	Refinement    RefineKind
	Sym           SymKind

	ThreadNbr int
	Itermax   int
	GMRESIm   int

	// AmalgCblk and AmalgBlas are the two amalgamation ratios of spec's
	// iparm_amalgamation_level: a candidate merge is taken if it passes
	// either test (symbolic.Kass ORs them; see symbolic.amalgamate).
	AmalgCblk  float64
	AmalgBlas  float64
	LevelOfFill int
	Incomplete bool

	Schur bool

	MinBlocksize int
	MaxBlocksize int

	EpsRefinement float64
	EpsPivot      float64

	// PivotLimit bounds the number of static pivots tolerated before
	// factor.PivotLimitExceeded is returned. Zero means unbounded.
	PivotLimit int
}

// DefaultParams returns the documented defaults, before any environment
// override is applied.
func DefaultParams() Params {
	return Params{
		Verbose:       0,
		Factorization: LU,
		Refinement:    GMRES,
		Sym:           General,
		ThreadNbr:     1,
		Itermax:       250,
		GMRESIm:       30,
		AmalgCblk:     0.5,
		AmalgBlas:     0.1,
		LevelOfFill:   -1,
		Incomplete:    false,
		Schur:         false,
		MinBlocksize:  60,
		MaxBlocksize:  160,
		EpsRefinement: 1e-12,
		EpsPivot:      1e-12,
		PivotLimit:    0,
	}
}

// envOverrides captures the back-end flags and BLAS over-subscription
// guard read once at Init and cached on the Handle, per the "global
// mutable state" design note: reads happen once and are never re-consulted.
type envOverrides struct {
	StarpuFanin        bool
	StarpuNestedTask   bool
	StarpuSeparateTrsm bool
	VeclibMaxThreads   string
}

func readEnvOverrides() envOverrides {
	e := envOverrides{
		StarpuFanin:        envFlag("PASTIX_STARPU_FANIN"),
		StarpuNestedTask:   envFlag("PASTIX_STARPU_NESTED_TASK"),
		StarpuSeparateTrsm: envFlag("PASTIX_STARPU_SEPARATE_TRSM"),
	}
	if v, ok := os.LookupEnv("VECLIB_MAXIMUM_THREADS"); ok {
		e.VeclibMaxThreads = v
	} else {
		e.VeclibMaxThreads = "1"
		os.Setenv("VECLIB_MAXIMUM_THREADS", "1")
	}
	return e
}

func envFlag(name string) bool {
	return os.Getenv(name) == "1"
}
