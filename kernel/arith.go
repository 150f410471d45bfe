// Copyright ©2026 The sparselin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import "math"

// sqrt is math.Sqrt under a short, kernel-local name; every pivot the
// factorization kernels take a square root of has already been reduced
// to a float64 (its real part) by real128.
func sqrt(x float64) float64 { return math.Sqrt(x) }

// real128 returns the real part of x as a float64; for a real T it is x
// itself. Used to force a Hermitian diagonal pivot real, as §4.4 requires.
func real128[T Numeric](x T) float64 {
	switch v := any(x).(type) {
	case float32:
		return float64(v)
	case float64:
		return v
	case complex64:
		return float64(real(v))
	case complex128:
		return real(v)
	default:
		panic("kernel: unsupported scalar type")
	}
}
