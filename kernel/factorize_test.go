// Copyright ©2026 The sparselin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"math"
	"testing"
)

// TestPotrf2x2SPD checks spec.md §8 scenario 1: A = [[4,1],[1,3]] factors
// to L = [[2,0],[0.5,√2.75]].
func TestPotrf2x2SPD(t *testing.T) {
	a := NewDense[float64](2, 2)
	a.Set(0, 0, 4)
	a.Set(1, 0, 1)
	a.Set(1, 1, 3)

	nbpivot, err := Potrf(a, 1e-12)
	if err != nil {
		t.Fatalf("Potrf: %v", err)
	}
	if nbpivot != 0 {
		t.Fatalf("nbpivot = %d, want 0", nbpivot)
	}
	want := [2][2]float64{{2, 0}, {0.5, math.Sqrt(2.75)}}
	for i := 0; i < 2; i++ {
		for j := 0; j <= i; j++ {
			if got := a.At(i, j); math.Abs(got-want[i][j]) > 1e-9 {
				t.Errorf("L[%d][%d] = %v, want %v", i, j, got, want[i][j])
			}
		}
	}
}

func TestPotrfClampsSmallPivot(t *testing.T) {
	a := NewDense[float64](1, 1)
	a.Set(0, 0, 1e-40)
	nbpivot, err := Potrf(a, 1e-30)
	if err != nil {
		t.Fatalf("Potrf: %v", err)
	}
	if nbpivot != 1 {
		t.Fatalf("nbpivot = %d, want 1", nbpivot)
	}
	if got := a.At(0, 0); got != math.Sqrt(1e-30) {
		t.Errorf("L[0][0] = %v, want sqrt(eps)", got)
	}
}

func TestPotrfFailsWithoutClamp(t *testing.T) {
	a := NewDense[float64](1, 1)
	a.Set(0, 0, -1)
	if _, err := Potrf(a, 0); err == nil {
		t.Fatalf("want error for non-positive pivot with eps=0")
	}
}

func TestGetrfMatchesReference(t *testing.T) {
	a := NewDense[float64](2, 2)
	a.Set(0, 0, 4)
	a.Set(0, 1, 3)
	a.Set(1, 0, 6)
	a.Set(1, 1, 3)
	orig := append([]float64(nil), a.Data...)

	nbpivot, err := Getrf(a, 1e-12)
	if err != nil {
		t.Fatalf("Getrf: %v", err)
	}
	if nbpivot != 0 {
		t.Fatalf("nbpivot = %d, want 0", nbpivot)
	}
	// Reconstruct L*U and compare against the original matrix.
	l00, l10, l11 := 1.0, a.At(1, 0), 1.0
	u00, u01, u11 := a.At(0, 0), a.At(0, 1), a.At(1, 1)
	got := [2][2]float64{
		{l00 * u00, l00 * u01},
		{l10 * u00, l10*u01 + l11*u11},
	}
	want := [2][2]float64{{orig[0], orig[1]}, {orig[2], orig[3]}}
	for i := range got {
		for j := range got[i] {
			if math.Abs(got[i][j]-want[i][j]) > 1e-9 {
				t.Errorf("LU[%d][%d] = %v, want %v", i, j, got[i][j], want[i][j])
			}
		}
	}
}

func TestSytrfReconstructsLDLT(t *testing.T) {
	a := NewDense[float64](3, 3)
	sym := [3][3]float64{
		{4, 2, 2},
		{2, 5, 3},
		{2, 3, 6},
	}
	for i := 0; i < 3; i++ {
		for j := 0; j <= i; j++ {
			a.Set(i, j, sym[i][j])
		}
	}
	d, nbpivot, err := Sytrf(a, 1e-12, false)
	if err != nil {
		t.Fatalf("Sytrf: %v", err)
	}
	if nbpivot != 0 {
		t.Fatalf("nbpivot = %d, want 0", nbpivot)
	}
	l := [3][3]float64{{1, 0, 0}, {a.At(1, 0), 1, 0}, {a.At(2, 0), a.At(2, 1), 1}}
	var ldlt [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var s float64
			for k := 0; k < 3; k++ {
				s += l[i][k] * d[k] * l[j][k]
			}
			ldlt[i][j] = s
		}
	}
	for i := 0; i < 3; i++ {
		for j := 0; j <= i; j++ {
			if math.Abs(ldlt[i][j]-sym[i][j]) > 1e-9 {
				t.Errorf("LDLT[%d][%d] = %v, want %v", i, j, ldlt[i][j], sym[i][j])
			}
		}
	}
}

func TestGemmUpdateComplex128Reference(t *testing.T) {
	dst := NewDense[complex128](1, 1)
	dst.Set(0, 0, complex(10, 0))
	a := NewDense[complex128](1, 2)
	a.Set(0, 0, complex(1, 1))
	a.Set(0, 1, complex(2, 0))
	b := NewDense[complex128](1, 2)
	b.Set(0, 0, complex(1, -1))
	b.Set(0, 1, complex(0, 1))

	GemmUpdate(dst, a, b, true)
	// sum = a0*conj(b0) + a1*conj(b1) = (1+i)(1+i) + 2*(-i) = (2i) + (-2i) = 0
	want := complex(10, 0)
	if got := dst.At(0, 0); got != want {
		t.Errorf("dst = %v, want %v", got, want)
	}
}
