package geometry

import (
	"math"
	"testing"
)

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}

func TestVector3D_Arithmetic(t *testing.T) {
	v1 := Vector3D{1, 2, 3}
	v2 := Vector3D{4, 5, 6}

	tests := []struct {
		name string
		got  Vector3D
		want Vector3D
	}{
		{"Add", v1.Add(v2), Vector3D{5, 7, 9}},
		{"Sub", v1.Sub(v2), Vector3D{-3, -3, -3}},
		{"Mul", v1.Mul(2), Vector3D{2, 4, 6}},
		{"MulZero", v1.Mul(0), Vector3D{}},
		{"Min", v1.Min(Vector3D{0, 5, 1}), Vector3D{0, 2, 1}},
		{"Max", v1.Max(Vector3D{0, 5, 1}), Vector3D{1, 5, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.got.Eq(tt.want) {
				t.Errorf("%s = %v; want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestVector3D_Products(t *testing.T) {
	x := Vector3D{1, 0, 0}
	y := Vector3D{0, 1, 0}
	z := Vector3D{0, 0, 1}

	t.Run("Dot", func(t *testing.T) {
		if got := x.Dot(y); got != 0 {
			t.Errorf("Dot orthogonal = %v; want 0", got)
		}
		if got := (Vector3D{1, 2, 3}).Dot(Vector3D{4, 5, 6}); got != 32 {
			t.Errorf("Dot = %v; want 32", got)
		}
	})

	t.Run("Cross", func(t *testing.T) {
		if got := x.Cross(y); !got.Eq(z) {
			t.Errorf("X × Y = %v; want %v", got, z)
		}
		if got := y.Cross(x); !got.Eq(z.Mul(-1)) {
			t.Errorf("Y × X = %v; want %v", got, z.Mul(-1))
		}
		if got := z.Cross(z); !got.Eq(Vector3D{}) {
			t.Errorf("Z × Z = %v; want zero", got)
		}
	})
}

func TestVector3D_Magnitude(t *testing.T) {
	v := Vector3D{2, 3, 6} // 2-3-6-7

	if got := v.Len(); !floatEquals(got, 7) {
		t.Errorf("Len = %v; want 7", got)
	}
	if got := v.LenSqr(); !floatEquals(got, 49) {
		t.Errorf("LenSqr = %v; want 49", got)
	}

	t.Run("Normalize", func(t *testing.T) {
		got := v.Normalize()
		if !got.Eq(Vector3D{2.0 / 7, 3.0 / 7, 6.0 / 7}) {
			t.Errorf("Normalize = %v", got)
		}
		if !floatEquals(got.Len(), 1) {
			t.Errorf("Normalize length = %v; want 1", got.Len())
		}
	})

	t.Run("NormalizeZero", func(t *testing.T) {
		got := Vector3D{}.Normalize()
		if got != (Vector3D{0, 0, 0}) {
			t.Errorf("Normalize(0,0,0) = %v; want exactly zero", got)
		}
		if math.IsNaN(got.X) || math.IsInf(got.X, 0) {
			t.Errorf("Normalize(0,0,0) produced non-finite component: %v", got)
		}
	})

	t.Run("NormalizeTiny", func(t *testing.T) {
		got := Vector3D{1e-10, 0, 0}.Normalize()
		if got != (Vector3D{1, 0, 0}) {
			t.Errorf("Normalize(1e-10,0,0) = %v; want (1,0,0)", got)
		}
		got = Vector3D{0, -3e-300, 4e-300}.Normalize()
		if !got.Eq(Vector3D{0, -0.6, 0.8}) {
			t.Errorf("Normalize of a tiny vector = %v; want (0,-0.6,0.8)", got)
		}
	})

	t.Run("Truncate", func(t *testing.T) {
		if got := v.Truncate(100); got != v {
			t.Errorf("Truncate(100) = %v; want unchanged", got)
		}
		if got := v.Truncate(3.5); !floatEquals(got.Len(), 3.5) {
			t.Errorf("Truncate(3.5) length = %v; want 3.5", got.Len())
		}
		if got := (Vector3D{}).Truncate(0); got != (Vector3D{}) {
			t.Errorf("Truncate zero = %v; want zero", got)
		}
	})
}

func TestVector3D_Distance(t *testing.T) {
	a := Vector3D{1, 1, 1}
	b := Vector3D{3, 4, 7} // 2, 3, 6 -> 7

	if got := a.DistanceTo(b); !floatEquals(got, 7) {
		t.Errorf("DistanceTo = %v; want 7", got)
	}
	if got := a.DistanceSquaredTo(b); !floatEquals(got, 49) {
		t.Errorf("DistanceSquaredTo = %v; want 49", got)
	}
}

func TestVector3D_Comparison(t *testing.T) {
	lo := Vector3D{-1, -1, -1}
	hi := Vector3D{1, 1, 1}
	if !lo.LessOrEqual(hi) {
		t.Error("lo <= hi should hold")
	}
	if (Vector3D{2, 0, 0}).LessOrEqual(hi) {
		t.Error("(2,0,0) <= (1,1,1) should not hold")
	}
	if !lo.LessOrEqual(lo) {
		t.Error("LessOrEqual should be reflexive")
	}
	if got := (Vector3D{1.234, 5.678, 0}).String(); got != "(1.23, 5.68, 0.00)" {
		t.Errorf("String = %q", got)
	}
}
