package v3

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestNewMatrix(Te *testing.T) {
	A, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	if err != nil {
		Te.Fatal(err)
	}
	if A.NVecs() != 2 {
		Te.Errorf("expected 2 vectors, got %d", A.NVecs())
	}
	if v := A.Vec(1); v != (r3.Vec{X: 4, Y: 5, Z: 6}) {
		Te.Errorf("wrong second vector %v", v)
	}
	_, err = NewMatrix([]float64{1, 2})
	var merr *Error
	if !errors.As(err, &merr) {
		Te.Fatalf("expected an *Error for a slice not divisible by 3, got %v", err)
	}
	merr.Decorate("caller")
	if deco := merr.Decorate(""); len(deco) != 2 || deco[1] != "caller" {
		Te.Errorf("decoration lost: %v", deco)
	}
}

func TestZerosEmpty(Te *testing.T) {
	A := Zeros(0)
	if A.NVecs() != 0 {
		Te.Errorf("empty matrix has %d vectors", A.NVecs())
	}
	if A.String() != "" {
		Te.Errorf("empty matrix prints %q", A.String())
	}
}

func TestAddSubVec(Te *testing.T) {
	A, _ := NewMatrix([]float64{1, 1, 1, 2, 2, 2})
	B := Zeros(2)
	B.AddVec(A, r3.Vec{X: 1, Y: 0, Z: -1})
	if B.Vec(0) != (r3.Vec{X: 2, Y: 1, Z: 0}) || B.Vec(1) != (r3.Vec{X: 3, Y: 2, Z: 1}) {
		Te.Errorf("wrong AddVec result:\n%s", B)
	}
	B.SubVec(B, r3.Vec{X: 1, Y: 0, Z: -1})
	if B.Vec(1) != A.Vec(1) {
		Te.Errorf("SubVec didn't undo AddVec:\n%s", B)
	}
}
