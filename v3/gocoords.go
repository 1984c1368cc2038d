/*
 * gocoords.go, part of molsketch.
 *
 * Copyright 2024 Raul Mera  <rmeraa{at}academicos(dot)uta(dot)cl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package v3

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

//Zeros returns a zero-filled Matrix with vecs vectors. A Matrix with zero
//vectors is valid and empty.
func Zeros(vecs int) *Matrix {
	if vecs == 0 {
		return &Matrix{new(mat.Dense)}
	}
	return &Matrix{mat.NewDense(vecs, 3, nil)}
}

//NVecs returns the number of vectors (rows) in F.
func (F *Matrix) NVecs() int {
	if F.IsEmpty() {
		return 0
	}
	r, c := F.Dims()
	if c != 3 {
		panic(ErrNotXx3Matrix)
	}
	return r
}

//Vec returns the ith vector of F.
func (F *Matrix) Vec(i int) r3.Vec {
	if i < 0 || i >= F.NVecs() {
		panic(ErrIndexOutOfRange)
	}
	return r3.Vec{X: F.At(i, 0), Y: F.At(i, 1), Z: F.At(i, 2)}
}

//SetVec sets the ith vector of F to v.
func (F *Matrix) SetVec(i int, v r3.Vec) {
	if i < 0 || i >= F.NVecs() {
		panic(ErrIndexOutOfRange)
	}
	F.Set(i, 0, v.X)
	F.Set(i, 1, v.Y)
	F.Set(i, 2, v.Z)
}

//AddVec adds the vector vec to each vector in A and puts the result in F.
//F must have the same number of vectors as A.
func (F *Matrix) AddVec(A *Matrix, vec r3.Vec) {
	if F.NVecs() != A.NVecs() {
		panic(ErrShape)
	}
	for i := 0; i < A.NVecs(); i++ {
		F.SetVec(i, r3.Add(A.Vec(i), vec))
	}
}

//SubVec subtracts the vector vec from each vector in A and puts the result in F.
func (F *Matrix) SubVec(A *Matrix, vec r3.Vec) {
	F.AddVec(A, r3.Scale(-1, vec))
}

//String returns a neatly formatted string representation of the Matrix,
//one vector per line.
func (F *Matrix) String() string {
	var b strings.Builder
	for i := 0; i < F.NVecs(); i++ {
		fmt.Fprintf(&b, "%8.3f %8.3f %8.3f\n", F.At(i, 0), F.At(i, 1), F.At(i, 2))
	}
	return b.String()
}
