/*
 * bonds.go, part of molsketch.
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

package sketch

import (
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

//DefaultBondThickness is the X and Y scale given to new bonds.
const DefaultBondThickness = 2.0

//A new bond is rolled 90 degrees so the stick lies along the X axis
//until its first update.
const creationRoll = 90.0

//Bond joins two atoms. It does not hold the atoms, only their ids in the
//molecule that created it, and its transform is entirely derived from the
//positions of those atoms. Bonds can't be moved directly.
type Bond struct {
	entity
	left, right int
	length      float64
	degenerate  bool
}

func newBond(id, left, right int, thickness float64, pos r3.Vec) *Bond {
	B := &Bond{left: left, right: right}
	B.id = id
	B.color = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	B.xf = Transform{
		Pos:   pos,
		Scale: uniform(thickness),
		HPR:   r3.Vec{Z: creationRoll},
	}
	return B
}

func (B *Bond) Kind() EntityKind {
	return KindBond
}

//Left returns the id of the first atom of the bond.
func (B *Bond) Left() int {
	return B.left
}

//Right returns the id of the second atom of the bond.
func (B *Bond) Right() int {
	return B.right
}

//Joins reports whether the bond joins atoms a and b, in any order.
func (B *Bond) Joins(a, b int) bool {
	return (B.left == a && B.right == b) || (B.left == b && B.right == a)
}

//Cross returns the atom at the other end of the bond from origin.
//ok is false if origin is not in the bond.
func (B *Bond) Cross(origin int) (other int, ok bool) {
	switch origin {
	case B.left:
		return B.right, true
	case B.right:
		return B.left, true
	}
	return -1, false
}

//Length returns the length found in the last successful update.
func (B *Bond) Length() float64 {
	return B.length
}

//Roll returns the rotation of the bond around its long axis, in degrees.
func (B *Bond) Roll() float64 {
	return B.xf.HPR.Z
}

//Degenerate reports whether the last update found a zero-length bond.
//Hosts will usually hide such bonds.
func (B *Bond) Degenerate() bool {
	return B.degenerate
}

//Update recomputes the transform of the bond from the current positions of
//its left and right atoms. The axial scale is half the distance between
//them, the roll is the angle from the Z axis to left-right in the X-Z plane,
//and the position is their midpoint. If both positions coincide the bond is
//marked as degenerate, its transform is left as it was, and a
//*DegenerateBondError is returned.
func (B *Bond) Update(left, right r3.Vec) error {
	diff := r3.Sub(left, right)
	length := r3.Norm(diff)
	if length == 0 || math.IsNaN(length) {
		B.degenerate = true
		return &DegenerateBondError{Left: B.left, Right: B.right}
	}
	B.degenerate = false
	B.length = length
	B.xf.Scale.Z = length / 2
	B.xf.HPR = r3.Vec{Z: Rad2Deg(math.Atan2(diff.X, diff.Z))}
	B.xf.Pos = r3.Scale(0.5, r3.Add(left, right))
	return nil
}
