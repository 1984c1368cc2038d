/*
 * geometric.go, part of molsketch.
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
	"fmt"

	v3 "github.com/rmera/molsketch/v3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

//MassCenter returns the center of mass of the coordinates in coords, with
//the mass of each row given in masses.
func MassCenter(coords *v3.Matrix, masses []float64) (r3.Vec, error) {
	if coords.NVecs() != len(masses) {
		return r3.Vec{}, fmt.Errorf("MassCenter: %d coordinates but %d masses", coords.NVecs(), len(masses))
	}
	total := floats.Sum(masses)
	if total <= 0 {
		return r3.Vec{}, fmt.Errorf("MassCenter: total mass must be positive, got %v", total)
	}
	w := mat.NewVecDense(len(masses), masses)
	var c mat.VecDense
	c.MulVec(coords.T(), w)
	c.ScaleVec(1/total, &c)
	return r3.Vec{X: c.AtVec(0), Y: c.AtVec(1), Z: c.AtVec(2)}, nil
}
