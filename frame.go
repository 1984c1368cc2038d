/*
 * frame.go, part of molsketch.
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

	"gonum.org/v1/gonum/spatial/r3"
)

//AtomView is what a renderer gets to know about an atom.
type AtomView struct {
	ID      int
	Element Element
	Pos     r3.Vec
	Color   color.NRGBA
	Radius  float64
}

//BondView is what a renderer gets to know about a bond. Roll is in
//degrees, Scale.Z is half the bond length.
type BondView struct {
	ID          int
	Left, Right int
	Pos         r3.Vec
	Roll        float64
	Scale       r3.Vec
	Degenerate  bool
}

//Frame is an immutable snapshot of a molecule, ready to be drawn.
type Frame struct {
	Atoms []AtomView
	Bonds []BondView
}

//Atom returns the view of the atom with the given id.
func (F *Frame) Atom(id int) (AtomView, bool) {
	for _, v := range F.Atoms {
		if v.ID == id {
			return v, true
		}
	}
	return AtomView{}, false
}
