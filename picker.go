/*
 * picker.go, part of molsketch.
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
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

//Camera is an orthographic view down the +Y axis. The X-Z plane maps onto
//normalized device coordinates: world X to device x and world Z to
//device y. Y is depth.
type Camera struct {
	Center     r3.Vec
	HalfWidth  float64 //world units from the center to the right edge
	HalfHeight float64 //world units from the center to the top edge
}

//DefaultCamera looks at the spawn position. Its width matches the default
//drag scale, so a dragged atom stays under the pointer.
func DefaultCamera() Camera {
	return Camera{Center: DefaultSpawn, HalfWidth: 10, HalfHeight: 10}
}

//Project returns the device coordinates of the world point p.
func (C Camera) Project(p r3.Vec) r2.Vec {
	return r2.Vec{
		X: (p.X - C.Center.X) / C.HalfWidth,
		Y: (p.Z - C.Center.Z) / C.HalfHeight,
	}
}

//Unproject returns the world X and Z under the device point ndc.
func (C Camera) Unproject(ndc r2.Vec) (x, z float64) {
	return C.Center.X + ndc.X*C.HalfWidth, C.Center.Z + ndc.Y*C.HalfHeight
}

//ProjectionPicker picks atoms by testing the pointer against the disc each
//atom projects through a Camera. When discs overlap, the atom nearest to the
//camera wins.
type ProjectionPicker struct {
	Mol *Molecule
	Cam Camera
}

//NewProjectionPicker returns a picker for the atoms of M seen through cam.
func NewProjectionPicker(M *Molecule, cam Camera) *ProjectionPicker {
	return &ProjectionPicker{Mol: M, Cam: cam}
}

//Pick returns the id of the atom under ndc.
func (P *ProjectionPicker) Pick(ndc r2.Vec) (int, bool) {
	x, z := P.Cam.Unproject(ndc)
	best := -1
	depth := math.Inf(1)
	for _, A := range P.Mol.atoms {
		p := A.Pos()
		dx, dz := p.X-x, p.Z-z
		r := A.Radius()
		if dx*dx+dz*dz > r*r {
			continue
		}
		if p.Y < depth {
			best, depth = A.ID(), p.Y
		}
	}
	return best, best >= 0
}
