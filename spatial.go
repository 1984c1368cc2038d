/*
 * spatial.go, part of molsketch.
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

//EntityKind tells atoms and bonds apart across the core/renderer boundary.
type EntityKind int

const (
	KindAtom EntityKind = iota
	KindBond
)

func (K EntityKind) String() string {
	switch K {
	case KindAtom:
		return "atom"
	case KindBond:
		return "bond"
	default:
		return "unknown"
	}
}

//EntityRef identifies one entity. Atom and bond ids come from separate
//sequences, so the kind is needed to make the id meaningful.
type EntityRef struct {
	Kind EntityKind
	ID   int
}

//Transform places an entity in world space. HPR contains heading, pitch
//and roll, in degrees.
type Transform struct {
	Pos   r3.Vec
	Scale r3.Vec
	HPR   r3.Vec
}

//Entity is anything with an identity, a color and a place in the world.
type Entity interface {
	ID() int
	Kind() EntityKind
	Pos() r3.Vec
	Transform() Transform
	Color() color.NRGBA
}

//entity holds the state shared by atoms and bonds. It carries no rendering
//resources: hosts map entities to their own scene nodes.
type entity struct {
	id    int
	color color.NRGBA
	xf    Transform
}

//ID returns the id of the entity, unique among entities of the same kind.
func (E *entity) ID() int {
	return E.id
}

//Pos returns the world position of the entity.
func (E *entity) Pos() r3.Vec {
	return E.xf.Pos
}

//Transform returns a copy of the entity's transform.
func (E *entity) Transform() Transform {
	return E.xf
}

func (E *entity) Color() color.NRGBA {
	return E.color
}

func uniform(s float64) r3.Vec {
	return r3.Vec{X: s, Y: s, Z: s}
}
