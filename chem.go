/*
 * chem.go, part of molsketch.
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
	"errors"
	"fmt"
	"math"
	"slices"

	v3 "github.com/rmera/molsketch/v3"
	"gonum.org/v1/gonum/spatial/r3"
)

//Atom is a colored sphere with a chemical element. Its color and radius
//come from the element and can't be changed.
type Atom struct {
	entity
	element Element
}

func newAtom(id int, e Element, pos r3.Vec) *Atom {
	A := &Atom{element: e}
	A.id = id
	A.color = e.Color()
	A.xf = Transform{Pos: pos, Scale: uniform(e.Radius())}
	return A
}

func (A *Atom) Kind() EntityKind {
	return KindAtom
}

//Element returns the chemical element of the atom.
func (A *Atom) Element() Element {
	return A.element
}

//Radius returns the display radius of the atom.
func (A *Atom) Radius() float64 {
	return A.element.Radius()
}

//MoveBy translates the atom by delta.
func (A *Atom) MoveBy(delta r3.Vec) {
	A.xf.Pos = r3.Add(A.xf.Pos, delta)
}

//Update refreshes the element-derived scale. Atoms have no other
//derived geometry.
func (A *Atom) Update() {
	A.xf.Scale = uniform(A.element.Radius())
}

func (A *Atom) String() string {
	return fmt.Sprintf("%s%d", A.element, A.id)
}

/*****Molecule type***/

//DefaultSpacing is the distance between an atom and the atoms grown from it.
const DefaultSpacing = 2.5

//DefaultSpawn is where new atoms appear. We have to start backed away from
//the camera, which sits at the origin looking down +Y.
var DefaultSpawn = r3.Vec{X: 0, Y: 30, Z: 0}

//Molecule owns a set of atoms and the bonds between them. Atoms keep
//their ids for the life of the molecule. Bonds refer to atoms by id only.
//A Molecule is not safe for concurrent use: all mutations are expected to
//come from a single loop.
type Molecule struct {
	atoms     []*Atom
	index     map[int]int //atom id -> position in atoms
	bonds     []*Bond
	nextAtom  int
	nextBond  int
	spawn     r3.Vec
	thickness float64
	rend      Renderer
	log       Logger
}

//NewMolecule returns an empty molecule whose new atoms appear at spawn.
func NewMolecule(spawn r3.Vec) *Molecule {
	return &Molecule{
		index:     make(map[int]int),
		spawn:     spawn,
		thickness: DefaultBondThickness,
		rend:      NopRenderer{},
		log:       NopLogger{},
	}
}

//SetRenderer sets the renderer notified when entities leave the molecule.
//A nil renderer disables notifications.
func (M *Molecule) SetRenderer(r Renderer) {
	if r == nil {
		r = NopRenderer{}
	}
	M.rend = r
}

//SetLogger sets the logger for the molecule. A nil logger discards output.
func (M *Molecule) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	M.log = l
}

//SetBondThickness sets the X and Y scale for bonds created from now on.
func (M *Molecule) SetBondThickness(t float64) {
	M.thickness = t
}

//Spawn returns the default position for new atoms.
func (M *Molecule) Spawn() r3.Vec {
	return M.spawn
}

//SetSpawn sets the default position for new atoms.
func (M *Molecule) SetSpawn(p r3.Vec) {
	M.spawn = p
}

//Len returns the number of atoms in the molecule.
func (M *Molecule) Len() int {
	return len(M.atoms)
}

//NBonds returns the number of bonds in the molecule.
func (M *Molecule) NBonds() int {
	return len(M.bonds)
}

//Atom returns the atom with the given id, or nil if there is none.
func (M *Molecule) Atom(id int) *Atom {
	i, ok := M.index[id]
	if !ok {
		return nil
	}
	return M.atoms[i]
}

//Atoms returns the atoms in creation order. The slice is a copy, the
//atoms are not.
func (M *Molecule) Atoms() []*Atom {
	return slices.Clone(M.atoms)
}

//Bonds returns the bonds in creation order. The slice is a copy, the
//bonds are not.
func (M *Molecule) Bonds() []*Bond {
	return slices.Clone(M.bonds)
}

//AddAtom adds an atom of element e at the spawn position.
func (M *Molecule) AddAtom(e Element) (*Atom, error) {
	at, err := M.AddAtomAt(e, M.spawn)
	if err != nil {
		return nil, errDecorate(err, "AddAtom")
	}
	return at, nil
}

//AddAtomSymbol adds an atom at the spawn position, taking the element
//from its symbol.
func (M *Molecule) AddAtomSymbol(symbol string) (*Atom, error) {
	e, err := ParseElement(symbol)
	if err != nil {
		return nil, errDecorate(err, "AddAtomSymbol")
	}
	return M.AddAtomAt(e, M.spawn)
}

//AddAtomAt adds an atom of element e at pos and returns it. The atom gets
//the next id in the sequence, ids are never reused.
func (M *Molecule) AddAtomAt(e Element, pos r3.Vec) (*Atom, error) {
	if !e.Valid() {
		err := &InvalidElementError{Value: int(e)}
		err.Decorate("AddAtomAt")
		return nil, err
	}
	at := newAtom(M.nextAtom, e, pos)
	M.nextAtom++
	M.index[at.id] = len(M.atoms)
	M.atoms = append(M.atoms, at)
	M.log.Debugf("added atom %v at %v", at, pos)
	return at, nil
}

//AddBond creates a bond between atoms a and b and returns it. The bond's
//geometry is computed right away, a zero-length bond is still created
//and simply stays degenerate until its atoms separate. AddBond does not
//check for an existing bond between the same atoms; use FindBond first
//if a second bond is not wanted.
func (M *Molecule) AddBond(a, b int) (*Bond, error) {
	left, right := M.Atom(a), M.Atom(b)
	if left == nil {
		err := &UnknownAtomError{ID: a}
		err.Decorate("AddBond")
		return nil, err
	}
	if right == nil {
		err := &UnknownAtomError{ID: b}
		err.Decorate("AddBond")
		return nil, err
	}
	if a == b {
		err := &DegenerateBondError{Left: a, Right: b}
		err.Decorate("AddBond")
		return nil, err
	}
	B := newBond(M.nextBond, a, b, M.thickness, M.spawn)
	M.nextBond++
	if err := B.Update(left.Pos(), right.Pos()); err != nil {
		M.log.Debugf("new bond %d: %v", B.id, err)
	}
	M.bonds = append(M.bonds, B)
	M.log.Debugf("added bond %d between %v and %v", B.id, left, right)
	return B, nil
}

//FindBond returns the first bond joining a and b, in any order,
//or nil if there is none.
func (M *Molecule) FindBond(a, b int) *Bond {
	if i := M.findBond(a, b); i >= 0 {
		return M.bonds[i]
	}
	return nil
}

func (M *Molecule) findBond(a, b int) int {
	for i, B := range M.bonds {
		if B.Joins(a, b) {
			return i
		}
	}
	return -1
}

//RemoveBond removes the first bond joining a and b, in any order, and
//reports whether there was one. The renderer is told to detach the bond.
func (M *Molecule) RemoveBond(a, b int) bool {
	i := M.findBond(a, b)
	if i < 0 {
		return false
	}
	B := M.bonds[i]
	M.bonds = slices.Delete(M.bonds, i, i+1)
	M.rend.Detach(EntityRef{Kind: KindBond, ID: B.id})
	M.log.Debugf("removed bond %d between %d and %d", B.id, a, b)
	return true
}

//BondsOf returns the bonds that have the atom id at one end.
func (M *Molecule) BondsOf(id int) []*Bond {
	var ret []*Bond
	for _, B := range M.bonds {
		if B.left == id || B.right == id {
			ret = append(ret, B)
		}
	}
	return ret
}

//UpdateAll updates every atom and then every bond, so bonds see the
//final positions of the atoms for this frame. All atom moves for a frame
//must be applied before calling it. A degenerate bond doesn't stop the
//pass, the errors for all of them are joined and returned.
func (M *Molecule) UpdateAll() error {
	for _, A := range M.atoms {
		A.Update()
	}
	var errs []error
	for _, B := range M.bonds {
		left, right := M.Atom(B.left), M.Atom(B.right)
		if left == nil || right == nil {
			//can't happen while atoms are never removed.
			id := B.left
			if left != nil {
				id = B.right
			}
			errs = append(errs, &UnknownAtomError{ID: id, deco: []string{"UpdateAll"}})
			continue
		}
		if err := B.Update(left.Pos(), right.Pos()); err != nil {
			errs = append(errs, errDecorate(err, "UpdateAll"))
		}
	}
	return errors.Join(errs...)
}

//growOffsets are the angles, in degrees, at which successive atoms are
//grown from an atom that already has bonds, measured from the direction
//that points from its first neighbor to it. The first two give a
//trigonal center.
var growOffsets = []float64{60, -60, 0, 120, -120, 180}

//Grow adds an atom of element e DefaultSpacing away from the atom
//attachTo, bonds the two, and returns the new atom and bond. An atom without
//bonds grows along +X. Otherwise the new atom goes in the X-Z plane at the
//next angle in growOffsets, away from the first neighbor of attachTo.
func (M *Molecule) Grow(e Element, attachTo int) (*Atom, *Bond, error) {
	base := M.Atom(attachTo)
	if base == nil {
		err := &UnknownAtomError{ID: attachTo}
		err.Decorate("Grow")
		return nil, nil, err
	}
	var angle float64
	if bonds := M.BondsOf(attachTo); len(bonds) > 0 {
		other, _ := bonds[0].Cross(attachTo)
		d := r3.Sub(base.Pos(), M.Atom(other).Pos())
		k := len(bonds) - 1
		//after a full round, shift by 30 degrees to avoid exact overlaps.
		shift := 30 * float64((k/len(growOffsets))%2)
		angle = math.Atan2(d.Z, d.X) + Deg2Rad(growOffsets[k%len(growOffsets)]+shift)
	}
	offset := r3.Vec{X: DefaultSpacing * math.Cos(angle), Z: DefaultSpacing * math.Sin(angle)}
	at, err := M.AddAtomAt(e, r3.Add(base.Pos(), offset))
	if err != nil {
		return nil, nil, errDecorate(err, "Grow")
	}
	B, err := M.AddBond(attachTo, at.ID())
	if err != nil {
		return nil, nil, errDecorate(err, "Grow")
	}
	return at, B, nil
}

//Coords returns the positions of all atoms, in creation order, as the rows
//of a new matrix.
func (M *Molecule) Coords() *v3.Matrix {
	coords := v3.Zeros(len(M.atoms))
	for i, A := range M.atoms {
		coords.SetVec(i, A.Pos())
	}
	return coords
}

//Masses returns the masses of all atoms, in creation order.
func (M *Molecule) Masses() []float64 {
	ret := make([]float64, len(M.atoms))
	for i, A := range M.atoms {
		ret[i] = A.element.Mass()
	}
	return ret
}

//Center moves the whole molecule so its center of mass sits on the spawn
//position, then updates it. Empty molecules are left alone.
func (M *Molecule) Center() error {
	if len(M.atoms) == 0 {
		return nil
	}
	coords := M.Coords()
	com, err := MassCenter(coords, M.Masses())
	if err != nil {
		return errDecorate(err, "Center")
	}
	coords.SubVec(coords, com)
	coords.AddVec(coords, M.spawn)
	for i, A := range M.atoms {
		A.xf.Pos = coords.Vec(i)
	}
	return M.UpdateAll()
}

//Frame returns a snapshot of everything a renderer needs from the
//molecule. The snapshot shares nothing with the molecule.
func (M *Molecule) Frame() *Frame {
	F := &Frame{
		Atoms: make([]AtomView, 0, len(M.atoms)),
		Bonds: make([]BondView, 0, len(M.bonds)),
	}
	for _, A := range M.atoms {
		F.Atoms = append(F.Atoms, AtomView{
			ID:      A.id,
			Element: A.element,
			Pos:     A.xf.Pos,
			Color:   A.color,
			Radius:  A.Radius(),
		})
	}
	for _, B := range M.bonds {
		F.Bonds = append(F.Bonds, BondView{
			ID:         B.id,
			Left:       B.left,
			Right:      B.right,
			Pos:        B.xf.Pos,
			Roll:       B.xf.HPR.Z,
			Scale:      B.xf.Scale,
			Degenerate: B.degenerate,
		})
	}
	return F
}
