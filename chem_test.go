/*
 * chem_test.go, part of molsketch.
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
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

type recordingRenderer struct {
	frames   int
	detached []EntityRef
}

func (R *recordingRenderer) Draw(*Frame) error {
	R.frames++
	return nil
}

func (R *recordingRenderer) Highlight(int, bool) {}

func (R *recordingRenderer) Detach(ref EntityRef) {
	R.detached = append(R.detached, ref)
}

func twoAtoms(Te *testing.T, a, b r3.Vec) (*Molecule, *Atom, *Atom) {
	Te.Helper()
	mol := NewMolecule(DefaultSpawn)
	A, err := mol.AddAtomAt(C, a)
	if err != nil {
		Te.Fatal(err)
	}
	B, err := mol.AddAtomAt(O, b)
	if err != nil {
		Te.Fatal(err)
	}
	return mol, A, B
}

func TestAtomIDs(Te *testing.T) {
	mol := NewMolecule(DefaultSpawn)
	for i := 0; i < 10; i++ {
		at, err := mol.AddAtom(Elements()[i%len(Elements())])
		if err != nil {
			Te.Fatal(err)
		}
		if at.ID() != i {
			Te.Errorf("atom %d got id %d", i, at.ID())
		}
		if at.Pos() != DefaultSpawn {
			Te.Errorf("atom %d spawned at %v", i, at.Pos())
		}
	}
	for i, at := range mol.Atoms() {
		if at.ID() != i {
			Te.Errorf("creation order broken at %d: id %d", i, at.ID())
		}
	}
}

func TestInvalidElement(Te *testing.T) {
	mol := NewMolecule(DefaultSpawn)
	_, err := mol.AddAtom(Element(42))
	var ierr *InvalidElementError
	if !errors.As(err, &ierr) {
		Te.Fatalf("expected InvalidElementError, got %v", err)
	}
	if len(ierr.Decorate("")) == 0 {
		Te.Error("error was not decorated")
	}
	if _, err := mol.AddAtomSymbol("Xx"); !errors.As(err, &ierr) {
		Te.Errorf("expected InvalidElementError for a symbol, got %v", err)
	}
	if mol.Len() != 0 {
		Te.Errorf("failed additions left %d atoms", mol.Len())
	}
	//the counter must not move on failure.
	at, _ := mol.AddAtomSymbol("cl")
	if at.ID() != 0 || at.Element() != Cl {
		Te.Errorf("got %v", at)
	}
}

func TestElementTable(Te *testing.T) {
	for _, e := range Elements() {
		if !e.Valid() || e.Radius() <= 0 || e.Mass() <= 0 {
			Te.Errorf("incomplete table entry for %v", e)
		}
		back, err := ParseElement(e.String())
		if err != nil || back != e {
			Te.Errorf("symbol %s doesn't parse back: %v %v", e, back, err)
		}
	}
	if H.Radius() != 0.75 || C.Radius() != 1.0 || F.Radius() != 0.75 {
		Te.Error("wrong radii")
	}
	if O.Color().R != 255 || O.Color().G != 0 {
		Te.Errorf("oxygen should be red, got %v", O.Color())
	}
}

func TestBondGeometry(Te *testing.T) {
	a := r3.Vec{X: 1, Y: 30, Z: -2}
	b := r3.Vec{X: -3.5, Y: 28, Z: 4}
	mol, A, B := twoAtoms(Te, a, b)
	bond, err := mol.AddBond(A.ID(), B.ID())
	if err != nil {
		Te.Fatal(err)
	}
	if err := mol.UpdateAll(); err != nil {
		Te.Fatal(err)
	}
	mid := r3.Scale(0.5, r3.Add(a, b))
	if bond.Pos() != mid {
		Te.Errorf("midpoint %v, expected %v", bond.Pos(), mid)
	}
	dist := r3.Norm(r3.Sub(a, b))
	if bond.Transform().Scale.Z != dist/2 {
		Te.Errorf("axial scale %v, expected %v", bond.Transform().Scale.Z, dist/2)
	}
	if s := bond.Transform().Scale; s.X != DefaultBondThickness || s.Y != DefaultBondThickness {
		Te.Errorf("thickness changed: %v", s)
	}
	roll := Rad2Deg(math.Atan2(a.X-b.X, a.Z-b.Z))
	if bond.Roll() != roll {
		Te.Errorf("roll %v, expected %v", bond.Roll(), roll)
	}
}

func TestBondRollAxes(Te *testing.T) {
	cases := []struct {
		diff r3.Vec
		roll float64
	}{
		{r3.Vec{Z: 1}, 0},
		{r3.Vec{X: 1}, 90},
		{r3.Vec{Z: -1}, 180},
		{r3.Vec{X: -1}, -90},
	}
	for _, c := range cases {
		B := newBond(0, 0, 1, DefaultBondThickness, r3.Vec{})
		if err := B.Update(c.diff, r3.Vec{}); err != nil {
			Te.Fatal(err)
		}
		if math.Abs(B.Roll()-c.roll) > 1e-12 {
			Te.Errorf("diff %v: roll %v, expected %v", c.diff, B.Roll(), c.roll)
		}
	}
}

func TestUpdateIdempotent(Te *testing.T) {
	mol, A, B := twoAtoms(Te, r3.Vec{X: 2, Y: 30}, r3.Vec{Z: 3, Y: 31})
	bond, _ := mol.AddBond(A.ID(), B.ID())
	mol.UpdateAll()
	first := bond.Transform()
	mol.UpdateAll()
	if bond.Transform() != first {
		Te.Errorf("second update changed the bond: %v vs %v", first, bond.Transform())
	}
}

func TestBondTracksAtoms(Te *testing.T) {
	mol, A, B := twoAtoms(Te, r3.Vec{Y: 30}, r3.Vec{X: 4, Y: 30})
	bond, _ := mol.AddBond(A.ID(), B.ID())
	A.MoveBy(r3.Vec{Z: 2})
	if err := mol.UpdateAll(); err != nil {
		Te.Fatal(err)
	}
	want := r3.Scale(0.5, r3.Add(A.Pos(), B.Pos()))
	if bond.Pos() != want {
		Te.Errorf("bond didn't follow its atom: %v, expected %v", bond.Pos(), want)
	}
}

func TestFindRemoveBond(Te *testing.T) {
	mol, A, B := twoAtoms(Te, r3.Vec{Y: 30}, r3.Vec{X: 4, Y: 30})
	rec := &recordingRenderer{}
	mol.SetRenderer(rec)
	if mol.FindBond(A.ID(), B.ID()) != nil {
		Te.Error("found a bond before adding it")
	}
	bond, _ := mol.AddBond(A.ID(), B.ID())
	if mol.FindBond(B.ID(), A.ID()) != bond {
		Te.Error("unordered lookup failed")
	}
	if !mol.RemoveBond(B.ID(), A.ID()) {
		Te.Error("RemoveBond didn't remove anything")
	}
	if mol.FindBond(A.ID(), B.ID()) != nil {
		Te.Error("bond still there after removal")
	}
	if len(rec.detached) != 1 || rec.detached[0] != (EntityRef{Kind: KindBond, ID: bond.ID()}) {
		Te.Errorf("renderer not told to detach: %v", rec.detached)
	}
	if mol.RemoveBond(A.ID(), B.ID()) {
		Te.Error("removed a bond that doesn't exist")
	}
	if mol.NBonds() != 0 || len(rec.detached) != 1 {
		Te.Error("removing a missing bond mutated something")
	}
}

func TestDuplicateBonds(Te *testing.T) {
	mol, A, B := twoAtoms(Te, r3.Vec{Y: 30}, r3.Vec{X: 4, Y: 30})
	first, _ := mol.AddBond(A.ID(), B.ID())
	second, _ := mol.AddBond(B.ID(), A.ID())
	if mol.NBonds() != 2 || first.ID() == second.ID() {
		Te.Fatalf("expected two distinct bonds, got %d", mol.NBonds())
	}
	if mol.FindBond(A.ID(), B.ID()) != first {
		Te.Error("FindBond should return the first match")
	}
	mol.RemoveBond(A.ID(), B.ID())
	if mol.FindBond(A.ID(), B.ID()) != second {
		Te.Error("RemoveBond should remove the first match only")
	}
}

func TestAddBondErrors(Te *testing.T) {
	mol, A, _ := twoAtoms(Te, r3.Vec{Y: 30}, r3.Vec{X: 4, Y: 30})
	_, err := mol.AddBond(A.ID(), 99)
	var uerr *UnknownAtomError
	if !errors.As(err, &uerr) || uerr.ID != 99 {
		Te.Errorf("expected UnknownAtomError for 99, got %v", err)
	}
	_, err = mol.AddBond(A.ID(), A.ID())
	var derr *DegenerateBondError
	if !errors.As(err, &derr) {
		Te.Errorf("expected DegenerateBondError for a self bond, got %v", err)
	}
	if mol.NBonds() != 0 {
		Te.Error("failed AddBond left a bond behind")
	}
}

func TestDegenerateBond(Te *testing.T) {
	mol, A, B := twoAtoms(Te, r3.Vec{Y: 30}, r3.Vec{X: 2, Y: 30})
	bond, err := mol.AddBond(A.ID(), B.ID())
	if err != nil {
		Te.Fatal(err)
	}
	valid := bond.Transform()
	B.MoveBy(r3.Vec{X: -2})
	err = mol.UpdateAll()
	var derr *DegenerateBondError
	if !errors.As(err, &derr) {
		Te.Fatalf("expected DegenerateBondError, got %v", err)
	}
	if !bond.Degenerate() {
		Te.Error("bond not flagged as degenerate")
	}
	if bond.Transform() != valid {
		Te.Errorf("degenerate update touched the geometry: %v vs %v", bond.Transform(), valid)
	}
	xf := bond.Transform()
	for _, v := range []float64{xf.Pos.X, xf.Pos.Y, xf.Pos.Z, xf.Scale.Z, xf.HPR.Z} {
		if math.IsNaN(v) {
			Te.Fatal("NaN in degenerate bond geometry")
		}
	}
	B.MoveBy(r3.Vec{Z: 1})
	if err := mol.UpdateAll(); err != nil || bond.Degenerate() {
		Te.Errorf("bond didn't recover: %v", err)
	}
}

func TestDegenerateOnCreation(Te *testing.T) {
	mol, A, B := twoAtoms(Te, DefaultSpawn, DefaultSpawn)
	bond, err := mol.AddBond(A.ID(), B.ID())
	if err != nil {
		Te.Fatal(err)
	}
	if !bond.Degenerate() || bond.Roll() != creationRoll {
		Te.Errorf("coincident atoms should leave the creation geometry: %v", bond.Transform())
	}
}

func TestGrow(Te *testing.T) {
	mol := NewMolecule(DefaultSpawn)
	c1, _ := mol.AddAtom(C)
	h, bond, err := mol.Grow(H, c1.ID())
	if err != nil {
		Te.Fatal(err)
	}
	if h.Pos() != r3.Add(DefaultSpawn, r3.Vec{X: DefaultSpacing}) {
		Te.Errorf("first grown atom at %v", h.Pos())
	}
	if !bond.Joins(c1.ID(), h.ID()) || bond.Degenerate() {
		Te.Error("grown atom not bonded")
	}
	h2, _, _ := mol.Grow(H, c1.ID())
	if d := r3.Norm(r3.Sub(h2.Pos(), c1.Pos())); math.Abs(d-DefaultSpacing) > 1e-12 {
		Te.Errorf("second grown atom %v away", d)
	}
	if r3.Norm(r3.Sub(h2.Pos(), h.Pos())) < 1 {
		Te.Error("second grown atom on top of the first")
	}
	u1 := r3.Unit(r3.Sub(h.Pos(), c1.Pos()))
	u2 := r3.Unit(r3.Sub(h2.Pos(), c1.Pos()))
	if cos := r3.Dot(u1, u2); math.Abs(cos+0.5) > 1e-9 {
		Te.Errorf("grown atoms not 120 degrees apart, cos %v", cos)
	}
	if h2.Pos().Y != c1.Pos().Y {
		Te.Error("Grow left the X-Z plane")
	}
	if _, _, err := mol.Grow(H, 77); err == nil {
		Te.Error("grew from a missing atom")
	}
}

func TestCenter(Te *testing.T) {
	mol, A, B := twoAtoms(Te, r3.Vec{X: 10, Y: 0, Z: 0}, r3.Vec{X: 10, Y: 0, Z: 4})
	if err := mol.Center(); err != nil {
		Te.Fatal(err)
	}
	if d := r3.Norm(r3.Sub(A.Pos(), B.Pos())); math.Abs(d-4) > 1e-9 {
		Te.Errorf("centering changed the distance between the atoms to %v", d)
	}
	com, err := MassCenter(mol.Coords(), mol.Masses())
	if err != nil {
		Te.Fatal(err)
	}
	if r3.Norm(r3.Sub(com, mol.Spawn())) > 1e-9 {
		Te.Errorf("center of mass at %v after centering", com)
	}
	fmt.Println(mol.Coords())
	if err := NewMolecule(DefaultSpawn).Center(); err != nil {
		Te.Error("centering an empty molecule failed")
	}
}

func TestFrameIsSnapshot(Te *testing.T) {
	mol, A, B := twoAtoms(Te, r3.Vec{Y: 30}, r3.Vec{X: 4, Y: 30})
	mol.AddBond(A.ID(), B.ID())
	f := mol.Frame()
	A.MoveBy(r3.Vec{X: 1})
	mol.UpdateAll()
	if f.Atoms[0].Pos.X != 0 || f.Bonds[0].Pos.X != 2 {
		Te.Error("frame changed after the molecule moved")
	}
	if v, ok := f.Atom(B.ID()); !ok || v.Element != O || v.Radius != 1 {
		Te.Errorf("wrong atom view %v", v)
	}
}

func TestMultiRenderer(Te *testing.T) {
	r1, r2 := &recordingRenderer{}, &recordingRenderer{}
	M := MultiRenderer{r1, r2, NopRenderer{}}
	M.Draw(&Frame{})
	M.Detach(EntityRef{Kind: KindBond, ID: 3})
	if r1.frames != 1 || r2.frames != 1 || len(r2.detached) != 1 {
		Te.Error("calls not fanned out")
	}
}
