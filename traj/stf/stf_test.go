/*
 * stf_test.go, part of molsketch.
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

package stf

import (
	"bytes"
	"errors"
	"io"
	"math"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	sketch "github.com/rmera/molsketch"
	v3 "github.com/rmera/molsketch/v3"
	"gonum.org/v1/gonum/spatial/r3"
)

func sameCoords(Te *testing.T, got, want *v3.Matrix, tol float64) {
	Te.Helper()
	if got.NVecs() != want.NVecs() {
		Te.Fatalf("%d atoms read, %d written", got.NVecs(), want.NVecs())
	}
	for i := 0; i < want.NVecs(); i++ {
		if d := r3.Norm(r3.Sub(got.Vec(i), want.Vec(i))); d > tol {
			Te.Errorf("atom %d: read %v, wrote %v", i, got.Vec(i), want.Vec(i))
		}
	}
}

//TestStfStream writes a session whose atom count grows, and reads it back.
func TestStfStream(Te *testing.T) {
	var buf bytes.Buffer
	W, err := NewWriter(&buf, map[string]string{"title": "growing"})
	if err != nil {
		Te.Fatal(err)
	}
	frames := []*v3.Matrix{v3.Zeros(0), v3.Zeros(1), v3.Zeros(1), v3.Zeros(3)}
	for i, f := range frames {
		for j := 0; j < f.NVecs(); j++ {
			f.SetVec(j, r3.Vec{X: 1.234 * float64(i), Y: 30, Z: -0.567 * float64(j)})
		}
		if err := W.WNext(f); err != nil {
			Te.Fatal(err)
		}
	}
	if err := W.Close(); err != nil {
		Te.Fatal(err)
	}
	R, header, err := NewReader(&buf)
	if err != nil {
		Te.Fatal(err)
	}
	if header["title"] != "growing" || header["prec"] != "2" {
		Te.Errorf("header: %v", header)
	}
	for i, want := range frames {
		got, err := R.Next()
		if err != nil {
			Te.Fatalf("frame %d: %v", i, err)
		}
		sameCoords(Te, got, want, 0.005+1e-9)
	}
	_, err = R.Next()
	var last sketch.LastFrameError
	if !errors.As(err, &last) || !errors.Is(err, io.EOF) {
		Te.Fatalf("expected the end of the trajectory, got %v", err)
	}
	if last.Critical() || last.Format() != "stf" || last.FileName() != "<stream>" {
		Te.Errorf("end of trajectory reported as %v %q %q", last.Critical(), last.Format(), last.FileName())
	}
	if R.Readable() {
		Te.Error("reader still readable after the last frame")
	}
}

func TestStfPrecision(Te *testing.T) {
	if _, err := NewWriter(io.Discard, map[string]string{"prec": "zero"}); err == nil {
		Te.Error("bad precision accepted")
	}
	path := filepath.Join(Te.TempDir(), "prec.stf")
	W, err := Create(path, map[string]string{"prec": "4"})
	if err != nil {
		Te.Fatal(err)
	}
	want := v3.Zeros(1)
	want.SetVec(0, r3.Vec{X: math.Pi, Y: -math.E, Z: 30})
	if err := W.WNext(want); err != nil {
		Te.Fatal(err)
	}
	W.Close()
	if err := W.WNext(want); err == nil {
		Te.Error("wrote to a closed trajectory")
	}
	R, _, err := Open(path)
	if err != nil {
		Te.Fatal(err)
	}
	defer R.Close()
	got, err := R.Next()
	if err != nil {
		Te.Fatal(err)
	}
	sameCoords(Te, got, want, 0.00005+1e-9)
}

func TestStfRenderer(Te *testing.T) {
	var buf bytes.Buffer
	W, err := NewWriter(&buf, nil)
	if err != nil {
		Te.Fatal(err)
	}
	mol := sketch.NewMolecule(sketch.DefaultSpawn)
	a, _ := mol.AddAtom(sketch.C)
	var r sketch.Renderer = W
	for i := 0; i < 3; i++ {
		a.MoveBy(r3.Vec{X: 1})
		if err := r.Draw(mol.Frame()); err != nil {
			Te.Fatal(err)
		}
	}
	W.Close()
	if W.Frames() != 3 {
		Te.Errorf("expected 3 frames, got %d", W.Frames())
	}
	R, _, err := NewReader(&buf)
	if err != nil {
		Te.Fatal(err)
	}
	var n int
	for {
		c, err := R.Next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				Te.Fatal(err)
			}
			break
		}
		n++
		if x := c.Vec(0).X; x != float64(n) {
			Te.Errorf("frame %d: x=%v", n, x)
		}
	}
	if n != 3 {
		Te.Errorf("read %d frames", n)
	}
}

func TestStfEmpty(Te *testing.T) {
	var buf bytes.Buffer
	W, _ := NewWriter(&buf, nil)
	W.Close()
	R, _, err := NewReader(&buf)
	if err != nil {
		Te.Fatal(err)
	}
	if R.Len() != 0 {
		Te.Errorf("empty trajectory has %d atoms", R.Len())
	}
	if _, err := R.Next(); !errors.Is(err, io.EOF) {
		Te.Errorf("expected EOF, got %v", err)
	}
}

//TestStfErrors checks that errors keep the names of every function they
//went through.
func TestStfErrors(Te *testing.T) {
	path := filepath.Join(Te.TempDir(), "bad.stf")
	_, err := Create(path, map[string]string{"prec": "zero"})
	var terr sketch.TrajError
	if !errors.As(err, &terr) {
		Te.Fatalf("expected a trajectory error, got %v", err)
	}
	if !terr.Critical() || terr.FileName() != path || terr.Format() != "stf" {
		Te.Errorf("wrong error details: %v %q %q", terr.Critical(), terr.FileName(), terr.Format())
	}
	if deco := terr.Decorate(""); !slices.Equal(deco, []string{"NewWriter", "Create"}) {
		Te.Errorf("decorations: %v", deco)
	}
	var last sketch.LastFrameError
	if errors.As(err, &last) {
		Te.Error("a failed Create looks like the end of a trajectory")
	}
	_, _, err = NewReader(strings.NewReader("not a header\n"))
	if !errors.As(err, &terr) {
		Te.Fatalf("expected a trajectory error, got %v", err)
	}
	if deco := terr.Decorate(""); !slices.Equal(deco, []string{"init", "NewReader"}) {
		Te.Errorf("decorations: %v", deco)
	}
}
