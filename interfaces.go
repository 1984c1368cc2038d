/*
 * interfaces.go, part of molsketch.
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

	"gonum.org/v1/gonum/spatial/r2"
)

//Picker resolves a pointer position, in normalized device coordinates,
//into the id of the atom under it. ok is false on a miss.
type Picker interface {
	Pick(ndc r2.Vec) (id int, ok bool)
}

//Renderer is the outbound side of the core. Draw receives a snapshot that
//the renderer may keep; the core never mutates a Frame after handing it out.
//Detach is called when an entity leaves the model, so the host can drop
//whatever scene node it built for it.
type Renderer interface {
	Draw(f *Frame) error
	Highlight(atomID int, on bool)
	Detach(ref EntityRef)
}

//Logger is injected into the core by the host. The core never prints on
//its own.
type Logger interface {
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
}

//NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debugf(format string, v ...any) {}
func (NopLogger) Infof(format string, v ...any)  {}
func (NopLogger) Warnf(format string, v ...any)  {}
func (NopLogger) Errorf(format string, v ...any) {}

//Errors

//Error is the interface for errors that all packages in this library implement.
//Decorate adds the name of a function in the calling stack to the error, and
//returns all the names added so far. An empty string adds nothing.
type Error interface {
	Error() string
	Decorate(string) []string
}

//TrajError is the interface for errors in trajectory readers and writers.
type TrajError interface {
	Error
	Critical() bool
	FileName() string
	Format() string
}

//LastFrameError marks the harmless end of a trajectory, so readers can
//tell it apart from other TrajErrors with errors.As.
type LastFrameError interface {
	TrajError
	NormalLastFrameTermination() //does nothing
}

//UnknownAtomError is returned when an operation refers to an atom id that
//the molecule does not contain.
type UnknownAtomError struct {
	ID   int
	deco []string
}

func (E *UnknownAtomError) Error() string {
	return fmt.Sprintf("unknown atom id %d", E.ID)
}

func (E *UnknownAtomError) Decorate(dec string) []string {
	if dec != "" {
		E.deco = append(E.deco, dec)
	}
	return E.deco
}

//InvalidElementError is returned for element symbols or values outside the
//element table. Value is -1 when the element was given as a symbol.
type InvalidElementError struct {
	Symbol string
	Value  int
	deco   []string
}

func (E *InvalidElementError) Error() string {
	if E.Value >= 0 || E.Symbol == "" {
		return fmt.Sprintf("invalid element value %d", E.Value)
	}
	return fmt.Sprintf("invalid element symbol %q", E.Symbol)
}

func (E *InvalidElementError) Decorate(dec string) []string {
	if dec != "" {
		E.deco = append(E.deco, dec)
	}
	return E.deco
}

//DegenerateBondError means a bond has zero length, either because both
//of its atoms sit on the same point or because both ends are the same atom.
//The bond keeps its previous geometry.
type DegenerateBondError struct {
	Left, Right int
	deco        []string
}

func (E *DegenerateBondError) Error() string {
	return fmt.Sprintf("degenerate bond between atoms %d and %d", E.Left, E.Right)
}

func (E *DegenerateBondError) Decorate(dec string) []string {
	if dec != "" {
		E.deco = append(E.deco, dec)
	}
	return E.deco
}

//errDecorate adds the caller's name to err if err is one of our errors,
//and returns err unchanged otherwise.
func errDecorate(err error, caller string) error {
	if err2, ok := err.(Error); ok {
		err2.Decorate(caller)
	}
	return err
}
