/*
 * atomicdata.go, part of molsketch.
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
	"image/color"
	"strings"
)

//Element is a chemical element the editor knows how to draw.
type Element int

const (
	H Element = iota
	C
	N
	O
	F
	P
	S
	Cl
	Br
	I
	nElements
)

type elementInfo struct {
	symbol string
	color  color.NRGBA
	radius float64 //display radius, not a physical one
	mass   float64
}

//The visual attributes of each element. Masses are the same
//ones goChem uses for its common "bio-elements".
var elementData = map[Element]elementInfo{
	H:  {"H", color.NRGBA{R: 255, G: 255, B: 255, A: 255}, 0.75, 1.0},
	C:  {"C", color.NRGBA{R: 0, G: 0, B: 0, A: 255}, 1.0, 12.01},
	N:  {"N", color.NRGBA{R: 0, G: 0, B: 255, A: 255}, 1.0, 14.01},
	O:  {"O", color.NRGBA{R: 255, G: 0, B: 0, A: 255}, 1.0, 16.00},
	F:  {"F", color.NRGBA{R: 255, G: 165, B: 0, A: 255}, 0.75, 18.998},
	P:  {"P", color.NRGBA{R: 255, G: 128, B: 0, A: 255}, 1.0, 30.97},
	S:  {"S", color.NRGBA{R: 255, G: 255, B: 0, A: 255}, 1.0, 32.06},
	Cl: {"Cl", color.NRGBA{R: 0, G: 255, B: 0, A: 255}, 1.0, 35.45},
	Br: {"Br", color.NRGBA{R: 166, G: 41, B: 41, A: 255}, 1.0, 79.904},
	I:  {"I", color.NRGBA{R: 148, G: 0, B: 211, A: 255}, 1.0, 126.90},
}

var symbolElement = func() map[string]Element {
	m := make(map[string]Element, len(elementData))
	for e, d := range elementData {
		m[d.symbol] = e
	}
	return m
}()

//Valid reports whether E is one of the elements in the table.
func (E Element) Valid() bool {
	_, ok := elementData[E]
	return ok
}

//String returns the element symbol.
func (E Element) String() string {
	if d, ok := elementData[E]; ok {
		return d.symbol
	}
	return fmt.Sprintf("Element(%d)", int(E))
}

//Color returns the display color of the element. Unknown elements are
//drawn magenta so they stand out.
func (E Element) Color() color.NRGBA {
	if d, ok := elementData[E]; ok {
		return d.color
	}
	return color.NRGBA{R: 255, B: 255, A: 255}
}

//Radius returns the display radius of the element, 0 if unknown.
func (E Element) Radius() float64 {
	return elementData[E].radius
}

//Mass returns the atomic mass of the element, 0 if unknown.
func (E Element) Mass() float64 {
	return elementData[E].mass
}

//Elements returns every supported element in table order.
func Elements() []Element {
	ret := make([]Element, 0, nElements)
	for e := H; e < nElements; e++ {
		ret = append(ret, e)
	}
	return ret
}

//ParseElement returns the element for the given symbol. Surrounding blanks
//are ignored and the case is normalized, so "cl" and " CL" both give Cl.
func ParseElement(symbol string) (Element, error) {
	s := strings.TrimSpace(symbol)
	if len(s) > 0 {
		s = strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
	}
	if e, ok := symbolElement[s]; ok {
		return e, nil
	}
	return 0, &InvalidElementError{Symbol: symbol, Value: -1}
}
