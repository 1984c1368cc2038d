/*
 * json.go, part of molsketch.
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

/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

package chemjson

import (
	"bufio"
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"strings"

	sketch "github.com/rmera/molsketch"
	"gonum.org/v1/gonum/spatial/r3"
)

//Message types.
const (
	TypeFrame     = "frame"
	TypeHighlight = "highlight"
	TypeDetach    = "detach"
	TypeError     = "error"

	TypeDown   = "down"
	TypeMove   = "move"
	TypeUp     = "up"
	TypeAdd    = "add"
	TypeCenter = "center"
)

//A ready-to-serialize container for an atom.
type Atom struct {
	ID      int        `json:"id"`
	Element string     `json:"element"`
	Pos     [3]float64 `json:"pos"`
	Color   string     `json:"color"`
	Radius  float64    `json:"radius"`
}

//A ready-to-serialize container for a bond.
type Bond struct {
	ID         int        `json:"id"`
	Left       int        `json:"left"`
	Right      int        `json:"right"`
	Pos        [3]float64 `json:"pos"`
	Roll       float64    `json:"roll"`
	Scale      [3]float64 `json:"scale"`
	Degenerate bool       `json:"degenerate,omitempty"`
}

//Frame is the wire form of a sketch.Frame. Seq increases with each frame
//sent, so clients can drop stale ones.
type Frame struct {
	Type  string `json:"type"`
	Seq   uint64 `json:"seq"`
	Atoms []Atom `json:"atoms"`
	Bonds []Bond `json:"bonds"`
}

//Highlight tells the client to turn the highlight of an atom on or off.
type Highlight struct {
	Type string `json:"type"`
	ID   int    `json:"id"`
	On   bool   `json:"on"`
}

//Detach tells the client to drop the node of an entity.
type Detach struct {
	Type string `json:"type"`
	Kind string `json:"kind"`
	ID   int    `json:"id"`
}

//Input is a message from the client. X and Y are normalized device
//coordinates for down and move. Element is the symbol for add.
type Input struct {
	Type    string  `json:"type"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	Element string  `json:"element,omitempty"`
}

func vec(v r3.Vec) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func unvec(v [3]float64) r3.Vec {
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

func hexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func parseHexColor(s string) (color.NRGBA, error) {
	c := color.NRGBA{A: 255}
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return c, fmt.Errorf("bad color %q: %w", s, err)
	}
	return c, nil
}

//NewFrame converts f into its wire form.
func NewFrame(f *sketch.Frame, seq uint64) *Frame {
	J := &Frame{
		Type:  TypeFrame,
		Seq:   seq,
		Atoms: make([]Atom, 0, len(f.Atoms)),
		Bonds: make([]Bond, 0, len(f.Bonds)),
	}
	for _, a := range f.Atoms {
		J.Atoms = append(J.Atoms, Atom{
			ID:      a.ID,
			Element: a.Element.String(),
			Pos:     vec(a.Pos),
			Color:   hexColor(a.Color),
			Radius:  a.Radius,
		})
	}
	for _, b := range f.Bonds {
		J.Bonds = append(J.Bonds, Bond{
			ID:         b.ID,
			Left:       b.Left,
			Right:      b.Right,
			Pos:        vec(b.Pos),
			Roll:       b.Roll,
			Scale:      vec(b.Scale),
			Degenerate: b.Degenerate,
		})
	}
	return J
}

//Sketch converts the wire frame back into a sketch.Frame.
func (J *Frame) Sketch() (*sketch.Frame, *Error) {
	F := &sketch.Frame{
		Atoms: make([]sketch.AtomView, 0, len(J.Atoms)),
		Bonds: make([]sketch.BondView, 0, len(J.Bonds)),
	}
	for _, a := range J.Atoms {
		e, err := sketch.ParseElement(a.Element)
		if err != nil {
			jerr := NewError("decode", "Frame.Sketch", err)
			jerr.Atom = a.ID
			return nil, jerr
		}
		c, err := parseHexColor(a.Color)
		if err != nil {
			jerr := NewError("decode", "Frame.Sketch", err)
			jerr.Atom = a.ID
			return nil, jerr
		}
		F.Atoms = append(F.Atoms, sketch.AtomView{ID: a.ID, Element: e, Pos: unvec(a.Pos), Color: c, Radius: a.Radius})
	}
	for _, b := range J.Bonds {
		F.Bonds = append(F.Bonds, sketch.BondView{
			ID:         b.ID,
			Left:       b.Left,
			Right:      b.Right,
			Pos:        unvec(b.Pos),
			Roll:       b.Roll,
			Scale:      unvec(b.Scale),
			Degenerate: b.Degenerate,
		})
	}
	return F, nil
}

//Send marshals the frame and writes it to out as one line.
func (J *Frame) Send(out io.Writer) *Error {
	enc := json.NewEncoder(out)
	if err := enc.Encode(J); err != nil {
		return NewError("encode", "Frame.Send", err)
	}
	return nil
}

//EncodeFrame returns the JSON for f.
func EncodeFrame(f *sketch.Frame, seq uint64) ([]byte, error) {
	ret, err := json.Marshal(NewFrame(f, seq))
	if err != nil {
		return nil, NewError("encode", "EncodeFrame", err)
	}
	return ret, nil
}

//EncodeHighlight returns the JSON for a highlight change.
func EncodeHighlight(id int, on bool) []byte {
	ret, _ := json.Marshal(Highlight{Type: TypeHighlight, ID: id, On: on})
	return ret
}

//EncodeDetach returns the JSON telling the client to drop ref.
func EncodeDetach(ref sketch.EntityRef) []byte {
	ret, _ := json.Marshal(Detach{Type: TypeDetach, Kind: ref.Kind.String(), ID: ref.ID})
	return ret
}

//DecodeFrame decodes a frame message.
func DecodeFrame(data []byte) (*sketch.Frame, uint64, error) {
	J := new(Frame)
	if err := json.Unmarshal(data, J); err != nil {
		return nil, 0, NewError("decode", "DecodeFrame", err)
	}
	if J.Type != TypeFrame {
		return nil, 0, NewError("decode", "DecodeFrame", fmt.Errorf("message type %q is not %q", J.Type, TypeFrame))
	}
	F, jerr := J.Sketch()
	if jerr != nil {
		jerr.Decorate("DecodeFrame")
		return nil, 0, jerr
	}
	return F, J.Seq, nil
}

//DecodeInput decodes and checks one input message.
func DecodeInput(data []byte) (*Input, error) {
	in := new(Input)
	if err := json.Unmarshal(data, in); err != nil {
		return nil, NewError("decode", "DecodeInput", err)
	}
	in.Type = strings.ToLower(in.Type)
	switch in.Type {
	case TypeDown, TypeMove, TypeUp, TypeCenter:
	case TypeAdd:
		if _, err := sketch.ParseElement(in.Element); err != nil {
			return nil, NewError("decode", "DecodeInput", err)
		}
	default:
		return nil, NewError("decode", "DecodeInput", fmt.Errorf("unknown input type %q", in.Type))
	}
	return in, nil
}

//ReadInput reads one line from stream and decodes it as an input message.
func ReadInput(stream *bufio.Reader) (*Input, error) {
	line, err := stream.ReadBytes('\n')
	if err != nil {
		if err == io.EOF && len(strings.TrimSpace(string(line))) == 0 {
			return nil, io.EOF
		}
		if err != io.EOF {
			return nil, NewError("decode", "ReadInput", err)
		}
	}
	in, err := DecodeInput(line)
	if err != nil {
		if e, ok := err.(*Error); ok {
			e.Decorate("ReadInput")
		}
		return nil, err
	}
	return in, nil
}

//An easily JSON-serializable error type.
type Error struct {
	deco      []string
	Type      string `json:"type"`
	IsError   bool   `json:"is_error"` //If this is false (no error) all the other fields will be at their zero-values.
	InDecode  bool   `json:"in_decode"`
	InEncode  bool   `json:"in_encode"`
	InProcess bool   `json:"in_process"`
	Atom      int    `json:"atom"`
	Function  string `json:"function"` //which go function gave the error
	Message   string `json:"message"`  //the error itself
}

//Error implements the error interface
func (J *Error) Error() string {
	return J.Message
}

//Decorate will add the dec string to the decoration slice of strings of the error,
//and return the resulting slice.
func (J *Error) Decorate(dec string) []string {
	if dec == "" {
		return J.deco
	}
	J.deco = append(J.deco, dec)
	return J.deco
}

//Serializes the error. Panics on failure.
func (J *Error) Marshal() []byte {
	ret, err2 := json.Marshal(J)
	if err2 != nil {
		panic(strings.Join([]string{J.Error(), err2.Error()}, " - "))
	}
	return ret
}

//Takes an error and some additional info to create a json-marshal-ble error.
//where is one of "decode", "encode" or anything else for processing errors.
func NewError(where, function string, err error) *Error {
	jerr := &Error{Type: TypeError, IsError: true, Atom: -1}
	switch where {
	case "decode":
		jerr.InDecode = true
	case "encode":
		jerr.InEncode = true
	default:
		jerr.InProcess = true
	}
	jerr.Function = function
	jerr.Message = err.Error()
	jerr.deco = []string{function}
	return jerr
}
