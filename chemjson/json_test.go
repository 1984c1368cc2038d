package chemjson

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	sketch "github.com/rmera/molsketch"
	"gonum.org/v1/gonum/spatial/r3"
)

func testFrame(Te *testing.T) *sketch.Frame {
	Te.Helper()
	mol := sketch.NewMolecule(sketch.DefaultSpawn)
	c, _ := mol.AddAtom(sketch.C)
	o, _ := mol.AddAtomAt(sketch.O, r3.Vec{X: 1.5, Y: 30, Z: -0.5})
	if _, err := mol.AddBond(c.ID(), o.ID()); err != nil {
		Te.Fatal(err)
	}
	return mol.Frame()
}

func TestFrameRoundTrip(Te *testing.T) {
	f := testFrame(Te)
	data, err := EncodeFrame(f, 7)
	if err != nil {
		Te.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`"type":"frame"`)) || !bytes.Contains(data, []byte(`"color":"#ff0000"`)) {
		Te.Errorf("unexpected wire form: %s", data)
	}
	back, seq, err := DecodeFrame(data)
	if err != nil {
		Te.Fatal(err)
	}
	if seq != 7 || len(back.Atoms) != 2 || len(back.Bonds) != 1 {
		Te.Fatalf("got seq %d with %d atoms and %d bonds", seq, len(back.Atoms), len(back.Bonds))
	}
	if back.Atoms[1] != f.Atoms[1] || back.Bonds[0] != f.Bonds[0] {
		Te.Errorf("frame changed on the way: %v vs %v", back, f)
	}
}

func TestFrameSend(Te *testing.T) {
	var buf bytes.Buffer
	if jerr := NewFrame(testFrame(Te), 1).Send(&buf); jerr != nil {
		Te.Fatal(jerr)
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		Te.Error("Send should write one line")
	}
	if _, _, err := DecodeFrame(buf.Bytes()); err != nil {
		Te.Error(err)
	}
}

func TestSmallMessages(Te *testing.T) {
	var h Highlight
	if err := json.Unmarshal(EncodeHighlight(3, true), &h); err != nil || h.Type != TypeHighlight || h.ID != 3 || !h.On {
		Te.Errorf("highlight: %+v %v", h, err)
	}
	var d Detach
	if err := json.Unmarshal(EncodeDetach(sketch.EntityRef{Kind: sketch.KindBond, ID: 4}), &d); err != nil || d.Kind != "bond" || d.ID != 4 {
		Te.Errorf("detach: %+v %v", d, err)
	}
	if _, _, err := DecodeFrame(EncodeHighlight(1, false)); err == nil {
		Te.Error("a highlight was decoded as a frame")
	}
}

func TestDecodeInput(Te *testing.T) {
	in, err := DecodeInput([]byte(`{"type":"DOWN","x":0.25,"y":-0.5}`))
	if err != nil {
		Te.Fatal(err)
	}
	if in.Type != TypeDown || in.X != 0.25 || in.Y != -0.5 {
		Te.Errorf("got %+v", in)
	}
	if _, err := DecodeInput([]byte(`{"type":"add","element":"Cl"}`)); err != nil {
		Te.Error(err)
	}
	for _, bad := range []string{`{"type":"add","element":"Zz"}`, `{"type":"jump"}`, `not json`} {
		_, err := DecodeInput([]byte(bad))
		var jerr *Error
		if !errors.As(err, &jerr) || !jerr.IsError || !jerr.InDecode {
			Te.Errorf("%s: expected a decode error, got %v", bad, err)
		}
	}
}

func TestReadInput(Te *testing.T) {
	stream := bufio.NewReader(strings.NewReader("{\"type\":\"up\"}\n{\"type\":\"center\"}"))
	for _, want := range []string{TypeUp, TypeCenter} {
		in, err := ReadInput(stream)
		if err != nil || in.Type != want {
			Te.Fatalf("expected %s, got %v %v", want, in, err)
		}
	}
	if _, err := ReadInput(stream); err != io.EOF {
		Te.Errorf("expected EOF, got %v", err)
	}
}

func TestErrorMarshal(Te *testing.T) {
	jerr := NewError("process", "TestErrorMarshal", errors.New("boom"))
	if d := jerr.Decorate("caller"); len(d) != 2 {
		Te.Errorf("decoration: %v", d)
	}
	var back map[string]any
	if err := json.Unmarshal(jerr.Marshal(), &back); err != nil {
		Te.Fatal(err)
	}
	if back["type"] != TypeError || back["message"] != "boom" || back["in_process"] != true {
		Te.Errorf("got %v", back)
	}
}
