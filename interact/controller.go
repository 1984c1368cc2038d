/*
 * controller.go, part of molsketch.
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

package interact

import (
	"fmt"
	"math"

	sketch "github.com/rmera/molsketch"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

//DefaultDragScale is the number of world units an atom moves when the
//pointer crosses one unit of device coordinates.
const DefaultDragScale = 10.0

//Config holds the tunable parts of a Controller.
type Config struct {
	DragScale float64
	Release   ReleasePolicy
}

//DefaultConfig returns a drag scale of DefaultDragScale and ReleaseToIdle.
func DefaultConfig() Config {
	return Config{DragScale: DefaultDragScale, Release: ReleaseToIdle}
}

//Controller drives a molecule from pointer events. The molecule, picker
//and renderer are given at construction and never looked up elsewhere.
type Controller struct {
	mol      *sketch.Molecule
	pick     sketch.Picker
	rend     sketch.Renderer
	log      sketch.Logger
	cfg      Config
	state    State
	selected int
	anchor   r2.Vec
	//OnBond, if not nil, is called after the controller creates or
	//removes a bond.
	OnBond func(a, b int, created bool)
}

//New returns an idle controller for mol. A nil picker misses everything,
//a nil renderer draws nothing. A zero or non-finite DragScale in cfg is
//replaced by DefaultDragScale.
func New(mol *sketch.Molecule, p sketch.Picker, r sketch.Renderer, cfg Config) *Controller {
	if r == nil {
		r = sketch.NopRenderer{}
	}
	C := &Controller{
		mol:      mol,
		pick:     p,
		rend:     r,
		log:      sketch.NopLogger{},
		selected: -1,
	}
	C.SetConfig(cfg)
	return C
}

//SetLogger sets the logger. A nil logger discards output.
func (C *Controller) SetLogger(l sketch.Logger) {
	if l == nil {
		l = sketch.NopLogger{}
	}
	C.log = l
}

//SetConfig replaces the configuration. It takes effect with the next event.
func (C *Controller) SetConfig(cfg Config) {
	if d := cfg.DragScale; d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		cfg.DragScale = DefaultDragScale
	}
	C.cfg = cfg
}

//Config returns the current configuration.
func (C *Controller) Config() Config {
	return C.cfg
}

//State returns the current state.
func (C *Controller) State() State {
	return C.state
}

//Selected returns the armed or dragged atom. ok is false when idle.
func (C *Controller) Selected() (id int, ok bool) {
	if C.state == Idle {
		return -1, false
	}
	return C.selected, true
}

//Handle feeds one event to the state machine. If acting on the event
//fails, the action is discarded, the controller goes back to Idle and the
//error is returned for the host to report. The molecule is left as it was
//before the failed action.
func (C *Controller) Handle(ev Event) error {
	from := C.state
	if err := C.handle(ev); err != nil {
		C.disarm()
		C.log.Warnf("%v in state %v: %v", ev, from, err)
		return err
	}
	if C.state != from {
		C.log.Debugf("%v: %v -> %v", ev, from, C.state)
	}
	return nil
}

func (C *Controller) handle(ev Event) error {
	switch C.state {
	case Idle:
		if e, ok := ev.(PickHit); ok {
			return C.arm(e.ID)
		}
	case Armed:
		switch e := ev.(type) {
		case PickHit:
			if e.ID == C.selected {
				C.state = Dragging
				return nil
			}
			a := C.selected
			C.disarm()
			return C.toggle(a, e.ID)
		case PickMiss:
			C.disarm()
		}
	case Dragging:
		switch e := ev.(type) {
		case PointerMoved:
			return C.drag(e.Delta)
		case PointerReleased:
			if C.cfg.Release == ReleaseToArmed {
				C.state = Armed
				return nil
			}
			C.disarm()
		}
	default:
		return fmt.Errorf("controller in unknown state %v", C.state)
	}
	//anything else is a no-op in the current state.
	return nil
}

func (C *Controller) arm(id int) error {
	if C.mol.Atom(id) == nil {
		err := &sketch.UnknownAtomError{ID: id}
		err.Decorate("arm")
		return err
	}
	C.state = Armed
	C.selected = id
	C.rend.Highlight(id, true)
	return nil
}

func (C *Controller) disarm() {
	if C.state != Idle && C.selected >= 0 {
		C.rend.Highlight(C.selected, false)
	}
	C.state = Idle
	C.selected = -1
}

//toggle removes the bond between a and b if there is one, and creates it
//otherwise.
func (C *Controller) toggle(a, b int) error {
	created := false
	if C.mol.FindBond(a, b) != nil {
		C.mol.RemoveBond(a, b)
	} else {
		if _, err := C.mol.AddBond(a, b); err != nil {
			if e, ok := err.(sketch.Error); ok {
				e.Decorate("toggle")
			}
			return err
		}
		created = true
	}
	C.redraw()
	if C.OnBond != nil {
		C.OnBond(a, b, created)
	}
	return nil
}

//drag moves the selected atom in the view plane. Device x maps to world X
//and device y to world Z; depth is not touched.
func (C *Controller) drag(d r2.Vec) error {
	at := C.mol.Atom(C.selected)
	if at == nil {
		err := &sketch.UnknownAtomError{ID: C.selected}
		err.Decorate("drag")
		return err
	}
	s := C.cfg.DragScale
	at.MoveBy(r3.Vec{X: s * d.X, Z: s * d.Y})
	if err := C.mol.UpdateAll(); err != nil {
		C.log.Debugf("drag of %v: %v", at, err)
	}
	C.redraw()
	return nil
}

func (C *Controller) redraw() {
	if err := C.rend.Draw(C.mol.Frame()); err != nil {
		C.log.Errorf("draw: %v", err)
	}
}

//PointerDown resolves the pointer position, in normalized device
//coordinates, into a PickHit or PickMiss and handles it. The position is
//kept as the anchor for following moves.
func (C *Controller) PointerDown(ndc r2.Vec) error {
	C.anchor = ndc
	if C.pick == nil {
		return C.Handle(PickMiss{})
	}
	if id, ok := C.pick.Pick(ndc); ok {
		return C.Handle(PickHit{ID: id})
	}
	return C.Handle(PickMiss{})
}

//PointerMove turns an absolute pointer position into a PointerMoved
//relative to the previous one. Moves are only tracked while dragging.
func (C *Controller) PointerMove(ndc r2.Vec) error {
	if C.state != Dragging {
		return nil
	}
	d := r2.Sub(ndc, C.anchor)
	C.anchor = ndc
	return C.Handle(PointerMoved{Delta: d})
}

//PointerUp handles a PointerReleased.
func (C *Controller) PointerUp() error {
	return C.Handle(PointerReleased{})
}
