package interact

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

//State is the state of a Controller.
type State int

const (
	Idle State = iota
	Armed
	Dragging
)

func (S State) String() string {
	switch S {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	case Dragging:
		return "dragging"
	default:
		return fmt.Sprintf("State(%d)", int(S))
	}
}

//ReleasePolicy decides where a drag ends up when the pointer is released.
type ReleasePolicy int

const (
	ReleaseToIdle  ReleasePolicy = iota //drop the selection
	ReleaseToArmed                      //keep the dragged atom armed
)

func (R ReleasePolicy) String() string {
	if R == ReleaseToArmed {
		return "armed"
	}
	return "idle"
}

//ParseReleasePolicy reads "idle" or "armed". The empty string gives the
//default, ReleaseToIdle.
func ParseReleasePolicy(s string) (ReleasePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "idle":
		return ReleaseToIdle, nil
	case "armed":
		return ReleaseToArmed, nil
	}
	return ReleaseToIdle, fmt.Errorf("unknown release policy %q, must be idle or armed", s)
}

//Event is something the controller reacts to.
type Event interface {
	event()
}

//PickHit means the pointer went down on the atom ID.
type PickHit struct {
	ID int
}

//PickMiss means the pointer went down on empty space.
type PickMiss struct{}

//PointerMoved carries the pointer displacement since the last event, in
//normalized device coordinates.
type PointerMoved struct {
	Delta r2.Vec
}

//PointerReleased means the pointer went up.
type PointerReleased struct{}

func (PickHit) event()         {}
func (PickMiss) event()        {}
func (PointerMoved) event()    {}
func (PointerReleased) event() {}

func (P PickHit) String() string {
	return fmt.Sprintf("PickHit(%d)", P.ID)
}

func (PickMiss) String() string {
	return "PickMiss"
}

func (P PointerMoved) String() string {
	return fmt.Sprintf("PointerMoved(%g,%g)", P.Delta.X, P.Delta.Y)
}

func (PointerReleased) String() string {
	return "PointerReleased"
}
