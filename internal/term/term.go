//Package term draws molecules on a character terminal with tcell, and
//turns terminal mouse events into pointer input.
package term

import (
	"fmt"
	"image/color"
	"math"
	"slices"

	"github.com/gdamore/tcell/v2"
	sketch "github.com/rmera/molsketch"
	"gonum.org/v1/gonum/spatial/r2"
)

const bondRune = '·'

//Renderer draws frames on a tcell screen, looking down the Y axis through
//a sketch.Camera. The last row of the screen is a status line.
type Renderer struct {
	screen      tcell.Screen
	cam         sketch.Camera
	highlighted map[int]bool
	status      string
	last        *sketch.Frame
}

//NewRenderer returns a renderer for screen, which must be initialized.
func NewRenderer(screen tcell.Screen, cam sketch.Camera) *Renderer {
	return &Renderer{screen: screen, cam: cam, highlighted: make(map[int]bool)}
}

//SetCamera changes the camera. It shows with the next redraw.
func (R *Renderer) SetCamera(cam sketch.Camera) {
	R.cam = cam
}

//SetStatus sets the text of the status line and redraws.
func (R *Renderer) SetStatus(s string) {
	R.status = s
	R.Redraw()
}

//Draw keeps f and draws it.
func (R *Renderer) Draw(f *sketch.Frame) error {
	R.last = f
	R.Redraw()
	return nil
}

//Highlight marks or unmarks an atom and redraws.
func (R *Renderer) Highlight(id int, on bool) {
	if on {
		R.highlighted[id] = true
	} else {
		delete(R.highlighted, id)
	}
	R.Redraw()
}

//Detach does nothing, every redraw starts from a clear screen.
func (R *Renderer) Detach(sketch.EntityRef) {}

//ToNDC returns the normalized device coordinates of the cell (col, row)
//on a w by h screen. The status line is not part of the view.
func ToNDC(col, row, w, h int) r2.Vec {
	vw, vh := max(w-1, 1), max(h-2, 1)
	return r2.Vec{
		X: 2*float64(col)/float64(vw) - 1,
		Y: 1 - 2*float64(row)/float64(vh),
	}
}

//toCell is the inverse of ToNDC, rounded to the nearest cell.
func toCell(ndc r2.Vec, w, h int) (col, row int) {
	vw, vh := max(w-1, 1), max(h-2, 1)
	col = int(math.Round((ndc.X + 1) / 2 * float64(vw)))
	row = int(math.Round((1 - ndc.Y) / 2 * float64(vh)))
	return col, row
}

//termColor maps an element color to the terminal. Very dark colors are
//lifted to gray so carbon shows on dark backgrounds.
func termColor(c color.NRGBA) tcell.Color {
	if int(c.R)+int(c.G)+int(c.B) < 96 {
		return tcell.NewRGBColor(150, 150, 150)
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

//Redraw draws the last frame again.
func (R *Renderer) Redraw() {
	s := R.screen
	s.Clear()
	w, h := s.Size()
	inView := func(col, row int) bool {
		return col >= 0 && row >= 0 && col < w && row < h-1
	}
	if f := R.last; f != nil {
		bondStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
		for _, b := range f.Bonds {
			if b.Degenerate {
				continue
			}
			l, okl := f.Atom(b.Left)
			r, okr := f.Atom(b.Right)
			if !okl || !okr {
				continue
			}
			c0, r0 := toCell(R.cam.Project(l.Pos), w, h)
			c1, r1 := toCell(R.cam.Project(r.Pos), w, h)
			steps := max(abs(c1-c0), abs(r1-r0))
			for i := 1; i < steps; i++ {
				t := float64(i) / float64(steps)
				col := c0 + int(math.Round(t*float64(c1-c0)))
				row := r0 + int(math.Round(t*float64(r1-r0)))
				if inView(col, row) {
					s.SetContent(col, row, bondRune, nil, bondStyle)
				}
			}
		}
		//far atoms first, so near ones end up on top.
		atoms := slices.Clone(f.Atoms)
		slices.SortStableFunc(atoms, func(a, b sketch.AtomView) int {
			switch {
			case a.Pos.Y > b.Pos.Y:
				return -1
			case a.Pos.Y < b.Pos.Y:
				return 1
			}
			return 0
		})
		for _, a := range atoms {
			col, row := toCell(R.cam.Project(a.Pos), w, h)
			style := tcell.StyleDefault.Foreground(termColor(a.Color)).Bold(true)
			if R.highlighted[a.ID] {
				style = style.Reverse(true)
			}
			for i, c := range a.Element.String() {
				if inView(col+i, row) {
					s.SetContent(col+i, row, c, nil, style)
				}
			}
		}
	}
	status := R.status
	if f := R.last; f != nil {
		status = fmt.Sprintf("%d atoms %d bonds  %s", len(f.Atoms), len(f.Bonds), status)
	}
	statusStyle := tcell.StyleDefault.Reverse(true)
	runes := []rune(status)
	for i := 0; i < w; i++ {
		c := ' '
		if i < len(runes) {
			c = runes[i]
		}
		s.SetContent(i, h-1, c, nil, statusStyle)
	}
	s.Show()
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}

//Action is what a mouse event means for the editor.
type Action int

const (
	None Action = iota
	Down
	Move
	Up
)

func (A Action) String() string {
	return [...]string{"none", "down", "move", "up"}[A]
}

//Mouse turns the button state carried by tcell mouse events into
//press, drag and release actions.
type Mouse struct {
	down bool
}

//Translate returns the action for ev and the pointer position in
//normalized device coordinates for a w by h screen.
func (M *Mouse) Translate(ev *tcell.EventMouse, w, h int) (Action, r2.Vec) {
	col, row := ev.Position()
	ndc := ToNDC(col, row, w, h)
	pressed := ev.Buttons()&tcell.Button1 != 0
	switch {
	case pressed && !M.down:
		M.down = true
		return Down, ndc
	case pressed:
		return Move, ndc
	case M.down:
		M.down = false
		return Up, ndc
	}
	return None, ndc
}
