/*
 * sketchplot.go, part of molsketch.
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

package chemplot

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"sync"

	sketch "github.com/rmera/molsketch"
	"github.com/rmera/molsketch/chemgraph"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

//Points per world unit of atom radius.
const glyphScale = 5

//Space left around the atoms, in world units.
const margin = 2.0

var highlightColor = color.RGBA{R: 255, G: 215, A: 255}

func basicPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Z"
	p.Add(plotter.NewGrid())
	return p
}

//Plot returns a plot of f projected on the X-Z plane. Bonds are colored by
//fragment, degenerate bonds are left out, and the atoms whose ids are true
//in highlight get a ring around them. Both axes cover the same span so
//angles are not distorted on a square canvas.
func Plot(f *sketch.Frame, title string, highlight map[int]bool) (*plot.Plot, error) {
	p := basicPlot(title)
	setLimits(p, f)
	frags := chemgraph.FrameFragments(f)
	fragOf := make(map[int]int, len(f.Atoms))
	for i, fr := range frags {
		for _, id := range fr {
			fragOf[id] = i
		}
	}
	for _, b := range f.Bonds {
		if b.Degenerate {
			continue
		}
		l, okl := f.Atom(b.Left)
		r, okr := f.Atom(b.Right)
		if !okl || !okr {
			return nil, fmt.Errorf("Plot: bond %d refers to atoms missing from the frame", b.ID)
		}
		line, err := plotter.NewLine(plotter.XYs{{X: l.Pos.X, Y: l.Pos.Z}, {X: r.Pos.X, Y: r.Pos.Z}})
		if err != nil {
			return nil, err
		}
		line.LineStyle.Width = vg.Points(2)
		line.LineStyle.Color = fragmentColor(fragOf[b.Left], len(frags))
		p.Add(line)
	}
	temp := make(plotter.XYs, 1)
	for _, a := range f.Atoms {
		temp[0].X = a.Pos.X
		temp[0].Y = a.Pos.Z
		s, err := plotter.NewScatter(temp)
		if err != nil {
			return nil, err
		}
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Color = a.Color
		s.GlyphStyle.Radius = vg.Points(glyphScale * a.Radius)
		ring, err := plotter.NewScatter(temp)
		if err != nil {
			return nil, err
		}
		ring.GlyphStyle.Shape = draw.RingGlyph{}
		ring.GlyphStyle.Color = outline(a.Color)
		ring.GlyphStyle.Radius = s.GlyphStyle.Radius
		p.Add(s, ring)
		if highlight[a.ID] {
			hl, err := plotter.NewScatter(temp)
			if err != nil {
				return nil, err
			}
			hl.GlyphStyle.Shape = draw.RingGlyph{}
			hl.GlyphStyle.Color = highlightColor
			hl.GlyphStyle.Radius = s.GlyphStyle.Radius + vg.Points(3)
			p.Add(hl)
		}
	}
	return p, nil
}

//setLimits makes both axes cover the same span, centered on the atoms.
func setLimits(p *plot.Plot, f *sketch.Frame) {
	if len(f.Atoms) == 0 {
		p.X.Min, p.X.Max = -10, 10
		p.Y.Min, p.Y.Max = -10, 10
		return
	}
	minx, maxx := math.Inf(1), math.Inf(-1)
	minz, maxz := math.Inf(1), math.Inf(-1)
	for _, a := range f.Atoms {
		minx, maxx = math.Min(minx, a.Pos.X-a.Radius), math.Max(maxx, a.Pos.X+a.Radius)
		minz, maxz = math.Min(minz, a.Pos.Z-a.Radius), math.Max(maxz, a.Pos.Z+a.Radius)
	}
	half := math.Max(maxx-minx, maxz-minz)/2 + margin
	cx, cz := (minx+maxx)/2, (minz+maxz)/2
	p.X.Min, p.X.Max = cx-half, cx+half
	p.Y.Min, p.Y.Max = cz-half, cz+half
}

//Encode writes f as a PNG image of the given size to w.
func Encode(w io.Writer, f *sketch.Frame, title string, size vg.Length, highlight map[int]bool) error {
	p, err := Plot(f, title, highlight)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(size, size, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

//PNG is a renderer that saves every frame it is given to the same file.
//It keeps track of highlights so they show in the image.
type PNG struct {
	Path  string
	Title string
	Size  vg.Length

	mu          sync.Mutex
	highlighted map[int]bool
	frames      int
}

//NewPNG returns a renderer writing square images of size to path.
func NewPNG(path, title string, size vg.Length) *PNG {
	if size <= 0 {
		size = 5 * vg.Inch
	}
	return &PNG{Path: path, Title: title, Size: size, highlighted: make(map[int]bool)}
}

//Draw saves f to the file, replacing the previous image.
func (P *PNG) Draw(f *sketch.Frame) error {
	P.mu.Lock()
	defer P.mu.Unlock()
	p, err := Plot(f, P.Title, P.highlighted)
	if err != nil {
		return err
	}
	if err := p.Save(P.Size, P.Size, P.Path); err != nil {
		return fmt.Errorf("chemplot: saving %s: %w", P.Path, err)
	}
	P.frames++
	return nil
}

//Highlight shows or hides the highlight ring of an atom from the next Draw.
func (P *PNG) Highlight(id int, on bool) {
	P.mu.Lock()
	defer P.mu.Unlock()
	if on {
		P.highlighted[id] = true
	} else {
		delete(P.highlighted, id)
	}
}

//Detach does nothing: the image is redrawn from scratch on every frame.
func (P *PNG) Detach(sketch.EntityRef) {}

//Frames returns the number of frames saved so far.
func (P *PNG) Frames() int {
	P.mu.Lock()
	defer P.mu.Unlock()
	return P.frames
}
