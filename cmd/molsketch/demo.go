/*
 * demo.go, part of molsketch.
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

package main

import (
	"errors"
	"fmt"
	"io"

	sketch "github.com/rmera/molsketch"
	"github.com/rmera/molsketch/chemgraph"
	"github.com/rmera/molsketch/chemplot"
	"github.com/rmera/molsketch/interact"
	"github.com/rmera/molsketch/traj/stf"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/plot/vg"
)

func newDemoCommand(opts *options) *cobra.Command {
	var png, traj string
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Build an ethylene molecule and draw it",
		Long: `Build ethylene atom by atom, break and remake one bond, drag a
hydrogen around, and draw the result. The steps can be saved as an stf
trajectory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.load(cmd.ErrOrStderr()); err != nil {
				return err
			}
			if traj != "" {
				opts.cfg.Record = traj
			}
			return runDemo(opts, cmd.OutOrStdout(), png)
		},
	}
	cmd.Flags().StringVarP(&png, "out", "o", "ethylene.png", "PNG file to draw the molecule to")
	cmd.Flags().StringVarP(&traj, "traj", "t", "", "stf trajectory to record the steps to")
	return cmd
}

//ethylene grows C2H4 in S: two carbons, then two hydrogens on each.
func ethylene(S *session) (map[string]int, error) {
	ids := make(map[string]int)
	c1, err := S.mol.AddAtom(sketch.C)
	if err != nil {
		return nil, err
	}
	ids["C1"] = c1.ID()
	S.redraw()
	steps := []struct {
		name   string
		e      sketch.Element
		attach string
	}{
		{"C2", sketch.C, "C1"},
		{"H1", sketch.H, "C1"},
		{"H2", sketch.H, "C1"},
		{"H3", sketch.H, "C2"},
		{"H4", sketch.H, "C2"},
	}
	for _, s := range steps {
		at, _, err := S.mol.Grow(s.e, ids[s.attach])
		if err != nil {
			return nil, fmt.Errorf("growing %s: %w", s.name, err)
		}
		ids[s.name] = at.ID()
		S.redraw()
	}
	return ids, S.mol.Center()
}

func runDemo(opts *options, w io.Writer, png string) error {
	hosts := []sketch.Renderer{}
	var out *chemplot.PNG
	if png != "" {
		out = chemplot.NewPNG(png, "ethylene", 5*vg.Inch)
		hosts = append(hosts, out)
	}
	S, err := newSession(opts.cfg, opts.log, hosts...)
	if err != nil {
		return err
	}
	defer S.close()
	ids, err := ethylene(S)
	if err != nil {
		return err
	}
	S.redraw()

	//Clicking C1 and then C2 breaks their bond, doing it again remakes it.
	ctl := S.ctl
	for i := 0; i < 2; i++ {
		for _, ev := range []interact.Event{interact.PickHit{ID: ids["C1"]}, interact.PickHit{ID: ids["C2"]}} {
			if err := ctl.Handle(ev); err != nil {
				return err
			}
		}
		if i == 0 {
			printFragments(w, S.mol, "after breaking C1-C2")
		}
	}
	//Select H1 and drag it a bit.
	for _, ev := range []interact.Event{
		interact.PickHit{ID: ids["H1"]},
		interact.PickHit{ID: ids["H1"]},
		interact.PointerMoved{Delta: r2.Vec{X: -0.05, Y: 0.05}},
		interact.PointerReleased{},
	} {
		if err := ctl.Handle(ev); err != nil {
			return err
		}
	}
	printFragments(w, S.mol, "ethylene")

	top := chemgraph.TopologyFromMolecule(S.mol, chemgraph.Unit)
	path, bonds, err := top.ShortestPath(ids["H1"], ids["H4"])
	if err != nil {
		return err
	}
	names := make([]string, len(path))
	for i, id := range path {
		names[i] = S.mol.Atom(id).String()
	}
	fmt.Fprintf(w, "H1 to H4: %v, %.0f bonds\n", names, bonds)
	if out != nil {
		fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%d frames drawn to %s", out.Frames(), png)))
	}
	if rec := opts.cfg.Record; rec != "" {
		S.close()
		frames, natoms, err := replay(rec)
		if err != nil {
			return fmt.Errorf("reading %s back: %w", rec, err)
		}
		fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%d frames read back from %s, %d atoms in the last one", frames, rec, natoms)))
	}
	return nil
}

//replay reads the trajectory at path and returns the number of frames in
//it and the number of atoms in the last one.
func replay(path string) (frames, natoms int, err error) {
	R, _, err := stf.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer R.Close()
	for {
		c, err := R.Next()
		var last sketch.LastFrameError
		if errors.As(err, &last) {
			return frames, natoms, nil
		}
		if err != nil {
			return frames, natoms, err
		}
		frames++
		natoms = c.NVecs()
	}
}

func printFragments(w io.Writer, mol *sketch.Molecule, title string) {
	fmt.Fprintln(w, titleStyle.Render(title))
	for i, frag := range chemgraph.Fragments(mol) {
		fmt.Fprintf(w, "fragment %d:", i)
		for _, id := range frag {
			fmt.Fprintf(w, " %v", mol.Atom(id))
		}
		fmt.Fprintln(w)
	}
}
