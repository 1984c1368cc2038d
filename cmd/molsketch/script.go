/*
 * script.go, part of molsketch.
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
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	sketch "github.com/rmera/molsketch"
	"github.com/rmera/molsketch/chemjson"
	"github.com/rmera/molsketch/chemplot"
	"github.com/spf13/cobra"
)

//jsonRenderer writes every message as one line of JSON.
type jsonRenderer struct {
	w   io.Writer
	seq uint64
}

func (J *jsonRenderer) Draw(f *sketch.Frame) error {
	J.seq++
	if err := chemjson.NewFrame(f, J.seq).Send(J.w); err != nil {
		return err
	}
	return nil
}

func (J *jsonRenderer) Highlight(id int, on bool) {
	J.w.Write(append(chemjson.EncodeHighlight(id, on), '\n'))
}

func (J *jsonRenderer) Detach(ref sketch.EntityRef) {
	J.w.Write(append(chemjson.EncodeDetach(ref), '\n'))
}

func newScriptCommand(opts *options) *cobra.Command {
	var in, png string
	var keepGoing bool
	cmd := &cobra.Command{
		Use:   "script",
		Short: "Run input messages from a file and print the frames",
		Long: `Run the same JSON input messages a websocket client would send, one per
line, from a file or standard input. The resulting frames, highlights and
detaches are printed as JSON lines.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.load(cmd.ErrOrStderr()); err != nil {
				return err
			}
			var r io.Reader = cmd.InOrStdin()
			if in != "" && in != "-" {
				f, err := os.Open(in)
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			return runScript(opts, r, cmd.OutOrStdout(), png, keepGoing)
		},
	}
	cmd.Flags().StringVarP(&in, "input", "i", "-", "File with the input messages")
	cmd.Flags().StringVar(&png, "png", "", "Also draw the molecule to this PNG file")
	cmd.Flags().BoolVarP(&keepGoing, "keep-going", "k", false, "Log failed messages instead of stopping")
	return cmd
}

func runScript(opts *options, r io.Reader, w io.Writer, png string, keepGoing bool) error {
	hosts := []sketch.Renderer{&jsonRenderer{w: w}}
	if png != "" {
		hosts = append(hosts, chemplot.NewPNG(png, "molsketch", 0))
	}
	S, err := newSession(opts.cfg, opts.log, hosts...)
	if err != nil {
		return err
	}
	defer S.close()
	stream := bufio.NewReader(r)
	for line := 1; ; line++ {
		in, err := chemjson.ReadInput(stream)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err == nil {
			err = S.input(in)
		}
		if err != nil {
			if !keepGoing {
				return fmt.Errorf("line %d: %w", line, err)
			}
			opts.log.Warnf("line %d: %v", line, err)
		}
	}
}
