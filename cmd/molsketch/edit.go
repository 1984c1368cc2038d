/*
 * edit.go, part of molsketch.
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
	"context"
	"fmt"
	"os"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/rmera/molsketch/internal/config"
	"github.com/rmera/molsketch/internal/term"
	"github.com/spf13/cobra"
)

//elementKeys maps keys in the editor to the element they add.
var elementKeys = map[rune]string{
	'h': "H",
	'c': "C",
	'n': "N",
	'o': "O",
	'f': "F",
	'p': "P",
	's': "S",
	'l': "Cl",
	'b': "Br",
	'i': "I",
}

const editHelp = "h c n o f p s l(Cl) b(Br) i: add atom  x: center  q: quit"

func newEditCommand(opts *options) *cobra.Command {
	var logFile string
	var watch bool
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit a molecule in the terminal",
		Long: `Edit a molecule in the terminal with the mouse. Keys add atoms at the
spawn point; see the status line for the list.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("opening log file: %w", err)
			}
			defer out.Close()
			if err := opts.load(out); err != nil {
				return err
			}
			return runEdit(cmd.Context(), opts, watch)
		},
	}
	cmd.Flags().StringVar(&logFile, "log-file", "molsketch.log", "File to log to while the terminal is in use")
	cmd.Flags().BoolVarP(&watch, "watch", "w", true, "Reload the configuration file when it changes")
	return cmd
}

func runEdit(ctx context.Context, opts *options, watch bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.EnableMouse()

	view := term.NewRenderer(screen, opts.cfg.SketchCamera())
	S, err := newSession(opts.cfg, opts.log, view)
	if err != nil {
		return err
	}
	defer S.close()

	reload := make(chan config.Config)
	if watch {
		S.watch(ctx, opts, reload)
	}

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	view.SetStatus(editHelp)
	S.redraw()
	ed := &editor{S: S, view: view, screen: screen}
	for {
		select {
		case ev := <-eventChan:
			if !ed.handleInput(ev) {
				return nil
			}
		case cfg := <-reload:
			S.apply(cfg)
			view.SetCamera(cfg.SketchCamera())
			S.redraw()
		case <-ctx.Done():
			return nil
		}
	}
}

//editor routes terminal events to a session.
type editor struct {
	S      *session
	view   *term.Renderer
	screen tcell.Screen
	mouse  term.Mouse
}

//handleInput returns false when the user asks to quit.
func (E *editor) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		r := unicode.ToLower(ev.Rune())
		switch r {
		case 'q':
			return false
		case 'x':
			E.S.center()
			return true
		}
		if symbol, ok := elementKeys[r]; ok {
			if err := E.S.add(symbol); err != nil {
				E.view.SetStatus(err.Error())
			}
		}
	case *tcell.EventMouse:
		w, h := E.screen.Size()
		action, ndc := E.mouse.Translate(ev, w, h)
		var err error
		switch action {
		case term.Down:
			err = E.S.ctl.PointerDown(ndc)
		case term.Move:
			err = E.S.ctl.PointerMove(ndc)
		case term.Up:
			err = E.S.ctl.PointerUp()
		}
		if err != nil {
			E.view.SetStatus(err.Error())
		} else if action == term.Down {
			E.view.SetStatus(fmt.Sprintf("%v  %s", E.S.ctl.State(), editHelp))
		}
	case *tcell.EventResize:
		E.screen.Sync()
		E.view.Redraw()
	}
	return true
}
