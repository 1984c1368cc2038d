/*
 * session.go, part of molsketch.
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

	sketch "github.com/rmera/molsketch"
	"github.com/rmera/molsketch/chemjson"
	"github.com/rmera/molsketch/interact"
	"github.com/rmera/molsketch/internal/audio"
	"github.com/rmera/molsketch/internal/config"
	"github.com/rmera/molsketch/traj/stf"
	"gonum.org/v1/gonum/spatial/r2"
)

//session ties a molecule to its controller and renderers. Every host
//mode builds one and feeds it input from a single goroutine.
type session struct {
	cfg    config.Config
	log    *Logger
	mol    *sketch.Molecule
	picker *sketch.ProjectionPicker
	ctl    *interact.Controller
	rend   sketch.MultiRenderer
	rec    *stf.StfW
	chime  *audio.Chime
}

//newSession sets up an empty molecule drawn by hosts. If the configuration
//asks for it, the session is also recorded to an stf trajectory, and bond
//changes are announced with a chime.
func newSession(cfg config.Config, log *Logger, hosts ...sketch.Renderer) (*session, error) {
	S := &session{cfg: cfg, log: log}
	S.mol = cfg.NewMolecule()
	S.mol.SetLogger(log)
	S.rend = append(S.rend, hosts...)
	if cfg.Record != "" {
		rec, err := stf.Create(cfg.Record, map[string]string{"program": "molsketch"})
		if err != nil {
			return nil, fmt.Errorf("recording to %s: %w", cfg.Record, err)
		}
		S.rec = rec
		S.rend = append(S.rend, rec)
		log.Infof("recording the session to %s", cfg.Record)
	}
	S.mol.SetRenderer(S.rend)
	S.picker = sketch.NewProjectionPicker(S.mol, cfg.SketchCamera())
	S.ctl = interact.New(S.mol, S.picker, S.rend, cfg.ControllerConfig())
	S.ctl.SetLogger(log)
	if cfg.Audio {
		S.chime = audio.NewChime()
		if err := S.chime.Init(); err != nil {
			log.Warnf("no sound: %v", err)
		} else {
			S.ctl.OnBond = S.chime.Bond
		}
	}
	return S, nil
}

//apply takes a reloaded configuration. The molecule and its atoms stay,
//only settings change.
func (S *session) apply(cfg config.Config) {
	S.cfg = cfg
	S.log.SetLevel(cfg.LogLevel)
	S.ctl.SetConfig(cfg.ControllerConfig())
	S.picker.Cam = cfg.SketchCamera()
	S.mol.SetSpawn(cfg.SpawnPoint())
	S.mol.SetBondThickness(cfg.Editor.BondThickness)
	S.log.Infof("configuration reloaded")
}

//watch reloads the configuration file of opts until ctx is done. The
//environment and the flags in opts still take precedence over the file.
//New configurations are sent to reload, which the caller must drain from
//the goroutine that owns the session.
func (S *session) watch(ctx context.Context, opts *options, reload chan<- config.Config) {
	w, err := config.NewWatcher(opts.configPath)
	if err != nil {
		S.log.Warnf("not watching %s: %v", opts.configPath, err)
		return
	}
	go w.Run(ctx, func(cfg config.Config, err error) {
		if err != nil {
			S.log.Warnf("keeping the previous configuration: %v", err)
			return
		}
		if err := opts.override(&cfg); err != nil {
			S.log.Warnf("keeping the previous configuration: %v", err)
			return
		}
		select {
		case reload <- cfg:
		case <-ctx.Done():
		}
	})
}

func (S *session) redraw() {
	if err := S.rend.Draw(S.mol.Frame()); err != nil {
		S.log.Warnf("drawing: %v", err)
	}
}

//add puts a new atom of the element with the given symbol at the spawn
//point.
func (S *session) add(symbol string) error {
	at, err := S.mol.AddAtomSymbol(symbol)
	if err != nil {
		return err
	}
	S.log.Infof("new atom %v", at)
	S.redraw()
	return nil
}

//center moves the molecule's center of mass to the spawn point.
func (S *session) center() error {
	if err := S.mol.Center(); err != nil {
		S.log.Debugf("centering: %v", err)
	}
	S.redraw()
	return nil
}

//input carries out one message from a remote or scripted client.
func (S *session) input(in *chemjson.Input) error {
	switch in.Type {
	case chemjson.TypeDown:
		return S.ctl.PointerDown(r2.Vec{X: in.X, Y: in.Y})
	case chemjson.TypeMove:
		return S.ctl.PointerMove(r2.Vec{X: in.X, Y: in.Y})
	case chemjson.TypeUp:
		return S.ctl.PointerUp()
	case chemjson.TypeAdd:
		return S.add(in.Element)
	case chemjson.TypeCenter:
		return S.center()
	}
	return fmt.Errorf("unknown input type %q", in.Type)
}

//close flushes the recording and releases the audio device. It can be
//called more than once.
func (S *session) close() {
	if S.rec != nil {
		if err := S.rec.Close(); err != nil {
			S.log.Errorf("closing %s: %v", S.cfg.Record, err)
		} else {
			S.log.Infof("%d frames recorded to %s", S.rec.Frames(), S.cfg.Record)
		}
		S.rec = nil
	}
	if S.chime != nil {
		S.chime.Close()
		S.chime = nil
	}
}
