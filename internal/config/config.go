/*
 * config.go, part of molsketch.
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

//Package config loads the molsketch configuration file and watches it for
//changes.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	sketch "github.com/rmera/molsketch"
	"github.com/rmera/molsketch/interact"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

//DefaultFile is the configuration file looked for when none is given.
const DefaultFile = "molsketch.yaml"

//Editor holds the settings of the molecule and the interaction controller.
type Editor struct {
	DragScale     float64    `yaml:"drag_scale"`
	Release       string     `yaml:"release"` //idle or armed
	Spawn         [3]float64 `yaml:"spawn"`
	BondThickness float64    `yaml:"bond_thickness"`
}

//Camera sets how much of the X-Z plane is in view.
type Camera struct {
	HalfWidth  float64 `yaml:"half_width"`
	HalfHeight float64 `yaml:"half_height"`
}

//Serve holds the websocket host settings.
type Serve struct {
	Addr string `yaml:"addr"`
}

//Config is the whole configuration file.
type Config struct {
	LogLevel string `yaml:"log_level"`
	Editor   Editor `yaml:"editor"`
	Camera   Camera `yaml:"camera"`
	Serve    Serve  `yaml:"serve"`
	Record   string `yaml:"record"` //stf trajectory to record the session to, if not empty
	Audio    bool   `yaml:"audio"`
}

//Default returns the configuration used when there is no file.
func Default() Config {
	spawn := sketch.DefaultSpawn
	cam := sketch.DefaultCamera()
	return Config{
		LogLevel: "info",
		Editor: Editor{
			DragScale:     interact.DefaultDragScale,
			Release:       interact.ReleaseToIdle.String(),
			Spawn:         [3]float64{spawn.X, spawn.Y, spawn.Z},
			BondThickness: sketch.DefaultBondThickness,
		},
		Camera: Camera{HalfWidth: cam.HalfWidth, HalfHeight: cam.HalfHeight},
		Serve:  Serve{Addr: ":8080"},
	}
}

//Load reads the file at path over the defaults. A missing file is not an
//error: the defaults are returned.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

//Parse decodes YAML over the defaults and validates the result. Keys
//absent from data keep their default values.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

//Validate checks the values that would break the editor.
func (c Config) Validate() error {
	var errs []error
	if !positive(c.Editor.DragScale) {
		errs = append(errs, fmt.Errorf("editor.drag_scale must be positive and finite, got %g", c.Editor.DragScale))
	}
	if _, err := interact.ParseReleasePolicy(c.Editor.Release); err != nil {
		errs = append(errs, fmt.Errorf("editor.release: %w", err))
	}
	if !positive(c.Editor.BondThickness) {
		errs = append(errs, fmt.Errorf("editor.bond_thickness must be positive and finite, got %g", c.Editor.BondThickness))
	}
	for i, x := range c.Editor.Spawn {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			errs = append(errs, fmt.Errorf("editor.spawn[%d] must be finite, got %g", i, x))
		}
	}
	if !positive(c.Camera.HalfWidth) || !positive(c.Camera.HalfHeight) {
		errs = append(errs, fmt.Errorf("camera half sizes must be positive and finite, got %g and %g", c.Camera.HalfWidth, c.Camera.HalfHeight))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log_level %q", c.LogLevel))
	}
	return errors.Join(errs...)
}

//positive is false for NaN and infinities as well as for x <= 0.
func positive(x float64) bool {
	return x > 0 && !math.IsInf(x, 1)
}

//envVars maps environment variables to the settings they override.
var envVars = []struct {
	name string
	set  func(*Config, string) error
}{
	{"MOLSKETCH_LOG_LEVEL", func(c *Config, v string) error { c.LogLevel = v; return nil }},
	{"MOLSKETCH_ADDR", func(c *Config, v string) error { c.Serve.Addr = v; return nil }},
	{"MOLSKETCH_RECORD", func(c *Config, v string) error { c.Record = v; return nil }},
	{"MOLSKETCH_RELEASE", func(c *Config, v string) error { c.Editor.Release = v; return nil }},
	{"MOLSKETCH_DRAG_SCALE", func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		c.Editor.DragScale = f
		return nil
	}},
}

//ApplyEnv overrides settings from MOLSKETCH_* variables found through
//lookup, usually os.LookupEnv, and validates the result.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for _, ev := range envVars {
		v, ok := lookup(ev.name)
		if !ok || v == "" {
			continue
		}
		if err := ev.set(c, v); err != nil {
			return fmt.Errorf("%s: %w", ev.name, err)
		}
	}
	return c.Validate()
}

//ControllerConfig returns the interaction settings. The configuration
//must have been validated.
func (c Config) ControllerConfig() interact.Config {
	rel, _ := interact.ParseReleasePolicy(c.Editor.Release)
	return interact.Config{DragScale: c.Editor.DragScale, Release: rel}
}

//SpawnPoint returns the spawn position as a vector.
func (c Config) SpawnPoint() r3.Vec {
	s := c.Editor.Spawn
	return r3.Vec{X: s[0], Y: s[1], Z: s[2]}
}

//SketchCamera returns a camera centered on the spawn position.
func (c Config) SketchCamera() sketch.Camera {
	return sketch.Camera{Center: c.SpawnPoint(), HalfWidth: c.Camera.HalfWidth, HalfHeight: c.Camera.HalfHeight}
}

//NewMolecule returns an empty molecule set up from the editor settings.
func (c Config) NewMolecule() *sketch.Molecule {
	mol := sketch.NewMolecule(c.SpawnPoint())
	mol.SetBondThickness(c.Editor.BondThickness)
	return mol
}
