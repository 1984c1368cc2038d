/*
 * chime.go, part of molsketch.
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

//Package audio plays short tones when bonds are made or broken.
package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	//SampleRate is the rate all tones are generated at.
	SampleRate = beep.SampleRate(44100)

	noteLength = 60 * time.Millisecond
	volume     = 0.4
	low        = 440.0
	high       = 880.0
)

//Chime plays bond feedback on the default speaker. A Chime that failed to
//start, or was never started, stays silent.
type Chime struct {
	rate  beep.SampleRate
	ready bool
}

//NewChime returns a silent chime. Call Init to get sound.
func NewChime() *Chime {
	return &Chime{rate: SampleRate}
}

//Init opens the speaker. The editor runs fine without sound, so callers
//usually just log the error.
func (C *Chime) Init() error {
	if err := speaker.Init(C.rate, C.rate.N(time.Second/10)); err != nil {
		return fmt.Errorf("audio: %w", err)
	}
	C.ready = true
	return nil
}

//Tone returns a sine tone of freq Hz lasting d.
func (C *Chime) Tone(freq float64, d time.Duration) (beep.Streamer, error) {
	sine, err := generators.SineTone(C.rate, freq)
	if err != nil {
		return nil, err
	}
	return &effects.Volume{Streamer: beep.Take(C.rate.N(d), sine), Base: 2, Volume: math.Log2(volume)}, nil
}

//BondSound returns a rising pair of notes for a new bond and a falling
//pair for a removed one.
func (C *Chime) BondSound(created bool) (beep.Streamer, error) {
	first, second := high, low
	if created {
		first, second = low, high
	}
	a, err := C.Tone(first, noteLength)
	if err != nil {
		return nil, err
	}
	b, err := C.Tone(second, noteLength)
	if err != nil {
		return nil, err
	}
	return beep.Seq(a, b), nil
}

//Bond plays the bond sound, if the speaker is open. It has the signature
//of the interaction controller's OnBond hook.
func (C *Chime) Bond(a, b int, created bool) {
	if !C.ready {
		return
	}
	s, err := C.BondSound(created)
	if err != nil {
		return
	}
	speaker.Play(s)
}

//Close closes the speaker if it was opened.
func (C *Chime) Close() {
	if C.ready {
		speaker.Close()
		C.ready = false
	}
}
