/*
 * render.go, part of molsketch.
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

package sketch

import "errors"

//NopRenderer ignores everything it is given.
type NopRenderer struct{}

func (NopRenderer) Draw(*Frame) error   { return nil }
func (NopRenderer) Highlight(int, bool) {}
func (NopRenderer) Detach(EntityRef)    {}

//MultiRenderer hands every call to each of its renderers in order.
//Draw errors are collected, one failing renderer doesn't starve the others.
type MultiRenderer []Renderer

func (M MultiRenderer) Draw(f *Frame) error {
	var errs []error
	for _, r := range M {
		if err := r.Draw(f); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (M MultiRenderer) Highlight(id int, on bool) {
	for _, r := range M {
		r.Highlight(id, on)
	}
}

func (M MultiRenderer) Detach(ref EntityRef) {
	for _, r := range M {
		r.Detach(ref)
	}
}
