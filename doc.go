/*
 * doc.go, part of molsketch.
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

/*Package sketch provides the molecular graph behind the molsketch editor.

A Molecule owns Atoms and Bonds. Atoms are placed in world space and can be
moved. Bonds refer to their two atoms by id and derive their whole transform
(midpoint, roll around their long axis, axial scale) from the atoms' current
positions every time the molecule is updated.

Nothing in this package draws or reads input. The host supplies a Picker,
which turns a pointer position into an atom id, and a Renderer, which
receives immutable Frame snapshots. The interaction state machine lives in
the interact subpackage.
*/
package sketch
