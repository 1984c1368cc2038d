/*
 * elements.go, part of molsketch.
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
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	sketch "github.com/rmera/molsketch"
	"github.com/spf13/cobra"
)

var (
	primaryColor = lipgloss.Color("#3b82f6")
	mutedColor   = lipgloss.Color("#94a3b8")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Width(10)

	cellStyle = lipgloss.NewStyle().
			Width(10)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)

func newElementsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "elements",
		Short: "List the elements the editor knows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printElements(cmd.OutOrStdout())
		},
	}
}

func hexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

//printElements writes a table of the element symbols with their display
//color, radius and mass. Each symbol is painted in its own color.
func printElements(w io.Writer) error {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Elements") + "\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		headerStyle.Render("Symbol"),
		headerStyle.Render("Color"),
		headerStyle.Render("Radius"),
		headerStyle.Render("Mass"),
	) + "\n")
	for _, e := range sketch.Elements() {
		hex := hexColor(e.Color())
		symbol := cellStyle.Foreground(lipgloss.Color(hex)).Bold(true).Render(e.String())
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			symbol,
			cellStyle.Render(hex),
			cellStyle.Render(fmt.Sprintf("%.2f", e.Radius())),
			cellStyle.Render(fmt.Sprintf("%.3f", e.Mass())),
		) + "\n")
	}
	b.WriteString(mutedStyle.Render("radii in display units, masses in amu") + "\n")
	_, err := io.WriteString(w, b.String())
	return err
}
