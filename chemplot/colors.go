package chemplot

import (
	"image/color"
	"math"
)

//takes hue (0-360), v and s (0-1), returns r,g,b (0-255)
func iHVS2RGB(h, v, s float64) (uint8, uint8, uint8) {
	var i, f, p, q, t float64
	var r, g, b float64
	maxcolor := 255.0
	conversion := maxcolor * v
	if s == 0.0 {
		return uint8(conversion), uint8(conversion), uint8(conversion)
	}
	h = h / 60
	i = math.Floor(h)
	f = h - i
	p = v * (1 - s)
	q = v * (1 - s*f)
	t = v * (1 - s*(1-f))
	switch int(i) {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default: //case 5
		r, g, b = v, p, q
	}
	return uint8(r * maxcolor), uint8(g * maxcolor), uint8(b * maxcolor)
}

//fragmentColor returns the color for the fragment key out of steps. Hues
//skip the yellows, which are taken by the highlight.
func fragmentColor(key, steps int) color.RGBA {
	if steps < 1 {
		steps = 1
	}
	norm := 260.0 / float64(steps)
	hp := float64(key)*norm + 20.0
	var h float64
	if hp < 55 {
		h = hp - 20.0
	} else {
		h = hp + 20.0
	}
	r, g, b := iHVS2RGB(h, 0.85, 0.8)
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

//outline returns a color that stands out against c. Dark atoms get a
//light outline, light ones a dark one.
func outline(c color.NRGBA) color.RGBA {
	lum := 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
	if lum < 60 {
		return color.RGBA{R: 160, G: 160, B: 160, A: 255}
	}
	return color.RGBA{A: 255}
}
