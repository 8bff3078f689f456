package common

import (
	"image/color"
)

// Viewer colors
var (
	BackgroundColor = color.RGBA{24, 24, 32, 255}
	TitleTextColor  = color.White
	StatusTextColor = color.RGBA{180, 180, 180, 255}
	FrameBorder     = color.RGBA{60, 60, 70, 255}
)

// StatusColor returns the status line color, highlighted while a
// notification is showing.
func StatusColor(highlight bool) color.Color {
	if highlight {
		return color.RGBA{120, 220, 120, 255}
	}
	return StatusTextColor
}
