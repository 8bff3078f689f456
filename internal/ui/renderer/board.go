package renderer

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font"

	"github.com/SirThane/BattleMaps-sub000/internal/common"
)

// Padding around the minimap and between the header lines, in pixels.
const (
	Padding    = 8
	LineHeight = 16
	HeaderRows = 2
	MinWidth   = 240
)

// BoardRenderer draws minimap frames with a header and a status line.
type BoardRenderer struct {
	frames []*ebiten.Image
	border *ebiten.Image
	width  int
	height int
	scale  int
	face   font.Face
}

// NewBoardRenderer uploads the frames once. scale enlarges every frame on
// screen and is clamped to at least 1.
func NewBoardRenderer(frames []*image.RGBA, scale int, face font.Face) *BoardRenderer {
	if scale < 1 {
		scale = 1
	}
	br := &BoardRenderer{scale: scale, face: face}
	for _, f := range frames {
		br.frames = append(br.frames, ebiten.NewImageFromImage(f))
	}
	if len(frames) > 0 {
		b := frames[0].Bounds()
		br.width, br.height = b.Dx(), b.Dy()
		br.border = ebiten.NewImage(br.width*scale+2, br.height*scale+2)
		br.border.Fill(common.FrameBorder)
	}
	return br
}

// ScreenSize is the logical screen needed for the frames, header and status.
func (br *BoardRenderer) ScreenSize() (int, int) {
	return ScreenSize(br.width, br.height, br.scale)
}

// ScreenSize computes the logical screen for a w by h frame at scale.
func ScreenSize(w, h, scale int) (int, int) {
	sw := w*scale + 2*Padding
	sh := h*scale + 2*Padding + (HeaderRows+1)*LineHeight
	if sw < MinWidth {
		sw = MinWidth
	}
	return sw, sh
}

// Draw renders frame i with the title lines above and the status below.
func (br *BoardRenderer) Draw(screen *ebiten.Image, i int, title, info, status string, highlight bool) {
	screen.Fill(common.BackgroundColor)
	if len(br.frames) == 0 {
		return
	}

	top := Padding + HeaderRows*LineHeight
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(Padding-1), float64(top-1))
	screen.DrawImage(br.border, op)

	op = &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(br.scale), float64(br.scale))
	op.GeoM.Translate(float64(Padding), float64(top))
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(br.frames[i%len(br.frames)], op)

	if br.face == nil {
		return
	}
	text.Draw(screen, title, br.face, Padding, Padding+LineHeight-4, common.TitleTextColor)
	text.Draw(screen, info, br.face, Padding, Padding+2*LineHeight-4, common.StatusTextColor)
	_, sh := br.ScreenSize()
	text.Draw(screen, status, br.face, Padding, sh-Padding, common.StatusColor(highlight))
}
