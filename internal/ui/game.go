// Package ui is the desktop minimap viewer.
package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/font/basicfont"

	"github.com/SirThane/BattleMaps-sub000/internal/awmap"
	"github.com/SirThane/BattleMaps-sub000/internal/config"
	"github.com/SirThane/BattleMaps-sub000/internal/minimap"
	"github.com/SirThane/BattleMaps-sub000/internal/ui/input"
	"github.com/SirThane/BattleMaps-sub000/internal/ui/renderer"
	"github.com/SirThane/BattleMaps-sub000/internal/ui/viewmodel"
)

// Viewer shows one map's minimap in a window.
type Viewer struct {
	model    *viewmodel.Model
	board    *renderer.BoardRenderer
	input    *input.Handler
	logger   zerolog.Logger
	width    int
	height   int
	windowed string
}

// NewViewer renders m and prepares the window state. clip may be nil, in
// which case copying reports an error in the status line.
func NewViewer(m *awmap.Map, cfg config.ViewerConfig, clip viewmodel.Clipboard) (*Viewer, error) {
	frames, err := minimap.RenderFrames(m)
	if err != nil {
		return nil, err
	}
	model, err := viewmodel.New(m, len(frames.Images), minimap.FrameDelay, clip)
	if err != nil {
		return nil, err
	}
	board := renderer.NewBoardRenderer(frames.Images, cfg.Scale, basicfont.Face7x13)
	w, h := board.ScreenSize()

	title := cfg.WindowTitle
	if title == "" {
		title = "BattleMaps"
	}
	return &Viewer{
		model:    model,
		board:    board,
		input:    input.NewHandler(),
		logger:   log.With().Str("component", "viewer").Logger(),
		width:    w,
		height:   h,
		windowed: title + " - " + model.Title,
	}, nil
}

// WindowTitle is the title for the OS window.
func (v *Viewer) WindowTitle() string { return v.windowed }

// Size is the logical screen size.
func (v *Viewer) Size() (int, int) { return v.width, v.height }

// Update handles key presses. Quitting ends ebiten.RunGame cleanly.
func (v *Viewer) Update() error {
	v.input.Update()
	for _, a := range v.input.Actions() {
		switch a {
		case input.ActionCopy:
			if err := v.model.CopyCSV(); err != nil {
				v.logger.Warn().Err(err).Msg("Clipboard copy failed")
			}
		case input.ActionTogglePause:
			v.model.TogglePause()
		case input.ActionQuit:
			return ebiten.Termination
		}
	}
	return nil
}

// Draw renders the current frame.
func (v *Viewer) Draw(screen *ebiten.Image) {
	status, fresh := v.model.Status()
	v.board.Draw(screen, v.model.Frame(), v.model.Title, v.model.Info, status, fresh)
}

// Layout keeps the logical screen fixed; ebiten scales it to the window.
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.width, v.height
}

// Run opens the window and blocks until it is closed.
func Run(v *Viewer) error {
	ebiten.SetWindowSize(v.Size())
	ebiten.SetWindowTitle(v.WindowTitle())
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(v)
}
