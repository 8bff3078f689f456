package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Action is a viewer command triggered by a key press.
type Action int

const (
	ActionNone Action = iota
	ActionCopy
	ActionTogglePause
	ActionQuit
)

var bindings = []struct {
	keys   []ebiten.Key
	action Action
}{
	{[]ebiten.Key{ebiten.KeyC}, ActionCopy},
	{[]ebiten.Key{ebiten.KeySpace, ebiten.KeyP}, ActionTogglePause},
	{[]ebiten.Key{ebiten.KeyEscape, ebiten.KeyQ}, ActionQuit},
}

// Handler polls the keyboard once per tick.
type Handler struct {
	pending []Action
}

func NewHandler() *Handler {
	return &Handler{}
}

// Update collects the actions whose keys were pressed this tick.
func (h *Handler) Update() {
	h.pending = h.pending[:0]
	for _, b := range bindings {
		for _, k := range b.keys {
			if inpututil.IsKeyJustPressed(k) {
				h.pending = append(h.pending, b.action)
				break
			}
		}
	}
}

// Actions returns the actions collected by the last Update.
func (h *Handler) Actions() []Action {
	return h.pending
}
