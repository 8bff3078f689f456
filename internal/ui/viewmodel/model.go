// Package viewmodel holds the viewer state that does not depend on a window:
// frame playback, the status line and the clipboard copy.
package viewmodel

import (
	"errors"
	"fmt"
	"time"

	"github.com/SirThane/BattleMaps-sub000/internal/awmap"
	"github.com/SirThane/BattleMaps-sub000/internal/awmap/awbw"
)

// StatusDuration is how long a status message stays highlighted.
const StatusDuration = 2 * time.Second

// Clipboard receives copied text.
type Clipboard interface {
	WriteText(s string) error
}

// Model is the state behind one viewer window.
type Model struct {
	Title  string
	Info   string
	frames int
	delay  time.Duration
	csv    string

	clip    Clipboard
	start   time.Time
	paused  bool
	pauseAt time.Duration

	status      string
	statusUntil time.Time
	now         func() time.Time
}

// New builds a model for m with the given frame count. The AWBW CSV is
// encoded up front.
func New(m *awmap.Map, frames int, delay time.Duration, clip Clipboard) (*Model, error) {
	if frames < 1 {
		return nil, fmt.Errorf("%w: no frames to show", awmap.ErrRenderFailure)
	}
	title := m.Title
	if title == "" {
		title = "Untitled"
	}
	info := fmt.Sprintf("%dx%d", m.Width, m.Height)
	if m.Author != "" {
		info += " by " + m.Author
	}
	mod := &Model{
		Title:  title,
		Info:   info,
		frames: frames,
		delay:  delay,
		csv:    awbw.EncodeCSV(m),
		clip:   clip,
		now:    time.Now,
	}
	mod.start = mod.now()
	return mod, nil
}

// SetClock replaces the time source and restarts playback.
func (m *Model) SetClock(now func() time.Time) {
	m.now = now
	m.start = now()
}

func (m *Model) elapsed() time.Duration {
	if m.paused {
		return m.pauseAt
	}
	return m.now().Sub(m.start)
}

// Frame is the frame to show now.
func (m *Model) Frame() int {
	return FrameAt(m.elapsed(), m.delay, m.frames)
}

// FrameAt returns the frame index after elapsed time with frames shown for
// delay each, looping.
func FrameAt(elapsed, delay time.Duration, frames int) int {
	if frames <= 1 || delay <= 0 || elapsed < 0 {
		return 0
	}
	return int(elapsed/delay) % frames
}

// TogglePause freezes or resumes playback on the current frame.
func (m *Model) TogglePause() {
	if m.paused {
		m.start = m.now().Add(-m.pauseAt)
		m.paused = false
		m.setStatus("Playing")
		return
	}
	m.pauseAt = m.now().Sub(m.start)
	m.paused = true
	m.setStatus("Paused")
}

func (m *Model) Paused() bool { return m.paused }

// CopyCSV writes the map's AWBW CSV to the clipboard.
func (m *Model) CopyCSV() error {
	if m.clip == nil {
		err := errors.New("clipboard unavailable")
		m.setStatus("Copy failed: " + err.Error())
		return err
	}
	if err := m.clip.WriteText(m.csv); err != nil {
		m.setStatus("Copy failed: " + err.Error())
		return err
	}
	m.setStatus("AWBW CSV copied")
	return nil
}

// CSV returns the AWBW CSV of the map.
func (m *Model) CSV() string { return m.csv }

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusUntil = m.now().Add(StatusDuration)
}

// Status returns the status line and whether it is a fresh message.
func (m *Model) Status() (string, bool) {
	if m.status != "" && m.now().Before(m.statusUntil) {
		return m.status, true
	}
	return "C: copy AWBW CSV  Space: pause  Esc: quit", false
}
