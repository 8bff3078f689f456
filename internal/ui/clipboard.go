package ui

import (
	"sync"

	"golang.design/x/clipboard"
)

// SystemClipboard writes to the desktop clipboard.
type SystemClipboard struct {
	once sync.Once
	err  error
}

func (c *SystemClipboard) WriteText(s string) error {
	c.once.Do(func() { c.err = clipboard.Init() })
	if c.err != nil {
		return c.err
	}
	clipboard.Write(clipboard.FmtText, []byte(s))
	return nil
}
