package events

import "time"

// Event type constants
const (
	TypeMapDecoded      = "map.decoded"
	TypeMapEncoded      = "map.encoded"
	TypeMinimapRendered = "minimap.rendered"
	TypeFetchFailed     = "awbw.fetch_failed"
)

// MapDecodedEvent is published after a map is decoded from any format.
type MapDecodedEvent struct {
	BaseEvent
	Format string `json:"format"`
	Title  string `json:"title"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	AWBWID int    `json:"awbw_id,omitempty"`
}

// NewMapDecodedEvent creates a new map decoded event
func NewMapDecodedEvent(requestID, format, title string, width, height, awbwID int) *MapDecodedEvent {
	return &MapDecodedEvent{
		BaseEvent: BaseEvent{EventType: TypeMapDecoded, Time: time.Now(), Request: requestID},
		Format:    format,
		Title:     title,
		Width:     width,
		Height:    height,
		AWBWID:    awbwID,
	}
}

// MapEncodedEvent is published after a map is written to a format.
type MapEncodedEvent struct {
	BaseEvent
	Format string `json:"format"`
	Bytes  int    `json:"bytes"`
}

// NewMapEncodedEvent creates a new map encoded event
func NewMapEncodedEvent(requestID, format string, size int) *MapEncodedEvent {
	return &MapEncodedEvent{
		BaseEvent: BaseEvent{EventType: TypeMapEncoded, Time: time.Now(), Request: requestID},
		Format:    format,
		Bytes:     size,
	}
}

// MinimapRenderedEvent is published after a minimap is rendered.
type MinimapRenderedEvent struct {
	BaseEvent
	Format   string        `json:"format"`
	Frames   int           `json:"frames"`
	Scale    int           `json:"scale"`
	Bytes    int           `json:"bytes"`
	Duration time.Duration `json:"duration"`
}

// NewMinimapRenderedEvent creates a new minimap rendered event
func NewMinimapRenderedEvent(requestID, format string, frames, scale, size int, took time.Duration) *MinimapRenderedEvent {
	return &MinimapRenderedEvent{
		BaseEvent: BaseEvent{EventType: TypeMinimapRendered, Time: time.Now(), Request: requestID},
		Format:    format,
		Frames:    frames,
		Scale:     scale,
		Bytes:     size,
		Duration:  took,
	}
}

// FetchFailedEvent is published when an AWBW map id cannot be resolved.
type FetchFailedEvent struct {
	BaseEvent
	MapID  int    `json:"map_id"`
	Reason string `json:"reason"`
}

// NewFetchFailedEvent creates a new fetch failed event
func NewFetchFailedEvent(requestID string, mapID int, reason string) *FetchFailedEvent {
	return &FetchFailedEvent{
		BaseEvent: BaseEvent{EventType: TypeFetchFailed, Time: time.Now(), Request: requestID},
		MapID:     mapID,
		Reason:    reason,
	}
}
