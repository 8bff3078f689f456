package subscribers

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/SirThane/BattleMaps-sub000/internal/events"
)

// LoggerSubscriber logs events to structured logs
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // If non-nil, only log these event types
	devMode         bool            // If true, log full event details
}

// NewLoggerSubscriber creates a new logger subscriber
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter sets which event types to log (nil means log all)
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}

	ls.eventTypeFilter = make(map[string]bool)
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

// SetDevMode enables or disables logging the full event as JSON
func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// HandleEvent processes an event by logging it. Fetch failures are always
// logged at warn level or above.
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	eventLogger := ls.logger.With().
		Str("event_type", event.Type()).
		Time("timestamp", event.Timestamp()).
		Logger()

	level := ls.logLevel
	if _, failed := event.(*events.FetchFailedEvent); failed && level < zerolog.WarnLevel {
		level = zerolog.WarnLevel
	}
	logEvent := eventLogger.WithLevel(level)
	if id := event.RequestID(); id != "" {
		logEvent.Str("request_id", id)
	}

	switch e := event.(type) {
	case *events.MapDecodedEvent:
		logEvent.
			Str("format", e.Format).
			Str("title", e.Title).
			Int("width", e.Width).
			Int("height", e.Height)
		if e.AWBWID != 0 {
			logEvent.Int("awbw_id", e.AWBWID)
		}

	case *events.MapEncodedEvent:
		logEvent.
			Str("format", e.Format).
			Int("bytes", e.Bytes)

	case *events.MinimapRenderedEvent:
		logEvent.
			Str("format", e.Format).
			Int("frames", e.Frames).
			Int("scale", e.Scale).
			Int("bytes", e.Bytes).
			Dur("duration", e.Duration)

	case *events.FetchFailedEvent:
		logEvent.
			Int("map_id", e.MapID).
			Str("reason", e.Reason)
	}

	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	logEvent.Msg("Map event")
}
