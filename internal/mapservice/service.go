// Package mapservice is the shared entry point for every surface that
// converts, renders or stores maps: the gRPC and HTTP servers, the CLI and
// the chat listener.
package mapservice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/SirThane/BattleMaps-sub000/internal/awmap"
	"github.com/SirThane/BattleMaps-sub000/internal/awmap/awbw"
	"github.com/SirThane/BattleMaps-sub000/internal/awmap/aws"
	"github.com/SirThane/BattleMaps-sub000/internal/events"
	"github.com/SirThane/BattleMaps-sub000/internal/minimap"
	"github.com/SirThane/BattleMaps-sub000/internal/session"
)

// ErrUnsupportedFormat is returned for unknown format names and for
// encodings that cannot be written.
var ErrUnsupportedFormat = errors.New("unsupported map format")

// Format names a map encoding.
type Format string

const (
	FormatAuto     Format = ""
	FormatAWS      Format = "aws"
	FormatAWBW     Format = "awbw"      // CSV terrain grid
	FormatAWBWJSON Format = "awbw_json" // map_info API body
)

// ParseFormat accepts a format name case-insensitively. "csv" is an alias
// for awbw and "json" for awbw_json.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "aws":
		return FormatAWS, nil
	case "awbw", "csv":
		return FormatAWBW, nil
	case "awbw_json", "json":
		return FormatAWBWJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Detect guesses the format of data: the AWS magic, then a JSON object,
// else AWBW CSV.
func Detect(data []byte) Format {
	if aws.IsAWS(data) {
		return FormatAWS
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		return FormatAWBWJSON
	}
	return FormatAWBW
}

type requestIDKey struct{}

// WithRequestID attaches a request id to ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id attached to ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// NewRequestID returns a fresh random id.
func NewRequestID() string { return uuid.NewString() }

// Service wires the codecs, renderer, AWBW fetcher and session store.
type Service struct {
	fetcher awbw.Fetcher
	store   *session.Store
	bus     events.Publisher
	logger  zerolog.Logger
}

// New creates a Service. fetcher and store may be nil when the caller does
// not need AWBW ids or per-user sessions; bus may be nil to drop events.
func New(fetcher awbw.Fetcher, store *session.Store, bus events.Publisher) *Service {
	if bus == nil {
		bus = events.NopPublisher{}
	}
	return &Service{
		fetcher: fetcher,
		store:   store,
		bus:     bus,
		logger:  log.With().Str("component", "map_service").Logger(),
	}
}

// Store returns the session store, which may be nil.
func (s *Service) Store() *session.Store { return s.store }

// Decode parses data in format f, detecting the format when f is FormatAuto.
func (s *Service) Decode(ctx context.Context, f Format, data []byte) (*awmap.Map, error) {
	if f == FormatAuto {
		f = Detect(data)
	}
	var (
		m   *awmap.Map
		err error
	)
	switch f {
	case FormatAWS:
		m, err = aws.Decode(data)
	case FormatAWBW:
		m, err = awbw.DecodeCSV(string(data))
	case FormatAWBWJSON:
		m, err = awbw.DecodeJSON(data)
	default:
		return nil, fmt.Errorf("%w: cannot decode %q", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return nil, err
	}
	s.bus.Publish(events.NewMapDecodedEvent(RequestID(ctx), string(f), m.Title, m.Width, m.Height, m.AWBWID))
	return m, nil
}

// Encode writes m in format f. AWBW JSON is read-only.
func (s *Service) Encode(ctx context.Context, m *awmap.Map, f Format) ([]byte, error) {
	var (
		out []byte
		err error
	)
	switch f {
	case FormatAWS:
		out, err = aws.Encode(m)
	case FormatAWBW:
		out = []byte(awbw.EncodeCSV(m))
	default:
		return nil, fmt.Errorf("%w: cannot encode %q", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return nil, err
	}
	s.bus.Publish(events.NewMapEncodedEvent(RequestID(ctx), string(f), len(out)))
	return out, nil
}

// Convert decodes data from one format and encodes it to another.
func (s *Service) Convert(ctx context.Context, data []byte, from, to Format) ([]byte, *awmap.Map, error) {
	m, err := s.Decode(ctx, from, data)
	if err != nil {
		return nil, nil, err
	}
	out, err := s.Encode(ctx, m, to)
	if err != nil {
		return nil, nil, err
	}
	return out, m, nil
}

// Render draws the minimap for m.
func (s *Service) Render(ctx context.Context, m *awmap.Map) (*minimap.Image, error) {
	start := time.Now()
	img, err := minimap.Render(m)
	if err != nil {
		return nil, err
	}
	s.bus.Publish(events.NewMinimapRenderedEvent(RequestID(ctx), string(img.Format), img.Frames, img.Scale, len(img.Data), time.Since(start)))
	return img, nil
}

// FetchAWBW loads an AWBW map by id through the configured fetcher.
func (s *Service) FetchAWBW(ctx context.Context, id int) (*awmap.Map, error) {
	if s.fetcher == nil {
		return nil, fmt.Errorf("%w: no AWBW fetcher configured", awmap.ErrMapNotFound)
	}
	m, err := awbw.DecodeFromID(ctx, s.fetcher, id)
	if err != nil {
		s.logger.Debug().Err(err).Int("map_id", id).Msg("AWBW fetch failed")
		s.bus.Publish(events.NewFetchFailedEvent(RequestID(ctx), id, err.Error()))
		return nil, err
	}
	s.bus.Publish(events.NewMapDecodedEvent(RequestID(ctx), string(FormatAWBWJSON), m.Title, m.Width, m.Height, m.AWBWID))
	return m, nil
}

// Load stores m as user's current map.
func (s *Service) Load(user string, m *awmap.Map) error {
	if s.store == nil {
		return fmt.Errorf("no session store configured")
	}
	s.store.Set(user, m)
	return nil
}

// Loaded returns user's current map.
func (s *Service) Loaded(user string) (*awmap.Map, bool) {
	if s.store == nil {
		return nil, false
	}
	return s.store.Get(user)
}
