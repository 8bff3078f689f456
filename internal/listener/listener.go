// Package listener turns chat messages carrying maps into loaded sessions
// and minimaps. The chat front-end supplies messages and performs uploads;
// this package only decides what to do with them.
package listener

import (
	"context"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/SirThane/BattleMaps-sub000/internal/awmap"
	"github.com/SirThane/BattleMaps-sub000/internal/awmap/aws"
	"github.com/SirThane/BattleMaps-sub000/internal/config"
	"github.com/SirThane/BattleMaps-sub000/internal/mapservice"
)

// ErrNoMap is returned by Handle when a message carries nothing to load.
var ErrNoMap = errors.New("message has no map")

// Attachment is a file on a chat message. Read may block on the network.
type Attachment interface {
	Filename() string
	Read(ctx context.Context) ([]byte, error)
}

// Message is the subset of a chat message the listener needs.
type Message struct {
	ID          string
	ChannelID   string
	AuthorID    string
	FromBot     bool
	Content     string
	Attachments []Attachment
}

// Upload is a file the front-end should post.
type Upload struct {
	ChannelID string `json:"channel_id"`
	Filename  string `json:"filename"`
	MIME      string `json:"mime"`
	Data      []byte `json:"data"`
}

// Result describes a handled message.
type Result struct {
	JobID   string
	Source  string // attachment file name or AWBW map URL
	Summary awmap.Summary
	Minimap Upload
}

// awbwLink matches AWBW map pages such as prevmaps.php?maps_id=12345.
var awbwLink = regexp.MustCompile(`awbw\.amarriner\.com/\S*?maps_id=(\d+)`)

// Listener decides which messages carry maps and processes them.
type Listener struct {
	listen  bool
	buffer  string
	allowed map[string]bool
	svc     *mapservice.Service
	logger  zerolog.Logger
}

// New reads the chat settings once; later config changes need a new Listener.
func New(cfg config.ChatConfig, svc *mapservice.Service) *Listener {
	l := &Listener{
		listen: cfg.ListenForMaps,
		buffer: cfg.BufferChannel,
		svc:    svc,
		logger: log.With().Str("component", "map_listener").Logger(),
	}
	if len(cfg.AllowedChannels) > 0 {
		l.allowed = make(map[string]bool, len(cfg.AllowedChannels))
		for _, c := range cfg.AllowedChannels {
			l.allowed[c] = true
		}
	}
	return l
}

// Accepts reports whether msg should be processed: listening is on, the
// channel is allowed (an empty list allows all), the author is not a bot
// and the message has a map attachment or an AWBW link.
func (l *Listener) Accepts(msg Message) bool {
	if !l.listen || msg.FromBot {
		return false
	}
	if l.allowed != nil && !l.allowed[msg.ChannelID] {
		return false
	}
	return mapAttachment(msg) != nil || awbwID(msg.Content) > 0
}

// Handle loads the map from msg, stores it as the author's current map and
// renders its minimap for upload to the buffer channel.
func (l *Listener) Handle(ctx context.Context, msg Message) (*Result, error) {
	jobID := uuid.NewString()
	ctx = mapservice.WithRequestID(ctx, jobID)
	logger := l.logger.With().
		Str("job_id", jobID).
		Str("message_id", msg.ID).
		Str("author_id", msg.AuthorID).
		Logger()

	m, source, err := l.load(ctx, msg)
	if err != nil {
		if !errors.Is(err, ErrNoMap) {
			logger.Warn().Err(err).Msg("Failed to load map from message")
		}
		return nil, err
	}
	if err := l.svc.Load(msg.AuthorID, m); err != nil {
		return nil, err
	}

	img, err := l.svc.Render(ctx, m)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to render minimap")
		return nil, err
	}

	target := l.buffer
	if target == "" {
		target = msg.ChannelID
	}
	res := &Result{
		JobID:   jobID,
		Source:  source,
		Summary: m.Summary(),
		Minimap: Upload{
			ChannelID: target,
			Filename:  img.Filename(fileBase(m, source)),
			MIME:      img.Format.MIME(),
			Data:      img.Data,
		},
	}
	logger.Info().
		Str("source", source).
		Str("upload_channel", target).
		Str("format", string(img.Format)).
		Msg("Map loaded from chat")
	return res, nil
}

func (l *Listener) load(ctx context.Context, msg Message) (*awmap.Map, string, error) {
	if a := mapAttachment(msg); a != nil {
		data, err := a.Read(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("read attachment %s: %w", a.Filename(), err)
		}
		f := mapservice.FormatAWBW
		if aws.IsAWS(data) {
			f = mapservice.FormatAWS
		}
		m, err := l.svc.Decode(ctx, f, data)
		if err != nil {
			return nil, "", err
		}
		if m.Title == "" {
			m.Title = strings.TrimSuffix(a.Filename(), path.Ext(a.Filename()))
		}
		return m, a.Filename(), nil
	}

	if id := awbwID(msg.Content); id > 0 {
		m, err := l.svc.FetchAWBW(ctx, id)
		if err != nil {
			return nil, "", err
		}
		return m, fmt.Sprintf("https://awbw.amarriner.com/prevmaps.php?maps_id=%d", id), nil
	}
	return nil, "", ErrNoMap
}

// mapAttachment returns the first attachment that looks like a map file.
func mapAttachment(msg Message) Attachment {
	for _, a := range msg.Attachments {
		switch strings.ToLower(path.Ext(a.Filename())) {
		case aws.Ext, ".csv", ".txt":
			return a
		}
	}
	return nil
}

func awbwID(content string) int {
	match := awbwLink.FindStringSubmatch(content)
	if match == nil {
		return 0
	}
	id, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return id
}

func fileBase(m *awmap.Map, source string) string {
	if m.AWBWID != 0 {
		return "awbw_" + strconv.Itoa(m.AWBWID)
	}
	base := strings.TrimSuffix(path.Base(source), path.Ext(source))
	if base == "" || base == "." || base == "/" {
		return "minimap"
	}
	return base
}
