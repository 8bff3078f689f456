package listener

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SirThane/BattleMaps-sub000/internal/awmap"
	"github.com/SirThane/BattleMaps-sub000/internal/awmap/aws"
	"github.com/SirThane/BattleMaps-sub000/internal/config"
	"github.com/SirThane/BattleMaps-sub000/internal/mapservice"
	"github.com/SirThane/BattleMaps-sub000/internal/session"
	"github.com/SirThane/BattleMaps-sub000/internal/testutil"
)

type fileAttachment struct {
	name string
	data []byte
	err  error
}

func (f fileAttachment) Filename() string { return f.name }

func (f fileAttachment) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.data, f.err
}

func newListener(t *testing.T, cfg config.ChatConfig) (*Listener, *session.Store) {
	t.Helper()
	fetcher := &testutil.StubFetcher{Bodies: map[int][]byte{
		321: testutil.AWBWResponse(t, "Linked", [][]int{{1, 1}, {34, 1}}, nil),
	}}
	store := session.NewStore(time.Minute)
	t.Cleanup(store.Close)
	return New(cfg, mapservice.New(fetcher, store, nil)), store
}

func TestAccepts(t *testing.T) {
	csv := fileAttachment{name: "map.csv"}
	tests := []struct {
		name string
		cfg  config.ChatConfig
		msg  Message
		want bool
	}{
		{"csv attachment", config.ChatConfig{ListenForMaps: true}, Message{Attachments: []Attachment{csv}}, true},
		{"aws attachment", config.ChatConfig{ListenForMaps: true}, Message{Attachments: []Attachment{fileAttachment{name: "Spann.AWS"}}}, true},
		{"awbw link", config.ChatConfig{ListenForMaps: true}, Message{Content: "try https://awbw.amarriner.com/prevmaps.php?maps_id=321 !"}, true},
		{"image only", config.ChatConfig{ListenForMaps: true}, Message{Attachments: []Attachment{fileAttachment{name: "cat.png"}}}, false},
		{"plain text", config.ChatConfig{ListenForMaps: true}, Message{Content: "hello"}, false},
		{"listening off", config.ChatConfig{ListenForMaps: false}, Message{Attachments: []Attachment{csv}}, false},
		{"bot author", config.ChatConfig{ListenForMaps: true}, Message{FromBot: true, Attachments: []Attachment{csv}}, false},
		{"allowed channel", config.ChatConfig{ListenForMaps: true, AllowedChannels: []string{"maps"}}, Message{ChannelID: "maps", Attachments: []Attachment{csv}}, true},
		{"other channel", config.ChatConfig{ListenForMaps: true, AllowedChannels: []string{"maps"}}, Message{ChannelID: "general", Attachments: []Attachment{csv}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := newListener(t, tt.cfg)
			assert.Equal(t, tt.want, l.Accepts(tt.msg))
		})
	}
}

func TestHandle_FirstMapAttachmentWins(t *testing.T) {
	l, _ := newListener(t, config.ChatConfig{ListenForMaps: true})

	res, err := l.Handle(context.Background(), Message{
		AuthorID: "erin",
		Attachments: []Attachment{
			fileAttachment{name: "screenshot.png", data: []byte("not a map")},
			fileAttachment{name: "first.txt", data: []byte("1\n")},
			fileAttachment{name: "second.csv", data: []byte("1,1\n")},
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.JobID)
	assert.Equal(t, "first.txt", res.Source)
	assert.Equal(t, 1, res.Summary.Width)
}

func TestHandle_CSVAttachment(t *testing.T) {
	l, store := newListener(t, config.ChatConfig{ListenForMaps: true, BufferChannel: "buffer"})

	res, err := l.Handle(context.Background(), Message{
		ChannelID:   "maps",
		AuthorID:    "bob",
		Attachments: []Attachment{fileAttachment{name: "Spann Island.csv", data: []byte("1,2\n3,34\n")}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Spann Island.csv", res.Source)
	assert.Equal(t, "Spann Island", res.Summary.Title)
	assert.Equal(t, "buffer", res.Minimap.ChannelID)
	assert.Equal(t, "Spann Island.png", res.Minimap.Filename)
	assert.Equal(t, "image/png", res.Minimap.MIME)

	m, ok := store.Get("bob")
	require.True(t, ok)
	assert.Equal(t, 2, m.Width)
}

func TestHandle_AWSUploadsGIFToMessageChannelWithoutBuffer(t *testing.T) {
	l, store := newListener(t, config.ChatConfig{ListenForMaps: true})

	duel := testutil.DuelMap(t)
	data, err := aws.Encode(duel)
	require.NoError(t, err)

	res, err := l.Handle(context.Background(), Message{
		ChannelID:   "maps",
		AuthorID:    "alice",
		Attachments: []Attachment{fileAttachment{name: "duel.aws", data: data}},
	})
	require.NoError(t, err)
	assert.Equal(t, "maps", res.Minimap.ChannelID)
	assert.Equal(t, "duel.gif", res.Minimap.Filename)
	assert.Equal(t, "image/gif", res.Minimap.MIME)
	assert.Equal(t, "Duel", res.Summary.Title)

	m, ok := store.Get("alice")
	require.True(t, ok)
	assert.True(t, awmap.Equivalent(duel, m))
}

func TestHandle_AWBWLink(t *testing.T) {
	l, store := newListener(t, config.ChatConfig{ListenForMaps: true, BufferChannel: "buffer"})

	res, err := l.Handle(context.Background(), Message{
		AuthorID: "carol",
		Content:  "https://awbw.amarriner.com/prevmaps.php?maps_id=321",
	})
	require.NoError(t, err)
	assert.Equal(t, "Linked", res.Summary.Title)
	assert.Equal(t, 321, res.Summary.AWBWID)
	assert.Equal(t, "awbw_321.png", res.Minimap.Filename)

	_, ok := store.Get("carol")
	assert.True(t, ok)
}

func TestHandle_Failures(t *testing.T) {
	l, store := newListener(t, config.ChatConfig{ListenForMaps: true})

	_, err := l.Handle(context.Background(), Message{AuthorID: "dave", Content: "nothing here"})
	assert.ErrorIs(t, err, ErrNoMap)

	_, err = l.Handle(context.Background(), Message{
		AuthorID:    "dave",
		Attachments: []Attachment{fileAttachment{name: "broken.csv", data: []byte("1,2\n1")}},
	})
	assert.ErrorIs(t, err, awmap.ErrDimensionMismatch)

	readErr := errors.New("connection reset")
	_, err = l.Handle(context.Background(), Message{
		AuthorID:    "dave",
		Attachments: []Attachment{fileAttachment{name: "map.csv", err: readErr}},
	})
	assert.ErrorIs(t, err, readErr)

	_, err = l.Handle(context.Background(), Message{
		AuthorID: "dave",
		Content:  "awbw.amarriner.com/prevmaps.php?maps_id=9",
	})
	assert.ErrorIs(t, err, awmap.ErrMapNotFound)
	assert.Contains(t, err.Error(), "No map matches given ID")

	_, ok := store.Get("dave")
	assert.False(t, ok, "failed loads leave no session")
}
