package httpapi

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SirThane/BattleMaps-sub000/internal/config"
	"github.com/SirThane/BattleMaps-sub000/internal/listener"
	"github.com/SirThane/BattleMaps-sub000/internal/mapservice"
	"github.com/SirThane/BattleMaps-sub000/internal/session"
	"github.com/SirThane/BattleMaps-sub000/internal/testutil"
)

func setupChatServer(t *testing.T) (*httptest.Server, *session.Store) {
	t.Helper()
	store := session.NewStore(time.Minute)
	svc := mapservice.New(&testutil.StubFetcher{}, store, nil)
	l := listener.New(config.ChatConfig{
		ListenForMaps:   true,
		BufferChannel:   "buffer",
		AllowedChannels: []string{"maps"},
	}, svc)

	srv := httptest.NewServer(NewRouter(svc, Options{Listener: l}))
	t.Cleanup(func() {
		srv.Close()
		store.Close()
	})
	return srv, store
}

func postChat(t *testing.T, url string, fields map[string]string, files map[string][]byte) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for name, data := range files {
		fw, err := mw.CreateFormFile("attachment", name)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	resp, err := http.Post(url+"/api/chat/messages", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestChatMessage(t *testing.T) {
	srv, store := setupChatServer(t)

	resp := postChat(t, srv.URL,
		map[string]string{"channel_id": "maps", "author_id": "alice", "message_id": "m1"},
		map[string][]byte{"duel.aws": duelAWS(t)})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body ChatResponse
	require.NoError(t, json.Unmarshal(readAll(t, resp), &body))
	assert.NotEmpty(t, body.JobID)
	assert.Equal(t, "duel.aws", body.Source)
	assert.Equal(t, "Duel", body.Summary.Title)
	assert.Equal(t, "buffer", body.Upload.ChannelID)
	assert.Equal(t, "duel.gif", body.Upload.Filename)
	assert.Equal(t, "GIF89a", string(body.Upload.Data[:6]))

	_, ok := store.Get("alice")
	assert.True(t, ok)
}

func TestChatMessage_Ignored(t *testing.T) {
	srv, store := setupChatServer(t)

	tests := []struct {
		name   string
		fields map[string]string
		files  map[string][]byte
	}{
		{"other channel", map[string]string{"channel_id": "general", "author_id": "bob"}, map[string][]byte{"m.csv": []byte("1")}},
		{"bot", map[string]string{"channel_id": "maps", "author_id": "bob", "from_bot": "true"}, map[string][]byte{"m.csv": []byte("1")}},
		{"no map", map[string]string{"channel_id": "maps", "author_id": "bob", "content": "gg"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postChat(t, srv.URL, tt.fields, tt.files)
			assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		})
	}
	assert.Equal(t, 0, store.Len())
}

func TestChatMessage_Errors(t *testing.T) {
	srv, _ := setupChatServer(t)

	resp := postChat(t, srv.URL, map[string]string{"channel_id": "maps"}, map[string][]byte{"m.csv": []byte("1")})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postChat(t, srv.URL,
		map[string]string{"channel_id": "maps", "author_id": "carol"},
		map[string][]byte{"m.csv": []byte("1,2\n1")})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postChat(t, srv.URL,
		map[string]string{"channel_id": "maps", "author_id": "carol", "content": "awbw.amarriner.com/prevmaps.php?maps_id=4"},
		nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/api/chat/messages", []byte("not multipart"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
