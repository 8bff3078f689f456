package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/SirThane/BattleMaps-sub000/internal/awmap"
	"github.com/SirThane/BattleMaps-sub000/internal/listener"
)

// ChatResponse is the reply to a handled chat message.
type ChatResponse struct {
	JobID   string          `json:"job_id"`
	Source  string          `json:"source"`
	Summary awmap.Summary   `json:"summary"`
	Upload  listener.Upload `json:"upload"`
}

// formAttachment reads a multipart file part on demand.
type formAttachment struct {
	fh *multipart.FileHeader
}

func (a formAttachment) Filename() string { return a.fh.Filename }

func (a formAttachment) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := a.fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// chatMessage accepts a multipart chat message from the chat front-end.
// Form fields: message_id, channel_id, author_id, from_bot, content; every
// file part is an attachment. Ignored messages get 204.
func (h *handlers) chatMessage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	if err := r.ParseMultipartForm(MaxBodySize); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			respondMapError(w, err)
			return
		}
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid multipart form: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	msg := listener.Message{
		ID:        r.FormValue("message_id"),
		ChannelID: r.FormValue("channel_id"),
		AuthorID:  r.FormValue("author_id"),
		FromBot:   r.FormValue("from_bot") == "true",
		Content:   r.FormValue("content"),
	}
	if msg.AuthorID == "" {
		respondError(w, http.StatusBadRequest, "author_id is required")
		return
	}
	for _, files := range r.MultipartForm.File {
		for _, fh := range files {
			msg.Attachments = append(msg.Attachments, formAttachment{fh: fh})
		}
	}

	if !h.listener.Accepts(msg) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	res, err := h.listener.Handle(r.Context(), msg)
	if err != nil {
		respondMapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ChatResponse{
		JobID:   res.JobID,
		Source:  res.Source,
		Summary: res.Summary,
		Upload:  res.Minimap,
	})
}
