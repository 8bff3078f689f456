package httpapi

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/SirThane/BattleMaps-sub000/internal/awmap"
	"github.com/SirThane/BattleMaps-sub000/internal/awmap/awbw"
	"github.com/SirThane/BattleMaps-sub000/internal/listener"
	"github.com/SirThane/BattleMaps-sub000/internal/mapservice"
	"github.com/SirThane/BattleMaps-sub000/internal/minimap"
	"github.com/SirThane/BattleMaps-sub000/internal/monitoring"
)

type handlers struct {
	svc      *mapservice.Service
	monitor  *monitoring.Monitor
	listener *listener.Listener
}

// AWBWResponse is the body of GET /api/awbw/{id}.
type AWBWResponse struct {
	awmap.Summary
	CSV string `json:"awbw_csv"`
}

// readMap decodes the request body using the "from" query parameter.
func (h *handlers) readMap(w http.ResponseWriter, r *http.Request) (*awmap.Map, bool) {
	from, err := mapservice.ParseFormat(r.URL.Query().Get("from"))
	if err != nil {
		respondMapError(w, err)
		return nil, false
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodySize))
	if err != nil {
		respondMapError(w, err)
		return nil, false
	}
	m, err := h.svc.Decode(r.Context(), from, data)
	if err != nil {
		respondMapError(w, err)
		return nil, false
	}
	return m, true
}

// writeEncoded encodes m in the "to" format and writes it.
func (h *handlers) writeEncoded(w http.ResponseWriter, r *http.Request, m *awmap.Map, defaultTo mapservice.Format) {
	to := defaultTo
	if q := r.URL.Query().Get("to"); q != "" {
		f, err := mapservice.ParseFormat(q)
		if err != nil {
			respondMapError(w, err)
			return
		}
		to = f
	}
	out, err := h.svc.Encode(r.Context(), m, to)
	if err != nil {
		respondMapError(w, err)
		return
	}
	if to == mapservice.FormatAWS {
		w.Header().Set("Content-Type", "application/octet-stream")
	} else {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	}
	if m.Title != "" {
		w.Header().Set("X-Map-Title", m.Title)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func (h *handlers) writeMinimap(w http.ResponseWriter, r *http.Request, m *awmap.Map) {
	img, err := h.svc.Render(r.Context(), m)
	if err != nil {
		respondMapError(w, err)
		return
	}
	writeImage(w, img)
}

func writeImage(w http.ResponseWriter, img *minimap.Image) {
	w.Header().Set("Content-Type", img.Format.MIME())
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
	w.Header().Set("X-Minimap-Frames", strconv.Itoa(img.Frames))
	w.Header().Set("X-Minimap-Scale", strconv.Itoa(img.Scale))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img.Data)
}

// convert handles POST /api/maps/convert?from=&to=
func (h *handlers) convert(w http.ResponseWriter, r *http.Request) {
	m, ok := h.readMap(w, r)
	if !ok {
		return
	}
	h.writeEncoded(w, r, m, mapservice.FormatAWBW)
}

// minimap handles POST /api/maps/minimap?from=
func (h *handlers) minimap(w http.ResponseWriter, r *http.Request) {
	m, ok := h.readMap(w, r)
	if !ok {
		return
	}
	h.writeMinimap(w, r, m)
}

// summary handles POST /api/maps/summary?from=
func (h *handlers) summary(w http.ResponseWriter, r *http.Request) {
	m, ok := h.readMap(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, m.Summary())
}

func (h *handlers) fetch(w http.ResponseWriter, r *http.Request) (*awmap.Map, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "Invalid map id")
		return nil, false
	}
	m, err := h.svc.FetchAWBW(r.Context(), id)
	if err != nil {
		respondMapError(w, err)
		return nil, false
	}
	return m, true
}

// awbwMap handles GET /api/awbw/{id}
func (h *handlers) awbwMap(w http.ResponseWriter, r *http.Request) {
	m, ok := h.fetch(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, AWBWResponse{Summary: m.Summary(), CSV: awbw.EncodeCSV(m)})
}

// awbwMinimap handles GET /api/awbw/{id}/minimap
func (h *handlers) awbwMinimap(w http.ResponseWriter, r *http.Request) {
	m, ok := h.fetch(w, r)
	if !ok {
		return
	}
	h.writeMinimap(w, r, m)
}

// loadSession handles PUT /api/sessions/{user}?from=
func (h *handlers) loadSession(w http.ResponseWriter, r *http.Request) {
	m, ok := h.readMap(w, r)
	if !ok {
		return
	}
	if err := h.svc.Load(chi.URLParam(r, "user"), m); err != nil {
		respondError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, m.Summary())
}

func (h *handlers) loaded(w http.ResponseWriter, r *http.Request) (*awmap.Map, bool) {
	m, ok := h.svc.Loaded(chi.URLParam(r, "user"))
	if !ok {
		respondError(w, http.StatusNotFound, "No map loaded")
		return nil, false
	}
	return m, true
}

// getSession handles GET /api/sessions/{user}?to=
func (h *handlers) getSession(w http.ResponseWriter, r *http.Request) {
	m, ok := h.loaded(w, r)
	if !ok {
		return
	}
	h.writeEncoded(w, r, m, mapservice.FormatAWBW)
}

// deleteSession handles DELETE /api/sessions/{user}
func (h *handlers) deleteSession(w http.ResponseWriter, r *http.Request) {
	if store := h.svc.Store(); store != nil {
		store.Delete(chi.URLParam(r, "user"))
	}
	w.WriteHeader(http.StatusNoContent)
}

// sessionMinimap handles GET /api/sessions/{user}/minimap
func (h *handlers) sessionMinimap(w http.ResponseWriter, r *http.Request) {
	m, ok := h.loaded(w, r)
	if !ok {
		return
	}
	h.writeMinimap(w, r, m)
}

// runtime handles GET /api/runtime
func (h *handlers) runtime(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.monitor.Snapshot())
}
