package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gyaneshwarpardhi/cyoa/internal/engine"
	"github.com/gyaneshwarpardhi/cyoa/internal/pagefile"
	"github.com/gyaneshwarpardhi/cyoa/internal/render"
	"github.com/gyaneshwarpardhi/cyoa/internal/story"
)

// Handler holds all HTTP handler dependencies. It keeps no reader state.
type Handler struct {
	eng *engine.Engine
	log *slog.Logger
	mux *http.ServeMux
}

// New creates an HTTP handler and registers all routes.
func New(eng *engine.Engine, log *slog.Logger) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	h := &Handler{eng: eng, log: log, mux: http.NewServeMux()}

	h.mux.HandleFunc("GET /v1/story", h.getStory)
	h.mux.HandleFunc("GET /v1/pages/{ordinal}", h.getPage)
	h.mux.HandleFunc("GET /v1/depths", h.getDepths)
	h.mux.HandleFunc("GET /v1/routes", h.getRoutes)
	h.mux.HandleFunc("POST /v1/story/reload", h.reloadStory)
	h.mux.HandleFunc("GET /healthz", h.healthz)
	h.mux.HandleFunc("GET /readyz", h.readyz)
	h.mux.Handle("GET /metrics", promhttp.Handler())

	return loggingMiddleware(log, h.mux)
}

type storyResponse struct {
	Revision string    `json:"revision"`
	Source   string    `json:"source"`
	Pages    int       `json:"pages"`
	Wins     int       `json:"wins"`
	Losses   int       `json:"losses"`
	Winnable bool      `json:"winnable"`
	LoadedAt time.Time `json:"loaded_at"`
}

func newStoryResponse(s *engine.Snapshot) storyResponse {
	wins, losses := s.Graph.OutcomeCounts()
	return storyResponse{
		Revision: s.Revision,
		Source:   s.Source,
		Pages:    s.Graph.PageCount(),
		Wins:     wins,
		Losses:   losses,
		Winnable: s.Winnable,
		LoadedAt: s.LoadedAt,
	}
}

type pageResponse struct {
	render.PageDocument
	ReferencedBy []int  `json:"referenced_by"`
	HTML         string `json:"html,omitempty"`
}

type routesResponse struct {
	Revision string `json:"revision"`
	render.RoutesDocument
	Paths []string `json:"paths"`
}

// snapshot writes 503 and returns nil when no story is loaded yet.
func (h *Handler) snapshot(w http.ResponseWriter) *engine.Snapshot {
	s := h.eng.Snapshot()
	if s == nil {
		writeError(w, http.StatusServiceUnavailable, "story not loaded")
	}
	return s
}

// GET /v1/story
func (h *Handler) getStory(w http.ResponseWriter, r *http.Request) {
	s := h.snapshot(w)
	if s == nil {
		return
	}
	writeJSON(w, http.StatusOK, newStoryResponse(s))
}

// GET /v1/pages/{ordinal}; ?format=html adds rendered narrative.
func (h *Handler) getPage(w http.ResponseWriter, r *http.Request) {
	s := h.snapshot(w)
	if s == nil {
		return
	}
	raw := r.PathValue("ordinal")
	ord, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid page number %q", raw))
		return
	}
	p, err := s.Graph.Page(ord)
	if err != nil {
		writeKindError(w, http.StatusNotFound, story.ErrorKind(err), err)
		return
	}
	refs, _ := s.Graph.ReferencedBy(ord)
	resp := pageResponse{PageDocument: render.NewPageDocument(p), ReferencedBy: refs}
	if resp.ReferencedBy == nil {
		resp.ReferencedBy = []int{}
	}
	if r.URL.Query().Get("format") == "html" {
		html, err := render.NarrativeHTML(p)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp.HTML = html
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /v1/depths
func (h *Handler) getDepths(w http.ResponseWriter, r *http.Request) {
	s := h.snapshot(w)
	if s == nil {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"revision": s.Revision,
		"depths":   render.DepthEntries(s.Graph, s.Depths),
	})
}

// GET /v1/routes; 422 when no WIN page is reachable.
func (h *Handler) getRoutes(w http.ResponseWriter, r *http.Request) {
	s := h.snapshot(w)
	if s == nil {
		return
	}
	routes, err := s.Routes()
	if err != nil {
		var ue *story.UnwinnableStoryError
		if errors.As(err, &ue) {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: render.UnwinnableMessage, Kind: story.ErrorKind(err)})
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	paths := make([]string, len(routes))
	for i, rt := range routes {
		paths[i] = rt.String()
	}
	writeJSON(w, http.StatusOK, routesResponse{
		Revision:       s.Revision,
		RoutesDocument: render.NewRoutesDocument(routes),
		Paths:          paths,
	})
}

// POST /v1/story/reload re-reads the story from its source.
func (h *Handler) reloadStory(w http.ResponseWriter, r *http.Request) {
	s, err := h.eng.Load(r.Context())
	if err != nil {
		var pe *pagefile.ParseError
		kind := story.ErrorKind(err)
		if kind != "other" || errors.As(err, &pe) {
			writeKindError(w, http.StatusUnprocessableEntity, kind, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reloaded": true,
		"story":    newStoryResponse(s),
	})
}

// GET /healthz: always 200 (liveness probe).
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /readyz: 503 until a story has been loaded.
func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	s := h.eng.Snapshot()
	if s == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "loading"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ready",
		"revision": s.Revision,
	})
}
