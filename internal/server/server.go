// Package server exposes notation conversion and the game library over HTTP.
package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hailam/chessplay5d/internal/board"
	"github.com/hailam/chessplay5d/internal/notation"
	"github.com/hailam/chessplay5d/internal/notation/codecs"
	"github.com/hailam/chessplay5d/internal/preview"
	"github.com/hailam/chessplay5d/internal/render"
	"github.com/hailam/chessplay5d/internal/storage"
)

// maxBody caps uploaded game text.
const maxBody = 1 << 20

// Handler serves the HTTP API.
type Handler struct {
	store *storage.Store
	log   *zap.SugaredLogger
	opts  codecs.Options
	// DefaultFormat is used when a request names no notation.
	DefaultFormat string
}

// NewHandler returns a handler backed by store. opts configures every codec
// the handler builds.
func NewHandler(store *storage.Store, log *zap.SugaredLogger, opts codecs.Options) *Handler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	opts.Log = log
	return &Handler{store: store, log: log, opts: opts, DefaultFormat: "5dpgn"}
}

// Router builds the route table.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.requestLogger)

	r.Get("/variants", h.Variants)
	r.Post("/convert", h.Convert)
	r.Route("/games", func(r chi.Router) {
		r.Get("/", h.ListGames)
		r.Post("/", h.SaveGame)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetGame)
			r.Delete("/", h.DeleteGame)
			r.Get("/preview", h.Preview)
			r.Get("/image", h.Image)
		})
	})
	return r
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.log.Infow("request",
			"id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}

func (h *Handler) format(r *http.Request, key string) string {
	if f := r.URL.Query().Get(key); f != "" {
		return f
	}
	return h.DefaultFormat
}

func readBody(w http.ResponseWriter, r *http.Request) (string, error) {
	defer r.Body.Close()
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(data), nil
}

// decode reads the request body as format. The returned status is the one
// to report on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, format string) (*board.Game, string, int, error) {
	raw, err := readBody(w, r)
	if err != nil {
		return nil, "", http.StatusBadRequest, err
	}
	c, err := codecs.Lookup(format, h.opts)
	if err != nil {
		return nil, "", http.StatusBadRequest, err
	}
	g, err := c.Decode(raw)
	if err != nil {
		return nil, "", http.StatusBadRequest, err
	}
	return g, raw, 0, nil
}

func (h *Handler) encode(w http.ResponseWriter, g *board.Game, format string) {
	c, err := codecs.Lookup(format, h.opts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	out, err := c.Encode(g)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, notation.ErrUnrepresentable) {
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, err)
		return
	}
	contentType := "text/plain; charset=utf-8"
	if c.Name() == "json" {
		contentType = "application/json"
	}
	writeText(w, contentType, out)
}

// Convert handles POST /convert?from=&to=.
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	g, _, status, err := h.decode(w, r, h.format(r, "from"))
	if err != nil {
		h.log.Debugw("convert rejected", "error", err)
		writeError(w, status, err)
		return
	}
	h.encode(w, g, h.format(r, "to"))
}

// SaveGame handles POST /games?format=.
func (h *Handler) SaveGame(w http.ResponseWriter, r *http.Request) {
	format := h.format(r, "format")
	g, raw, status, err := h.decode(w, r, format)
	if err != nil {
		writeError(w, status, err)
		return
	}
	c, _ := codecs.Lookup(format, h.opts)
	rec := storage.NewGameRecord(g, c.Name(), raw)
	if _, err := h.store.SaveGame(rec); err != nil {
		h.log.Errorw("save game", "error", err)
		writeInternalError(w)
		return
	}
	h.log.Infow("game saved", "id", rec.ID, "moves", rec.Moves, "timelines", rec.Timelines)
	rec.Game, rec.Source = nil, ""
	writeJSON(w, http.StatusCreated, rec)
}

// ListGames handles GET /games.
func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	games, err := h.store.ListGames()
	if err != nil {
		h.log.Errorw("list games", "error", err)
		writeInternalError(w)
		return
	}
	if games == nil {
		games = []*storage.GameRecord{}
	}
	writeJSON(w, http.StatusOK, games)
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*board.Game, bool) {
	id := chi.URLParam(r, "id")
	rec, err := h.store.LoadGame(id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return nil, false
	}
	if err != nil {
		h.log.Errorw("load game", "id", id, "error", err)
		writeInternalError(w)
		return nil, false
	}
	g, err := rec.Restore()
	if err != nil {
		h.log.Errorw("restore game", "id", id, "error", err)
		writeInternalError(w)
		return nil, false
	}
	return g, true
}

// GetGame handles GET /games/{id}?format=. Without a format the stored
// game is returned as JSON.
func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	g, ok := h.load(w, r)
	if !ok {
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	h.encode(w, g, format)
}

// DeleteGame handles DELETE /games/{id}.
func (h *Handler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := h.store.DeleteGame(id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		h.log.Errorw("delete game", "id", id, "error", err)
		writeInternalError(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Preview handles GET /games/{id}/preview: every timeline as plain text.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	g, ok := h.load(w, r)
	if !ok {
		return
	}
	rd := preview.Renderer{Unicode: r.URL.Query().Get("unicode") == "true"}
	writeText(w, "text/plain; charset=utf-8", rd.Multiverse(g, 0))
}

// Image handles GET /games/{id}/image: the multiverse as PNG.
func (h *Handler) Image(w http.ResponseWriter, r *http.Request) {
	g, ok := h.load(w, r)
	if !ok {
		return
	}
	rd, err := render.New(0)
	if err != nil {
		h.log.Errorw("renderer", "error", err)
		writeInternalError(w)
		return
	}
	img, err := rd.Multiverse(g, 0)
	if err != nil {
		h.log.Errorw("render game", "error", err)
		writeInternalError(w)
		return
	}
	var buf bytes.Buffer
	if err := render.WritePNG(&buf, img); err != nil {
		writeInternalError(w)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(buf.Bytes())
}

type variantResponse struct {
	Name      string `json:"name"`
	Size      string `json:"size"`
	Timelines string `json:"timelines"`
	FEN       string `json:"fen"`
}

// Variants handles GET /variants.
func (h *Handler) Variants(w http.ResponseWriter, r *http.Request) {
	names := board.VariantNames()
	out := make([]variantResponse, 0, len(names))
	for _, name := range names {
		v := board.Variants[name]
		out = append(out, variantResponse{
			Name:      v.Name,
			Size:      fmt.Sprintf("%dx%d", v.Width, v.Height),
			Timelines: v.Timelines,
			FEN:       v.FEN,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
