// Package api exposes playback controls, the latest frame and the
// conversation over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/matt-g-everett/vistx/conversation"
	"github.com/matt-g-everett/vistx/spec"
	"github.com/matt-g-everett/vistx/stream"
)

// Player is the playback surface the API controls.
type Player interface {
	Status(ctx context.Context) (stream.Status, error)
	Play(ctx context.Context) (stream.Status, error)
	Pause(ctx context.Context) (stream.Status, error)
	Reset(ctx context.Context) (stream.Status, error)
	Seek(ctx context.Context, ms float64) (stream.Status, error)
}

// Frames supplies the most recent rendered frame.
type Frames interface {
	Latest() *stream.Frame
}

// Conversation supplies pages of conversation items, newest first, and the
// visualization on screen.
type Conversation interface {
	Page(offset, limit int) ([]conversation.Item, int)
	Current() *spec.Spec
}

// Api serves the HTTP interface.
type Api struct {
	player Player
	frames Frames
	convo  Conversation
	logger *slog.Logger
	mux    *http.ServeMux
}

// NewApi creates an Api. frames and convo may be nil, which disables their
// endpoints.
func NewApi(player Player, frames Frames, convo Conversation) *Api {
	a := new(Api)
	a.player = player
	a.frames = frames
	a.convo = convo
	a.logger = slog.Default().With("component", "api")

	a.mux = http.NewServeMux()
	a.mux.HandleFunc("GET /status", a.handleStatus)
	a.mux.HandleFunc("POST /play", a.control(a.player.Play))
	a.mux.HandleFunc("POST /pause", a.control(a.player.Pause))
	a.mux.HandleFunc("POST /reset", a.control(a.player.Reset))
	a.mux.HandleFunc("POST /seek", a.handleSeek)
	a.mux.HandleFunc("GET /frame.png", a.handleFrame)
	a.mux.HandleFunc("GET /conversation", a.handleConversation)
	a.mux.HandleFunc("GET /visualization", a.handleVisualization)
	return a
}

// ServeHTTP implements http.Handler.
func (a *Api) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

// Serve listens on addr until ctx is done.
func (a *Api) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           a,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	a.logger.Info("listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type statusResponse struct {
	stream.Status
	Readout string `json:"readout"`
}

func (a *Api) writeStatus(w http.ResponseWriter, st stream.Status, err error) {
	if err != nil {
		a.writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: st, Readout: st.String()})
}

func (a *Api) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := a.player.Status(r.Context())
	a.writeStatus(w, st, err)
}

func (a *Api) control(fn func(context.Context) (stream.Status, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := fn(r.Context())
		a.writeStatus(w, st, err)
	}
}

func (a *Api) handleSeek(w http.ResponseWriter, r *http.Request) {
	ms, err := strconv.ParseFloat(r.URL.Query().Get("t"), 64)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, "t must be a number of milliseconds")
		return
	}
	st, err := a.player.Seek(r.Context(), ms)
	a.writeStatus(w, st, err)
}

func (a *Api) handleFrame(w http.ResponseWriter, r *http.Request) {
	var f *stream.Frame
	if a.frames != nil {
		f = a.frames.Latest()
	}
	if f == nil || f.Image == nil {
		a.writeError(w, http.StatusNotFound, "no frame rendered yet")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Vistx-Spec", f.Info.SpecID)
	w.Header().Set("X-Vistx-Elapsed", strconv.FormatFloat(f.Info.ElapsedMs, 'f', -1, 64))
	if err := png.Encode(w, f.Image); err != nil {
		a.logger.Warn("frame write failed", "error", err)
	}
}

type conversationResponse struct {
	Items  []conversation.Item `json:"items"`
	Total  int                 `json:"total"`
	Offset int                 `json:"offset"`
}

func (a *Api) handleConversation(w http.ResponseWriter, r *http.Request) {
	if a.convo == nil {
		a.writeError(w, http.StatusNotFound, "no conversation")
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := queryInt(r, "limit", 20)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	items, total := a.convo.Page(offset, limit)
	writeJSON(w, http.StatusOK, conversationResponse{Items: items, Total: total, Offset: offset})
}

func (a *Api) handleVisualization(w http.ResponseWriter, r *http.Request) {
	var vis *spec.Spec
	if a.convo != nil {
		vis = a.convo.Current()
	}
	if vis == nil {
		a.writeError(w, http.StatusNotFound, "no visualization")
		return
	}
	layers := make([]string, len(vis.Layers))
	for i, l := range vis.Layers {
		layers[i] = l.ID
	}
	writeJSON(w, http.StatusOK, visualizationJSON{ID: vis.ID, DurationMs: vis.Duration, FPS: vis.FPS, Layers: layers})
}

// visualizationJSON summarizes the visualization on screen.
type visualizationJSON struct {
	ID         string   `json:"id"`
	DurationMs float64  `json:"durationMs"`
	FPS        float64  `json:"fps"`
	Layers     []string `json:"layers"`
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errors.New(key + " must be a non-negative integer")
	}
	return n, nil
}

func (a *Api) writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
