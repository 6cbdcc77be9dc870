package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/matzehuels/coinmap/pkg/cache"
	"github.com/matzehuels/coinmap/pkg/category"
	"github.com/matzehuels/coinmap/pkg/errors"
	"github.com/matzehuels/coinmap/pkg/render/sink"
	"github.com/matzehuels/coinmap/pkg/widget"
)

var errNotLoaded = errors.New(errors.ErrCodeNotFound, "categories have not been loaded yet")

type renderParams struct {
	width, height, padding float64
}

func (s *Server) params(r *http.Request) (renderParams, error) {
	p := renderParams{width: s.cfg.Width, height: s.cfg.Height, padding: s.cfg.Padding}
	q := r.URL.Query()
	for _, f := range []struct {
		name string
		dst  *float64
	}{{"width", &p.width}, {"height", &p.height}, {"padding", &p.padding}} {
		v := q.Get(f.name)
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return p, errors.New(errors.ErrCodeInvalidInput, "%s must be a number", f.name)
		}
		*f.dst = n
	}
	if err := errors.ValidateDimensions(p.width, p.height); err != nil {
		return p, err
	}
	if p.padding < 0 || p.padding > p.width || p.padding > p.height {
		return p, errors.New(errors.ErrCodeInvalidInput, "padding out of range")
	}
	return p, nil
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	s.serveArtifact(w, r, sink.FormatHTML)
}

func (s *Server) handleArtifact(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.serveArtifact(w, r, format)
	}
}

// serveArtifact renders the latest snapshot in format. Failed snapshots are
// rendered as the chart's error state; pages get 200 so the message shows,
// other formats get 503.
func (s *Server) serveArtifact(w http.ResponseWriter, r *http.Request, format string) {
	p, err := s.params(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	snap := s.store.get()

	status := http.StatusOK
	if (snap == nil || snap.err != nil) && format != sink.FormatHTML {
		status = http.StatusServiceUnavailable
	}

	var key string
	if snap != nil && snap.err == nil {
		key = s.cfg.Keyer.ArtifactKey(snap.generation, cache.ArtifactKeyOpts{
			Format: format, Width: p.width, Height: p.height, Padding: p.padding,
		})
		if data, ok, _ := s.cfg.Artifacts.Get(r.Context(), key); ok {
			writeArtifact(w, status, contentType(format), data)
			return
		}
	}

	opts := sink.Options{Shell: widget.Shell{LiveURL: "/ws"}, Padding: p.padding}
	if snap != nil {
		opts.Generation = snap.generation
	}
	canvas, err := sink.NewCanvas(format, p.width, p.height, opts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	chart := widget.New(snap.source(), canvas, widget.Options{Padding: p.padding})
	_ = chart.Mount(r.Context())

	data, err := canvas.Bytes()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if key != "" {
		if err := s.cfg.Artifacts.Set(r.Context(), key, data, artifactTTL); err != nil {
			s.log.Warn("artifact cache write failed", "err", err)
		}
	}
	writeArtifact(w, status, canvas.ContentType(), data)
}

type categoriesResponse struct {
	Generation string              `json:"generation"`
	FetchedAt  time.Time           `json:"fetched_at"`
	Error      string              `json:"error,omitempty"`
	Summary    summaryResponse     `json:"summary"`
	Categories []category.Category `json:"categories"`
}

type summaryResponse struct {
	Count          int     `json:"count"`
	Gainers        int     `json:"gainers"`
	Losers         int     `json:"losers"`
	TotalMarketCap float64 `json:"total_market_cap"`
	WeightedChange float64 `json:"weighted_change_24h"`
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	snap := s.store.get()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, errNotLoaded)
		return
	}
	sum := widget.Summarize(snap.cats)
	resp := categoriesResponse{
		Generation: snap.generation,
		FetchedAt:  snap.fetchedAt,
		Error:      errString(snap.err),
		Summary: summaryResponse{
			Count:          sum.Count,
			Gainers:        sum.Gainers,
			Losers:         sum.Losers,
			TotalMarketCap: sum.TotalMarketCap,
			WeightedChange: sum.WeightedChange,
		},
		Categories: snap.cats,
	}
	if resp.Categories == nil {
		resp.Categories = []category.Category{}
	}
	status := http.StatusOK
	if snap.err != nil {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"status": "ok", "clients": s.hub.len()}
	if snap := s.store.get(); snap != nil {
		resp["generation"] = snap.generation
		resp["fetched_at"] = snap.fetchedAt
		if snap.err != nil {
			resp["status"] = "degraded"
			resp["error"] = errString(snap.err)
		}
	} else {
		resp["status"] = "starting"
	}
	writeJSON(w, http.StatusOK, resp)
}

func contentType(format string) string {
	switch format {
	case sink.FormatHTML:
		return "text/html; charset=utf-8"
	case sink.FormatPNG:
		return "image/png"
	case sink.FormatJSON:
		return "application/json"
	default:
		return "image/svg+xml"
	}
}

func writeArtifact(w http.ResponseWriter, status int, ct string, data []byte) {
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{
		"error": errors.UserMessage(err),
		"code":  string(errors.GetCode(err)),
	})
}
