package server

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/coinmap/pkg/category"
	"github.com/matzehuels/coinmap/pkg/render/sink"
	"github.com/matzehuels/coinmap/pkg/widget"
)

// snapshot is the result of one fetch.
type snapshot struct {
	generation string
	fetchedAt  time.Time
	cats       []category.Category
	err        error
}

// store holds the latest snapshot. Snapshots are replaced, never mutated.
type store struct {
	mu   sync.RWMutex
	snap *snapshot
}

func (st *store) get() *snapshot {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.snap
}

func (st *store) set(snap *snapshot) {
	st.mu.Lock()
	st.snap = snap
	st.mu.Unlock()
}

// source returns a widget source that replays snap.
func (snap *snapshot) source() widget.Source {
	return widget.SourceFunc(func(context.Context, bool) ([]category.Category, error) {
		if snap == nil {
			return nil, errNotLoaded
		}
		if snap.err != nil {
			return nil, snap.err
		}
		return append([]category.Category(nil), snap.cats...), nil
	})
}

// Load fetches categories into a new snapshot and notifies websocket
// clients. With refresh set, the source cache is bypassed. The snapshot is
// replaced even when the fetch fails, so pages show the error state.
func (s *Server) Load(ctx context.Context, refresh bool) error {
	// The fetch goes through a chart so that normalization, generation ids
	// and widget hooks match what every rendered page sees.
	chart := widget.New(s.cfg.Source, sink.NewJSONCanvas(s.cfg.Width, s.cfg.Height), widget.Options{Padding: s.cfg.Padding})
	var err error
	if refresh {
		err = chart.Refresh(ctx)
	} else {
		err = chart.Mount(ctx)
	}

	snap := &snapshot{
		generation: chart.Generation(),
		fetchedAt:  chart.FetchedAt(),
		cats:       chart.Categories(),
		err:        err,
	}
	s.store.set(snap)
	s.log.Info("categories loaded", "generation", snap.generation, "count", len(snap.cats), "ok", err == nil)
	s.hub.broadcast(liveMessage{Generation: snap.generation, Error: errString(err)})
	return err
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return widget.ErrorMessage(err)
}
