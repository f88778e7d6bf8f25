package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/midgard-editor/internal/config"
	"github.com/Faultbox/midgard-editor/internal/editor"
	"github.com/Faultbox/midgard-editor/internal/engine/terrain"
	"github.com/Faultbox/midgard-editor/internal/logger"
	"github.com/Faultbox/midgard-editor/internal/metrics"
	"github.com/Faultbox/midgard-editor/internal/sim"
	"github.com/Faultbox/midgard-editor/internal/undo"
)

// Summary is what a replay reports.
type Summary struct {
	Stats     sim.Stats
	History   undo.State
	MinHeight float32
	MaxHeight float32
	Painted   int // non-zero alpha bytes across all maps, alpha channel excluded
	Metrics   map[string]float64
}

// Replay runs script against a fresh terrain built from cfg.
func Replay(ctx context.Context, cfg *config.Config, script *Script) (*Summary, error) {
	steps, err := script.parse()
	if err != nil {
		return nil, err
	}
	heights, err := cfg.NewHeightmap()
	if err != nil {
		return nil, fmt.Errorf("building terrain: %w", err)
	}
	splat, err := cfg.NewSplat()
	if err != nil {
		return nil, fmt.Errorf("building alpha maps: %w", err)
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	log := logger.Named("replay")

	exec := &lateExecutor{}
	world, err := sim.New(heights, splat, exec, sim.Options{
		QueueSize: cfg.Undo.QueueSize,
		Settings:  cfg.Brush,
		Metrics:   m,
	})
	if err != nil {
		return nil, err
	}
	mgr := undo.NewManager(world, undo.Options{
		MaxSteps:  cfg.Undo.MaxSteps,
		QueueSize: cfg.Undo.QueueSize,
		Metrics:   m,
	})
	exec.mgr = mgr

	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	g, runCtx := errgroup.WithContext(runCtx)
	g.Go(func() error { return world.Run(runCtx) })
	g.Go(func() error { return mgr.Run(runCtx) })

	var summary *Summary
	g.Go(func() error {
		defer stop()
		for i, st := range steps {
			if err := runStep(runCtx, world, mgr, cfg, st); err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
			log.Debug("step done", zap.Int("step", i+1), zap.String("tool", st.Tool))
		}
		s, err := summarize(runCtx, world, mgr)
		if err != nil {
			return err
		}
		summary = s
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if summary == nil {
		return nil, ctx.Err()
	}
	summary.Metrics = gather(reg)
	return summary, nil
}

// lateExecutor forwards to a manager created after the world.
type lateExecutor struct{ mgr *undo.Manager }

func (e *lateExecutor) Execute(ctx context.Context, op editor.Operation) error {
	return e.mgr.Execute(ctx, op)
}

func runStep(ctx context.Context, w *sim.World, mgr *undo.Manager, cfg *config.Config, st parsedStep) error {
	if st.Markers != nil {
		if err := w.SetMarkers(st.Markers.Base, st.Markers.Target); err != nil {
			return err
		}
	}
	if st.stroke {
		if err := w.SetSettings(st.Brush.Apply(cfg.Brush)); err != nil {
			return fmt.Errorf("brush: %w", err)
		}
		if err := w.Begin(st.kind, st.button); err != nil {
			return err
		}
		for _, p := range st.Points {
			if err := w.Drag(p); err != nil {
				return err
			}
		}
		end := w.Release
		if st.Cancel {
			end = w.Cancel
		}
		if err := end(); err != nil {
			return err
		}
		// The commit reaches the undo inbox before any history move below.
		if err := w.Sync(ctx); err != nil {
			return err
		}
	}
	for range st.Undo {
		if _, err := mgr.Undo(ctx); err != nil && !errors.Is(err, undo.ErrNothingToUndo) {
			return err
		}
	}
	for range st.Redo {
		if _, err := mgr.Redo(ctx); err != nil && !errors.Is(err, undo.ErrNothingToRedo) {
			return err
		}
	}
	return nil
}

func summarize(ctx context.Context, w *sim.World, mgr *undo.Manager) (*Summary, error) {
	state, err := mgr.State(ctx)
	if err != nil {
		return nil, err
	}
	s := &Summary{History: state}
	err = w.Do(ctx, func() {
		s.MinHeight, s.MaxHeight = heightRange(w.Heights())
		s.Painted = paintedBytes(w.Splat())
	})
	if err != nil {
		return nil, err
	}
	s.Stats, err = w.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func heightRange(hm *terrain.Heightmap) (lo, hi float32) {
	first := true
	for z := 0; z < hm.Size(); z++ {
		for x := 0; x < hm.Size(); x++ {
			v := hm.WorldHeight(terrain.GridKey{X: x, Z: z})
			if first || v < lo {
				lo = v
			}
			if first || v > hi {
				hi = v
			}
			first = false
		}
	}
	return lo, hi
}

func paintedBytes(splat *terrain.Splat) int {
	if splat == nil {
		return 0
	}
	n := 0
	for _, m := range splat.Maps() {
		order, err := terrain.ChannelOrder(m.Layout())
		if err != nil {
			continue
		}
		data := m.Data()
		for off := 0; off+3 < len(data); off += 4 {
			for _, ch := range order[:3] {
				if data[off+ch] != 0 {
					n++
				}
			}
		}
	}
	return n
}

// gather flattens counter and gauge samples into name{labels} keys.
func gather(reg *prometheus.Registry) map[string]float64 {
	out := make(map[string]float64)
	families, err := reg.Gather()
	if err != nil {
		logger.Warn("gathering metrics", zap.Error(err))
		return out
	}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			key := mf.GetName()
			labels := metric.GetLabel()
			if len(labels) > 0 {
				key += "{"
				for i, l := range labels {
					if i > 0 {
						key += ","
					}
					key += l.GetName() + "=" + l.GetValue()
				}
				key += "}"
			}
			switch {
			case metric.GetCounter() != nil:
				out[key] = metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				out[key] = metric.GetGauge().GetValue()
			case metric.GetHistogram() != nil:
				out[key+"_count"] = float64(metric.GetHistogram().GetSampleCount())
			}
		}
	}
	return out
}

// Print writes a human readable summary.
func (s *Summary) Print(w io.Writer) {
	fmt.Fprintf(w, "Strokes:   %d committed, %d discarded, %d errors\n",
		s.Stats.Committed, s.Stats.Discarded, s.Stats.Errors)
	fmt.Fprintf(w, "History:   %d/%d applied", s.History.Position, s.History.Len)
	if s.History.NextUndo != "" {
		fmt.Fprintf(w, ", next undo %s", s.History.NextUndo)
	}
	if s.History.NextRedo != "" {
		fmt.Fprintf(w, ", next redo %s", s.History.NextRedo)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Heights:   %.3f .. %.3f\n", s.MinHeight, s.MaxHeight)
	fmt.Fprintf(w, "Painted:   %d channel bytes\n", s.Painted)

	if len(s.Metrics) == 0 {
		return
	}
	keys := make([]string, 0, len(s.Metrics))
	for k := range s.Metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintln(w, "\nMetrics:")
	for _, k := range keys {
		fmt.Fprintf(w, "  %-70s %g\n", k, s.Metrics[k])
	}
}
