package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/paneworks/workgrid/internal/domain/layout"
	"github.com/paneworks/workgrid/internal/domain/morph"
	"github.com/paneworks/workgrid/internal/domain/registry"
	"github.com/paneworks/workgrid/internal/domain/session"
	"github.com/paneworks/workgrid/internal/infrastructure/config"
	"github.com/paneworks/workgrid/internal/infrastructure/logging"
	"github.com/paneworks/workgrid/internal/infrastructure/monitoring"
	"github.com/paneworks/workgrid/internal/store"
	"github.com/paneworks/workgrid/internal/surface"
)

func main() {
	// Parse flags
	storePath := flag.String("store", "", "Workgroup file path (overrides WORKGRID_STORE_PATH)")
	frames := flag.Bool("frames", false, "Render every morph frame instead of just the end states")
	dev := flag.Bool("dev", false, "Development mode (colored logs, debug level)")
	flag.Parse()

	cfg := config.LoadOrDefault()
	if *storePath != "" {
		cfg.Store.Path = *storePath
	}
	if *dev {
		cfg.Logging.Level = "debug"
		cfg.Logging.Development = true
	}

	log, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, *frames); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("demo failed", zap.Error(err))
	}
}

// run scripts a tour of the engine on the simulated surface: build two
// workgroups, switch between them with an animated morph, undo, and
// persist the registry.
func run(ctx context.Context, cfg *config.Config, log *logging.Logger, frames bool) error {
	metrics := monitoring.NewMetrics()
	reg := registry.New(log, metrics)
	st := store.New(log, metrics)

	// A previous run's file seeds the registry; a missing one is fine.
	if err := st.LoadInto(ctx, cfg.Store.Path, reg); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	min := layout.Min{W: cfg.Layout.MinPaneWidth, H: cfg.Layout.MinPaneHeight}
	scratch := layout.ContentRef{Name: "scratch"}
	resolver := surface.NewSimResolver()
	mgr := session.NewManager(reg, resolver, session.Config{
		Min:        min,
		HistoryMax: cfg.History.MaxLength,
		Morph: morph.Config{
			HStep:    cfg.Morph.HSteps,
			VStep:    cfg.Morph.VSteps,
			MaxSteps: cfg.Morph.MaxSteps,
			RateHz:   cfg.Morph.RateHz,
			Min:      min,
		},
		Animate:  cfg.Morph.Enabled,
		Fallback: scratch,
	}, log, metrics)

	surf := surface.NewSim(layout.Frame{W: 80, H: 24}, scratch)
	sess := mgr.Attach(surf)

	// Workgroup one: editor beside a log, shell underneath.
	if _, err := sess.Create(ctx, "editing"); err != nil {
		return err
	}
	if err := splitAttach(surf, resolver, layout.Horizontal, "notes.md"); err != nil {
		return err
	}
	if err := splitAttach(surf, resolver, layout.Vertical, "shell"); err != nil {
		return err
	}
	if err := sess.Commit(ctx); err != nil {
		return err
	}
	show("workgroup: editing", surf)

	// Workgroup two: a single full-frame dashboard.
	if _, err := sess.CreateBlank(ctx, "dashboard"); err != nil {
		return err
	}
	if err := attach(surf, resolver, surf.Selected(), "dashboard"); err != nil {
		return err
	}
	if err := sess.Commit(ctx); err != nil {
		return err
	}
	show("workgroup: dashboard", surf)

	// Preview the morph frame by frame on a shadow surface, then run the
	// real switch.
	if frames {
		if err := renderMorph(ctx, cfg, surf, reg, min); err != nil {
			return err
		}
	}
	if err := sess.Switch(ctx, "editing"); err != nil {
		return err
	}
	show("after switch: editing restored", surf)

	// One undo step back to the single-pane capture, then forward again.
	if _, err := sess.Undo(ctx, 1); err != nil {
		return err
	}
	show("after undo", surf)
	if _, err := sess.Redo(ctx, 1); err != nil {
		return err
	}

	if err := st.Save(ctx, cfg.Store.Path, reg); err != nil {
		return err
	}
	found, err := st.Discover(ctx, filepath.Dir(cfg.Store.Path))
	if err != nil {
		return err
	}
	log.Info("store contents", zap.Strings("files", found))

	snap := metrics.Snapshot()
	fmt.Printf("switches=%d snapshots=%d workgroups=%d\n",
		snap.Switches, snap.SnapshotsCaptured, snap.ActiveWorkgroups)
	return nil
}

// renderMorph replays the upcoming switch on a throwaway surface so every
// intermediate tree can be rendered, the way a host preview would.
func renderMorph(ctx context.Context, cfg *config.Config, surf *surface.Sim, reg *registry.Registry, min layout.Min) error {
	target, ok := reg.ByName("editing")
	if !ok {
		return fmt.Errorf("workgroup editing: %w", registry.ErrNotFound)
	}
	live, err := surface.Capture(surf)
	if err != nil {
		return err
	}

	scratch := layout.ContentRef{Name: "scratch"}
	shadow := surface.NewSim(live.Frame, scratch)
	resolver := surface.NewSimResolver()
	restorer := surface.NewRestorer(resolver, scratch, min, nil, nil)
	if err := restorer.Apply(ctx, shadow, live); err != nil {
		return err
	}

	// The sim is terminal-resolution, so use the coarse step profile.
	engine := morph.New(morph.Config{
		HStep:    cfg.Morph.TermHSteps,
		VStep:    cfg.Morph.TermVSteps,
		MaxSteps: cfg.Morph.MaxSteps,
		RateHz:   cfg.Morph.RateHz,
		Min:      min,
	}, nil, nil)

	working := target.Working.ScaleTo(live.Frame.W, live.Frame.H, min)
	n := 0
	_, err = engine.Run(ctx, live.Root, working.Root, func(t layout.Tree) error {
		if err := restorer.ApplyTree(ctx, shadow, t); err != nil {
			return err
		}
		n++
		show(fmt.Sprintf("morph frame %d", n), shadow)
		return nil
	})
	if err != nil && !errors.Is(err, morph.ErrTimeout) {
		return err
	}
	return nil
}

func show(title string, surf *surface.Sim) {
	fmt.Printf("--- %s ---\n%s\n", title, surf.Render())
}

func splitAttach(surf *surface.Sim, resolver *surface.SimResolver, axis layout.Axis, name string) error {
	p, err := surf.Split(surf.Selected(), axis, 0)
	if err != nil {
		return err
	}
	return attach(surf, resolver, p, name)
}

func attach(surf *surface.Sim, resolver *surface.SimResolver, p surface.PaneID, name string) error {
	h, ok := resolver.Resolve(context.Background(), layout.ContentRef{Name: name})
	if !ok {
		return fmt.Errorf("content %q unavailable", name)
	}
	return surf.Attach(p, h)
}
