package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/ledpanel/internal/anim"
	"github.com/san-kum/ledpanel/internal/catalog"
	"github.com/san-kum/ledpanel/internal/config"
	"github.com/san-kum/ledpanel/internal/debug"
	"github.com/san-kum/ledpanel/internal/export"
	"github.com/san-kum/ledpanel/internal/metrics"
	"github.com/san-kum/ledpanel/internal/panel"
	"github.com/san-kum/ledpanel/internal/player"
	"github.com/san-kum/ledpanel/internal/playlist"
	"github.com/san-kum/ledpanel/internal/storage"
	"github.com/san-kum/ledpanel/internal/viz"
	"github.com/san-kum/ledpanel/internal/wire"
)

// loadConfig reads the config file, if any, and lets explicitly set flags
// override it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	flags := cmd.Flags()
	if flags.Lookup("fps") != nil && (flags.Changed("fps") || configFile == "") {
		cfg.FPS = fps
	}
	if flags.Lookup("seed") != nil && (flags.Changed("seed") || configFile == "") {
		cfg.Seed = seed
	}
	if flags.Lookup("time") != nil && (flags.Changed("time") || configFile == "") {
		cfg.Duration = duration
	}
	if flags.Changed("addr") {
		cfg.Controller.Addr = addr
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// animationValues layers the config params (when they belong to name),
// the preset and the --param overrides.
func animationValues(cfg *config.Config, name string) (anim.Values, error) {
	var v anim.Values
	if name == cfg.Animation {
		v = v.Merge(cfg.Params)
	}
	if preset != "" {
		p := config.GetPreset(name, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(name))
		}
		v = v.Merge(p)
	}
	overrides, err := parseParams(params)
	if err != nil {
		return nil, err
	}
	return v.Merge(overrides), nil
}

func parseParams(kvs []string) (anim.Values, error) {
	v := make(anim.Values, len(kvs))
	for _, kv := range kvs {
		name, val, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("invalid param %q, want name=value", kv)
		}
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return nil, fmt.Errorf("invalid param %q: %w", kv, err)
		}
		v[strings.TrimSpace(name)] = n
	}
	return v, nil
}

func animationName(cfg *config.Config, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Animation
}

// newPlayer builds the configured panel and starts name on it.
func newPlayer(cfg *config.Config, name string) (*player.Player, error) {
	topo, err := cfg.Topology()
	if err != nil {
		return nil, err
	}
	p := player.New(catalog.NewRegistry(), topo, anim.NewSource(cfg.Seed))
	if name == "" {
		return p, nil
	}
	v, err := animationValues(cfg, name)
	if err != nil {
		return nil, err
	}
	if err := p.StartValues(name, v); err != nil {
		return nil, err
	}
	return p, nil
}

// runContext is cancelled by an interrupt and, for positive seconds, after
// that many seconds.
func runContext(seconds float64) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	if seconds <= 0 {
		return ctx, stop
	}
	ctx, cancel := context.WithTimeout(ctx, time.Duration(seconds*float64(time.Second)))
	return ctx, func() { cancel(); stop() }
}

// finished reports whether err only says the run was stopped.
func finished(err error) bool {
	return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func dial(cfg *config.Config) (*wire.TCPSink, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return wire.Dial(ctx, cfg.Controller.Addr)
}

func runAnimation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	name := animationName(cfg, args)
	p, err := newPlayer(cfg, name)
	if err != nil {
		return err
	}

	sink, err := dial(cfg)
	if err != nil {
		return err
	}
	defer sink.Close()
	p.AddSink(sink)
	for _, m := range metrics.Default() {
		p.AddMetric(m)
	}

	ctx, cancel := runContext(cfg.Duration)
	defer cancel()

	fmt.Printf("streaming %s to %s at %d fps (%s)\n", name, cfg.Controller.Addr, cfg.FPS, p.Params())
	start := time.Now()
	if err := p.Run(ctx, cfg.FPS); !finished(err) {
		return err
	}
	fmt.Printf("stopped after %v\n", time.Since(start).Round(time.Millisecond))
	return nil
}

func sendStart(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	command := wire.StopCommand()
	if args[0] != "stop" {
		topo, err := cfg.Topology()
		if err != nil {
			return err
		}
		e, err := catalog.NewRegistry().Get(args[0])
		if err != nil {
			return err
		}
		v, err := animationValues(cfg, e.Name)
		if err != nil {
			return err
		}
		block, err := e.Encode(topo, v)
		if err != nil {
			return err
		}
		command = wire.StartCommand(e.ID, block)
	}

	sink, err := dial(cfg)
	if err != nil {
		return err
	}
	defer sink.Close()
	if err := sink.Send(command); err != nil {
		return err
	}
	fmt.Printf("sent %s (id %d, %d param bytes) to %s\n", args[0], command.ID, len(command.Params), cfg.Controller.Addr)
	return nil
}

func serveController(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	p, err := newPlayer(cfg, "")
	if err != nil {
		return err
	}

	ctrl := wire.NewController(p.Topology().TotalPixels(), p, func(f anim.Frame) {
		debug.LogEvery(cfg.FPS*10, "serve", "refresh, %d lit", f.Lit())
	})
	// A running animation paints the controller frame as a built-in one would;
	// an idle player leaves it to set commands.
	p.AddSink(player.SinkFunc(func(f anim.Frame) error {
		if p.Active() == "" {
			return nil
		}
		ctrl.Paint(f)
		return nil
	}))

	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	fmt.Printf("controller listening on %s (%d pixels)\n", ln.Addr(), p.Topology().TotalPixels())

	ctx, cancel := runContext(0)
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- p.Run(ctx, cfg.FPS) }()
	served := make(chan error, 1)
	go func() { served <- ctrl.Serve(ctx, ln) }()

	status := time.NewTicker(5 * time.Second)
	defer status.Stop()
	for {
		select {
		case err := <-served:
			cancel()
			if runErr := <-errc; !finished(runErr) {
				return runErr
			}
			if !finished(err) {
				return err
			}
			fmt.Printf("served %d commands, painted %d frames\n", ctrl.Commands(), ctrl.Painted())
			return nil
		case <-status.C:
			active := p.Active()
			if active == "" {
				active = "idle"
			}
			fmt.Printf("%s  commands %d  painted %d  lit %d\n", active, ctrl.Commands(), ctrl.Painted(), ctrl.Frame().Lit())
			if err := ctrl.LastError(); err != nil {
				fmt.Printf("  last rejected start: %v\n", err)
			}
		}
	}
}

func previewAnimation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	p, err := newPlayer(cfg, animationName(cfg, args))
	if err != nil {
		return err
	}
	return viz.Run(viz.NewModel(p, cfg.FPS))
}

func recordAnimation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	name := animationName(cfg, args)
	p, err := newPlayer(cfg, name)
	if err != nil {
		return err
	}
	for _, m := range metrics.Default() {
		p.AddMetric(m)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	n := int(math.Round(cfg.Duration * float64(cfg.FPS)))
	dt := 1 / float64(cfg.FPS)
	fmt.Printf("recording %s: %d frames...\n", name, n)
	start := time.Now()
	res, err := p.RunFrames(context.Background(), n, dt)
	if err != nil {
		return err
	}

	runID, err := st.Save(storage.RunMetadata{
		Animation: res.Animation,
		Params:    res.Params,
		Seed:      cfg.Seed,
		Dt:        dt,
		Metrics:   res.Metrics,
	}, res.Frames, res.Times)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", len(res.Frames))
	printMetrics(res.Metrics)
	return nil
}

func printMetrics(m map[string]float64) {
	fmt.Println("\nmetrics:")
	for _, name := range metrics.Names {
		if v, ok := m[name]; ok {
			fmt.Printf("  %s: %.4f\n", name, v)
		}
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tANIMATION\tTIME\tFRAMES\tDT\tPARAMS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4fs\t%s\n",
			run.ID,
			run.Animation,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Dt,
			run.Params,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	recorded, _, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(recorded) < 2 {
		return fmt.Errorf("not enough frames to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("animation: %s\n", meta.Animation)
	fmt.Printf("frames: %d\n\n", len(recorded))

	series := metrics.Series(recorded)
	captions := map[string]string{
		"brightness": "mean brightness (luma 0-255)",
		"lit":        "lit fraction",
		"change":     "changed pixel fraction",
	}
	for _, name := range metrics.Names {
		graph := asciigraph.Plot(series[name],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(captions[name]),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if svgPath != "" {
		svg := export.SeriesToSVG(series, metrics.Names, 800, 300)
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgPath)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	recorded, times, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return storage.ExportJSON(out, *meta, recorded, times)
}

func snapshotAnimation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	name := animationName(cfg, args)
	p, err := newPlayer(cfg, name)
	if err != nil {
		return err
	}
	if frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", frames)
	}

	var last anim.Frame
	dt := 1 / float64(cfg.FPS)
	for i := 0; i < frames; i++ {
		last = p.Step(dt)
	}

	svg := export.FrameToSVG(p.Topology(), last, 20)
	if err := os.WriteFile(outPath, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s after %d frames of %s (%d lit)\n", outPath, frames, name, last.Lit())
	return nil
}

func runPlaylist(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	pl, err := playlist.Load(args[0])
	if err != nil {
		return err
	}
	p, err := newPlayer(cfg, "")
	if err != nil {
		return err
	}
	if err := pl.Validate(p.Registry()); err != nil {
		return err
	}

	if renderPlaylist {
		return renderToStore(cfg, p, pl)
	}

	sink, err := dial(cfg)
	if err != nil {
		return err
	}
	defer sink.Close()
	p.AddSink(sink)

	ctx, cancel := runContext(0)
	defer cancel()

	err = playlist.Run(ctx, p, pl, cfg.FPS, func(i int, e playlist.Entry) {
		fmt.Printf("[%d/%d] %s for %.1fs\n", i+1, len(pl.Entries), e.Animation, e.Duration)
	})
	if !finished(err) {
		return err
	}
	return nil
}

func renderToStore(cfg *config.Config, p *player.Player, pl *playlist.Playlist) error {
	for _, m := range metrics.Default() {
		p.AddMetric(m)
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	dt := 1 / float64(cfg.FPS)
	res, err := playlist.Render(context.Background(), p, pl, dt)
	if err != nil {
		return err
	}
	name := pl.Name
	if name == "" {
		name = "playlist"
	}
	runID, err := st.Save(storage.RunMetadata{
		Animation: name,
		Seed:      cfg.Seed,
		Dt:        dt,
		Metrics:   res.Metrics,
	}, res.Frames, res.Times)
	if err != nil {
		return err
	}
	fmt.Printf("rendered %d entries, %d frames\n", len(pl.Entries), len(res.Frames))
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func benchAnimations(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	topo, err := cfg.Topology()
	if err != nil {
		return err
	}

	fmt.Printf("stepping %d frames per animation on %d pixels...\n", frames, topo.TotalPixels())
	results, err := player.Bench(context.Background(), catalog.NewRegistry(), topo, player.BenchConfig{
		Names:   args,
		Frames:  frames,
		Dt:      1 / float64(cfg.FPS),
		Seed:    cfg.Seed,
		Workers: workers,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ANIMATION\tFRAMES\tELAPSED\tPER FRAME\tFPS\tMEAN LIT")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%d\t%v\t%v\t%.0f\t%.1f\n",
			r.Name, r.Frames, r.Elapsed.Round(time.Microsecond), r.PerFrame, r.FPS(), r.MeanLit)
	}
	return w.Flush()
}

func listAnimations(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	topo, err := cfg.Topology()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSCHEMA\tDEFAULTS\tDESCRIPTION")
	for _, e := range catalog.NewRegistry().List() {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", e.ID, e.Name, e.Schema, e.Defaults(topo), e.Description)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) {
	names := make([]string, 0, len(config.Presets))
	if len(args) > 0 {
		names = append(names, args[0])
	} else {
		for name := range config.Presets {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	fmt.Println("available presets:")
	for _, name := range names {
		presets := config.ListPresets(name)
		if len(presets) == 0 {
			fmt.Printf("  %s: none\n", name)
			continue
		}
		fmt.Printf("\n  %s:\n", name)
		for _, p := range presets {
			fmt.Printf("    %-10s %s\n", p, config.GetPreset(name, p))
		}
	}
	fmt.Println("\nusage: ledpanel run <animation> --preset <name>")
}

func describeTopology(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	topo, err := cfg.Topology()
	if err != nil {
		return err
	}

	fmt.Printf("strips: %d\n", len(topo.Strips))
	fmt.Printf("addresses: %d (%d mapped)\n", topo.TotalPixels(), len(topo.MappedIndices()))
	fmt.Printf("longest strip: %d\n\n", topo.Longest())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COLUMN\tSTART\tCOUNT\tDIRECTION\tSPACING")
	for i, s := range topo.Strips {
		fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%.3f\n", i, s.Start, s.Count, s.Direction, panel.Scale(int(s.Count), topo.Longest()))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if neighboursOf >= 0 {
		if !topo.Mapped(neighboursOf) {
			return fmt.Errorf("address %d is not on any strip", neighboursOf)
		}
		fmt.Printf("\nneighbours of %d: %v\n", neighboursOf, topo.Neighbours[neighboursOf])
	}
	return nil
}

func writeConfig(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(args[0]); err == nil {
		return fmt.Errorf("%s already exists", args[0])
	}
	if err := config.Save(args[0], config.Default()); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}
