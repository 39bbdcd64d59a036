package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/ledpanel/internal/debug"
)

var (
	dataDir    string
	configFile string
	debugLog   bool
	// Playback
	fps      int
	seed     int64
	duration float64
	addr     string
	preset   string
	params   []string
	// Offline output
	frames  int
	outPath string
	svgPath string
	workers int
	// Other commands
	listenAddr     string
	renderPlaylist bool
	neighboursOf   int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ledpanel",
		Short: "animations for irregular LED strip panels",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debugLog {
				return debug.Enable("")
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			debug.Disable()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ledpanel", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "write a debug log to "+debug.DefaultPath())

	runCmd := &cobra.Command{
		Use:   "run [animation]",
		Short: "stream an animation to the controller in real time",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAnimation,
	}
	playbackFlags(runCmd)
	runCmd.Flags().StringVar(&addr, "addr", "", "controller address (host[:port])")

	sendCmd := &cobra.Command{
		Use:   "send <animation|stop>",
		Short: "ask the controller to run one of its built-in animations",
		Args:  cobra.ExactArgs(1),
		RunE:  sendStart,
	}
	sendCmd.Flags().StringVar(&addr, "addr", "", "controller address (host[:port])")
	sendCmd.Flags().StringVar(&preset, "preset", "", "parameter preset")
	sendCmd.Flags().StringArrayVarP(&params, "param", "p", nil, "parameter override name=value (repeatable)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "emulate a controller: accept commands and run animations locally",
		Args:  cobra.NoArgs,
		RunE:  serveController,
	}
	serveCmd.Flags().StringVar(&listenAddr, "listen", ":3333", "listen address")
	serveCmd.Flags().IntVar(&fps, "fps", 30, "frame rate of local animations")
	serveCmd.Flags().Int64Var(&seed, "seed", 1, "random seed")

	previewCmd := &cobra.Command{
		Use:   "preview [animation]",
		Short: "preview animations in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  previewAnimation,
	}
	playbackFlags(previewCmd)

	recordCmd := &cobra.Command{
		Use:   "record [animation]",
		Short: "render an animation offline and store the frames",
		Args:  cobra.MaximumNArgs(1),
		RunE:  recordAnimation,
	}
	playbackFlags(recordCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot <run-id>",
		Short: "plot brightness, lit fraction and change rate of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgPath, "svg", "", "also write the curves to an svg file")

	exportCmd := &cobra.Command{
		Use:   "export <run-id>",
		Short: "export a run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [animation]",
		Short: "step an animation and save the last frame as svg",
		Args:  cobra.MaximumNArgs(1),
		RunE:  snapshotAnimation,
	}
	playbackFlags(snapshotCmd)
	snapshotCmd.Flags().IntVar(&frames, "frames", 100, "frames to step before the snapshot")
	snapshotCmd.Flags().StringVarP(&outPath, "out", "o", "snapshot.svg", "output file")

	playlistCmd := &cobra.Command{
		Use:   "playlist <file.yaml>",
		Short: "play a playlist on the controller, or render it with --render",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlaylist,
	}
	playlistCmd.Flags().IntVar(&fps, "fps", 30, "frame rate")
	playlistCmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	playlistCmd.Flags().StringVar(&addr, "addr", "", "controller address (host[:port])")
	playlistCmd.Flags().BoolVar(&renderPlaylist, "render", false, "render offline into the data directory")

	benchCmd := &cobra.Command{
		Use:   "bench [animation...]",
		Short: "step animations in parallel and report throughput",
		RunE:  benchAnimations,
	}
	benchCmd.Flags().IntVar(&frames, "frames", 2000, "frames per animation")
	benchCmd.Flags().IntVar(&workers, "workers", 0, "concurrent animations (0 = all)")
	benchCmd.Flags().Int64Var(&seed, "seed", 1, "random seed")

	animationsCmd := &cobra.Command{
		Use:   "animations",
		Short: "list available animations and their parameters",
		Args:  cobra.NoArgs,
		RunE:  listAnimations,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [animation]",
		Short: "list parameter presets",
		Args:  cobra.MaximumNArgs(1),
		Run:   listPresets,
	}

	topologyCmd := &cobra.Command{
		Use:   "topology",
		Short: "describe the configured panel",
		Args:  cobra.NoArgs,
		RunE:  describeTopology,
	}
	topologyCmd.Flags().IntVar(&neighboursOf, "neighbours", -1, "print the neighbours of this address")

	initCmd := &cobra.Command{
		Use:   "init <file.yaml>",
		Short: "write the default configuration to a file",
		Args:  cobra.ExactArgs(1),
		RunE:  writeConfig,
	}

	rootCmd.AddCommand(runCmd, sendCmd, serveCmd, previewCmd, recordCmd, listCmd, plotCmd,
		exportCmd, snapshotCmd, playlistCmd, benchCmd, animationsCmd, presetsCmd, topologyCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func playbackFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&fps, "fps", 30, "frame rate")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().Float64Var(&duration, "time", 10.0, "duration in seconds (0 runs until interrupted)")
	cmd.Flags().StringVar(&preset, "preset", "", "parameter preset")
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "parameter override name=value (repeatable)")
}
