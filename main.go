package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/wavescrub/internal/config"
	"github.com/olivier-w/wavescrub/internal/media"
	"github.com/olivier-w/wavescrub/internal/player"
	"github.com/olivier-w/wavescrub/internal/ui"
)

type cliArgs struct {
	path    string
	logFile string
	opts    config.Options
}

func parseArgs(args []string, stderr io.Writer) (cliArgs, error) {
	fs := flag.NewFlagSet("wavescrub", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: wavescrub [flags] <file>\n\nsupported formats: %s\n\n", media.SupportedExtsList())
		fs.PrintDefaults()
	}

	d := config.Default()
	fixed := fs.Bool("fixed", false, "draw bars split around a centre axis")
	peak := fs.String("peak", "avg", "bucket aggregation: avg or max")
	blockWidth := fs.Float64("block-width", d.BlockWidth, "columns per bar")
	topScale := fs.Float64("top-scale", d.TopBlockScale, "scale of the upper half of each bar")
	bottomScale := fs.Float64("bottom-scale", d.BottomBlockScale, "scale of the lower half of each bar")
	played := fs.String("played-color", string(d.BlockColorPlayed), "colour of played bars")
	unplayed := fs.String("color", string(d.BlockColor), "colour of unplayed bars")
	noTime := fs.Bool("no-time", false, "hide the time text")
	noSnap := fs.Bool("no-snap", false, "stay at the end when playback completes")
	noAnim := fs.Bool("no-anim", false, "disable bar animation")
	logFile := fs.String("log-file", os.Getenv("WAVESCRUB_LOG"), "write logs to this file")

	if err := fs.Parse(args); err != nil {
		return cliArgs{}, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return cliArgs{}, errors.New("expected exactly one file")
	}

	mode, err := config.ParsePeakMode(*peak)
	if err != nil {
		return cliArgs{}, err
	}

	opts := d
	if *fixed {
		opts.Variant = config.VariantFixed
	}
	opts.PeakMode = mode
	opts.BlockWidth = *blockWidth
	opts.TopBlockScale = *topScale
	opts.BottomBlockScale = *bottomScale
	opts.BlockColorPlayed = lipgloss.Color(*played)
	opts.BlockColor = lipgloss.Color(*unplayed)
	opts.ShowTimeText = !*noTime
	opts.SnapToStartAtCompletion = !*noSnap
	opts.AnimateBars = !*noAnim
	if err := opts.Validate(); err != nil {
		return cliArgs{}, err
	}

	return cliArgs{path: fs.Arg(0), logFile: *logFile, opts: opts}, nil
}

func main() {
	args, err := parseArgs(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if args.logFile != "" {
		f, err := tea.LogToFile(args.logFile, "wavescrub")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	if err := media.CheckFile(args.path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	meta := player.ReadMetadata(args.path)
	p := player.New(args.path)
	defer p.Release()

	model := ui.New(p, player.NewExtractor(args.path), meta, args.opts)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
