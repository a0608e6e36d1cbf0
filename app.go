package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"pianoroll/eventextractor"
	"pianoroll/imagewriter"
	"pianoroll/pianoroll"
	"pianoroll/rollrenderer"
	"pianoroll/scoreloader"
)

const (
	exitUsage             = 1
	exitInputNotFound     = 2
	exitUnsupportedFormat = 3
	exitOutputWrite       = 4
)

var errUsage = errors.New("expected exactly one input file")

var successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff8000"))
var dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

func newCommand(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "pianoroll",
		Usage:     "Render a MIDI or MusicXML file as a piano roll PNG",
		ArgsUsage: "<file.mid|file.xml|file.mxl>",
		Writer:    stdout,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output-dir",
				Aliases: []string{"o"},
				Usage:   "write the png into `DIR` instead of next to the input",
			},
			&cli.StringFlag{
				Name:  "resolution",
				Value: "720p",
				Usage: "canvas size preset: 1080p, 720p, 480p or 360p",
			},
			&cli.IntFlag{
				Name:  "width",
				Usage: "canvas width in pixels, overrides --resolution",
			},
			&cli.IntFlag{
				Name:  "height",
				Usage: "canvas height in pixels, overrides --resolution",
			},
			&cli.FloatFlag{
				Name:  "time-scale",
				Usage: "pixels per beat (or second), 0 fits the canvas width",
			},
			&cli.IntFlag{
				Name:  "pitch-min",
				Value: rollrenderer.PitchAuto,
				Usage: "lowest MIDI pitch drawn, -1 picks it from the notes",
			},
			&cli.IntFlag{
				Name:  "pitch-max",
				Value: rollrenderer.PitchAuto,
				Usage: "highest MIDI pitch drawn, -1 picks it from the notes",
			},
			&cli.FloatFlag{
				Name:  "bar-height",
				Usage: "note bar thickness in pixels, 0 fits the canvas height",
			},
			&cli.BoolFlag{
				Name:  "seconds",
				Usage: "measure time in seconds using the score tempo instead of beats",
			},
			&cli.StringFlag{
				Name:  "color-by",
				Value: string(rollrenderer.ColorByPitchClass),
				Usage: "note coloring: pitch-class or part",
			},
			&cli.BoolFlag{
				Name:  "legend",
				Usage: "draw a color legend",
			},
			&cli.BoolFlag{
				Name:  "no-keyboard",
				Usage: "do not draw the keyboard beside the pitch axis",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log debug details",
			},
		},
		Action: run,
	}
}

func run(ctx context.Context, c *cli.Command) error {
	if c.Bool("verbose") {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if c.Args().Len() != 1 {
		return errUsage
	}

	opts, err := optionsFromFlags(c)
	if err != nil {
		return err
	}

	result, err := pianoroll.Convert(c.Args().First(), opts)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.Root().Writer, successStyle.Render("Piano roll saved:"), result.OutputPath)
	fmt.Fprintln(c.Root().Writer, dimStyle.Render(fmt.Sprintf("%d notes drawn, %d skipped without duration, %d outside the pitch range",
		result.Notes, result.Dropped, result.OutOfRange)))
	return nil
}

func optionsFromFlags(c *cli.Command) (pianoroll.Options, error) {
	var opts = pianoroll.DefaultOptions()
	var s = &opts.Render

	resolution, ok := rollrenderer.Resolutions[c.String("resolution")]
	if !ok {
		return opts, errors.Wrapf(errUsage, "unknown resolution %q", c.String("resolution"))
	}
	s.Width, s.Height = resolution[0], resolution[1]
	if c.IsSet("width") {
		s.Width = float64(c.Int("width"))
	}
	if c.IsSet("height") {
		s.Height = float64(c.Int("height"))
	}

	s.TimeScale = c.Float("time-scale")
	s.BarHeight = c.Float("bar-height")
	s.PitchMin = int(c.Int("pitch-min"))
	s.PitchMax = int(c.Int("pitch-max"))
	s.ShowLegend = c.Bool("legend")
	s.ShowKeyboard = !c.Bool("no-keyboard")

	switch mode := rollrenderer.ColorMode(c.String("color-by")); mode {
	case rollrenderer.ColorByPitchClass, rollrenderer.ColorByPart:
		s.ColorBy = mode
	default:
		return opts, errors.Wrapf(errUsage, "unknown color mode %q", mode)
	}

	if c.Bool("seconds") {
		opts.Unit = eventextractor.UnitSeconds
	}
	opts.OutputDir = c.String("output-dir")

	return opts, nil
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, scoreloader.ErrInputNotFound):
		return exitInputNotFound
	case errors.Is(err, scoreloader.ErrUnsupportedFormat):
		return exitUnsupportedFormat
	case errors.Is(err, imagewriter.ErrOutputWrite):
		return exitOutputWrite
	}
	return exitUsage
}

func main() {
	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(logrus.WarnLevel)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	err := newCommand(os.Stdout).Run(context.Background(), os.Args)
	if err != nil {
		logrus.Error(err)
		os.Exit(exitCode(err))
	}
}
