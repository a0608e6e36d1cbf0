// Package pianoroll runs one conversion from a music file to a PNG roll.
package pianoroll

import (
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"pianoroll/eventextractor"
	"pianoroll/imagewriter"
	"pianoroll/rollrenderer"
	"pianoroll/scoreloader"
)

type Options struct {
	// OutputDir overrides the directory of the input file.
	OutputDir string
	Unit      eventextractor.TimeUnit
	Render    rollrenderer.Settings
}

func DefaultOptions() Options {
	return Options{
		Unit:   eventextractor.UnitBeats,
		Render: rollrenderer.DefaultSettings(),
	}
}

type Result struct {
	OutputPath string
	Notes      int
	Dropped    int
	OutOfRange int
}

// Convert loads input, draws its notes and writes the PNG. Any failure
// aborts the conversion and no image is written.
func Convert(input string, opts Options) (Result, error) {
	executionStartTime := time.Now()
	log := logrus.WithField("file", input)

	score, err := scoreloader.Load(input)
	if err != nil {
		return Result{}, err
	}

	extractOpts := eventextractor.Options{Unit: opts.Unit}
	events := eventextractor.Extract(score, extractOpts)

	settings := opts.Render
	if settings.Title == "" {
		settings.Title = titleFor(input, score)
	}
	settings.TimeLabel = timeLabel(opts.Unit)
	if settings.PartNames == nil {
		for _, p := range score.Parts {
			settings.PartNames = append(settings.PartNames, p.Name)
		}
	}

	canvas, err := rollrenderer.Render(events, settings)
	if err != nil {
		return Result{}, err
	}

	outputPath := imagewriter.OutputPath(input, opts.OutputDir)
	if err := imagewriter.Write(canvas.Context, outputPath); err != nil {
		return Result{}, err
	}

	result := Result{
		OutputPath: outputPath,
		Notes:      canvas.Drawn,
		Dropped:    eventextractor.Dropped(score, extractOpts),
		OutOfRange: canvas.OutOfRange,
	}

	log.WithFields(logrus.Fields{
		"output":       outputPath,
		"notes":        result.Notes,
		"dropped":      result.Dropped,
		"out_of_range": result.OutOfRange,
		"seconds":      time.Since(executionStartTime).Seconds(),
	}).Info("piano roll generated")

	return result, nil
}

func titleFor(input string, score *scoreloader.Score) string {
	var title = "Piano roll for " + filepath.Base(input)
	if score.Title != "" {
		title += " (" + score.Title + ")"
	}
	return title
}

func timeLabel(unit eventextractor.TimeUnit) string {
	if unit == eventextractor.UnitSeconds {
		return "Time (s)"
	}
	return "Time (beats)"
}
