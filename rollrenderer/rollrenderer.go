// Package rollrenderer draws note events as a piano roll.
package rollrenderer

import (
	"iter"
	"slices"
	"strconv"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/font/gofont/goregular"

	"pianoroll/eventextractor"
)

// Canvas is a rendered roll. Drawn and OutOfRange count the events that
// were and were not placed on it.
type Canvas struct {
	*gg.Context
	Layout     Layout
	Drawn      int
	OutOfRange int
}

// Render draws events in sequence order, so later notes paint over earlier
// ones. The same events and settings always give the same pixels.
func Render(events iter.Seq[eventextractor.NoteEvent], s Settings) (*Canvas, error) {
	var notes = slices.Collect(events)

	layout, err := NewLayout(notes, s)
	if err != nil {
		return nil, err
	}

	font, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, errors.Wrap(err, "parsing label font")
	}
	labelFace := truetype.NewFace(font, &truetype.Options{Size: labelFontSize})
	titleFace := truetype.NewFace(font, &truetype.Options{Size: titleFontSize})

	var timeStep = niceStep(layout.TimeMax, targetTimeTicks)

	dc := gg.NewContext(layout.Width, layout.Height)
	prepareScreen(dc, layout)
	drawBlackKeyRows(dc, layout)
	drawScreenAxes(dc, layout, timeStep)
	if s.ShowKeyboard {
		drawKeyboard(dc, layout)
	}
	drawn, skipped := drawNotes(dc, layout, notes, s.ColorBy)
	drawCNotesNotation(dc, layout, labelFace, s.ShowKeyboard)
	drawTimeNotation(dc, layout, labelFace, timeStep, s.TimeLabel)
	drawTitle(dc, layout, titleFace, s.Title)
	if s.ShowLegend {
		drawLegend(dc, layout, labelFace, legendEntries(notes, s))
	}

	if skipped > 0 {
		logrus.WithFields(logrus.Fields{
			"skipped":   skipped,
			"pitch_min": layout.PitchMin,
			"pitch_max": layout.PitchMax,
		}).Debug("notes outside the pitch range were not drawn")
	}
	logrus.WithFields(logrus.Fields{
		"width":      layout.Width,
		"height":     layout.Height,
		"time_scale": layout.TimeScale,
		"row_height": layout.RowHeight,
	}).Debug("roll laid out")

	return &Canvas{
		Context:    dc,
		Layout:     layout,
		Drawn:      drawn,
		OutOfRange: skipped,
	}, nil
}

// legendEntries lists what is on the roll: pitch classes in chromatic order,
// or parts in index order.
func legendEntries(events []eventextractor.NoteEvent, s Settings) []legendEntry {
	var entries []legendEntry

	if s.ColorBy == ColorByPart {
		var parts []int
		for _, e := range events {
			if !slices.Contains(parts, e.Part) {
				parts = append(parts, e.Part)
			}
		}
		slices.Sort(parts)
		for _, p := range parts {
			var label = partLabel(p, s.PartNames)
			entries = append(entries, legendEntry{Label: label, Color: getPartColor(p)})
		}
		return entries
	}

	var present [12]bool
	for _, e := range events {
		present[pitchClass(e.Pitch)] = true
	}
	for pc, ok := range present {
		if ok {
			entries = append(entries, legendEntry{Label: pitchClassNames[pc], Color: pitchClassColors[pc]})
		}
	}
	return entries
}

func partLabel(part int, names []string) string {
	if part < len(names) && names[part] != "" {
		return names[part]
	}
	return "Part " + strconv.Itoa(part+1)
}
