// Package eventextractor flattens a loaded score into a time-ordered
// sequence of note events.
package eventextractor

import (
	"iter"
	"math"
	"slices"

	"github.com/sirupsen/logrus"

	"pianoroll/scoreloader"
)

// Extract returns the notes of every part ordered by start time. Notes
// starting together keep the order they were encountered in. Notes with a
// non-positive or non-finite duration, or a negative start, are dropped.
func Extract(score *scoreloader.Score, opts Options) iter.Seq[NoteEvent] {
	return func(yield func(NoteEvent) bool) {
		for _, e := range collectEvents(score, opts) {
			if !yield(e) {
				return
			}
		}
	}
}

func collectEvents(score *scoreloader.Score, opts Options) []NoteEvent {
	var events = make([]NoteEvent, 0, score.NoteCount())
	var dropped = 0

	for partIndex, part := range score.Parts {
		for _, note := range part.Notes {
			event, ok := toEvent(note, partIndex, score.Tempos, opts.Unit)
			if !ok {
				dropped++
				continue
			}
			events = append(events, event)
		}
	}

	slices.SortStableFunc(events, func(a, b NoteEvent) int {
		switch {
		case a.Start < b.Start:
			return -1
		case a.Start > b.Start:
			return 1
		}
		return 0
	})

	if dropped > 0 {
		logrus.WithField("dropped", dropped).Debug("skipped notes without a valid time span")
	}

	return events
}

func toEvent(note scoreloader.Note, part int, tempos scoreloader.TempoMap, unit TimeUnit) (NoteEvent, bool) {
	if !validSpan(note.Offset, note.Duration) {
		return NoteEvent{}, false
	}

	var event = NoteEvent{
		Pitch:    note.Pitch,
		Start:    note.Offset,
		Duration: note.Duration,
		Part:     part,
	}
	if unit == UnitSeconds {
		event.Start = tempos.Seconds(note.Offset)
		event.Duration = tempos.Seconds(note.Offset+note.Duration) - event.Start
		if !validSpan(event.Start, event.Duration) {
			return NoteEvent{}, false
		}
	}
	return event, true
}

func validSpan(start, duration float64) bool {
	return start >= 0 && duration > 0 && !math.IsInf(start, 0) && !math.IsInf(duration, 0)
}

// Dropped reports how many notes of score Extract will skip with opts.
func Dropped(score *scoreloader.Score, opts Options) int {
	var dropped = 0
	for _, part := range score.Parts {
		for _, note := range part.Notes {
			if _, ok := toEvent(note, 0, score.Tempos, opts.Unit); !ok {
				dropped++
			}
		}
	}
	return dropped
}

func Collect(seq iter.Seq[NoteEvent]) []NoteEvent {
	return slices.Collect(seq)
}
