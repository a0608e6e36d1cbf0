package scoreloader

import (
	"math"
	"sort"
)

const DefaultBPM float64 = 120

type TempoChange struct {
	Beat float64
	BPM  float64
}

// TempoMap holds tempo changes sorted by beat. Before the first change,
// and for an empty map, DefaultBPM applies.
type TempoMap []TempoChange

// Set records a tempo change. A later change at the same beat replaces
// the earlier one. Tempos that are not positive and finite are ignored.
func (m *TempoMap) Set(beat float64, bpm float64) {
	if !(bpm > 0) || math.IsInf(bpm, 0) || math.IsNaN(beat) {
		return
	}
	var i = sort.Search(len(*m), func(i int) bool { return (*m)[i].Beat >= beat })
	if i < len(*m) && (*m)[i].Beat == beat {
		(*m)[i].BPM = bpm
		return
	}
	*m = append(*m, TempoChange{})
	copy((*m)[i+1:], (*m)[i:])
	(*m)[i] = TempoChange{Beat: beat, BPM: bpm}
}

// BPM returns the tempo in effect at beat.
func (m TempoMap) BPM(beat float64) float64 {
	var bpm = DefaultBPM
	for _, t := range m {
		if t.Beat > beat {
			break
		}
		bpm = t.BPM
	}
	return bpm
}

// Seconds converts a beat position into elapsed seconds from beat 0.
func (m TempoMap) Seconds(beat float64) float64 {
	var accumulatedTime float64 = 0
	var currentBeat float64 = 0
	var bpm = DefaultBPM

	for _, t := range m {
		if t.Beat >= beat {
			break
		}
		if t.Beat > currentBeat {
			accumulatedTime += (t.Beat - currentBeat) * 60 / bpm
			currentBeat = t.Beat
		}
		bpm = t.BPM
	}

	return accumulatedTime + (beat-currentBeat)*60/bpm
}
