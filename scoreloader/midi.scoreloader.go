package scoreloader

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gitlab.com/gomidi/midi/v2/smf"
)

type midiEvent struct {
	Note     int
	OnTick   int64
	OffTick  int64
	Channel  uint8
	Velocity uint8
}

type midiTrack struct {
	Name   string
	Events []midiEvent
	Time   int64
}

type channelKey struct {
	channel uint8
	key     uint8
}

func loadMIDI(path string) (*Score, error) {
	file, err := smf.ReadFile(path)
	if err != nil {
		return nil, formatError(path, err)
	}
	return scoreFromSMF(path, file)
}

func scoreFromSMF(path string, file *smf.SMF) (*Score, error) {
	ticks, ok := file.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, errors.WithMessagef(ErrUnsupportedFormat, "%s: time format %v is not supported", path, file.TimeFormat)
	}
	if ticks == 0 {
		return nil, errors.WithMessagef(ErrUnsupportedFormat, "%s: zero ticks per quarter note", path)
	}
	var quarterNoteTicks = float64(ticks)

	var score = &Score{}

	for trackIndex, track := range file.Tracks {
		parsed := readTrack(trackIndex, track, func(tick int64, bpm float64) {
			score.Tempos.Set(float64(tick)/quarterNoteTicks, bpm)
		})
		if len(parsed.Events) == 0 {
			if score.Title == "" && trackIndex == 0 {
				score.Title = parsed.Name
			}
			continue
		}

		var part = Part{
			ID:   fmt.Sprintf("T%d", trackIndex),
			Name: parsed.Name,
		}
		if part.Name == "" {
			part.Name = fmt.Sprintf("Track %d", trackIndex)
		}
		for _, event := range parsed.Events {
			part.Notes = append(part.Notes, Note{
				Pitch:    event.Note,
				Offset:   float64(event.OnTick) / quarterNoteTicks,
				Duration: float64(event.OffTick-event.OnTick) / quarterNoteTicks,
				Velocity: event.Velocity,
			})
		}
		score.Parts = append(score.Parts, part)
	}

	return score, nil
}

// readTrack pairs note starts with note ends. Overlapping notes on the same
// channel and key are closed in the order they were opened.
func readTrack(trackIndex int, track smf.Track, onTempo func(tick int64, bpm float64)) midiTrack {
	var parsed = midiTrack{}
	var open = map[channelKey][]int{}

	for _, ev := range track {
		parsed.Time += int64(ev.Delta)
		msg := ev.Message

		var channel, key, velocity uint8
		var bpm float64
		var name string

		switch {
		case msg.GetNoteStart(&channel, &key, &velocity):
			k := channelKey{channel, key}
			open[k] = append(open[k], len(parsed.Events))
			parsed.Events = append(parsed.Events, midiEvent{
				Note:     int(key),
				OnTick:   parsed.Time,
				Channel:  channel,
				Velocity: velocity,
			})
		case msg.GetNoteEnd(&channel, &key):
			k := channelKey{channel, key}
			indexes := open[k]
			if len(indexes) == 0 {
				logrus.Warnf("note off for unpressed note: key=%d ch=%d track=%d", key, channel, trackIndex)
				continue
			}
			parsed.Events[indexes[0]].OffTick = parsed.Time
			open[k] = indexes[1:]
		case msg.GetMetaTempo(&bpm):
			onTempo(parsed.Time, bpm)
		case msg.GetMetaTrackName(&name):
			if parsed.Name == "" {
				parsed.Name = name
			}
		}
	}

	for k, indexes := range open {
		for _, i := range indexes {
			logrus.Warnf("missing note off for note: key=%d ch=%d track=%d", k.key, k.channel, trackIndex)
			parsed.Events[i].OffTick = parsed.Time
		}
	}

	return parsed
}
