package scoreloader

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html/charset"
)

type mxlScore struct {
	XMLName       xml.Name
	WorkTitle     string           `xml:"work>work-title"`
	MovementTitle string           `xml:"movement-title"`
	PartList      []mxlScorePart   `xml:"part-list>score-part"`
	Parts         []mxlPart        `xml:"part"`
	Measures      []mxlTimeMeasure `xml:"measure"`
}

type mxlScorePart struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"part-name"`
}

// score-partwise: part > measure
type mxlPart struct {
	ID       string       `xml:"id,attr"`
	Measures []mxlMeasure `xml:"measure"`
}

// score-timewise: measure > part
type mxlTimeMeasure struct {
	Parts []mxlTimePart `xml:"part"`
}

type mxlTimePart struct {
	ID      string
	Measure mxlMeasure
}

func (p *mxlTimePart) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, attr := range start.Attr {
		if attr.Name.Local == "id" {
			p.ID = attr.Value
		}
	}
	return p.Measure.UnmarshalXML(d, start)
}

type mxlMeasure struct {
	Events []interface{}
}

type mxlAttributes struct {
	Divisions float64 `xml:"divisions"`
}

type mxlSound struct {
	Tempo float64 `xml:"tempo,attr"`
}

type mxlDirection struct {
	Sound *mxlSound `xml:"sound"`
}

type mxlBackup struct {
	Duration float64 `xml:"duration"`
}

type mxlForward struct {
	Duration float64 `xml:"duration"`
}

type mxlNote struct {
	Pitch     *mxlPitch `xml:"pitch"`
	Rest      *struct{} `xml:"rest"`
	Unpitched *struct{} `xml:"unpitched"`
	Chord     *struct{} `xml:"chord"`
	Grace     *struct{} `xml:"grace"`
	Duration  float64   `xml:"duration"`
	Voice     string    `xml:"voice"`
}

type mxlPitch struct {
	Step   string  `xml:"step"`
	Alter  float64 `xml:"alter"`
	Octave int     `xml:"octave"`
}

var stepSemitones = map[string]int{"C": 0, "D": 2, "E": 4, "F": 5, "G": 7, "A": 9, "B": 11}

// Key returns the MIDI note number of the pitch.
func (p *mxlPitch) Key() (int, error) {
	n, ok := stepSemitones[strings.ToUpper(strings.TrimSpace(p.Step))]
	if !ok {
		return 0, fmt.Errorf("invalid pitch step %q", p.Step)
	}
	if err := checkFinite("alter", p.Alter); err != nil {
		return 0, err
	}
	var key = float64(n) + (float64(p.Octave)+1)*12 + math.Round(p.Alter)
	if key < 0 || key > 127 {
		return 0, fmt.Errorf("pitch %s%+g octave %d is outside the MIDI range", p.Step, p.Alter, p.Octave)
	}
	return int(key), nil
}

func checkFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s %v is not a finite number", name, v)
	}
	return nil
}

func (m *mxlMeasure) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		token, err := d.Token()
		if err != nil {
			return err
		}
		switch t := token.(type) {
		case xml.EndElement:
			return nil
		case xml.StartElement:
			var event interface{}
			switch t.Name.Local {
			case "attributes":
				event = &mxlAttributes{}
			case "sound":
				event = &mxlSound{}
			case "direction":
				event = &mxlDirection{}
			case "backup":
				event = &mxlBackup{}
			case "forward":
				event = &mxlForward{}
			case "note":
				event = &mxlNote{}
			default:
				if err := d.Skip(); err != nil {
					return err
				}
				continue
			}
			if err := d.DecodeElement(event, &t); err != nil {
				return err
			}
			m.Events = append(m.Events, event)
		}
	}
}

func loadMusicXML(path string) (*Score, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(ErrInputNotFound, "%s: %v", path, err)
	}
	defer f.Close()

	score, err := decodeMusicXML(f)
	if err != nil {
		return nil, formatError(path, err)
	}
	return score, nil
}

func decodeMusicXML(r io.Reader) (*Score, error) {
	var doc mxlScore
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}

	var parts []mxlPart
	switch doc.XMLName.Local {
	case "score-partwise":
		parts = doc.Parts
	case "score-timewise":
		parts = timewiseToPartwise(doc.Measures)
	default:
		return nil, fmt.Errorf("root element <%s> is not a MusicXML score", doc.XMLName.Local)
	}

	var names = map[string]string{}
	for _, sp := range doc.PartList {
		names[sp.ID] = strings.TrimSpace(sp.Name)
	}

	var score = &Score{Title: strings.TrimSpace(doc.WorkTitle)}
	if score.Title == "" {
		score.Title = strings.TrimSpace(doc.MovementTitle)
	}

	for i, p := range parts {
		var part = Part{ID: p.ID, Name: names[p.ID]}
		if part.Name == "" {
			part.Name = p.ID
		}
		var tempos *TempoMap
		if i == 0 {
			tempos = &score.Tempos
		}
		notes, err := walkMeasures(p.Measures, tempos)
		if err != nil {
			return nil, fmt.Errorf("part %q: %w", p.ID, err)
		}
		part.Notes = notes
		score.Parts = append(score.Parts, part)
	}

	return score, nil
}

func timewiseToPartwise(measures []mxlTimeMeasure) []mxlPart {
	var parts []mxlPart
	var index = map[string]int{}
	for _, m := range measures {
		for _, p := range m.Parts {
			i, ok := index[p.ID]
			if !ok {
				i = len(parts)
				index[p.ID] = i
				parts = append(parts, mxlPart{ID: p.ID})
			}
			parts[i].Measures = append(parts[i].Measures, p.Measure)
		}
	}
	return parts
}

// walkMeasures turns one part's measures into notes positioned in beats.
// Tempo marks are recorded into tempos when it is not nil.
func walkMeasures(measures []mxlMeasure, tempos *TempoMap) ([]Note, error) {
	var notes []Note
	var divisions float64 = 1
	var measureStart float64 = 0

	for _, measure := range measures {
		var cursor = measureStart
		var measureEnd = measureStart
		var lastStart = measureStart

		for _, event := range measure.Events {
			switch v := event.(type) {
			case *mxlAttributes:
				if err := checkFinite("divisions", v.Divisions); err != nil {
					return nil, err
				}
				if v.Divisions > 0 {
					divisions = v.Divisions
				}
			case *mxlSound:
				if err := checkFinite("tempo", v.Tempo); err != nil {
					return nil, err
				}
				if tempos != nil && v.Tempo > 0 {
					tempos.Set(cursor, v.Tempo)
				}
			case *mxlDirection:
				if v.Sound == nil {
					break
				}
				if err := checkFinite("tempo", v.Sound.Tempo); err != nil {
					return nil, err
				}
				if tempos != nil && v.Sound.Tempo > 0 {
					tempos.Set(cursor, v.Sound.Tempo)
				}
			case *mxlBackup:
				if err := checkFinite("backup duration", v.Duration/divisions); err != nil {
					return nil, err
				}
				cursor -= v.Duration / divisions
				if cursor < measureStart {
					cursor = measureStart
				}
			case *mxlForward:
				if err := checkFinite("forward duration", v.Duration/divisions); err != nil {
					return nil, err
				}
				cursor += v.Duration / divisions
			case *mxlNote:
				var duration = v.Duration / divisions
				if err := checkFinite("note duration", duration); err != nil {
					return nil, err
				}
				if v.Grace != nil {
					duration = 0
				}

				var start = cursor
				if v.Chord != nil {
					start = lastStart
				} else {
					lastStart = cursor
					cursor += duration
				}

				if v.Rest == nil && v.Unpitched == nil && v.Pitch != nil {
					key, err := v.Pitch.Key()
					if err != nil {
						return nil, err
					}
					notes = append(notes, Note{Pitch: key, Offset: start, Duration: duration})
				}
			}
			if err := checkFinite("position", cursor); err != nil {
				return nil, err
			}
			if cursor > measureEnd {
				measureEnd = cursor
			}
		}
		measureStart = measureEnd
	}

	return notes, nil
}
