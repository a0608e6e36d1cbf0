package scoreloader

type Format string

const (
	FormatMIDI     Format = "midi"
	FormatMusicXML Format = "musicxml"
	FormatMXL      Format = "mxl"
)

// Score is the normalized form of a loaded file. Offsets and durations
// are measured in quarter-note beats.
type Score struct {
	Title  string
	Format Format
	Parts  []Part
	Tempos TempoMap
}

type Part struct {
	ID    string
	Name  string
	Notes []Note
}

type Note struct {
	Pitch    int
	Offset   float64
	Duration float64
	Velocity uint8
}

func (s *Score) NoteCount() int {
	var n = 0
	for _, p := range s.Parts {
		n += len(p.Notes)
	}
	return n
}
