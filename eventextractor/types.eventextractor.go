package eventextractor

type TimeUnit string

const (
	UnitBeats   TimeUnit = "beats"
	UnitSeconds TimeUnit = "seconds"
)

// NoteEvent is one note ready to be drawn. Start and Duration are in the
// unit the extractor was asked for.
type NoteEvent struct {
	Pitch    int
	Start    float64
	Duration float64
	Part     int
}

func (e NoteEvent) End() float64 {
	return e.Start + e.Duration
}

type Options struct {
	Unit TimeUnit
}
