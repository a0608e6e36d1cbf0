package rollrenderer

import (
	"math"

	"github.com/pkg/errors"

	"pianoroll/eventextractor"
)

type Rect struct {
	X, Y, W, H float64
}

// Layout maps time and pitch into canvas pixels. Time 0 sits on PlotLeft and
// each pitch between PitchMin and PitchMax owns one row, lowest at the bottom.
type Layout struct {
	Width  int
	Height int

	PlotLeft   float64
	PlotTop    float64
	PlotRight  float64
	PlotBottom float64

	TimeMax   float64
	TimeScale float64

	PitchMin  int
	PitchMax  int
	RowHeight float64
	BarHeight float64
}

func NewLayout(events []eventextractor.NoteEvent, s Settings) (Layout, error) {
	if s.TimeScale < 0 {
		return Layout{}, errors.Errorf("time scale must not be negative, got %v", s.TimeScale)
	}
	if s.BarHeight < 0 {
		return Layout{}, errors.Errorf("bar height must not be negative, got %v", s.BarHeight)
	}

	var l = Layout{}
	var err error
	l.PitchMin, l.PitchMax, err = pitchRange(events, s.PitchMin, s.PitchMax)
	if err != nil {
		return Layout{}, err
	}
	l.TimeMax = timeRange(events)
	if math.IsNaN(l.TimeMax) || math.IsInf(l.TimeMax, 0) {
		return Layout{}, errors.Errorf("time range 0..%v is not finite", l.TimeMax)
	}
	var rows = float64(l.PitchMax - l.PitchMin + 1)
	if rows > maxCanvasSide {
		return Layout{}, errors.Errorf("pitch range %d..%d exceeds the %v pixel limit", l.PitchMin, l.PitchMax, maxCanvasSide)
	}

	var leftGutter = margin + labelWidth
	if s.ShowKeyboard {
		leftGutter += keyboardWidth
	}
	var rightGutter = margin
	if s.ShowLegend {
		rightGutter += legendWidth
	}
	var topGutter = margin + titleHeight
	var bottomGutter = margin + axisHeight

	var width = s.Width
	if s.TimeScale > 0 {
		width = leftGutter + math.Ceil(l.TimeMax*s.TimeScale) + rightGutter
	}
	var height = s.Height
	if s.BarHeight > 0 {
		height = topGutter + math.Ceil(rows*s.BarHeight) + bottomGutter
	}

	width = math.Ceil(width)
	height = math.Ceil(height)
	if width > maxCanvasSide || height > maxCanvasSide {
		return Layout{}, errors.Errorf("canvas %vx%v exceeds the %v pixel limit", width, height, maxCanvasSide)
	}
	if width-leftGutter-rightGutter < 1 || height-topGutter-bottomGutter < 1 {
		return Layout{}, errors.Errorf("canvas %vx%v leaves no room for the roll", width, height)
	}
	if rows > height-topGutter-bottomGutter {
		return Layout{}, errors.Errorf("pitch range %d..%d needs more rows than the %vpx plot height", l.PitchMin, l.PitchMax, height-topGutter-bottomGutter)
	}

	l.Width = int(width)
	l.Height = int(height)
	l.PlotLeft = leftGutter
	l.PlotTop = topGutter
	l.PlotRight = width - rightGutter
	l.PlotBottom = height - bottomGutter

	l.TimeScale = s.TimeScale
	if l.TimeScale == 0 {
		l.TimeScale = (l.PlotRight - l.PlotLeft) / l.TimeMax
	}
	l.RowHeight = (l.PlotBottom - l.PlotTop) / rows
	l.BarHeight = l.RowHeight
	if s.BarHeight > 0 {
		l.RowHeight = s.BarHeight
		l.BarHeight = s.BarHeight
		l.PlotTop = l.PlotBottom - rows*s.BarHeight
	}

	return l, nil
}

// NoteRect returns the bar for e. Notes outside the pitch range are not
// drawn and report false.
func (l Layout) NoteRect(e eventextractor.NoteEvent) (Rect, bool) {
	if e.Pitch < l.PitchMin || e.Pitch > l.PitchMax {
		return Rect{}, false
	}
	var rowTop = l.RowY(e.Pitch)
	return Rect{
		X: l.TimeX(e.Start),
		Y: rowTop + (l.RowHeight-l.BarHeight)/2,
		W: e.Duration * l.TimeScale,
		H: l.BarHeight,
	}, true
}

func (l Layout) TimeX(t float64) float64 {
	return l.PlotLeft + t*l.TimeScale
}

// RowY returns the top edge of the row for pitch.
func (l Layout) RowY(pitch int) float64 {
	return l.PlotBottom - float64(pitch-l.PitchMin+1)*l.RowHeight
}

func pitchRange(events []eventextractor.NoteEvent, pitchMin, pitchMax int) (int, int, error) {
	var lo, hi = 60, 72
	if len(events) > 0 {
		var minPitch, maxPitch = events[0].Pitch, events[0].Pitch
		for _, e := range events[1:] {
			minPitch = min(minPitch, e.Pitch)
			maxPitch = max(maxPitch, e.Pitch)
		}
		lo = octaveFloor(minPitch)
		hi = octaveFloor(maxPitch) + 12
	}

	if pitchMin < PitchAuto || pitchMax < PitchAuto {
		return 0, 0, errors.Errorf("pitch bounds must be %d (auto) or non-negative, got %d..%d", PitchAuto, pitchMin, pitchMax)
	}

	// A single explicit bound pulls the automatic one along with it.
	switch {
	case pitchMin != PitchAuto && pitchMax != PitchAuto:
		lo, hi = pitchMin, pitchMax
	case pitchMin != PitchAuto:
		lo, hi = pitchMin, max(hi, pitchMin)
	case pitchMax != PitchAuto:
		lo, hi = min(lo, pitchMax), pitchMax
	}
	if lo > hi {
		return 0, 0, errors.Errorf("pitch range %d..%d is empty", lo, hi)
	}
	return lo, hi, nil
}

func timeRange(events []eventextractor.NoteEvent) float64 {
	if len(events) == 0 {
		return 1
	}
	var end float64 = 0
	for _, e := range events {
		end = max(end, e.End())
	}
	return end + timePadding
}

func octaveFloor(pitch int) int {
	var pc = ((pitch % 12) + 12) % 12
	return pitch - pc
}
