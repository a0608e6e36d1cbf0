package rollrenderer

import (
	"fmt"
	"math"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"

	"pianoroll/eventextractor"
)

func getDarkerShade(c colorful.Color) colorful.Color {
	return c.BlendLab(colorful.Color{}, 0.3).Clamped()
}

func setRGBColor(dc *gg.Context, c colorful.Color) {
	dc.SetRGB(c.R, c.G, c.B)
}

func getPartColor(i int) colorful.Color {
	return partColors[i%len(partColors)]
}

func pitchClass(pitch int) int {
	return ((pitch % 12) + 12) % 12
}

func isWhiteNote(note int) bool {
	return !blackKeysInOctave[pitchClass(note)]
}

func noteColor(e eventextractor.NoteEvent, mode ColorMode) colorful.Color {
	if mode == ColorByPart {
		return getPartColor(e.Part)
	}
	return pitchClassColors[pitchClass(e.Pitch)]
}

func prepareScreen(dc *gg.Context, l Layout) {
	setRGBColor(dc, backgroundColor)
	dc.DrawRectangle(0, 0, float64(l.Width), float64(l.Height))
	dc.Fill()
}

func drawBlackKeyRows(dc *gg.Context, l Layout) {
	dc.SetRGBA(0, 0, 0, 0.18)
	for p := l.PitchMin; p <= l.PitchMax; p++ {
		if isWhiteNote(p) {
			continue
		}
		dc.DrawRectangle(l.PlotLeft, l.RowY(p), l.PlotRight-l.PlotLeft, l.RowHeight)
		dc.Fill()
	}
}

func drawScreenAxes(dc *gg.Context, l Layout, timeStep float64) {
	for p := l.PitchMin; p <= l.PitchMax; p++ {
		var y = l.RowY(p) + l.RowHeight
		switch pitchClass(p) {
		case 0:
			dc.SetRGBA(1, 1, 1, 0.3)
		case 5:
			dc.SetRGBA(1, 1, 1, 0.1)
		default:
			continue
		}
		dc.SetLineWidth(0.5)
		dc.DrawLine(l.PlotLeft, y, l.PlotRight, y)
		dc.Stroke()
	}

	for _, t := range timeTicks(l.TimeMax, timeStep) {
		var x = l.TimeX(t)
		dc.SetRGBA(1, 1, 1, 0.15)
		dc.SetLineWidth(0.5)
		dc.DrawLine(x, l.PlotTop, x, l.PlotBottom)
		dc.Stroke()
	}

	dc.SetRGBA(1, 1, 1, 0.6)
	dc.SetLineWidth(1)
	dc.DrawRectangle(l.PlotLeft, l.PlotTop, l.PlotRight-l.PlotLeft, l.PlotBottom-l.PlotTop)
	dc.Stroke()
}

func drawKeyboardKey(dc *gg.Context, x, y, w, h float64) {
	dc.DrawRectangle(x, y, w, h)
	setRGBColor(dc, whiteKeyColor)
	dc.FillPreserve()
	dc.SetRGBA(0, 0, 0, 1)
	dc.SetLineWidth(1)
	dc.Stroke()
}

func drawKeyboardBlackKey(dc *gg.Context, x, y, w, h float64) {
	dc.DrawRectangle(x, y, w/1.6, h)
	setRGBColor(dc, blackKeyColor)
	dc.FillPreserve()
	dc.SetRGBA(0, 0, 0, 1)
	dc.SetLineWidth(1)
	dc.Stroke()
}

// drawKeyboard draws a sideways keyboard to the left of the plot, one key
// per pitch row. White keys go first so black keys sit on top.
func drawKeyboard(dc *gg.Context, l Layout) {
	var x = l.PlotLeft - keyboardWidth
	for p := l.PitchMin; p <= l.PitchMax; p++ {
		if isWhiteNote(p) {
			drawKeyboardKey(dc, x, l.RowY(p), keyboardWidth, l.RowHeight)
		}
	}
	for p := l.PitchMin; p <= l.PitchMax; p++ {
		if !isWhiteNote(p) {
			drawKeyboardBlackKey(dc, x, l.RowY(p), keyboardWidth, l.RowHeight)
		}
	}
}

func drawNotes(dc *gg.Context, l Layout, events []eventextractor.NoteEvent, mode ColorMode) (int, int) {
	var drawn, skipped = 0, 0
	for _, e := range events {
		r, ok := l.NoteRect(e)
		if !ok {
			skipped++
			continue
		}
		var c = noteColor(e, mode)
		dc.DrawRectangle(r.X, r.Y, r.W, r.H)
		setRGBColor(dc, c)
		if r.W > 2 && r.H > 2 {
			dc.FillPreserve()
			setRGBColor(dc, getDarkerShade(c))
			dc.SetLineWidth(1)
			dc.Stroke()
		} else {
			dc.Fill()
		}
		drawn++
	}
	return drawn, skipped
}

func drawCNotesNotation(dc *gg.Context, l Layout, face font.Face, keyboard bool) {
	dc.SetFontFace(face)
	var x = l.PlotLeft - 6
	if keyboard {
		x -= keyboardWidth
	}
	for p := l.PitchMin; p <= l.PitchMax; p++ {
		if pitchClass(p) != 0 {
			continue
		}
		if p == 60 {
			dc.SetRGBA(1, 1, 1, 0.95)
		} else {
			setRGBColor(dc, labelColor)
		}
		var y = l.RowY(p) + l.RowHeight/2
		dc.DrawStringAnchored(pitchLabel(p), x, y, 1, 0.35)
	}
}

func drawTimeNotation(dc *gg.Context, l Layout, face font.Face, timeStep float64, label string) {
	dc.SetFontFace(face)
	setRGBColor(dc, labelColor)
	for _, t := range timeTicks(l.TimeMax, timeStep) {
		dc.DrawStringAnchored(formatTick(t), l.TimeX(t), l.PlotBottom+6, 0.5, 1)
	}
	if label != "" {
		var cx = (l.PlotLeft + l.PlotRight) / 2
		dc.DrawStringAnchored(label, cx, l.PlotBottom+axisHeight-6, 0.5, 0)
	}
}

func drawTitle(dc *gg.Context, l Layout, face font.Face, title string) {
	if title == "" {
		return
	}
	dc.SetFontFace(face)
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(title, float64(l.Width)/2, margin+titleHeight/2, 0.5, 0.5)
}

type legendEntry struct {
	Label string
	Color colorful.Color
}

func drawLegend(dc *gg.Context, l Layout, face font.Face, entries []legendEntry) {
	dc.SetFontFace(face)
	var x = l.PlotRight + 16
	var y = l.PlotTop
	const swatch, lineHeight = 12.0, 18.0
	for i, entry := range entries {
		var rowY = y + float64(i)*lineHeight
		dc.DrawRectangle(x, rowY, swatch, swatch)
		setRGBColor(dc, entry.Color)
		dc.Fill()
		setRGBColor(dc, labelColor)
		dc.DrawStringAnchored(entry.Label, x+swatch+6, rowY+swatch/2, 0, 0.35)
	}
}

func pitchLabel(pitch int) string {
	return fmt.Sprintf("C%d-(%d)", pitch/12-1, pitch)
}

func formatTick(t float64) string {
	if t == math.Trunc(t) {
		return fmt.Sprintf("%d", int(t))
	}
	return fmt.Sprintf("%g", math.Round(t*1000)/1000)
}

// timeTicks lists the multiples of step from 0 up to timeMax.
func timeTicks(timeMax, step float64) []float64 {
	if !(step > 0) || !(timeMax >= 0) || math.IsInf(timeMax/step, 0) {
		return nil
	}
	var n = int(math.Floor(timeMax / step))
	var ticks = make([]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		ticks = append(ticks, float64(i)*step)
	}
	return ticks
}

// niceStep picks a 1, 2 or 5 times power of ten spacing that gives at most
// about target ticks over span.
func niceStep(span float64, target int) float64 {
	if span <= 0 {
		return 1
	}
	var raw = span / float64(target)
	var magnitude = math.Pow(10, math.Floor(math.Log10(raw)))
	for _, m := range []float64{1, 2, 5, 10} {
		if m*magnitude >= raw {
			return m * magnitude
		}
	}
	return 10 * magnitude
}
