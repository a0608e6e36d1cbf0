package rollrenderer

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

var pitchClassNames = [12]string{"C", "C#/Db", "D", "D#/Eb", "E", "F", "F#/Gb", "G", "G#/Ab", "A", "A#/Bb", "B"}

var pitchClassColors = [12]colorful.Color{
	namedColor(colornames.Red),
	namedColor(colornames.Green),
	namedColor(colornames.Blue),
	namedColor(colornames.Yellow),
	namedColor(colornames.Purple),
	namedColor(colornames.Orange),
	namedColor(colornames.Cyan),
	namedColor(colornames.Magenta),
	namedColor(colornames.Lime),
	namedColor(colornames.Pink),
	namedColor(colornames.Teal),
	namedColor(colornames.Lavender),
}

var orangeColor = colorful.Color{R: 1, G: 0.5, B: 0}
var greenColor = colorful.Color{R: 0.2, G: 1, B: 0.2}
var blueColor = colorful.Color{R: 0.5, G: 0.85, B: 1}
var yellowColor = colorful.Color{R: 0.8, G: 0.6, B: 0.05}
var pinkColor = colorful.Color{R: 1, G: 0.6, B: 0.7}
var greyColor = colorful.Color{R: 0.5, G: 0.5, B: 0.5}

var partColors = []colorful.Color{orangeColor, greenColor, blueColor, yellowColor, pinkColor, greyColor}

var backgroundColor = colorful.Color{R: 0.17, G: 0.17, B: 0.17}
var whiteKeyColor = colorful.Color{R: 1, G: 1, B: 1}
var blackKeyColor = colorful.Color{R: 0.13, G: 0.13, B: 0.13}
var labelColor = colorful.Color{R: 0.85, G: 0.85, B: 0.85}

var blackKeysInOctave = map[int]bool{1: true, 3: true, 6: true, 8: true, 10: true}

const (
	margin          float64 = 20
	titleHeight     float64 = 30
	axisHeight      float64 = 44
	labelWidth      float64 = 64
	keyboardWidth   float64 = 36
	legendWidth     float64 = 110
	maxCanvasSide   float64 = 32768
	timePadding     float64 = 0.1
	targetTimeTicks         = 10
	labelFontSize   float64 = 11
	titleFontSize   float64 = 15
)

func namedColor(c color.RGBA) colorful.Color {
	cf, _ := colorful.MakeColor(c)
	return cf
}
