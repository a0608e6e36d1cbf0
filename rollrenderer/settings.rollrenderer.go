package rollrenderer

type ScreenResolution [2]float64

var resolution1080p = ScreenResolution{1920, 1080}
var resolution720p = ScreenResolution{1280, 720}
var resolution480p = ScreenResolution{854, 480}
var resolution360p = ScreenResolution{640, 360}

var Resolutions = map[string]ScreenResolution{
	"1080p": resolution1080p,
	"720p":  resolution720p,
	"480p":  resolution480p,
	"360p":  resolution360p,
}

var defaultResolution = resolution720p

// PitchAuto lets the layout pick the pitch bound from the notes.
const PitchAuto = -1

type ColorMode string

const (
	ColorByPitchClass ColorMode = "pitch-class"
	ColorByPart       ColorMode = "part"
)

type Settings struct {
	// Canvas size in pixels. Grown to fit when TimeScale or BarHeight is set.
	Width  float64
	Height float64

	// Pixels per time unit. Zero fits the roll to the canvas width.
	TimeScale float64

	// Inclusive pitch bounds, or PitchAuto.
	PitchMin int
	PitchMax int

	// Pixel thickness of a note bar. Zero fits the pitch rows to the canvas height.
	BarHeight float64

	ColorBy      ColorMode
	PartNames    []string
	ShowLegend   bool
	ShowKeyboard bool
	Title        string
	TimeLabel    string
}

func DefaultSettings() Settings {
	return Settings{
		Width:        defaultResolution[0],
		Height:       defaultResolution[1],
		PitchMin:     PitchAuto,
		PitchMax:     PitchAuto,
		ColorBy:      ColorByPitchClass,
		ShowKeyboard: true,
		TimeLabel:    "Time (beats)",
	}
}
