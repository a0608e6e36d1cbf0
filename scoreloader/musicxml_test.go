package scoreloader

import (
	"archive/zip"
	"bytes"
	"errors"
	"reflect"
	"testing"
)

const partwiseScore = `<?xml version="1.0" encoding="UTF-8"?>
<score-partwise version="3.1">
  <work><work-title>Test Piece</work-title></work>
  <part-list>
    <score-part id="P1"><part-name>Piano</part-name></score-part>
  </part-list>
  <part id="P1">
    <measure number="1">
      <attributes><divisions>2</divisions></attributes>
      <direction><sound tempo="90"/></direction>
      <note><pitch><step>C</step><octave>4</octave></pitch><duration>2</duration><voice>1</voice></note>
      <note><chord/><pitch><step>E</step><octave>4</octave></pitch><duration>2</duration></note>
      <note><rest/><duration>2</duration></note>
      <note><pitch><step>F</step><alter>1</alter><octave>4</octave></pitch><duration>4</duration></note>
      <backup><duration>8</duration></backup>
      <note><pitch><step>C</step><octave>3</octave></pitch><duration>8</duration><voice>2</voice></note>
    </measure>
    <measure number="2">
      <note><grace/><pitch><step>D</step><octave>5</octave></pitch></note>
      <note><pitch><step>B</step><alter>-1</alter><octave>4</octave></pitch><duration>2</duration></note>
    </measure>
  </part>
</score-partwise>
`

const timewiseScore = `<?xml version="1.0"?>
<score-timewise>
  <movement-title>Timewise</movement-title>
  <part-list>
    <score-part id="P1"><part-name>Flute</part-name></score-part>
    <score-part id="P2"><part-name>Cello</part-name></score-part>
  </part-list>
  <measure number="1">
    <part id="P1"><attributes><divisions>1</divisions></attributes><note><pitch><step>A</step><octave>4</octave></pitch><duration>4</duration></note></part>
    <part id="P2"><attributes><divisions>1</divisions></attributes><note><pitch><step>C</step><octave>2</octave></pitch><duration>4</duration></note></part>
  </measure>
  <measure number="2">
    <part id="P1"><note><pitch><step>B</step><octave>4</octave></pitch><duration>4</duration></note></part>
    <part id="P2"><note><rest/><duration>4</duration></note></part>
  </measure>
</score-timewise>
`

func TestLoadMusicXMLPartwise(t *testing.T) {
	score, err := Load(writeFixture(t, "piece.xml", []byte(partwiseScore)))
	if err != nil {
		t.Fatalf("Load = err: %v", err)
	}

	if score.Title != "Test Piece" {
		t.Errorf("Title = %q want %q", score.Title, "Test Piece")
	}
	if score.Format != FormatMusicXML {
		t.Errorf("Format = %q want %q", score.Format, FormatMusicXML)
	}
	if len(score.Parts) != 1 || score.Parts[0].Name != "Piano" {
		t.Fatalf("parts = %+v, want a single part named Piano", score.Parts)
	}

	want := []Note{
		{Pitch: 60, Offset: 0, Duration: 1},
		{Pitch: 64, Offset: 0, Duration: 1},
		{Pitch: 66, Offset: 2, Duration: 2},
		{Pitch: 48, Offset: 0, Duration: 4},
		{Pitch: 74, Offset: 4, Duration: 0},
		{Pitch: 70, Offset: 4, Duration: 1},
	}
	if !reflect.DeepEqual(score.Parts[0].Notes, want) {
		t.Errorf("notes =\n%v\nwant\n%v", score.Parts[0].Notes, want)
	}

	wantTempos := TempoMap{{Beat: 0, BPM: 90}}
	if !reflect.DeepEqual(score.Tempos, wantTempos) {
		t.Errorf("tempos = %v want %v", score.Tempos, wantTempos)
	}
}

func TestLoadMusicXMLTimewise(t *testing.T) {
	score, err := Load(writeFixture(t, "timewise.musicxml", []byte(timewiseScore)))
	if err != nil {
		t.Fatalf("Load = err: %v", err)
	}
	if score.Title != "Timewise" {
		t.Errorf("Title = %q want %q", score.Title, "Timewise")
	}

	want := []Part{
		{ID: "P1", Name: "Flute", Notes: []Note{
			{Pitch: 69, Offset: 0, Duration: 4},
			{Pitch: 71, Offset: 4, Duration: 4},
		}},
		{ID: "P2", Name: "Cello", Notes: []Note{
			{Pitch: 36, Offset: 0, Duration: 4},
		}},
	}
	if !reflect.DeepEqual(score.Parts, want) {
		t.Errorf("parts =\n%+v\nwant\n%+v", score.Parts, want)
	}
}

func TestLoadMusicXMLCharset(t *testing.T) {
	doc := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
		"<score-partwise><movement-title>Caf\xe9</movement-title></score-partwise>")

	score, err := Load(writeFixture(t, "latin1.xml", doc))
	if err != nil {
		t.Fatalf("Load = err: %v", err)
	}
	if score.Title != "Café" {
		t.Errorf("Title = %q want %q", score.Title, "Café")
	}
	if score.NoteCount() != 0 {
		t.Errorf("NoteCount() = %d want 0", score.NoteCount())
	}
}

func TestLoadMusicXMLInvalid(t *testing.T) {
	testcases := []struct {
		name string
		doc  string
	}{
		{"truncated", `<score-partwise><part id="P1"><measure>`},
		{"not xml", "just some text, no markup"},
		{"other root", `<html><body>hello</body></html>`},
		{"bad step", `<score-partwise><part id="P1"><measure><note><pitch><step>H</step><octave>4</octave></pitch><duration>1</duration></note></measure></part></score-partwise>`},
		{"NaN duration", `<score-partwise><part id="P1"><measure><note><pitch><step>C</step><octave>4</octave></pitch><duration>NaN</duration></note></measure></part></score-partwise>`},
		{"infinite duration", `<score-partwise><part id="P1"><measure><note><pitch><step>C</step><octave>4</octave></pitch><duration>Inf</duration></note></measure></part></score-partwise>`},
		{"NaN divisions", `<score-partwise><part id="P1"><measure><attributes><divisions>NaN</divisions></attributes><note><pitch><step>C</step><octave>4</octave></pitch><duration>1</duration></note></measure></part></score-partwise>`},
		{"infinite divisions", `<score-partwise><part id="P1"><measure><attributes><divisions>+Inf</divisions></attributes><note><pitch><step>C</step><octave>4</octave></pitch><duration>1</duration></note></measure></part></score-partwise>`},
		{"NaN tempo", `<score-partwise><part id="P1"><measure><direction><sound tempo="NaN"/></direction><note><pitch><step>C</step><octave>4</octave></pitch><duration>1</duration></note></measure></part></score-partwise>`},
		{"infinite tempo", `<score-partwise><part id="P1"><measure><sound tempo="Inf"/><note><pitch><step>C</step><octave>4</octave></pitch><duration>1</duration></note></measure></part></score-partwise>`},
		{"NaN backup", `<score-partwise><part id="P1"><measure><backup><duration>NaN</duration></backup><note><pitch><step>C</step><octave>4</octave></pitch><duration>1</duration></note></measure></part></score-partwise>`},
		{"infinite forward", `<score-partwise><part id="P1"><measure><forward><duration>Inf</duration></forward><note><pitch><step>C</step><octave>4</octave></pitch><duration>1</duration></note></measure></part></score-partwise>`},
		{"tiny divisions overflow", `<score-partwise><part id="P1"><measure><attributes><divisions>1e-300</divisions></attributes><note><pitch><step>C</step><octave>4</octave></pitch><duration>1e300</duration></note></measure></part></score-partwise>`},
		{"NaN alter", `<score-partwise><part id="P1"><measure><note><pitch><step>C</step><alter>NaN</alter><octave>4</octave></pitch><duration>1</duration></note></measure></part></score-partwise>`},
		{"huge alter", `<score-partwise><part id="P1"><measure><note><pitch><step>C</step><alter>2000000000</alter><octave>4</octave></pitch><duration>1</duration></note></measure></part></score-partwise>`},
		{"huge octave", `<score-partwise><part id="P1"><measure><note><pitch><step>C</step><octave>100000</octave></pitch><duration>1</duration></note></measure></part></score-partwise>`},
		{"below the MIDI range", `<score-partwise><part id="P1"><measure><note><pitch><step>C</step><alter>-1</alter><octave>-1</octave></pitch><duration>1</duration></note></measure></part></score-partwise>`},
		{"above the MIDI range", `<score-partwise><part id="P1"><measure><note><pitch><step>A</step><octave>9</octave></pitch><duration>1</duration></note></measure></part></score-partwise>`},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeFixture(t, "bad.xml", []byte(tc.doc)))
			if !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("Load = err: %v, want ErrUnsupportedFormat", err)
			}
		})
	}
}

func TestMusicXMLPitchBounds(t *testing.T) {
	testcases := []struct {
		pitch mxlPitch
		want  int
	}{
		{mxlPitch{Step: "C", Octave: -1}, 0},
		{mxlPitch{Step: "G", Octave: 9}, 127},
		{mxlPitch{Step: "F", Alter: 1, Octave: 9}, 126},
		{mxlPitch{Step: "c", Alter: 0.4, Octave: 4}, 60},
	}
	for _, tc := range testcases {
		got, err := tc.pitch.Key()
		if err != nil || got != tc.want {
			t.Errorf("Key(%+v) = %d, %v want %d", tc.pitch, got, err, tc.want)
		}
	}
}

func mxlArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range []string{"META-INF/container.xml", "other.xml", "score/piece.musicxml"} {
		content, ok := files[name]
		if !ok {
			continue
		}
		f, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLoadMXL(t *testing.T) {
	container := `<?xml version="1.0"?>
<container><rootfiles><rootfile full-path="score/piece.musicxml"/></rootfiles></container>`

	t.Run("container manifest", func(t *testing.T) {
		data := mxlArchive(t, map[string]string{
			"META-INF/container.xml": container,
			"other.xml":              timewiseScore,
			"score/piece.musicxml":   partwiseScore,
		})
		score, err := Load(writeFixture(t, "piece.mxl", data))
		if err != nil {
			t.Fatalf("Load = err: %v", err)
		}
		if score.Format != FormatMXL || score.Title != "Test Piece" {
			t.Errorf("got format %q title %q, want mxl / Test Piece", score.Format, score.Title)
		}
	})

	t.Run("no manifest", func(t *testing.T) {
		data := mxlArchive(t, map[string]string{"other.xml": timewiseScore})
		score, err := Load(writeFixture(t, "piece.mxl", data))
		if err != nil {
			t.Fatalf("Load = err: %v", err)
		}
		if score.Title != "Timewise" {
			t.Errorf("Title = %q want %q", score.Title, "Timewise")
		}
	})

	t.Run("not a zip", func(t *testing.T) {
		_, err := Load(writeFixture(t, "piece.mxl", []byte(partwiseScore)))
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("Load = err: %v, want ErrUnsupportedFormat", err)
		}
	})
}
