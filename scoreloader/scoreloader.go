// Package scoreloader reads MIDI and MusicXML files into a Score.
package scoreloader

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var extensionFormats = map[string]Format{
	".mid":      FormatMIDI,
	".midi":     FormatMIDI,
	".smf":      FormatMIDI,
	".xml":      FormatMusicXML,
	".musicxml": FormatMusicXML,
	".mxl":      FormatMXL,
}

// Load parses the file at path. The format is chosen by extension, or by
// the leading bytes of the file when the extension is not recognized.
func Load(path string) (*Score, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(ErrInputNotFound, "%s: %v", path, err)
	}
	if info.IsDir() {
		return nil, errors.Wrapf(ErrInputNotFound, "%s is a directory", path)
	}

	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	var score *Score
	switch format {
	case FormatMIDI:
		score, err = loadMIDI(path)
	case FormatMusicXML:
		score, err = loadMusicXML(path)
	case FormatMXL:
		score, err = loadMXL(path)
	}
	if err != nil {
		return nil, err
	}
	score.Format = format

	logrus.WithFields(logrus.Fields{
		"file":   path,
		"format": format,
		"parts":  len(score.Parts),
		"notes":  score.NoteCount(),
	}).Debug("score loaded")

	return score, nil
}

func DetectFormat(path string) (Format, error) {
	if format, ok := extensionFormats[strings.ToLower(filepath.Ext(path))]; ok {
		return format, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrapf(ErrInputNotFound, "%s: %v", path, err)
	}
	defer f.Close()

	head, err := bufio.NewReader(f).Peek(512)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return "", errors.Wrapf(ErrInputNotFound, "%s: %v", path, err)
	}

	format, ok := sniffFormat(head)
	if !ok {
		return "", errors.WithMessagef(ErrUnsupportedFormat, "%s: unrecognized file type", path)
	}
	return format, nil
}

func sniffFormat(head []byte) (Format, bool) {
	switch {
	case bytes.HasPrefix(head, []byte("MThd")):
		return FormatMIDI, true
	case bytes.HasPrefix(head, []byte("PK\x03\x04")):
		return FormatMXL, true
	}

	head = bytes.TrimPrefix(head, []byte("\xef\xbb\xbf"))
	head = bytes.TrimLeft(head, " \t\r\n")
	if len(head) > 0 && head[0] == '<' {
		return FormatMusicXML, true
	}
	return "", false
}
