// Package imagewriter saves rendered rolls as PNG files.
package imagewriter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

var ErrOutputWrite = errors.New("cannot write output image")

const maxTempAttempts = 1000

// Encoder is satisfied by *gg.Context.
type Encoder interface {
	EncodePNG(w io.Writer) error
}

// OutputPath swaps the extension of input for .png. The image goes next to
// the input unless outDir is set.
func OutputPath(input string, outDir string) string {
	var name = getFileNameWithoutExtension(input) + ".png"
	if outDir != "" {
		return filepath.Join(outDir, name)
	}
	return filepath.Join(filepath.Dir(input), name)
}

// Write encodes the image into a temporary file beside path and renames it
// into place, so a failed write never leaves a partial image at path.
func Write(img Encoder, path string) error {
	var dir = filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		return errors.Wrapf(ErrOutputWrite, "%s: %v", path, err)
	}
	if !info.IsDir() {
		return errors.Wrapf(ErrOutputWrite, "%s: %s is not a directory", path, dir)
	}

	tmp, err := createTemp(dir, filepath.Base(path))
	if err != nil {
		return errors.Wrapf(ErrOutputWrite, "%s: %v", path, err)
	}
	var tmpPath = tmp.Name()
	var committed = false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if err := img.EncodePNG(tmp); err != nil {
		tmp.Close()
		return errors.Wrapf(ErrOutputWrite, "%s: encoding png: %v", path, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(ErrOutputWrite, "%s: %v", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return errors.Wrapf(ErrOutputWrite, "%s: %v", path, err)
	}
	committed = true
	return nil
}

// createTemp opens a fresh hidden file in dir. The mode is 0666 less the
// process umask, the same as a file written in place.
func createTemp(dir string, name string) (*os.File, error) {
	for i := 0; ; i++ {
		var tmpPath = filepath.Join(dir, fmt.Sprintf(".%s.%d.tmp", name, i))
		f, err := os.OpenFile(tmpPath, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0666)
		if os.IsExist(err) && i < maxTempAttempts {
			continue
		}
		return f, err
	}
}
