package scoreloader

import "github.com/pkg/errors"

var (
	ErrInputNotFound     = errors.New("input file not found")
	ErrUnsupportedFormat = errors.New("unsupported or corrupt music file")
)

func formatError(path string, cause error) error {
	return errors.WithMessagef(ErrUnsupportedFormat, "%s: %v", path, cause)
}
