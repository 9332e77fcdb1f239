package timestamp

import (
	"fmt"

	"github.com/barasher/go-exiftool"
)

// ExiftoolReader reads tags through a long-lived exiftool process.
type ExiftoolReader struct {
	et *exiftool.Exiftool
}

// NewExiftoolReader starts exiftool. An empty binary uses the one on PATH.
func NewExiftoolReader(binary string) (*ExiftoolReader, error) {
	var opts []func(*exiftool.Exiftool) error
	if binary != "" {
		opts = append(opts, exiftool.SetExiftoolBinaryPath(binary))
	}

	et, err := exiftool.NewExiftool(opts...)
	if err != nil {
		return nil, fmt.Errorf("cannot start exiftool: %w", err)
	}

	return &ExiftoolReader{et: et}, nil
}

// Read merges the records exiftool returns for path. The first record
// carrying a tag wins.
func (r *ExiftoolReader) Read(path string) (map[string]string, error) {
	tags := make(map[string]string)

	for _, fm := range r.et.ExtractMetadata(path) {
		if fm.Err != nil {
			return nil, fm.Err
		}
		for k, v := range fm.Fields {
			if _, ok := tags[k]; ok {
				continue
			}
			tags[k] = fmt.Sprint(v)
		}
	}

	return tags, nil
}

func (r *ExiftoolReader) Close() error {
	return r.et.Close()
}
