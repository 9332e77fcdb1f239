package timestamp

import (
	"errors"
	"io"
	"os"

	"github.com/fedragon/go-album/internal/models"

	"github.com/h2non/filetype"
)

// headerSize is the number of leading bytes filetype needs to match every
// type it knows about.
const headerSize = 261

// FiletypeClassifier sniffs the file header, ignoring the file name.
type FiletypeClassifier struct{}

func (FiletypeClassifier) Classify(path string) (models.Kind, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.KindOther, err
	}
	defer f.Close()

	head := make([]byte, headerSize)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return models.KindOther, err
	}
	head = head[:n]

	switch {
	case filetype.IsImage(head):
		return models.KindImage, nil
	case filetype.IsVideo(head):
		return models.KindVideo, nil
	default:
		return models.KindOther, nil
	}
}
