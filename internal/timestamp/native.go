package timestamp

import (
	"io"
	"os"
	"time"

	"github.com/abema/go-mp4"
	"github.com/rwcarlsen/goexif/exif"
)

// mp4Epoch is the offset in seconds between 1904-01-01 and the Unix epoch.
const mp4Epoch = 2082844800

// exifWindow bounds how far into a file the EXIF decoder may scan. APP1
// segments sit right after the JPEG SOI marker.
const exifWindow = 1 << 20

// NativeReader decodes capture dates in-process without looking at the file
// kind: the first track's mdhd box for ISO base media files, otherwise EXIF
// DateTimeOriginal. Files it cannot decode yield no tags rather than an
// error.
type NativeReader struct{}

func NewNativeReader() *NativeReader {
	return &NativeReader{}
}

func (r *NativeReader) Read(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tags := make(map[string]string)
	if v, ok := mdhdCreation(f); ok {
		tags[MediaCreateDate] = v
		return tags, nil
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	if v, ok := exifOriginal(io.LimitReader(f, exifWindow)); ok {
		tags[DateTimeOriginal] = v
	}

	return tags, nil
}

func exifOriginal(r io.Reader) (string, bool) {
	x, err := exif.Decode(r)
	if err != nil {
		return "", false
	}

	tag, err := x.Get(exif.DateTimeOriginal)
	if err != nil {
		return "", false
	}
	v, err := tag.StringVal()
	if err != nil {
		return "", false
	}

	return v, true
}

// mdhdCreation formats the media creation time in UTC, the way exiftool
// prints QuickTime dates by default.
func mdhdCreation(f *os.File) (string, bool) {
	boxes, err := mp4.ExtractBoxWithPayload(f, nil,
		mp4.BoxPath{mp4.BoxTypeMoov(), mp4.BoxTypeTrak(), mp4.BoxTypeMdia(), mp4.BoxTypeMdhd()})
	if err != nil {
		return "", false
	}

	for _, box := range boxes {
		mdhd, ok := box.Payload.(*mp4.Mdhd)
		if !ok {
			continue
		}

		var ct uint64
		if mdhd.Version > 0 {
			ct = mdhd.CreationTimeV1
		} else {
			ct = uint64(mdhd.CreationTimeV0)
		}
		if ct <= mp4Epoch {
			continue
		}

		return time.Unix(int64(ct)-mp4Epoch, 0).UTC().Format(Layout), true
	}

	return "", false
}
