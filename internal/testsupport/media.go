// Package testsupport builds small media files for tests.
package testsupport

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// WriteFile writes content to path, creating parent directories, and sets
// its modification time when mtime is not zero.
func WriteFile(t testing.TB, path string, content []byte, mtime time.Time) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	if !mtime.IsZero() {
		if err := os.Chtimes(path, mtime, mtime); err != nil {
			t.Fatalf("chtimes %s: %v", path, err)
		}
	}
}

// JPEG returns a minimal JPEG whose APP1 segment holds an EXIF
// DateTimeOriginal set to original (YYYY:MM:DD HH:MM:SS). An empty original
// produces a JPEG without EXIF.
func JPEG(original string) []byte {
	var out bytes.Buffer
	out.Write([]byte{0xFF, 0xD8})

	if original != "" {
		tiff := exifTIFF(original)
		out.Write([]byte{0xFF, 0xE1})
		_ = binary.Write(&out, binary.BigEndian, uint16(2+6+len(tiff)))
		out.WriteString("Exif\x00\x00")
		out.Write(tiff)
	}

	out.Write([]byte{0xFF, 0xD9})
	return out.Bytes()
}

// exifTIFF lays out a little-endian TIFF with IFD0 pointing to an EXIF IFD
// that holds a single DateTimeOriginal entry.
func exifTIFF(original string) []byte {
	value := append([]byte(original), 0)

	const (
		ifd0Offset = 8
		ifdSize    = 2 + 12 + 4
		exifOffset = ifd0Offset + ifdSize
		dataOffset = exifOffset + ifdSize
	)

	var b bytes.Buffer
	le := binary.LittleEndian
	b.WriteString("II")
	_ = binary.Write(&b, le, uint16(42))
	_ = binary.Write(&b, le, uint32(ifd0Offset))

	// IFD0: ExifIFDPointer
	_ = binary.Write(&b, le, uint16(1))
	_ = binary.Write(&b, le, uint16(0x8769))
	_ = binary.Write(&b, le, uint16(4))
	_ = binary.Write(&b, le, uint32(1))
	_ = binary.Write(&b, le, uint32(exifOffset))
	_ = binary.Write(&b, le, uint32(0))

	// EXIF IFD: DateTimeOriginal
	_ = binary.Write(&b, le, uint16(1))
	_ = binary.Write(&b, le, uint16(0x9003))
	_ = binary.Write(&b, le, uint16(2))
	_ = binary.Write(&b, le, uint32(len(value)))
	_ = binary.Write(&b, le, uint32(dataOffset))
	_ = binary.Write(&b, le, uint32(0))

	b.Write(value)
	return b.Bytes()
}

// MP4 returns an ISO base media file with an ftyp box and a single track
// whose mdhd creation time is created. A zero created leaves it at 0.
func MP4(created time.Time) []byte {
	var ct uint32
	if !created.IsZero() {
		ct = uint32(created.Unix() + 2082844800)
	}

	var mdhd bytes.Buffer
	be := binary.BigEndian
	_ = binary.Write(&mdhd, be, uint32(0)) // version + flags
	_ = binary.Write(&mdhd, be, ct)
	_ = binary.Write(&mdhd, be, ct)
	_ = binary.Write(&mdhd, be, uint32(1000))
	_ = binary.Write(&mdhd, be, uint32(0))
	_ = binary.Write(&mdhd, be, uint16(0x55C4)) // "und"
	_ = binary.Write(&mdhd, be, uint16(0))

	var ftyp bytes.Buffer
	ftyp.WriteString("isom")
	_ = binary.Write(&ftyp, be, uint32(512))
	ftyp.WriteString("isomiso2mp41")

	var out bytes.Buffer
	out.Write(box("ftyp", ftyp.Bytes()))
	out.Write(box("moov", box("trak", box("mdia", box("mdhd", mdhd.Bytes())))))
	return out.Bytes()
}

func box(typ string, payload []byte) []byte {
	var b bytes.Buffer
	_ = binary.Write(&b, binary.BigEndian, uint32(8+len(payload)))
	b.WriteString(typ)
	b.Write(payload)
	return b.Bytes()
}
