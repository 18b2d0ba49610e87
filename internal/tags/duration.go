package tags

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	goflac "github.com/go-flac/go-flac"
	"github.com/gopxl/beep/v2/flac"
	"github.com/llehouerou/go-mp3"
	"go.senan.xyz/taglib"
)

var errNoStreamInfo = errors.New("flac: no usable STREAMINFO block")

// ReadDuration returns the playing time of a music file without decoding it
// fully where the container allows.
func ReadDuration(path string) (time.Duration, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ExtMP3:
		return mp3Duration(path)
	case ExtFLAC:
		d, err := flacDuration(path)
		if err != nil {
			// Files with a prepended ID3v2 tag fail to parse; decode instead.
			return flacDurationBeep(path)
		}
		return d, nil
	case ExtOGG, ExtWAV:
		props, err := taglib.ReadProperties(path)
		if err != nil {
			return 0, err
		}
		return props.Length, nil
	default:
		return 0, fmt.Errorf("unsupported format: %s", ext)
	}
}

func mp3Duration(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return 0, err
	}
	rate := dec.SampleRate()
	if rate <= 0 {
		return 0, errors.New("mp3: invalid sample rate")
	}
	return samplesToDuration(max(dec.SampleCount(), 0), rate), nil
}

func flacDuration(path string) (time.Duration, error) {
	file, err := goflac.ParseFile(path)
	if err != nil {
		return 0, err
	}
	for _, meta := range file.Meta {
		if meta.Type != goflac.StreamInfo {
			continue
		}
		if d, ok := streamInfoDuration(meta.Data); ok {
			return d, nil
		}
	}
	return 0, errNoStreamInfo
}

// streamInfoDuration reads the 20-bit sample rate and 36-bit sample count
// from a STREAMINFO block.
func streamInfoDuration(data []byte) (time.Duration, bool) {
	if len(data) < 18 {
		return 0, false
	}
	rate := int(data[10])<<12 | int(data[11])<<4 | int(data[12])>>4
	total := int64(data[13]&0x0F)<<32 | int64(data[14])<<24 | int64(data[15])<<16 | int64(data[16])<<8 | int64(data[17])
	if rate == 0 {
		return 0, false
	}
	return samplesToDuration(total, rate), true
}

func flacDurationBeep(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	if err := skipID3v2(f); err != nil {
		return 0, err
	}
	stream, format, err := flac.Decode(f)
	if err != nil {
		return 0, err
	}
	defer stream.Close()
	return format.SampleRate.D(stream.Len()), nil
}

func samplesToDuration(samples int64, rate int) time.Duration {
	return time.Duration(samples) * time.Second / time.Duration(rate)
}

func skipID3v2(r io.ReadSeeker) error {
	header := make([]byte, 10)
	if n, err := io.ReadFull(r, header); err != nil || n < len(header) || string(header[:3]) != "ID3" {
		_, serr := r.Seek(0, io.SeekStart)
		return serr
	}
	size := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])
	_, err := r.Seek(10+size, io.SeekStart)
	return err
}
