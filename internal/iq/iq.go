// Package iq reads and writes raw IQ capture files. A capture file holds
// a single acquisition: a fixed header with the capture parameters
// followed by interleaved I/Q sample pairs, all little-endian.
package iq

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/Lj542/radio-data-collection/internal/config"
	"github.com/Lj542/radio-data-collection/internal/radio"
)

const (
	// Magic identifies an IQ capture file
	Magic = "RIQ1"

	formatComplex64  uint8 = 1
	formatComplex128 uint8 = 2

	fileTimeFormat = "20060102_150405"
)

var (
	// ErrBadMagic is returned when a file does not start with the capture magic
	ErrBadMagic = errors.New("not an IQ capture file")

	// ErrUnsupportedFormat is returned for unknown sample encodings
	ErrUnsupportedFormat = errors.New("unsupported sample format")
)

type header struct {
	Magic           [4]byte
	Format          uint8
	_               [3]byte // padding, reserved
	TimestampMicros int64
	SampleRate      float64
	CenterFrequency float64
	NumSamples      uint32
}

func formatCode(format config.OutputFormat) (uint8, error) {
	switch format {
	case config.OutputFormatComplex64:
		return formatComplex64, nil
	case config.OutputFormatComplex128:
		return formatComplex128, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Write streams the buffer to w in the given sample format.
func Write(w io.Writer, buf *radio.SignalBuffer, format config.OutputFormat) error {
	code, err := formatCode(format)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)

	h := header{
		Format:          code,
		TimestampMicros: buf.Timestamp.UnixMicro(),
		SampleRate:      buf.SampleRate,
		CenterFrequency: buf.CenterFrequency,
		NumSamples:      uint32(len(buf.Samples)),
	}
	copy(h.Magic[:], Magic)

	if err = binary.Write(bw, binary.LittleEndian, h); err != nil {
		return fmt.Errorf("writing capture header: %w", err)
	}

	scratch := make([]byte, 16)
	for _, s := range buf.Samples {
		var n int
		switch code {
		case formatComplex64:
			binary.LittleEndian.PutUint32(scratch[0:], math.Float32bits(real(s)))
			binary.LittleEndian.PutUint32(scratch[4:], math.Float32bits(imag(s)))
			n = 8
		case formatComplex128:
			binary.LittleEndian.PutUint64(scratch[0:], math.Float64bits(float64(real(s))))
			binary.LittleEndian.PutUint64(scratch[8:], math.Float64bits(float64(imag(s))))
			n = 16
		}
		if _, err = bw.Write(scratch[:n]); err != nil {
			return fmt.Errorf("writing samples: %w", err)
		}
	}

	return bw.Flush()
}

// WriteFile stores the buffer in dir under a timestamped name and returns
// the path of the created file. An existing file with the same name is
// overwritten.
func WriteFile(dir string, buf *radio.SignalBuffer, format config.OutputFormat) (path string, err error) {
	name := fmt.Sprintf("capture_%s.iq", buf.Timestamp.UTC().Format(fileTimeFormat))
	path = filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating capture file: %w", err)
	}
	defer closeWithError(f, &err)

	if err = Write(f, buf, format); err != nil {
		return "", fmt.Errorf("writing capture file %s: %w", path, err)
	}
	return path, nil
}

// Read parses a capture from r and reconstructs the signal buffer.
func Read(r io.Reader) (*radio.SignalBuffer, error) {
	br := bufio.NewReader(r)

	var h header
	if err := binary.Read(br, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("reading capture header: %w", err)
	}
	if string(h.Magic[:]) != Magic {
		return nil, ErrBadMagic
	}

	var sampleSize int
	switch h.Format {
	case formatComplex64:
		sampleSize = 8
	case formatComplex128:
		sampleSize = 16
	default:
		return nil, fmt.Errorf("%w: code %d", ErrUnsupportedFormat, h.Format)
	}

	samples := make([]complex64, h.NumSamples)
	scratch := make([]byte, sampleSize)
	for i := range samples {
		if _, err := io.ReadFull(br, scratch); err != nil {
			return nil, fmt.Errorf("reading sample %d of %d: %w", i, h.NumSamples, err)
		}

		switch h.Format {
		case formatComplex64:
			re := math.Float32frombits(binary.LittleEndian.Uint32(scratch[0:]))
			im := math.Float32frombits(binary.LittleEndian.Uint32(scratch[4:]))
			samples[i] = complex(re, im)
		case formatComplex128:
			re := math.Float64frombits(binary.LittleEndian.Uint64(scratch[0:]))
			im := math.Float64frombits(binary.LittleEndian.Uint64(scratch[8:]))
			samples[i] = complex(float32(re), float32(im))
		}
	}

	return &radio.SignalBuffer{
		Timestamp:       time.UnixMicro(h.TimestampMicros).UTC(),
		SampleRate:      h.SampleRate,
		CenterFrequency: h.CenterFrequency,
		Samples:         samples,
	}, nil
}

// ReadFile parses the capture file at path.
func ReadFile(path string) (*radio.SignalBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening capture file: %w", err)
	}
	defer f.Close()

	buf, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading capture file %s: %w", path, err)
	}
	return buf, nil
}

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}
