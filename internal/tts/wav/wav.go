// Package wav builds and recognizes PCM WAV containers.
package wav

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
)

// HeaderSize is the length of a canonical PCM WAV header.
const HeaderSize = 44

// ContentType is the MIME type served for generated audio.
const ContentType = "audio/wav"

// Ext is the file extension of generated audio.
const Ext = ".wav"

// Format describes interleaved little-endian PCM samples.
type Format struct {
	SampleRate     int
	Channels       int
	BytesPerSample int
}

// Mono16 is 16-bit mono PCM at the given rate.
func Mono16(sampleRate int) Format {
	return Format{SampleRate: sampleRate, Channels: 1, BytesPerSample: 2}
}

// ByteRate is the number of PCM bytes per second of audio.
func (f Format) ByteRate() int { return f.SampleRate * f.Channels * f.BytesPerSample }

// Encode wraps raw PCM data in a WAV container.
func Encode(pcm []byte, f Format) []byte {
	buf := &bytes.Buffer{}
	buf.Grow(HeaderSize + len(pcm))
	_ = WriteHeader(buf, f, len(pcm))
	buf.Write(pcm)
	return buf.Bytes()
}

// WriteHeader writes a 44-byte header for dataLen bytes of PCM.
func WriteHeader(w io.Writer, f Format, dataLen int) error {
	blockAlign := f.Channels * f.BytesPerSample

	fields := []any{
		[4]byte{'R', 'I', 'F', 'F'},
		uint32(36 + dataLen), // RIFF chunk size excludes the first 8 bytes
		[4]byte{'W', 'A', 'V', 'E'},
		[4]byte{'f', 'm', 't', ' '},
		uint32(16), // fmt chunk size
		uint16(1),  // PCM
		uint16(f.Channels),
		uint32(f.SampleRate),
		uint32(f.ByteRate()),
		uint16(blockAlign),
		uint16(f.BytesPerSample * 8),
		[4]byte{'d', 'a', 't', 'a'},
		uint32(dataLen),
	}

	for _, v := range fields {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	return nil
}

// Is reports whether b starts with a RIFF/WAVE header.
func Is(b []byte) bool {
	return len(b) >= 12 && string(b[0:4]) == "RIFF" && string(b[8:12]) == "WAVE"
}

// IsFile reports whether the file at path starts with a RIFF/WAVE header.
func IsFile(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	head := make([]byte, 12)
	if _, err := io.ReadFull(f, head); err != nil {
		return false
	}
	return Is(head)
}
