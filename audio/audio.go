package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
)

const (
	FormatMP3 = "mp3"
	FormatWAV = "wav"

	// go-mp3 always decodes to 16 bit stereo
	channels       = 2
	bitDepth       = 16
	bytesPerSample = channels * bitDepth / 8

	// pcm samples converted per wav write
	framesPerWrite = 4096
)

var ErrUnknownFormat = errors.New("unknown audio format")

// MimeType returns the content type for a supported format.
func MimeType(format string) (string, error) {
	switch strings.ToLower(format) {
	case "", FormatMP3:
		return "audio/mpeg", nil
	case FormatWAV:
		return "audio/wav", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// FileName is the download name for speech in a language, e.g. "Urdu_speech.mp3".
func FileName(language, format string) string {
	if format == "" {
		format = FormatMP3
	}
	return language + "_speech." + strings.ToLower(format)
}

// Duration decodes the MP3 headers to find the playback length.
func Duration(data []byte) (time.Duration, error) {
	decoder, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("failed to decode mp3; %w", err)
	}
	return pcmDuration(decoder.Length(), decoder.SampleRate())
}

func pcmDuration(pcmBytes int64, sampleRate int) (time.Duration, error) {
	if pcmBytes < 0 || sampleRate <= 0 {
		return 0, errors.New("unknown mp3 length")
	}
	frames := pcmBytes / bytesPerSample
	seconds := float64(frames) / float64(sampleRate)
	return time.Duration(seconds * float64(time.Second)), nil
}

// ToWAV transcodes MP3 data into a 16 bit PCM WAV file.
func ToWAV(data []byte) ([]byte, error) {
	decoder, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode mp3; %w", err)
	}

	// the wav encoder seeks back to patch the header, so it needs a file
	out, err := os.CreateTemp("", "voicespeaker-*.wav")
	if err != nil {
		return nil, fmt.Errorf("failed to create wav file; %w", err)
	}
	defer os.Remove(out.Name())
	defer out.Close()

	if err := pcmToWav(decoder, decoder.SampleRate(), out); err != nil {
		return nil, fmt.Errorf("failed to encode wav file; %w", err)
	}

	if _, err := out.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return io.ReadAll(out)
}

// pcmToWav reads 16 bit little endian stereo PCM from reader until EOF.
func pcmToWav(reader io.Reader, sampleRate int, output io.WriteSeeker) error {
	format := &audio.Format{SampleRate: sampleRate, NumChannels: channels}
	e := wav.NewEncoder(output, format.SampleRate, bitDepth, format.NumChannels, 1)

	raw := make([]byte, framesPerWrite*bytesPerSample)
	for {
		n, err := io.ReadFull(reader, raw)
		if n > 0 {
			intBuffer := &audio.IntBuffer{
				Format:         format,
				Data:           convertToIntSlice(raw[:n-n%2]),
				SourceBitDepth: bitDepth,
			}
			if werr := e.Write(intBuffer); werr != nil {
				return werr
			}
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}
		if err != nil {
			return err
		}
	}

	return e.Close()
}

// convert little endian int16 samples to []int for IntBuffer
func convertToIntSlice(data []byte) []int {
	result := make([]int, len(data)/2)
	for i := range result {
		result[i] = int(int16(binary.LittleEndian.Uint16(data[i*2:])))
	}
	return result
}
