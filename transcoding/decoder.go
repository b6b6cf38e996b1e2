package transcoding

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
)

const (
	channels  int = 2                   // discord voice is stereo
	frameRate int = 48000               // opus sampling rate
	frameSize int = 960                 // samples per channel in a 20ms frame
	maxBytes  int = (frameSize * 2) * 2 // max size of opus data
)

// StreamMP3ToPCM decodes MP3 from reader and sends 48kHz stereo PCM
// frames on ch. The last frame is padded with silence.
func StreamMP3ToPCM(reader io.Reader, ch chan []int16) error {
	decoder, err := mp3.NewDecoder(reader)
	if err != nil {
		return fmt.Errorf("failed to create mp3 decoder; %w", err)
	}
	return streamPCM(decoder, decoder.SampleRate(), ch)
}

// streamPCM reads 16 bit little endian stereo samples at sampleRate and
// frames them at frameRate.
func streamPCM(reader io.Reader, sampleRate int, ch chan []int16) error {
	if sampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d", sampleRate)
	}

	buffered := bufio.NewReaderSize(reader, 16384)
	rs := newResampler(sampleRate)

	frame := make([]int16, 0, frameSize*channels)
	emit := func(sample [2]int16) {
		frame = append(frame, sample[0], sample[1])
		if len(frame) == frameSize*channels {
			ch <- frame
			frame = make([]int16, 0, frameSize*channels)
		}
	}

	var sample [2]int16
	for {
		err := binary.Read(buffered, binary.LittleEndian, &sample)
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read pcm; %w", err)
		}
		rs.push(sample, emit)
	}

	if len(frame) > 0 {
		ch <- frame[:frameSize*channels]
	}
	return nil
}

// resampler converts stereo samples to frameRate by linear interpolation.
type resampler struct {
	step   float64
	pos    float64
	prev   [2]int16
	primed bool
}

func newResampler(sampleRate int) *resampler {
	return &resampler{step: float64(sampleRate) / float64(frameRate)}
}

func (r *resampler) push(cur [2]int16, emit func([2]int16)) {
	if !r.primed {
		r.prev = cur
		r.primed = true
		return
	}
	for r.pos < 1 {
		emit([2]int16{lerp(r.prev[0], cur[0], r.pos), lerp(r.prev[1], cur[1], r.pos)})
		r.pos += r.step
	}
	r.pos -= 1
	r.prev = cur
}

func lerp(a, b int16, t float64) int16 {
	return int16(float64(a) + (float64(b)-float64(a))*t)
}
