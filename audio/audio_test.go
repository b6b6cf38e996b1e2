package audio

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"testing"
	"time"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	assert.Equal(t, "Urdu_speech.mp3", FileName("Urdu", ""))
	assert.Equal(t, "English_speech.wav", FileName("English", "WAV"))
}

func TestMimeType(t *testing.T) {
	mime, err := MimeType("mp3")
	require.NoError(t, err)
	assert.Equal(t, "audio/mpeg", mime)

	mime, err = MimeType("wav")
	require.NoError(t, err)
	assert.Equal(t, "audio/wav", mime)

	_, err = MimeType("ogg")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestPCMDuration(t *testing.T) {
	d, err := pcmDuration(24000*bytesPerSample*2, 24000)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, d)

	_, err = pcmDuration(-1, 24000)
	assert.Error(t, err)
}

func TestInvalidMP3(t *testing.T) {
	_, err := Duration([]byte("not an mp3"))
	assert.Error(t, err)

	_, err = ToWAV([]byte("not an mp3"))
	assert.Error(t, err)
}

func TestPCMToWav(t *testing.T) {
	samples := []int16{0, 1, -1, 32767, -32768, 42}
	pcm := bytes.NewBuffer(nil)
	require.NoError(t, binary.Write(pcm, binary.LittleEndian, samples))

	out, err := os.CreateTemp(t.TempDir(), "*.wav")
	require.NoError(t, err)
	defer out.Close()

	require.NoError(t, pcmToWav(pcm, 22050, out))

	_, err = out.Seek(0, io.SeekStart)
	require.NoError(t, err)
	decoder := wav.NewDecoder(out)

	buf, err := decoder.FullPCMBuffer()
	require.NoError(t, err)
	assert.Equal(t, 22050, buf.Format.SampleRate)
	assert.Equal(t, 2, buf.Format.NumChannels)
	assert.Equal(t, []int{0, 1, -1, 32767, -32768, 42}, buf.Data)
}

func TestConvertToIntSlice(t *testing.T) {
	assert.Equal(t, []int{1, -2}, convertToIntSlice([]byte{0x01, 0x00, 0xfe, 0xff}))
}
