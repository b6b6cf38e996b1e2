package discord

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicespeaker/languages"
	"voicespeaker/speaker"
	"voicespeaker/voice"
)

// streamSynth writes chunks and then fails with err, or keeps writing
// until a write fails when forever is set.
type streamSynth struct {
	chunks  [][]byte
	err     error
	forever bool
}

func (s *streamSynth) Name() string { return "stream" }

func (s *streamSynth) Synthesize(ctx context.Context, req voice.Request) (*voice.Audio, error) {
	return nil, errors.New("buffered synthesis not used")
}

func (s *streamSynth) SynthesizeStream(ctx context.Context, req voice.Request, w io.Writer) error {
	for _, c := range s.chunks {
		if _, err := w.Write(c); err != nil {
			return err
		}
	}
	for s.forever {
		if _, err := w.Write([]byte("frame")); err != nil {
			return err
		}
		time.Sleep(time.Millisecond)
	}
	return s.err
}

func speakRequest(t *testing.T) speaker.Request {
	lang, err := languages.Resolve("Urdu")
	require.NoError(t, err)
	return speaker.Request{Text: "shukriya dost", Language: lang}
}

func TestDeliver(t *testing.T) {
	svc := speaker.NewService(&streamSynth{chunks: [][]byte{[]byte("ab"), []byte("cd")}}, 0)

	var got []byte
	written, err := deliver(context.Background(), svc, speakRequest(t), func(r io.Reader) error {
		var err error
		got, err = io.ReadAll(r)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "abcd", string(got))
	assert.Equal(t, int64(4), written)
}

func TestDeliverSynthesisFailsMidStream(t *testing.T) {
	svc := speaker.NewService(&streamSynth{chunks: [][]byte{[]byte("partial")}, err: errors.New("connection reset")}, 0)

	var readErr error
	_, err := deliver(context.Background(), svc, speakRequest(t), func(r io.Reader) error {
		_, readErr = io.ReadAll(r)
		if readErr != nil {
			return fmt.Errorf("failed to upload audio; %w", readErr)
		}
		return nil
	})

	// the reader sees the synthesis failure, not a clean EOF
	var synthErr *speaker.SynthesisError
	require.True(t, errors.As(readErr, &synthErr))
	require.True(t, errors.As(err, &synthErr))
	assert.Equal(t, "Error generating speech: connection reset", failureMessage(err))
}

func TestDeliverConsumerFailsFirst(t *testing.T) {
	svc := speaker.NewService(&streamSynth{forever: true}, 0)
	uploadErr := errors.New("upload refused")

	done := make(chan error, 1)
	go func() {
		_, err := deliver(context.Background(), svc, speakRequest(t), func(io.Reader) error {
			return uploadErr
		})
		done <- err
	}()

	select {
	case err := <-done:
		// the writer stopped once the pipe closed
		assert.ErrorIs(t, err, uploadErr)
		assert.Equal(t, genericFailure, failureMessage(err))
	case <-time.After(5 * time.Second):
		t.Fatal("synthesis kept writing after the consumer gave up")
	}
}

func TestDeliverEmptyInput(t *testing.T) {
	svc := speaker.NewService(&streamSynth{}, 0)
	req := speakRequest(t)
	req.Text = "  "

	_, err := deliver(context.Background(), svc, req, func(r io.Reader) error {
		_, err := io.ReadAll(r)
		return err
	})
	assert.ErrorIs(t, err, speaker.ErrEmptyInput)
	assert.Equal(t, genericFailure, failureMessage(err))
}
