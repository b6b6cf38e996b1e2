package transcoding

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"
	"layeh.com/gopus"
)

func NewOpusEncoder() (*gopus.Encoder, error) {
	encoder, err := gopus.NewEncoder(frameRate, channels, gopus.Audio)
	if err != nil {
		return nil, fmt.Errorf("failed to construct encoder; %w", err)
	}
	return encoder, nil
}

// Stream encode PCM frames into Opus frames. Requires a GOPUS encoder
func StreamPCMToOpus(ctx context.Context, encoder *gopus.Encoder, pcm chan []int16, opusChan chan<- []byte) error {
	for frame := range pcm {
		opus, err := encoder.Encode(frame, frameSize, maxBytes)
		if err != nil {
			return fmt.Errorf("failed to encode opus frame; %w", err)
		}
		select {
		case opusChan <- opus:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// StreamMP3ToOpus blocks while reading MP3 data from reader and sends
// opus frames on opusChan.
func StreamMP3ToOpus(ctx context.Context, reader io.Reader, opusChan chan<- []byte) error {
	pcmChan := make(chan []int16)

	encoder, err := NewOpusEncoder()
	if err != nil {
		return err
	}

	group := errgroup.Group{}
	group.SetLimit(2)

	// decode mp3 to pcm
	group.Go(func() error {
		defer close(pcmChan) // mp3 streaming is done

		err := StreamMP3ToPCM(reader, pcmChan)
		if err != nil {
			return fmt.Errorf("error decoding mp3; %w", err)
		}
		return nil
	})

	// encode pcm to opus
	group.Go(func() error {
		err := StreamPCMToOpus(ctx, encoder, pcmChan, opusChan)
		if err != nil {
			// keep the decoder from blocking on a dead consumer
			for range pcmChan {
			}
			return fmt.Errorf("error encoding to opus; %w", err)
		}
		return nil
	})

	return group.Wait()
}
