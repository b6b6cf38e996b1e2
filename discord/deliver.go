package discord

import (
	"context"
	"errors"
	"io"

	"golang.org/x/sync/errgroup"

	"voicespeaker/speaker"
	"voicespeaker/utils"
)

const genericFailure = "something went wrong, try again later"

// deliver synthesizes req into a pipe while consume reads the audio from
// it. A synthesis failure is reported over a consumer failure; a consumer
// that gives up closes the pipe so synthesis stops writing.
func deliver(ctx context.Context, svc *speaker.Service, req speaker.Request, consume func(io.Reader) error) (int64, error) {
	pipe := utils.NewBytePipe()
	group := errgroup.Group{}

	var synthErr, consumeErr error
	group.Go(func() error {
		_, synthErr = svc.Stream(ctx, req, pipe)
		pipe.CloseWithError(synthErr)
		return synthErr
	})
	group.Go(func() error {
		consumeErr = consume(pipe)
		if consumeErr != nil {
			pipe.CloseWithError(consumeErr)
		}
		return consumeErr
	})
	group.Wait()

	switch {
	// writes into a pipe the consumer closed fail too
	case synthErr != nil && !errors.Is(synthErr, utils.ErrPipeClosed):
		return pipe.Written(), synthErr
	case consumeErr != nil:
		return pipe.Written(), consumeErr
	default:
		return pipe.Written(), synthErr
	}
}

// failureMessage picks what the user is told about err.
func failureMessage(err error) string {
	var synthErr *speaker.SynthesisError
	if errors.As(err, &synthErr) {
		return synthErr.Error()
	}
	return genericFailure
}
