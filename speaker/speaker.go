// Package speaker turns user text into speech: romanized Urdu and Hindi are
// rewritten into native script, the slow rate is chosen per language, and a
// single call is made to the configured provider.
package speaker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"voicespeaker/audio"
	"voicespeaker/languages"
	"voicespeaker/transliteration"
	"voicespeaker/voice"
)

var (
	ErrEmptyInput  = errors.New("please enter some text first")
	ErrTextTooLong = errors.New("text is too long")
)

// SynthesisError reports a failed provider call. Its message is safe to
// show to the user.
type SynthesisError struct {
	Provider string
	Language string
	Err      error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("Error generating speech: %v", e.Err)
}

func (e *SynthesisError) Unwrap() error {
	return e.Err
}

type Request struct {
	Text     string
	Language languages.Language
}

type Result struct {
	Language languages.Language
	// Text is what was sent to the provider after transliteration.
	Text     string
	Slow     bool
	Audio    *voice.Audio
	Duration time.Duration
}

type Service struct {
	synth voice.Synthesizer
	// max input length in runes, 0 disables the check
	maxChars int
}

func NewService(synth voice.Synthesizer, maxChars int) *Service {
	return &Service{synth: synth, maxChars: maxChars}
}

func (s *Service) Provider() string {
	return s.synth.Name()
}

// Convert returns the text as it will be spoken for a language.
func (s *Service) Convert(text string, lang languages.Language) string {
	return transliteration.Convert(text, lang.Code)
}

// Prepare validates the request and builds the provider request without
// calling the provider.
func (s *Service) Prepare(req Request) (voice.Request, error) {
	if strings.TrimSpace(req.Text) == "" {
		return voice.Request{}, ErrEmptyInput
	}
	if s.maxChars > 0 && utf8.RuneCountInString(req.Text) > s.maxChars {
		return voice.Request{}, fmt.Errorf("%w: limit is %d characters", ErrTextTooLong, s.maxChars)
	}

	return voice.Request{
		Text:     transliteration.Convert(req.Text, req.Language.Code),
		Language: req.Language.Code,
		Slow:     languages.SlowSpeech(req.Language.Code),
	}, nil
}

// Speak runs the whole pipeline once. Provider failures come back as
// *SynthesisError.
func (s *Service) Speak(ctx context.Context, req Request) (*Result, error) {
	vreq, err := s.Prepare(req)
	if err != nil {
		return nil, err
	}

	log := logrus.WithFields(logrus.Fields{
		"provider": s.synth.Name(),
		"language": vreq.Language,
		"slow":     vreq.Slow,
		"chars":    utf8.RuneCountInString(vreq.Text),
	})

	start := time.Now()
	out, err := s.synth.Synthesize(ctx, vreq)
	if err == nil && (out == nil || len(out.Data) == 0) {
		err = errors.New("provider returned no audio")
	}
	if err != nil {
		log.WithError(err).Errorln("failed to generate speech")
		return nil, &SynthesisError{Provider: s.synth.Name(), Language: vreq.Language, Err: err}
	}

	result := &Result{
		Language: req.Language,
		Text:     vreq.Text,
		Slow:     vreq.Slow,
		Audio:    out,
	}
	if out.Format == voice.FormatMP3 {
		if d, err := audio.Duration(out.Data); err == nil {
			result.Duration = d
		} else {
			log.WithError(err).Debugln("could not measure audio duration")
		}
	}

	log.WithFields(logrus.Fields{
		"bytes":   len(out.Data),
		"elapsed": time.Since(start).String(),
	}).Infoln("speech generated")

	return result, nil
}

// Stream is Speak for callers that forward the audio as it arrives, such as
// an upload. The returned request shows what was sent to the provider.
func (s *Service) Stream(ctx context.Context, req Request, w io.Writer) (voice.Request, error) {
	vreq, err := s.Prepare(req)
	if err != nil {
		return voice.Request{}, err
	}

	log := logrus.WithFields(logrus.Fields{
		"provider": s.synth.Name(),
		"language": vreq.Language,
		"slow":     vreq.Slow,
	})

	counter := &countingWriter{w: w}
	if err := voice.Stream(ctx, s.synth, vreq, counter); err != nil {
		log.WithError(err).Errorln("failed to stream speech")
		return vreq, &SynthesisError{Provider: s.synth.Name(), Language: vreq.Language, Err: err}
	}
	if counter.n == 0 {
		err := errors.New("provider returned no audio")
		log.WithError(err).Errorln("failed to stream speech")
		return vreq, &SynthesisError{Provider: s.synth.Name(), Language: vreq.Language, Err: err}
	}

	log.WithField("bytes", counter.n).Infoln("speech streamed")
	return vreq, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
