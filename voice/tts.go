package voice

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

const (
	FormatMP3   = "mp3"
	MimeTypeMP3 = "audio/mpeg"
)

// Request is one synthesis call. Language is a provider language code
// such as "en" or "ur".
type Request struct {
	Text     string
	Language string
	Slow     bool
}

// Audio is the encoded output of a provider.
type Audio struct {
	Data     []byte
	Format   string
	MimeType string
}

func mp3(data []byte) *Audio {
	return &Audio{Data: data, Format: FormatMP3, MimeType: MimeTypeMP3}
}

type Synthesizer interface {
	// Name identifies the provider in logs and errors.
	Name() string
	// Synthesize converts the request text into encoded audio.
	Synthesize(ctx context.Context, req Request) (*Audio, error)
}

// StreamSynthesizer is implemented by providers that can write audio
// as it is produced.
type StreamSynthesizer interface {
	Synthesizer
	SynthesizeStream(ctx context.Context, req Request, writer io.Writer) error
}

// Stream writes the audio for req into writer, falling back to a
// buffered call when the provider can't stream.
func Stream(ctx context.Context, synth Synthesizer, req Request, writer io.Writer) error {
	if s, ok := synth.(StreamSynthesizer); ok {
		return s.SynthesizeStream(ctx, req, writer)
	}
	audio, err := synth.Synthesize(ctx, req)
	if err != nil {
		return err
	}
	if audio == nil {
		return fmt.Errorf("%s returned no audio", synth.Name())
	}
	if _, err := writer.Write(audio.Data); err != nil {
		return fmt.Errorf("failed to write audio; %w", err)
	}
	return nil
}

// New builds the provider selected by name.
func New(name string, cfg Config) (Synthesizer, error) {
	switch strings.ToLower(name) {
	case "", ProviderTranslate:
		return NewTranslate(cfg.Translate), nil
	case ProviderGoogle:
		return NewGoogle(cfg.Google), nil
	case ProviderElevenLabs:
		return NewElevenLabs(cfg.ElevenLabs)
	case ProviderOpenAI:
		return NewOpenAI(cfg.OpenAI)
	default:
		return nil, fmt.Errorf("unknown tts provider %q", name)
	}
}

const (
	ProviderTranslate  = "translate"
	ProviderGoogle     = "htgotts"
	ProviderElevenLabs = "elevenlabs"
	ProviderOpenAI     = "openai"
)

// Config carries the settings of every provider; only the selected one
// is used.
type Config struct {
	Translate  TranslateConfig
	Google     GoogleConfig
	ElevenLabs ElevenLabsConfig
	OpenAI     OpenAIConfig
}

// --- utilities for this package

func hashString(input string) string {
	hash := sha256.New()
	hash.Write([]byte(input))
	return hex.EncodeToString(hash.Sum(nil))
}
