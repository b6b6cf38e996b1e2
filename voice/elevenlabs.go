package voice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/haguro/elevenlabs-go"
	"github.com/sirupsen/logrus"
)

const (
	defaultElevenLabsVoice = "BreKkXSwy4hr1vgm7ZqX" // Janiah
	defaultElevenLabsModel = "eleven_multilingual_v2"
)

type ElevenLabsConfig struct {
	ApiKey  string
	VoiceID string
	ModelID string
	Timeout time.Duration
}

type ElevenLabs struct {
	ApiKey  string
	VoiceID string
	ModelID string
	Timeout time.Duration
}

func NewElevenLabs(cfg ElevenLabsConfig) (*ElevenLabs, error) {
	if cfg.ApiKey == "" {
		return nil, errors.New("elevenlabs api key is required")
	}
	api := &ElevenLabs{
		ApiKey:  cfg.ApiKey,
		VoiceID: cfg.VoiceID,
		ModelID: cfg.ModelID,
		Timeout: cfg.Timeout,
	}
	if api.VoiceID == "" {
		api.VoiceID = defaultElevenLabsVoice
	}
	if api.ModelID == "" {
		api.ModelID = defaultElevenLabsModel
	}
	return api, nil
}

func (api *ElevenLabs) Name() string { return ProviderElevenLabs }

// Synthesize speaks with the configured voice. The multilingual model picks
// the language from the text itself, and there is no rate control.
func (api *ElevenLabs) Synthesize(ctx context.Context, req Request) (*Audio, error) {
	if req.Slow {
		logrus.WithField("language", req.Language).Debugln("elevenlabs has no slow rate; using normal")
	}

	timeout := api.Timeout
	if timeout <= 0 {
		// the client needs some timeout; this only bounds a stuck request
		timeout = 5 * time.Minute
	}
	client := elevenlabs.NewClient(ctx, api.ApiKey, timeout)

	ttsReq := elevenlabs.TextToSpeechRequest{
		Text:    req.Text,
		ModelID: api.ModelID,
	}
	audio, err := client.TextToSpeech(api.VoiceID, ttsReq)
	if err != nil {
		return nil, fmt.Errorf("failed tts; %w", err)
	}
	if len(audio) == 0 {
		return nil, errors.New("elevenlabs returned no audio")
	}

	return mp3(audio), nil
}
