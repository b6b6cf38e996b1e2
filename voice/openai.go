package voice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
)

// speed used for slow requests, 1.0 is normal
const openAISlowSpeed = 0.75

type OpenAIConfig struct {
	ApiKey  string
	BaseURL string
	Model   string
	Voice   string
	// 0 keeps the client default
	Timeout time.Duration
}

type OpenAI struct {
	client *openai.Client
	model  openai.SpeechModel
	voice  openai.SpeechVoice
}

func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	if cfg.ApiKey == "" {
		return nil, errors.New("openai api key is required")
	}
	clientCfg := openai.DefaultConfig(cfg.ApiKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	api := &OpenAI{
		client: openai.NewClientWithConfig(clientCfg),
		model:  openai.SpeechModel(cfg.Model),
		voice:  openai.SpeechVoice(cfg.Voice),
	}
	if api.model == "" {
		api.model = openai.TTSModel1
	}
	if api.voice == "" {
		api.voice = openai.VoiceAlloy
	}
	return api, nil
}

func (api *OpenAI) Name() string { return ProviderOpenAI }

func (api *OpenAI) Synthesize(ctx context.Context, req Request) (*Audio, error) {
	speed := 1.0
	if req.Slow {
		speed = openAISlowSpeed
	}

	resp, err := api.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          api.model,
		Input:          req.Text,
		Voice:          api.voice,
		ResponseFormat: openai.SpeechResponseFormatMp3,
		Speed:          speed,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query openai; %w", err)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read openai audio; %w", err)
	}
	return mp3(data), nil
}
