package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"voicespeaker/voice"
)

// Config is read from defaults, then an optional YAML file, then the
// environment (a .env file in the working directory is loaded first).
type Config struct {
	Listen    string `yaml:"listen"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	Provider string `yaml:"provider"`
	// 0 keeps the provider client's default. htgo-tts always uses the
	// default http client and ignores it.
	RequestTimeout time.Duration `yaml:"request_timeout"`
	MaxTextLength  int           `yaml:"max_text_length"`

	RateLimit RateLimit `yaml:"rate_limit"`

	Translate  Translate  `yaml:"translate"`
	HTGoTTS    HTGoTTS    `yaml:"htgotts"`
	ElevenLabs ElevenLabs `yaml:"elevenlabs"`
	OpenAI     OpenAI     `yaml:"openai"`
	Discord    Discord    `yaml:"discord"`
}

type RateLimit struct {
	// requests per second per client, 0 disables limiting
	PerSecond float64       `yaml:"per_second"`
	Burst     int           `yaml:"burst"`
	IdleTTL   time.Duration `yaml:"idle_ttl"`
}

type Translate struct {
	BaseURL string `yaml:"base_url"`
}

type HTGoTTS struct {
	Folder string `yaml:"folder"`
	Proxy  string `yaml:"proxy"`
}

type ElevenLabs struct {
	ApiKey  string `yaml:"api_key"`
	VoiceID string `yaml:"voice_id"`
	ModelID string `yaml:"model_id"`
}

type OpenAI struct {
	ApiKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	Voice   string `yaml:"voice"`
}

type Discord struct {
	Token   string `yaml:"token"`
	GuildID string `yaml:"guild_id"`
}

func Default() *Config {
	return &Config{
		Listen:        ":8080",
		LogLevel:      "info",
		LogFormat:     "text",
		Provider:      voice.ProviderTranslate,
		MaxTextLength: 5000,
		RateLimit: RateLimit{
			PerSecond: 1,
			Burst:     5,
			IdleTTL:   10 * time.Minute,
		},
	}
}

// Load builds the configuration. An empty path skips the YAML file; a
// missing file at an explicit path is an error.
func Load(path string) (*Config, error) {
	// ignore a missing .env
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config; %w", err)
		}
		if err := yaml.UnmarshalStrict(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s; %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) applyEnv() error {
	setString(&cfg.Listen, "LISTEN")
	if port, exists := os.LookupEnv("PORT"); exists && port != "" {
		cfg.Listen = ":" + port
	}
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.LogFormat, "LOG_FORMAT")
	setString(&cfg.Provider, "TTS_PROVIDER")
	setString(&cfg.Translate.BaseURL, "TRANSLATE_BASE_URL")
	setString(&cfg.HTGoTTS.Folder, "HTGOTTS_FOLDER")
	setString(&cfg.HTGoTTS.Proxy, "HTGOTTS_PROXY")
	setString(&cfg.ElevenLabs.ApiKey, "ELEVENLABS_APIKEY")
	setString(&cfg.ElevenLabs.VoiceID, "ELEVENLABS_VOICE_ID")
	setString(&cfg.ElevenLabs.ModelID, "ELEVENLABS_MODEL_ID")
	setString(&cfg.OpenAI.ApiKey, "OPENAI_API_KEY")
	setString(&cfg.OpenAI.BaseURL, "OPENAI_BASE_URL")
	setString(&cfg.OpenAI.Model, "OPENAI_TTS_MODEL")
	setString(&cfg.OpenAI.Voice, "OPENAI_TTS_VOICE")
	setString(&cfg.Discord.Token, "DISCORD_TOKEN")
	setString(&cfg.Discord.GuildID, "DISCORD_GUILD_ID")

	if v, exists := os.LookupEnv("REQUEST_TIMEOUT"); exists {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid env var REQUEST_TIMEOUT; %w", err)
		}
		cfg.RequestTimeout = d
	}
	if v, exists := os.LookupEnv("MAX_TEXT_LENGTH"); exists {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid env var MAX_TEXT_LENGTH; %w", err)
		}
		cfg.MaxTextLength = n
	}
	if v, exists := os.LookupEnv("RATE_LIMIT_PER_SECOND"); exists {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid env var RATE_LIMIT_PER_SECOND; %w", err)
		}
		cfg.RateLimit.PerSecond = f
	}
	if v, exists := os.LookupEnv("RATE_LIMIT_BURST"); exists {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid env var RATE_LIMIT_BURST; %w", err)
		}
		cfg.RateLimit.Burst = n
	}
	return nil
}

func setString(dst *string, key string) {
	if v, exists := os.LookupEnv(key); exists && v != "" {
		*dst = v
	}
}

// Validate checks that the selected provider can be constructed.
func (cfg *Config) Validate() error {
	switch strings.ToLower(cfg.Provider) {
	case voice.ProviderTranslate, voice.ProviderGoogle:
	case voice.ProviderElevenLabs:
		if cfg.ElevenLabs.ApiKey == "" {
			return errors.New("missing env var ELEVENLABS_APIKEY")
		}
	case voice.ProviderOpenAI:
		if cfg.OpenAI.ApiKey == "" {
			return errors.New("missing env var OPENAI_API_KEY")
		}
	default:
		return fmt.Errorf("unknown tts provider %q", cfg.Provider)
	}
	if cfg.MaxTextLength < 0 {
		return errors.New("max_text_length must not be negative")
	}
	if cfg.RateLimit.PerSecond < 0 || cfg.RateLimit.Burst < 0 {
		return errors.New("rate_limit values must not be negative")
	}
	return nil
}

// Voice converts the provider settings for voice.New.
func (cfg *Config) Voice() voice.Config {
	return voice.Config{
		Translate: voice.TranslateConfig{
			BaseURL: cfg.Translate.BaseURL,
			Timeout: cfg.RequestTimeout,
		},
		Google: voice.GoogleConfig{
			Folder: cfg.HTGoTTS.Folder,
			Proxy:  cfg.HTGoTTS.Proxy,
		},
		ElevenLabs: voice.ElevenLabsConfig{
			ApiKey:  cfg.ElevenLabs.ApiKey,
			VoiceID: cfg.ElevenLabs.VoiceID,
			ModelID: cfg.ElevenLabs.ModelID,
			Timeout: cfg.RequestTimeout,
		},
		OpenAI: voice.OpenAIConfig{
			ApiKey:  cfg.OpenAI.ApiKey,
			BaseURL: cfg.OpenAI.BaseURL,
			Model:   cfg.OpenAI.Model,
			Voice:   cfg.OpenAI.Voice,
			Timeout: cfg.RequestTimeout,
		},
	}
}

// SetupLogging applies the log level and format to the logrus standard logger.
func (cfg *Config) SetupLogging() error {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level; %w", err)
	}
	logrus.SetLevel(level)

	switch strings.ToLower(cfg.LogFormat) {
	case "", "text":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("invalid log format %q", cfg.LogFormat)
	}

	logrus.WithFields(logrus.Fields{
		"listen":   cfg.Listen,
		"provider": cfg.Provider,
		"discord":  cfg.Discord.Token != "",
	}).Debugln("configuration")
	return nil
}
