package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicespeaker/voice"
)

func writeConfig(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, voice.ProviderTranslate, cfg.Provider)
	assert.Zero(t, cfg.RequestTimeout)
	assert.Equal(t, 5000, cfg.MaxTextLength)
	assert.NoError(t, cfg.Validate())
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, `
listen: ":9000"
provider: openai
request_timeout: 45s
max_text_length: 200
rate_limit:
  per_second: 2.5
  burst: 10
  idle_ttl: 1m
openai:
  api_key: sk-file
  voice: nova
discord:
  guild_id: "1234"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Listen)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, 45*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 200, cfg.MaxTextLength)
	assert.Equal(t, RateLimit{PerSecond: 2.5, Burst: 10, IdleTTL: time.Minute}, cfg.RateLimit)
	assert.Equal(t, "sk-file", cfg.OpenAI.ApiKey)
	assert.Equal(t, "nova", cfg.OpenAI.Voice)
	assert.Equal(t, "1234", cfg.Discord.GuildID)
	assert.NoError(t, cfg.Validate())

	vcfg := cfg.Voice()
	assert.Equal(t, "sk-file", vcfg.OpenAI.ApiKey)
	assert.Equal(t, 45*time.Second, vcfg.Translate.Timeout)
	assert.Equal(t, 45*time.Second, vcfg.OpenAI.Timeout)
}

func TestLoadUnknownKey(t *testing.T) {
	_, err := Load(writeConfig(t, "listne: \":9000\"\n"))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("TTS_PROVIDER", "elevenlabs")
	t.Setenv("ELEVENLABS_APIKEY", "xi-key")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("MAX_TEXT_LENGTH", "42")
	t.Setenv("RATE_LIMIT_PER_SECOND", "0")

	cfg, err := Load(writeConfig(t, "provider: translate\n"))
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Listen)
	assert.Equal(t, "elevenlabs", cfg.Provider)
	assert.Equal(t, "xi-key", cfg.ElevenLabs.ApiKey)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 42, cfg.MaxTextLength)
	assert.Zero(t, cfg.RateLimit.PerSecond)
	assert.NoError(t, cfg.Validate())
}

func TestEnvInvalid(t *testing.T) {
	t.Setenv("MAX_TEXT_LENGTH", "lots")
	_, err := Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Provider = voice.ProviderOpenAI
	assert.Error(t, cfg.Validate())

	cfg.Provider = voice.ProviderElevenLabs
	assert.Error(t, cfg.Validate())

	cfg.Provider = "espeak"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.RateLimit.Burst = -1
	assert.Error(t, cfg.Validate())
}

func TestSetupLogging(t *testing.T) {
	defer logrus.SetLevel(logrus.InfoLevel)

	cfg := Default()
	cfg.LogLevel = "debug"
	cfg.LogFormat = "json"
	require.NoError(t, cfg.SetupLogging())
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	cfg.LogLevel = "loud"
	assert.Error(t, cfg.SetupLogging())

	cfg.LogLevel = "info"
	cfg.LogFormat = "xml"
	assert.Error(t, cfg.SetupLogging())
}
