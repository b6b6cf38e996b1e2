package discord

import (
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicespeaker/languages"
)

func stringOption(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: value,
	}
}

func TestParseTextOptions(t *testing.T) {
	opts, err := parseTextOptions([]*discordgo.ApplicationCommandInteractionDataOption{
		stringOption(optionText, "aap kaise hain"),
		stringOption(optionLanguage, "Urdu"),
	})
	require.NoError(t, err)
	assert.Equal(t, "aap kaise hain", opts.Text)
	assert.Equal(t, "ur", opts.Language.Code)
}

func TestParseTextOptionsVoice(t *testing.T) {
	opts, err := parseTextOptions([]*discordgo.ApplicationCommandInteractionDataOption{
		stringOption(optionText, "hello"),
		{Name: optionVoice, Type: discordgo.ApplicationCommandOptionBoolean, Value: true},
	})
	require.NoError(t, err)
	assert.True(t, opts.Voice)
}

func TestParseTextOptionsDefaults(t *testing.T) {
	opts, err := parseTextOptions([]*discordgo.ApplicationCommandInteractionDataOption{
		stringOption(optionText, "hello"),
	})
	require.NoError(t, err)
	assert.Equal(t, languages.Default(), opts.Language)
	assert.False(t, opts.Voice)
}

func TestParseTextOptionsErrors(t *testing.T) {
	_, err := parseTextOptions(nil)
	assert.ErrorIs(t, err, errMissingText)

	_, err = parseTextOptions([]*discordgo.ApplicationCommandInteractionDataOption{
		stringOption(optionText, "hello"),
		stringOption(optionLanguage, "Klingon"),
	})
	assert.ErrorIs(t, err, languages.ErrUnsupportedLanguage)
}

func TestCommands(t *testing.T) {
	cmds := commands()
	require.Len(t, cmds, 3)

	speak := cmds[0]
	assert.Equal(t, commandSpeak, speak.Name)
	require.Len(t, speak.Options, 3)
	assert.True(t, speak.Options[0].Required)
	assert.Equal(t, optionVoice, speak.Options[2].Name)
	assert.Equal(t, discordgo.ApplicationCommandOptionBoolean, speak.Options[2].Type)
	assert.Len(t, cmds[1].Options, 2)
	// discord allows at most 25 choices
	assert.Len(t, speak.Options[1].Choices, len(languages.All()))
	assert.LessOrEqual(t, len(speak.Options[1].Choices), 25)
}

func TestLanguageList(t *testing.T) {
	list := languageList()
	assert.Contains(t, list, "- Urdu (`ur`) slow speech, romanized input")
	assert.Contains(t, list, "- Arabic (`ar`) slow speech\n")
	assert.Contains(t, list, "- English (`en`)\n")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short"))

	long := strings.Repeat("ب", maxMessageLength+10)
	out := []rune(truncate(long))
	assert.Len(t, out, maxMessageLength)
	assert.Equal(t, '…', out[len(out)-1])
}

func TestInteractionUser(t *testing.T) {
	guild := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Member: &discordgo.Member{User: &discordgo.User{ID: "1"}},
	}}
	assert.Equal(t, "1", interactionUser(guild))

	dm := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		User: &discordgo.User{ID: "2"},
	}}
	assert.Equal(t, "2", interactionUser(dm))
}
