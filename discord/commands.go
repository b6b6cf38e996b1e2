package discord

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"voicespeaker/languages"
	"voicespeaker/transliteration"
)

const (
	commandSpeak     = "speak"
	commandConvert   = "convert"
	commandLanguages = "languages"

	optionText     = "text"
	optionLanguage = "language"
	optionVoice    = "voice"

	// discord refuses messages longer than this
	maxMessageLength = 2000
)

var errMissingText = errors.New("missing text option")

func languageChoices() []*discordgo.ApplicationCommandOptionChoice {
	all := languages.All()
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(all))
	for _, l := range all {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  l.Name,
			Value: l.Name,
		})
	}
	return choices
}

func textOptions(verb string) []*discordgo.ApplicationCommandOption {
	opts := []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        optionText,
			Description: "Text to " + verb + ", romanized Urdu and Hindi are fine",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        optionLanguage,
			Description: "Language to use, English when left out",
			Choices:     languageChoices(),
		},
	}
	if verb == commandSpeak {
		opts = append(opts, &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        optionVoice,
			Description: "Play it in your voice channel instead of uploading a file",
		})
	}
	return opts
}

func commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        commandSpeak,
			Description: "Turn text into speech",
			Options:     textOptions(commandSpeak),
		},
		{
			Name:        commandConvert,
			Description: "Show how text will be written before it is spoken",
			Options:     textOptions(commandConvert),
		},
		{
			Name:        commandLanguages,
			Description: "List the supported languages",
		},
	}
}

type textOption struct {
	Text     string
	Language languages.Language
	// play in the caller's voice channel
	Voice bool
}

// parseTextOptions reads the text and language options of /speak and /convert.
func parseTextOptions(options []*discordgo.ApplicationCommandInteractionDataOption) (textOption, error) {
	out := textOption{Language: languages.Default()}
	for _, opt := range options {
		switch value := opt.Value.(type) {
		case string:
			switch opt.Name {
			case optionText:
				out.Text = value
			case optionLanguage:
				lang, err := languages.Resolve(value)
				if err != nil {
					return out, err
				}
				out.Language = lang
			}
		case bool:
			if opt.Name == optionVoice {
				out.Voice = value
			}
		}
	}
	if out.Text == "" {
		return out, errMissingText
	}
	return out, nil
}

func languageList() string {
	msg := "**Supported languages**\n"
	for _, l := range languages.All() {
		line := fmt.Sprintf("- %s (`%s`)", l.Name, l.Code)
		if languages.SlowSpeech(l.Code) {
			line += " slow speech"
		}
		if transliteration.Supported(l.Code) {
			line += ", romanized input"
		}
		msg += line + "\n"
	}
	return msg
}

func truncate(msg string) string {
	runes := []rune(msg)
	if len(runes) <= maxMessageLength {
		return msg
	}
	return string(runes[:maxMessageLength-1]) + "…"
}
