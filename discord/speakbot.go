package discord

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"voicespeaker/audio"
	"voicespeaker/speaker"
)

type SpeakBot struct {
	Ctx     context.Context
	Session *discordgo.Session
	Speaker *speaker.Service
	GuildID string

	// one synthesis at a time per user, one voice playback per guild
	busy sync.Map
}

// StartSpeakBot connects to discord, registers the slash commands and
// serves them until ctx is done. An empty guildID registers the commands
// globally.
func StartSpeakBot(
	ctx context.Context,
	token string,
	guildID string,
	svc *speaker.Service,
) (*SpeakBot, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to start session; %w", err)
	}

	bot := &SpeakBot{
		Ctx:     ctx,
		Session: dg,
		Speaker: svc,
		GuildID: guildID,
	}

	dg.AddHandler(bot.onInteraction)
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildVoiceStates
	dg.StateEnabled = true

	err = dg.Open()
	if err != nil {
		return nil, fmt.Errorf("error opening connection; %w", err)
	}

	registered := make([]*discordgo.ApplicationCommand, 0)
	for _, cmd := range commands() {
		created, err := dg.ApplicationCommandCreate(dg.State.User.ID, guildID, cmd)
		if err != nil {
			dg.Close()
			return nil, fmt.Errorf("failed to register /%s; %w", cmd.Name, err)
		}
		registered = append(registered, created)
	}
	logrus.WithField("commands", len(registered)).WithField("guild", guildID).Infoln("discord bot ready")

	go func() {
		<-ctx.Done()

		// guild commands are cheap to recreate, global ones take a while to propagate
		if guildID != "" {
			for _, cmd := range registered {
				if err := dg.ApplicationCommandDelete(dg.State.User.ID, guildID, cmd.ID); err != nil {
					logrus.WithError(err).WithField("command", cmd.Name).Warnln("failed to remove command")
				}
			}
		}

		err := dg.Close()
		if err != nil {
			logrus.WithError(err).Errorln("failed to close discord connection")
		}
	}()

	return bot, nil
}

func (bot *SpeakBot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("panic", r).Errorln("recovered from panic in interaction")
		}
	}()

	data := i.ApplicationCommandData()
	switch data.Name {
	case commandLanguages:
		bot.respond(s, i, languageList())
	case commandConvert:
		opts, err := parseTextOptions(data.Options)
		if err != nil {
			bot.respond(s, i, err.Error())
			return
		}
		bot.respond(s, i, truncate(bot.Speaker.Convert(opts.Text, opts.Language)))
	case commandSpeak:
		bot.onSpeak(s, i, data)
	}
}

func (bot *SpeakBot) onSpeak(s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	opts, err := parseTextOptions(data.Options)
	if err != nil {
		bot.respond(s, i, err.Error())
		return
	}

	user := interactionUser(i)
	if _, loaded := bot.busy.LoadOrStore(user, struct{}{}); loaded {
		bot.respond(s, i, "still working on your last request")
		return
	}
	defer bot.busy.Delete(user)

	// validate before deferring so bad input gets a plain reply
	if _, err := bot.Speaker.Prepare(speaker.Request{Text: opts.Text, Language: opts.Language}); err != nil {
		bot.respond(s, i, err.Error())
		return
	}

	var channelID string
	if opts.Voice {
		channelID, err = voiceChannel(s, i.GuildID, user)
		if err != nil {
			bot.respond(s, i, err.Error())
			return
		}
		// one voice connection per guild
		if _, loaded := bot.busy.LoadOrStore("voice:"+i.GuildID, struct{}{}); loaded {
			bot.respond(s, i, "already speaking in this server")
			return
		}
		defer bot.busy.Delete("voice:" + i.GuildID)
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		logrus.WithError(err).Errorln("failed to defer interaction")
		return
	}

	req := speaker.Request{Text: opts.Text, Language: opts.Language}
	converted := truncate(bot.Speaker.Convert(opts.Text, opts.Language))

	consume := func(reader io.Reader) error {
		_, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
			Content: converted,
			Files: []*discordgo.File{{
				Name:        audio.FileName(opts.Language.Name, audio.FormatMP3),
				ContentType: "audio/mpeg",
				Reader:      reader,
			}},
		})
		if err != nil {
			return fmt.Errorf("failed to upload audio; %w", err)
		}
		return nil
	}
	if channelID != "" {
		consume = player(bot.Ctx, s, i.GuildID, channelID)
	}

	log := logrus.WithField("user", user).WithField("language", opts.Language.Code).WithField("voice", channelID != "")
	written, err := deliver(bot.Ctx, bot.Speaker, req, consume)
	if err != nil {
		log.WithError(err).Errorln("failed to speak")
		bot.followup(s, i, failureMessage(err))
		return
	}
	if channelID != "" {
		bot.followup(s, i, "🔊 "+converted)
	}

	log.WithField("bytes", written).Infoln("speech sent")
}

func (bot *SpeakBot) followup(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	_, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{Content: truncate(content)})
	if err != nil {
		logrus.WithError(err).Errorln("failed to send followup message")
	}
}

func (bot *SpeakBot) respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		logrus.WithError(err).Errorln("failed to respond to interaction")
	}
}

func interactionUser(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
