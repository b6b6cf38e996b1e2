package discord

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"voicespeaker/transcoding"
)

var errNotInVoice = errors.New("join a voice channel first")

// voiceChannel finds the channel the user is connected to in a guild.
func voiceChannel(s *discordgo.Session, guildID, userID string) (string, error) {
	if guildID == "" {
		return "", errNotInVoice
	}
	vs, err := s.State.VoiceState(guildID, userID)
	if err != nil || vs == nil || vs.ChannelID == "" {
		return "", errNotInVoice
	}
	return vs.ChannelID, nil
}

// player joins a voice channel and plays the MP3 it reads there.
func player(ctx context.Context, s *discordgo.Session, guildID, channelID string) func(io.Reader) error {
	return func(reader io.Reader) error {
		vc, err := s.ChannelVoiceJoin(guildID, channelID, false, true)
		if err != nil {
			return fmt.Errorf("failed to join voice chat; %w", err)
		}
		defer func() {
			if err := vc.Disconnect(); err != nil {
				logrus.WithError(err).Warnln("failed to disconnect voice chat")
			}
		}()

		if err := vc.Speaking(true); err != nil {
			return fmt.Errorf("failed to set speaking; %w", err)
		}
		defer vc.Speaking(false)

		return transcoding.StreamMP3ToOpus(ctx, reader, vc.OpusSend)
	}
}
