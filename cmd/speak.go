package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"voicespeaker/audio"
	"voicespeaker/languages"
	"voicespeaker/speaker"
)

func speakCmd(opts *rootOptions) *cobra.Command {
	var (
		language string
		out      string
		format   string
	)
	cmd := &cobra.Command{
		Use:   "speak <text>",
		Short: "Synthesize text into an audio file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			lang, err := languages.Resolve(language)
			if err != nil {
				return err
			}
			format = strings.ToLower(format)
			if _, err := audio.MimeType(format); err != nil {
				return err
			}
			svc, err := newService(cfg)
			if err != nil {
				return err
			}

			res, err := svc.Speak(cmd.Context(), speaker.Request{Text: strings.Join(args, " "), Language: lang})
			if err != nil {
				return err
			}

			data := res.Audio.Data
			if format == audio.FormatWAV {
				data, err = audio.ToWAV(data)
				if err != nil {
					return fmt.Errorf("failed to convert to wav; %w", err)
				}
			}

			if out == "" {
				out = audio.FileName(lang.Name, format)
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s; %w", out, err)
			}

			logrus.WithFields(logrus.Fields{
				"file":     out,
				"text":     res.Text,
				"duration": res.Duration.String(),
			}).Infoln("saved speech")
			return nil
		},
	}
	cmd.Flags().StringVarP(&language, "language", "L", languages.Default().Name, "language name or code")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, <Language>_speech.<format> by default")
	cmd.Flags().StringVarP(&format, "format", "f", audio.FormatMP3, "mp3 or wav")
	return cmd
}
