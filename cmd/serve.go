package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"voicespeaker/discord"
	"voicespeaker/server"
)

func serveCmd(opts *rootOptions) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web app, and the discord bot when a token is configured",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Listen = listen
			}
			svc, err := newService(cfg)
			if err != nil {
				return err
			}

			var limiter *server.Limiter
			if cfg.RateLimit.PerSecond > 0 {
				limiter = server.NewLimiter(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst, cfg.RateLimit.IdleTTL)
				defer limiter.Close()
			}

			ctx := cmd.Context()
			group, ctx := errgroup.WithContext(ctx)

			group.Go(func() error {
				return server.New(svc, server.Options{Limiter: limiter}).Run(ctx, cfg.Listen)
			})

			if cfg.Discord.Token != "" {
				if _, err := discord.StartSpeakBot(ctx, cfg.Discord.Token, cfg.Discord.GuildID, svc); err != nil {
					return err
				}
			} else {
				logrus.Debugln("no discord token, bot disabled")
			}

			logrus.WithField("provider", svc.Provider()).Infoln("voice speaker started")
			return group.Wait()
		},
	}
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "address to listen on, overrides the config")
	return cmd
}
