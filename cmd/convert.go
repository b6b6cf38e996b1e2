package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"voicespeaker/languages"
	"voicespeaker/transliteration"
)

func convertCmd() *cobra.Command {
	var language string
	cmd := &cobra.Command{
		Use:   "convert <text>",
		Short: "Print text the way it will be spoken",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := languages.Resolve(language)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), transliteration.Convert(strings.Join(args, " "), lang.Code))
			return nil
		},
	}
	cmd.Flags().StringVarP(&language, "language", "L", languages.Default().Name, "language name or code")
	return cmd
}
