package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"voicespeaker/languages"
	"voicespeaker/transliteration"
)

type languageEntry struct {
	languages.Language
	Slow           bool `json:"slow"`
	Transliterated bool `json:"transliterated"`
}

func languagesCmd() *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List supported languages",
		RunE: func(cmd *cobra.Command, args []string) error {
			var entries []languageEntry
			for _, l := range languages.All() {
				entries = append(entries, languageEntry{
					Language:       l,
					Slow:           languages.SlowSpeech(l.Code),
					Transliterated: transliteration.Supported(l.Code),
				})
			}

			w := cmd.OutOrStdout()
			if jsonOutput {
				data, err := json.MarshalIndent(entries, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(w, string(data))
				return nil
			}

			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "NAME\tCODE\tRTL\tSLOW\tROMANIZED\n")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%t\t%t\t%t\n", e.Name, e.Code, e.RTL, e.Slow, e.Transliterated)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}
