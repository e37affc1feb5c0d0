package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nadzzz/flextts/internal/speaker"
)

var speakersCmd = &cobra.Command{
	Use:   "speakers [language]",
	Short: "List the installed reference speakers",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		dir := speaker.NewDir(cfg.SpeakerDir())
		out := cmd.OutOrStdout()

		if len(args) == 1 {
			speakers, err := dir.Speakers(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, name := range speakers {
				fmt.Fprintln(out, name)
			}
			return nil
		}

		languages, err := dir.Languages(cmd.Context())
		if err != nil {
			return err
		}

		names := make([]string, 0, len(languages))
		for lang := range languages {
			names = append(names, lang)
		}
		slices.Sort(names)

		for _, lang := range names {
			fmt.Fprintf(out, "%s: %s\n", lang, strings.Join(languages[lang], ", "))
		}
		return nil
	},
}
