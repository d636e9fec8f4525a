package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"censorship/pkg/censor"
	"censorship/pkg/pipeline"
	"censorship/pkg/wordlist"
)

var redactSession censor.Session

var redactCmd = &cobra.Command{
	Use:   "redact [content...]",
	Short: "Censor content from arguments or stdin",
	RunE:  redactAction,
}

func init() {
	redactCmd.Flags().StringVar(&redactSession.Platform, "platform", "", "session platform")
	redactCmd.Flags().StringVar(&redactSession.GuildID, "guild", "", "session guild id")
	redactCmd.Flags().StringVar(&redactSession.ChannelID, "channel", "", "session channel id")
	redactCmd.Flags().StringVar(&redactSession.UserID, "user", "", "session user id")
	rootCmd.AddCommand(redactCmd)
}

func redactAction(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	content := strings.Join(args, " ")
	if len(args) == 0 {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		content = string(b)
	}

	pl, err := pipeline.New(cmd.Context(), cfg, &wordlist.Loader{BaseDir: cfg.BaseDir})
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}

	out, err := pl.Censor.TransformString(cmd.Context(), content, &redactSession)
	if err != nil {
		return fmt.Errorf("censor content: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
