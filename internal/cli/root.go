package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexbilevskiy/tgfocus/internal/consts"
)

const (
	usageText   = "Usage: tgfocus [archive|unarchive]"
	invalidText = "Invalid option. Use: archive or unarchive"
)

// RunFunc performs one archive or unarchive run.
type RunFunc func(ctx context.Context, cfgFile string, mode string) error

func NewRootCmd(run RunFunc) *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "tgfocus [archive|unarchive]",
		Short: "Temporarily archive Telegram chats and stash chat folders",
		Long: `tgfocus archives every chat that is not excluded, remembers which chats it
moved and stashes chat folders in a local file. "unarchive" reverses both.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), usageText)
				return nil
			}
			mode := strings.ToLower(strings.TrimSpace(args[0]))
			if mode != consts.ModeArchive && mode != consts.ModeUnarchive {
				fmt.Fprintln(cmd.OutOrStdout(), invalidText)
				return nil
			}

			return run(cmd.Context(), cfgFile, mode)
		},
	}
	cmd.Flags().StringVar(&cfgFile, "config", "config.json", "config file")

	return cmd
}
