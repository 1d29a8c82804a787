package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Bitlatte/mosaic/internal/logging"
	"github.com/Bitlatte/mosaic/internal/traverse"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <path>",
	Short: "Publishes a path and prints the rendered output",
	Long: `The resolve command walks a path through the content tree the way the
server does, including ++layout++ and ++contentlayout++ segments, and prints
what would be served.`,
	Example: `  mosaic resolve /docs/intro
  mosaic resolve /docs/++layout++listing
  mosaic resolve /++contentlayout++default/document`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, closeSite, err := openSite(ctx, appConfig)
		if err != nil {
			return err
		}
		defer closeSite()

		req := traverse.NewRequest("")
		view, err := st.Publisher.Publish(ctx, args[0], req)
		if err != nil {
			return err
		}
		out, err := view.Render(ctx)
		if err != nil {
			return err
		}
		logging.FromContext(ctx).Debug("resolved", "path", args[0], "url", req.URL)
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return err
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
