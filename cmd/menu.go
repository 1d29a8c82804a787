package cmd

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/Bitlatte/mosaic/internal/errors"
	"github.com/Bitlatte/mosaic/internal/menu"
	"github.com/Bitlatte/mosaic/internal/traverse"
)

var (
	menuID       string
	contentsPage bool
)

var menuCmd = &cobra.Command{
	Use:   "menu <path>",
	Short: "Prints a content menu as YAML",
	Long: `The menu command prints the items of a menu for the content item at path.
By default it prints the content menu with its submenus expanded.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, closeSite, err := openSite(ctx, appConfig)
		if err != nil {
			return err
		}
		defer closeSite()

		c, ok := st.Content.Lookup(args[0])
		if !ok {
			return errors.NotFound("no content at %s", args[0])
		}
		req := traverse.NewRequest(c.URL)
		req.ContentsPage = contentsPage

		items, err := st.Menu(menuID, c, req)
		if err != nil {
			return err
		}
		out, err := yaml.Marshal(items)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	menuCmd.Flags().StringVarP(&menuID, "menu", "m", menu.ContentMenuID, "menu id")
	menuCmd.Flags().BoolVar(&contentsPage, "contents-page", false, "render the menu as seen from the folder contents page")
	rootCmd.AddCommand(menuCmd)
}
