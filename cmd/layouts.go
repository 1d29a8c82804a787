package cmd

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/Bitlatte/mosaic/internal/errors"
	"github.com/Bitlatte/mosaic/internal/vocab"
)

type layoutListing struct {
	Path           string           `yaml:"path"`
	DisplayLayouts vocab.Vocabulary `yaml:"displayLayouts"`
	ContentLayouts vocab.Vocabulary `yaml:"contentLayouts"`
}

var layoutsCmd = &cobra.Command{
	Use:   "layouts <path>",
	Short: "Prints the display and content layouts available to a content item",
	Args:  cobra.ExactArgs(1),
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
		listing := layoutListing{
			Path:           c.Path,
			DisplayLayouts: st.Vocabularies.Lookup(vocab.DisplayLayouts, c),
			ContentLayouts: st.Vocabularies.Lookup(vocab.ContentLayouts, c),
		}
		out, err := yaml.Marshal(listing)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(layoutsCmd)
}
