package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var eraseFixture string

var eraseCmd = &cobra.Command{
	Use:   "erase {primary|secondary}",
	Short: "Erase one slot of a pair back to its erased byte value, then dump the result",
	Long: `Erase drives core.FlashArea.Erase directly against one whole slot,
bypassing the decision engine entirely — useful for reproducing a fresh
device out of a scenario that already has trailers written, or for
manually building states none of the named fixtures cover.`,
	Args:      cobra.ExactValidArgs(1),
	ValidArgs: []string{"primary", "secondary"},
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, resolver, cleanup, err := resolvePair(eraseFixture)
		if err != nil {
			return err
		}
		defer cleanup()

		var id int
		switch args[0] {
		case "primary":
			id = resolver.Primary(flagImageIndex)
		case "secondary":
			id = resolver.Secondary(flagImageIndex)
		}

		area, err := provider.Open(id)
		if err != nil {
			return fmt.Errorf("trailerctl: erase: %w", err)
		}
		defer area.Close()

		if err := area.Erase(0, area.Size()); err != nil {
			return fmt.Errorf("trailerctl: erase: %w", err)
		}
		log.Infof("erased %s slot (region id %d)", args[0], id)

		return dumpPair(provider, resolver, flagImageIndex)
	},
}

func init() {
	eraseCmd.Flags().StringVar(&eraseFixture, "fixture", "fresh", "named scenario to build before erasing (ignored when --primary/--secondary are set)")
}
