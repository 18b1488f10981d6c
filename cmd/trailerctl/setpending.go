package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flashtrail/bootutil/core"
)

var (
	setPendingFixture   string
	setPendingPermanent bool
)

var setPendingCmd = &cobra.Command{
	Use:   "set-pending",
	Short: "Mark a slot pair's secondary slot pending, then dump the result",
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, resolver, cleanup, err := resolvePair(setPendingFixture)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := core.SetPendingMulti(flagImageIndex, provider, resolver, setPendingPermanent, log); err != nil {
			return fmt.Errorf("trailerctl: set-pending: %w", err)
		}
		return dumpPair(provider, resolver, flagImageIndex)
	},
}

func init() {
	setPendingCmd.Flags().StringVar(&setPendingFixture, "fixture", "fresh", "named scenario to build before marking pending (ignored when --primary/--secondary are set)")
	setPendingCmd.Flags().BoolVar(&setPendingPermanent, "permanent", false, "mark the pending image for a permanent install rather than a one-shot test")
}
