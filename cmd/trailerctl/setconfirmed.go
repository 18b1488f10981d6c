package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flashtrail/bootutil/core"
)

var setConfirmedFixture string

var setConfirmedCmd = &cobra.Command{
	Use:   "set-confirmed",
	Short: "Mark a slot pair's primary slot confirmed, then dump the result",
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, resolver, cleanup, err := resolvePair(setConfirmedFixture)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := core.SetConfirmedMulti(flagImageIndex, provider, resolver, log); err != nil {
			return fmt.Errorf("trailerctl: set-confirmed: %w", err)
		}
		return dumpPair(provider, resolver, flagImageIndex)
	},
}

func init() {
	setConfirmedCmd.Flags().StringVar(&setConfirmedFixture, "fixture", "revert-pending", "named scenario to build before confirming (ignored when --primary/--secondary are set)")
}
