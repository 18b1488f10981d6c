package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flashtrail/bootutil/core"
)

var swapTypeFixture string

var swapTypeCmd = &cobra.Command{
	Use:   "swap-type",
	Short: "Print the swap type the decision engine derives for a slot pair",
	Long: `Print the SwapType core.SwapTypeMulti derives for image --image-index of
either the named --fixture on the in-memory simulator, or a real pair of
files given with --primary/--secondary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, resolver, cleanup, err := resolvePair(swapTypeFixture)
		if err != nil {
			return err
		}
		defer cleanup()

		swapType, err := core.SwapTypeMulti(flagImageIndex, provider, resolver, nil, log)
		if err != nil {
			return fmt.Errorf("trailerctl: decide: %w", err)
		}
		fmt.Println(swapType)
		return nil
	},
}

func init() {
	swapTypeCmd.Flags().StringVar(&swapTypeFixture, "fixture", "fresh", "named scenario to build before deciding (ignored when --primary/--secondary are set)")
}
