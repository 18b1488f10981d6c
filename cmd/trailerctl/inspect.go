package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/flashtrail/bootutil/core"
)

var inspectFixture string

// correlatable is satisfied by simflash.Region, which tags every area
// with a diagnostic uuid.UUID that has no bearing on the decision engine.
// A file-backed pair has no such id; inspect just omits the field then.
type correlatable interface {
	Correlation() uuid.UUID
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Dump the decoded trailer state of both slots in a pair, unmodified",
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, resolver, cleanup, err := resolvePair(inspectFixture)
		if err != nil {
			return err
		}
		defer cleanup()

		printRegionHeader(provider, "primary", resolver.Primary(flagImageIndex))
		printRegionHeader(provider, "secondary", resolver.Secondary(flagImageIndex))

		return dumpPair(provider, resolver, flagImageIndex)
	},
}

func init() {
	inspectCmd.Flags().StringVar(&inspectFixture, "fixture", "fresh", "named scenario to build and inspect (ignored when --primary/--secondary are set)")
}

func printRegionHeader(provider core.AreaProvider, label string, id int) {
	area, err := provider.Open(id)
	if err != nil {
		fmt.Printf("%s region: id=%d (open failed: %v)\n", label, id, err)
		return
	}
	defer area.Close()

	if c, ok := area.(correlatable); ok {
		fmt.Printf("%s region:   id=%d correlation=%s\n", label, area.ID(), c.Correlation())
		return
	}
	fmt.Printf("%s region:   id=%d\n", label, area.ID())
}
