package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/flashtrail/bootutil/core"
	"github.com/flashtrail/bootutil/internal/simflash"
)

var (
	fixtureWritePrimary   string
	fixtureWriteSecondary string
)

var fixtureCmd = &cobra.Command{
	Use:   "fixture <name>",
	Short: "Build a named scenario fixture and print or materialise the resulting swap states",
	Long: fmt.Sprintf("Build one of the scenario fixtures (%s) and either print the "+
		"decoded state of both slots along with the engine's swap-type verdict, "+
		"or (with --write-primary/--write-secondary) write the fixture's raw "+
		"bytes out to a real pair of files for later replay.", joinNames(simflash.FixtureNames())),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := buildFixture(args[0])
		if err != nil {
			return err
		}

		if fixtureWritePrimary != "" || fixtureWriteSecondary != "" {
			if fixtureWritePrimary == "" || fixtureWriteSecondary == "" {
				return fmt.Errorf("trailerctl: --write-primary and --write-secondary must both be set")
			}
			if err := f.WriteFiles(fixtureWritePrimary, fixtureWriteSecondary); err != nil {
				return fmt.Errorf("trailerctl: %w", err)
			}
			log.Infof("wrote fixture %q to %s and %s", args[0], fixtureWritePrimary, fixtureWriteSecondary)
			return nil
		}

		return dumpPair(f.Provider, f.Resolver, 0)
	},
}

func init() {
	fixtureCmd.Flags().StringVar(&fixtureWritePrimary, "write-primary", "", "materialise the fixture's primary slot to this file instead of printing it")
	fixtureCmd.Flags().StringVar(&fixtureWriteSecondary, "write-secondary", "", "materialise the fixture's secondary slot to this file instead of printing it")
}

func joinNames(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}

func buildFixture(name string) (*simflash.Fixture, error) {
	f, err := simflash.NewFixtureWithGeometry(name, currentGeometry())
	if err != nil {
		return nil, fmt.Errorf("trailerctl: %w", err)
	}
	log.Debugf("built fixture %q with slot size %d", name, f.Primary.Size())
	return f, nil
}

func currentGeometry() simflash.Geometry {
	return simflash.Geometry{
		SlotSize: int(viper.GetInt64("slot-size")),
		Align:    viper.GetInt("align"),
		Erased:   byte(viper.GetUint32("erased")),
	}
}

// resolvePair opens the slot pair a subcommand should operate on: a real
// file-backed pair when --primary/--secondary are both set, otherwise the
// named fixture on the in-memory simulator. The returned cleanup must be
// called once the caller is done with the pair.
func resolvePair(fixtureName string) (provider core.AreaProvider, resolver core.PairResolver, cleanup func() error, err error) {
	if flagPrimaryPath != "" || flagSecondaryPath != "" {
		if flagPrimaryPath == "" || flagSecondaryPath == "" {
			return nil, nil, nil, fmt.Errorf("trailerctl: --primary and --secondary must both be set")
		}
		fp, fr, ferr := simflash.NewFilePairProvider(flagPrimaryPath, flagSecondaryPath, currentGeometry())
		if ferr != nil {
			return nil, nil, nil, fmt.Errorf("trailerctl: %w", ferr)
		}
		log.Debugf("opened file-backed pair %s / %s", flagPrimaryPath, flagSecondaryPath)
		return fp, fr, fp.Close, nil
	}

	f, ferr := buildFixture(fixtureName)
	if ferr != nil {
		return nil, nil, nil, ferr
	}
	return f.Provider, f.Resolver, func() error { return nil }, nil
}

// dumpPair prints the decoded trailer of both slots in the pair resolver
// names at imageIndex, plus the engine's swap-type verdict, over any
// core.AreaProvider — the simulator or a real file-backed pair alike.
func dumpPair(provider core.AreaProvider, resolver core.PairResolver, imageIndex int) error {
	primaryID := resolver.Primary(imageIndex)
	secondaryID := resolver.Secondary(imageIndex)

	primary, err := core.ReadSwapStateByID(provider, primaryID)
	if err != nil {
		return fmt.Errorf("trailerctl: read primary state: %w", err)
	}
	secondary, err := core.ReadSwapStateByID(provider, secondaryID)
	if err != nil {
		return fmt.Errorf("trailerctl: read secondary state: %w", err)
	}
	swapType, err := core.SwapTypeMulti(imageIndex, provider, resolver, nil, log)
	if err != nil {
		return fmt.Errorf("trailerctl: decide: %w", err)
	}

	fmt.Printf("primary:   magic=%-6s swap=%-6s copy-done=%-6s image-ok=%-6s image-num=%d%s\n",
		primary.Magic, primary.SwapType, primary.CopyDone, primary.ImageOK, primary.ImageNum,
		checksumSuffix(provider, primaryID))
	fmt.Printf("secondary: magic=%-6s swap=%-6s copy-done=%-6s image-ok=%-6s image-num=%d%s\n",
		secondary.Magic, secondary.SwapType, secondary.CopyDone, secondary.ImageOK, secondary.ImageNum,
		checksumSuffix(provider, secondaryID))
	fmt.Printf("decision:  %s\n", swapType)
	return nil
}

// checksumSuffix formats TrailerChecksum for id, or an empty string if the
// area can't be reopened for the purpose (diagnostic-only, never fatal).
func checksumSuffix(provider core.AreaProvider, id int) string {
	area, err := provider.Open(id)
	if err != nil {
		return ""
	}
	defer area.Close()
	return fmt.Sprintf(" checksum=0x%02x", simflash.TrailerChecksum(area, core.TrailerSize))
}
