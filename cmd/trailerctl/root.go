package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/flashtrail/bootutil/internal/telemetry"
)

var (
	flagVerbose  bool
	flagJSON     bool
	flagSlotSize int64
	flagAlign    int
	flagErased   uint8
	flagConfig   string

	// flagImageIndex, flagPrimaryPath and flagSecondaryPath select which
	// slot pair a subcommand operates on: either image flagImageIndex of
	// the named --fixture, or (when both paths are set) a real pair of
	// files backing core.FlashArea directly, bypassing the simulator.
	flagImageIndex    int
	flagPrimaryPath   string
	flagSecondaryPath string

	log *telemetry.CoreLogger
)

var rootCmd = &cobra.Command{
	Use:   "trailerctl",
	Short: "Inspect and drive the dual-slot image-trailer state machine",
	Long: `trailerctl builds a simulated pair of flash slots, programs their
trailers into any of the scenarios from the swap-decision engine's test
matrix, and reports what the engine decides.

It can also operate on a real pair of files (--primary/--secondary)
instead of the in-memory simulator, sized by --slot-size/--align/--erased.
Geometry can come from flags, TRAILERCTL_* environment variables, or an
optional trailerctl-config.yaml.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log = telemetry.New(telemetry.Config{
			Verbose:    viper.GetBool("verbose"),
			JSONOutput: viper.GetBool("json"),
		}).WithComponent("trailerctl")
	},
}

// Execute runs the root command, returning any error for main to report.
func Execute() error {
	cobra.OnInitialize(initConfig)
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug-level logging")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit structured JSON log lines instead of console output")
	rootCmd.PersistentFlags().Int64Var(&flagSlotSize, "slot-size", 4096, "size in bytes of each simulated slot")
	rootCmd.PersistentFlags().IntVar(&flagAlign, "align", 8, "simulated flash write alignment")
	rootCmd.PersistentFlags().Uint8Var(&flagErased, "erased", 0xFF, "simulated flash erased byte value")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to a trailerctl config file (default: search ./trailerctl-config.{yaml,json} and $HOME/.trailerctl)")
	rootCmd.PersistentFlags().IntVar(&flagImageIndex, "image-index", 0, "logical image index the slot pair is addressed as")
	rootCmd.PersistentFlags().StringVar(&flagPrimaryPath, "primary", "", "path to a real file backing the primary slot (requires --secondary)")
	rootCmd.PersistentFlags().StringVar(&flagSecondaryPath, "secondary", "", "path to a real file backing the secondary slot (requires --primary)")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("slot-size", rootCmd.PersistentFlags().Lookup("slot-size"))
	viper.BindPFlag("align", rootCmd.PersistentFlags().Lookup("align"))
	viper.BindPFlag("erased", rootCmd.PersistentFlags().Lookup("erased"))

	rootCmd.AddCommand(swapTypeCmd, setPendingCmd, setConfirmedCmd, inspectCmd, fixtureCmd, eraseCmd)
}

// initConfig wires geometry from flags, TRAILERCTL_* environment variables,
// and an optional config file, in that descending precedence (flags win
// over env, and both win over the file; viper resolves that automatically). Grounded on
// deploymenttheory-go-apfs's LoadDMGConfig, which uses the identical
// SetConfigName/AddConfigPath/ReadInConfig shape for the same reason: a
// small CLI tool's config is usually flags, sometimes env, and only
// occasionally an actual file on disk.
func initConfig() {
	viper.SetEnvPrefix("TRAILERCTL")
	viper.AutomaticEnv()

	if flagConfig != "" {
		viper.SetConfigFile(flagConfig)
	} else {
		viper.SetConfigName("trailerctl-config")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.trailerctl")
		viper.AddConfigPath("/etc/trailerctl")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(rootCmd.ErrOrStderr(), "trailerctl: warning: %v\n", err)
		}
	}
}
