package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sigreer/fstabgen/internal/config"
	"github.com/sigreer/fstabgen/internal/generate"
	"github.com/sigreer/fstabgen/internal/identify"
	"github.com/sigreer/fstabgen/internal/version"
	"github.com/spf13/cobra"
)

var (
	cfgFile      string
	useLabel     bool
	usePartUUID  bool
	usePartLabel bool
	showVersion  bool
)

var rootCmd = &cobra.Command{
	Use:   "fstabgen [flags] <root>",
	Short: "Generate fstab entries from mounted filesystems",
	Long: `fstabgen reads the filesystems currently mounted under a root directory
and prints fstab entries for them, resolving each device to a persistent
identifier (UUID by default). Active swap devices are appended, excluding
zram. Nothing is written to disk; redirect stdout where you need it:

  fstabgen /mnt >> /mnt/etc/fstab

When several identifier flags are given, the first of --label, --partuuid,
--partlabel in that order wins.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("fstabgen %s\n", version.Version)
			return nil
		}
		if len(args) != 1 {
			return fmt.Errorf("expected exactly one root directory argument")
		}

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		return generate.Run(generate.Options{
			Root:   args[0],
			Kind:   identifierKind(),
			Config: cfg,
		}, os.Stdout)
	},
}

// identifierKind applies the documented flag precedence.
func identifierKind() identify.Kind {
	switch {
	case useLabel:
		return identify.Label
	case usePartUUID:
		return identify.PartUUID
	case usePartLabel:
		return identify.PartLabel
	default:
		return identify.UUID
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is /etc/fstabgen/config.yaml)")

	rootCmd.Flags().BoolVarP(&useLabel, "label", "L", false, "use filesystem LABEL instead of UUID")
	rootCmd.Flags().BoolVarP(&usePartUUID, "partuuid", "p", false, "use partition PARTUUID instead of UUID")
	rootCmd.Flags().BoolVarP(&usePartLabel, "partlabel", "t", false, "use partition PARTLABEL instead of UUID")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "V", false, "print version and exit")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var runErr *generate.Error
		if errors.As(err, &runErr) {
			os.Exit(int(runErr.Code))
		}
		// Usage and flag errors get the sysexits EX_USAGE code so they
		// never collide with the pipeline's own exit codes.
		os.Exit(64)
	}
}
