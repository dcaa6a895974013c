package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/disketch/disketch/internal/diconfig"
)

var validateSimConfig string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a simulation INI config without running it",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := diconfig.Load(validateSimConfig)
		if err != nil {
			return err
		}
		fmt.Printf("VALID: %d fragment(s), %d path(s), sketch=%s, epoch_ns=%d\n",
			len(cfg.FragmentSettings), len(cfg.Paths), cfg.SketchKind, cfg.EpochDurationNs)
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateSimConfig, "config", "c", "", "simulation INI config to validate (required)")
	validateCmd.MarkFlagRequired("config")
}
