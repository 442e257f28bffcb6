package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/relctl/relctl/internal/wizard"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactively create relctl.toml, a plugins file, and .env",
	Run:   runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing configuration")
}

func runInit(cmd *cobra.Command, args []string) {
	if err := wizard.Run(initForce); err != nil {
		log.Fatalf("Init failed: %v", err)
	}
}
