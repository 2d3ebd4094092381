package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conductkit/conduct/internal/diagnostics"
	"github.com/conductkit/conduct/pkg/models"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check policy, profiles, and store health",
	RunE: func(cmd *cobra.Command, args []string) error {
		findings := diagnostics.Run(models.PolicyMode(flagMode))

		for _, f := range findings {
			switch f.Level {
			case diagnostics.LevelPass:
				printStatus("✓", f.Message, color.FgGreen)
			case diagnostics.LevelWarn:
				printStatus("⚠", f.Message, color.FgYellow)
			case diagnostics.LevelFail:
				printStatus("✗", f.Message, color.FgRed)
			}
		}

		if !diagnostics.Healthy(findings) {
			return fmt.Errorf("doctor found failing checks")
		}
		fmt.Printf("\n%s All checks passed.\n", color.GreenString("✓"))
		return nil
	},
}
