package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/SanatPandey22/AvereSDK/cmd/vfxt/handlers"
)

// Health returns the health command.
func Health() *cobra.Command {
	var (
		severity string
		holdFor  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Wait for the cluster to reach a health state",
		Long: `Health polls cluster alert conditions until the cluster sustains the
requested severity for the hold duration.

Severities, from most to least permissive:
  red     no unresolved red conditions
  yellow  no unresolved red or yellow conditions
  green   no unresolved conditions at all

Example:
  vfxt health -c vfxt.yaml
  vfxt health --severity green --hold 2m`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Health(cmd.Context(), globalOptions(), severity, holdFor)
		},
	}

	cmd.Flags().StringVar(&severity, "severity", "yellow", "Health severity to wait for: red, yellow or green")
	cmd.Flags().DurationVar(&holdFor, "hold", 30*time.Second, "How long the state must hold before the check passes")

	return cmd
}
