package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newCheckCommand validates WordPress credentials and the AI key
// without touching the site's content.
func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate WordPress credentials and the AI provider key",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, closer, err := buildDeps(true)
			if err != nil {
				return err
			}
			defer closer()

			ctx := cmd.Context()

			if err := d.wp.ValidateCredentials(ctx); err != nil {
				return err
			}
			fmt.Println("WordPress credentials: ok")

			if !d.ai.ValidateKey(ctx) {
				return fmt.Errorf("ai provider %s rejected the configured key", d.cfg.AI.Provider)
			}
			fmt.Printf("AI provider %s: ok\n", d.cfg.AI.Provider)
			return nil
		},
	}
}
