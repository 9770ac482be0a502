package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/akarpov/claimroute/internal/policy"
)

// policiesCmd represents the policies command
var policiesCmd = &cobra.Command{
	Use:   "policies",
	Short: "List the loaded policy database",
	Long: `Policies prints every policy loaded from the configuration, with its
coverage set and exclusion clauses. Useful for checking what the
compliance stage will enforce before processing claims.`,
	RunE: runPolicies,
}

func init() {
	rootCmd.AddCommand(policiesCmd)
}

func runPolicies(cmd *cobra.Command, args []string) error {
	cfg, err := loadRuntimeConfig()
	if err != nil {
		return err
	}

	store, err := policy.NewStore(cfg.Policies)
	if err != nil {
		return fmt.Errorf("load policy store: %w", err)
	}

	fmt.Printf("%d policies loaded\n\n", store.Len())
	for _, p := range store.All() {
		fmt.Printf("%s\n", p.ID)
		fmt.Printf("  coverage:   %s\n", strings.Join(p.Coverage, ", "))
		if len(p.Exclusions) > 0 {
			fmt.Printf("  exclusions: %s\n", strings.Join(p.Exclusions, ", "))
		}
		fmt.Println()
	}

	return nil
}
