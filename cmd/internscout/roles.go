package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"internscout/internal/classify"
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List all configured target roles",
	Long:  "Reads the config and prints every target role with its match tokens and synonyms.",
	RunE:  runRoles,
}

func init() {
	rootCmd.AddCommand(rolesCmd)
}

func runRoles(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%-40s %-30s %s\n", "Role", "Tokens", "Synonyms")
	fmt.Println(strings.Repeat("─", 100))

	for _, r := range cfg.Roles {
		spec := classify.NewRoleSpec(r.Name, r.Synonyms...)
		synonyms := "-"
		if len(r.Synonyms) > 0 {
			synonyms = strings.Join(r.Synonyms, ", ")
		}
		fmt.Printf("%-40s %-30s %s\n", r.Name, strings.Join(spec.Tokens(), " "), synonyms)
	}

	fmt.Printf("\nTotal: %d roles\n", len(cfg.Roles))
	return nil
}
