package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/profile-analyzer/internal/skills"
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List the target roles and their required skills",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		for _, role := range skills.Roles() {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s\n", role.Name, strings.Join(role.Skills, ", "))
		}
	},
}

func init() {
	rootCmd.AddCommand(rolesCmd)
}
