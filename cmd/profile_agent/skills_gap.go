package main

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/jonathan/profile-analyzer/internal/observability"
	"github.com/jonathan/profile-analyzer/internal/skills"
)

var skillsGapCmd = &cobra.Command{
	Use:   "skills-gap",
	Short: "Compare skills against a target role or a requirement list",
	Long: `Compare a candidate's skills against a catalog role (--role) or an ad hoc
requirement list (--required). Skills come from --skills or from a Profile JSON
file (--profile). Without --role or --required the role is chosen interactively.`,
	Args: cobra.NoArgs,
	RunE: runSkillsGap,
}

var (
	gapProfile  string
	gapSkills   string
	gapRole     string
	gapRequired string
	gapJSON     bool
)

func init() {
	skillsGapCmd.Flags().StringVarP(&gapProfile, "profile", "p", "", "Profile JSON file to take skills from")
	skillsGapCmd.Flags().StringVarP(&gapSkills, "skills", "s", "", "comma-separated candidate skills")
	skillsGapCmd.Flags().StringVarP(&gapRole, "role", "r", "", "target role from the catalog (see: roles)")
	skillsGapCmd.Flags().StringVar(&gapRequired, "required", "", "comma-separated required skills instead of a role")
	skillsGapCmd.Flags().BoolVar(&gapJSON, "output-json", false, "print JSON instead of a report")
	rootCmd.AddCommand(skillsGapCmd)
}

// candidateSkills merges --skills with the skills of --profile.
func candidateSkills() ([]string, error) {
	candidate := splitSkills(gapSkills)
	if gapProfile != "" {
		profile, err := readProfile(gapProfile)
		if err != nil {
			return nil, err
		}
		candidate = append(candidate, profile.Skills...)
	}
	if gapProfile == "" && len(candidate) == 0 {
		return nil, errors.New("provide --skills or --profile")
	}
	return candidate, nil
}

// selectRole asks the user to pick a catalog role.
var selectRole = func() (string, error) {
	prompt := promptui.Select{
		Label: "Choose a target role and press ENTER",
		Items: skills.RoleNames(),
	}
	_, role, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("role selection: %w", err)
	}
	return role, nil
}

func runSkillsGap(cmd *cobra.Command, _ []string) error {
	candidate, err := candidateSkills()
	if err != nil {
		return err
	}
	p := observability.NewPrinter(cmd.OutOrStdout())

	if gapRequired != "" && gapRole == "" {
		result := skills.Compare(candidate, splitSkills(gapRequired))
		if gapJSON {
			return writeJSON(cmd, result)
		}
		p.PrintComparison(result)
		return nil
	}

	role := gapRole
	if role == "" {
		if role, err = selectRole(); err != nil {
			return err
		}
	}

	gap, err := skills.AnalyzeRole(candidate, role)
	if err != nil {
		return err
	}
	if gapJSON {
		return writeJSON(cmd, gap)
	}
	p.PrintRoleGap(gap)
	return nil
}
