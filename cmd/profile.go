package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingua/internal/lang"
	"github.com/abhisek/lingua/internal/progress"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage learner profiles",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show every profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		profiles := d.learner.Profiles.Profiles()
		if len(profiles) == 0 {
			fmt.Println("No profiles yet. Create one with: lingua profile create <en|es|de>")
			return nil
		}
		active := d.learner.Profiles.ActiveLanguage()
		for _, p := range profiles {
			marker := " "
			if p.TargetLanguage == active {
				marker = "*"
			}
			info := p.TargetLanguage.Info()
			fmt.Printf("%s %s %s (tutor %s)\n", marker, info.Flag, info.Name, info.TutorName)
			fmt.Printf("    Level:   %s (%s)\n", p.CEFRLevel, p.CEFRLevel.Description())
			fmt.Printf("    XP:      %d\n", p.TotalXP)
			fmt.Printf("    Streak:  %d days\n", p.Streak)
			if len(p.CompletedTopics) > 0 {
				fmt.Printf("    Lessons: %s\n", strings.Join(p.CompletedTopics, ", "))
			}
			for _, s := range progress.Skills() {
				fmt.Printf("    %-13s %3d\n", s, p.SkillScores[s])
			}
		}
		return nil
	},
}

var profileCreateCmd = &cobra.Command{
	Use:   "create <language>",
	Short: "Start learning a language and make it active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := lang.ParseLanguage(args[0])
		if err != nil {
			return err
		}
		s, _ := cmd.Flags().GetString("level")
		var level lang.Level
		if s != "" {
			if level, err = lang.ParseLevel(s); err != nil {
				return err
			}
		}

		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		p, err := d.learner.Profiles.CreateProfile(cmd.Context(), l, level)
		if err != nil {
			return err
		}
		fmt.Printf("Learning %s at %s with %s.\n", l.Name(), p.CEFRLevel, l.TutorName())
		return nil
	},
}

var profileLevelCmd = &cobra.Command{
	Use:   "level <A1..C2>",
	Short: "Set the CEFR level of the active profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := lang.ParseLevel(args[0])
		if err != nil {
			return err
		}

		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		p, err := d.learner.Profiles.ActiveProfile()
		if err != nil {
			return err
		}
		if _, err := d.learner.Profiles.UpdateLevel(cmd.Context(), p.TargetLanguage, level); err != nil {
			return err
		}
		fmt.Printf("%s level set to %s (%s).\n", p.TargetLanguage.Name(), level, level.Description())
		return nil
	},
}

func init() {
	profileCreateCmd.Flags().String("level", "", "Starting CEFR level (default A1)")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileCreateCmd)
	profileCmd.AddCommand(profileLevelCmd)
}
