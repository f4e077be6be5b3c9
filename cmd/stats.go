package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingua/internal/backup"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the progress report",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		report := backup.BuildReport(d.learner, time.Now())
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			b, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal report: %w", err)
			}
			fmt.Println(string(b))
			return nil
		}
		fmt.Print(report.Text())
		return nil
	},
}

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "List achievements and progress towards them",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		for _, s := range d.learner.Achievements.Statuses(d.learner.Stats()) {
			state := fmt.Sprintf("%3.0f%%", s.Progress*100)
			if s.Unlocked {
				state = "done"
				if s.UnlockedAt != nil {
					state = s.UnlockedAt.Local().Format(time.DateOnly)
				}
			}
			fmt.Printf("%s  %-22s  %-10s  %s\n", s.Icon, s.Title, state, s.Description)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Bool("json", false, "Print the report as JSON")
}
