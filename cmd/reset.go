package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingua/internal/backup"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all learner data",
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			fmt.Print("This deletes every profile, word, session and achievement. Continue? [y/N] ")
			answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.learner.Reset(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("All learner data deleted.")
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write a JSON backup",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := backup.Filename(time.Now())
		if len(args) == 1 {
			path = args[0]
		}

		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.backup.WriteFile(cmd.Context(), path); err != nil {
			return err
		}
		fmt.Printf("Backup written to %s\n", path)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Restore a JSON backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		data, err := d.backup.ReadFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := d.learner.Reload(cmd.Context()); err != nil {
			return err
		}
		fmt.Printf("Imported backup from %s (format %d, exported %s).\n", args[0], data.Version, data.ExportedAt.Local().Format(time.DateOnly))
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
