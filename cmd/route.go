package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingua/internal/lang"
	"github.com/abhisek/lingua/internal/router"
)

var routeCmd = &cobra.Command{
	Use:   "route <message>",
	Short: "Print which tutor handler a message is routed to",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _ := cmd.Flags().GetString("type")
		t, err := lang.ParseSessionType(s)
		if err != nil {
			return err
		}
		fmt.Println(router.Classify(strings.Join(args, " "), t))
		return nil
	},
}

func init() {
	routeCmd.Flags().String("type", "", "Session type the message was sent from")
}
