package main

import (
	"fmt"

	"github.com/massamany/proxyprofiles/internal/commands"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the proxy mode and the matching profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession()
		if err != nil {
			return err
		}
		defer sess.Close()

		info := sess.Engine.CurrentInfo(sess.Profiles.ShowStatus())
		fmt.Println(commands.StatusLabel(info))
		if info.Profile != nil {
			fmt.Printf("  %s\n", commands.ProfileSummary(*info.Profile))
		}
		return nil
	},
}
