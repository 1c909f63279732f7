package main

import (
	"fmt"
	"strings"

	"github.com/massamany/proxyprofiles/internal/proxy"
	"github.com/spf13/cobra"
)

var modeCmd = &cobra.Command{
	Use:       "mode [none|manual|auto]",
	Short:     "Show or switch the system proxy mode",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"none", "manual", "auto"},
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession()
		if err != nil {
			return err
		}
		defer sess.Close()

		if len(args) == 0 {
			fmt.Println(sess.Engine.CurrentInfo(false).Mode)
			return nil
		}

		mode, err := proxy.ParseMode(strings.ToLower(args[0]))
		if err != nil {
			return err
		}
		if err := sess.Engine.SetMode(mode); err != nil {
			return err
		}
		fmt.Printf("Proxy mode set to %s.\n", mode)
		return nil
	},
}
