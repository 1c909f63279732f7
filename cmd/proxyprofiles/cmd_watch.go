package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/massamany/proxyprofiles/internal/commands"
	"github.com/massamany/proxyprofiles/internal/engine"
	"github.com/massamany/proxyprofiles/internal/logger"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the proxy status every time it changes",
	Long: "Follow system proxy mode changes and edits of the profiles file, printing the " +
		"status line after each one. Stops on interrupt.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runWatch(ctx)
	},
}

func runWatch(ctx context.Context) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	if appConfig.Watch {
		if err := sess.Profiles.Watch(ctx); err != nil {
			return err
		}
	}

	show := func(info engine.CurrentInfo) {
		if !sess.Profiles.ShowStatus() {
			info.Profile = nil
		}
		fmt.Println(commands.StatusLabel(info))
	}
	cancel := sess.Engine.OnChange(show)
	defer cancel()

	show(sess.Engine.CurrentInfo(sess.Profiles.ShowStatus()))
	logger.Log.Debugf("watching %s", sess.Profiles.Path())

	<-ctx.Done()
	return nil
}
