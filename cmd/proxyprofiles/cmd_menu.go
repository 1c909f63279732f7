package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/massamany/proxyprofiles/internal/commands"
	"github.com/spf13/cobra"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Open the interactive status menu",
	RunE:  runMainMenu,
}

func runMainMenu(cmd *cobra.Command, args []string) error {
	// Fall back to status when stdin is not a terminal.
	if !term.IsTerminal(os.Stdin.Fd()) {
		return statusCmd.RunE(cmd, args)
	}

	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	for {
		state := commands.DetectMenuState(sess.Engine)

		action, ok, err := runPicker(state)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		if err := sess.Run(action); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
}
