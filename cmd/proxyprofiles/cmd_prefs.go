package main

import (
	"fmt"

	"github.com/massamany/proxyprofiles/internal/profiles"
	"github.com/spf13/cobra"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show display and behavior preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession()
		if err != nil {
			return err
		}
		defer sess.Close()

		prefs := sess.Profiles.Preferences()
		for _, name := range profiles.PreferenceNames() {
			v, err := prefs.Get(name)
			if err != nil {
				return err
			}
			fmt.Printf("%-32s %s\n", name, v)
		}
		return nil
	},
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <name> <value>",
	Short: "Change a preference",
	Long: "Change a preference. Boolean preferences take true or false; icon preferences take a " +
		"file path, or an empty string for the packaged icon.",
	Args: cobra.ExactArgs(2),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return profiles.PreferenceNames(), cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveDefault
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession()
		if err != nil {
			return err
		}
		defer sess.Close()

		if err := sess.Profiles.SetPreference(args[0], args[1]); err != nil {
			return err
		}
		v, err := sess.Profiles.Preferences().Get(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s = %s\n", args[0], v)
		return nil
	},
}

func init() {
	prefsCmd.AddCommand(prefsSetCmd)
}
