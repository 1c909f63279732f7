package main

import (
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/massamany/proxyprofiles/internal/commands"
	"github.com/massamany/proxyprofiles/internal/proxy"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage proxy profiles",
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles in menu order",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession()
		if err != nil {
			return err
		}
		defer sess.Close()

		list := sess.Profiles.List()
		if len(list) == 0 {
			fmt.Println("No profiles configured.")
			return nil
		}

		current := sess.Engine.CurrentInfo(true).ProfileName()
		for _, p := range list {
			if p.Name == current {
				fmt.Printf("* %s: %s\n", p.Name, commands.ProfileSummary(p))
			} else {
				fmt.Printf("  %s: %s\n", p.Name, commands.ProfileSummary(p))
			}
		}
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a profile as stored",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession()
		if err != nil {
			return err
		}
		defer sess.Close()

		p, ok := sess.Profiles.Get(args[0])
		if !ok {
			return profileNotFound(sess, args[0])
		}
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

var (
	addMode     string
	addURL      string
	addIgnored  string
	addUseAuth  bool
	addAuthUser string
	addAuthPass string
	addEndpoint = map[proxy.Protocol]*string{}
)

var profileAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Create or update a profile",
	Long: "Create or update a profile. Without --mode an interactive form is shown, " +
		"prefilled from the existing profile of that name.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession()
		if err != nil {
			return err
		}
		defer sess.Close()

		in := commands.ProfileInput{Hosts: map[proxy.Protocol]string{}, Ports: map[proxy.Protocol]string{}}
		if len(args) == 1 {
			in.Name = args[0]
			if existing, ok := sess.Profiles.Get(args[0]); ok {
				in = commands.NewProfileInput(existing)
			}
		}

		if cmd.Flags().Changed("mode") {
			if err := applyProfileFlags(cmd, &in); err != nil {
				return err
			}
		} else if err := runProfileForm(&in); err != nil {
			return err
		}

		p, err := in.Profile()
		if err != nil {
			return err
		}
		if err := sess.Profiles.Upsert(p); err != nil {
			return err
		}
		fmt.Printf("Saved profile %q: %s\n", p.Name, commands.ProfileSummary(p))
		return nil
	},
}

func applyProfileFlags(cmd *cobra.Command, in *commands.ProfileInput) error {
	flags := cmd.Flags()
	in.Mode = addMode
	for _, p := range proxy.Protocols {
		if !flags.Changed(string(p)) {
			continue
		}
		ep, err := commands.ParseEndpoint(*addEndpoint[p])
		if err != nil {
			return fmt.Errorf("--%s: %w", p, err)
		}
		setEndpointText(in, p, ep)
	}
	if flags.Changed("ignored") {
		in.Ignored = addIgnored
	}
	if flags.Changed("use-auth") {
		in.UseAuth = addUseAuth
	}
	if flags.Changed("auth-user") {
		in.AuthUser = addAuthUser
	}
	if flags.Changed("auth-password") {
		in.AuthPass = addAuthPass
	}
	if flags.Changed("url") {
		in.ConfigURL = addURL
	}
	return nil
}

func setEndpointText(in *commands.ProfileInput, p proxy.Protocol, ep proxy.Endpoint) {
	in.Hosts[p] = ep.Host
	in.Ports[p] = ""
	if ep.Port != 0 {
		in.Ports[p] = strconv.Itoa(ep.Port)
	}
}

func endpointText(in commands.ProfileInput, p proxy.Protocol) string {
	host, port := in.Hosts[p], in.Ports[p]
	if port == "" {
		return host
	}
	return net.JoinHostPort(host, port)
}

func runProfileForm(in *commands.ProfileInput) error {
	if in.Mode == "" || in.Mode == string(proxy.ModeNone) {
		in.Mode = string(proxy.ModeManual)
	}

	endpoints := map[proxy.Protocol]*string{}
	var endpointFields []huh.Field
	for _, p := range proxy.Protocols {
		text := endpointText(*in, p)
		endpoints[p] = &text
		endpointFields = append(endpointFields, huh.NewInput().
			Title(fmt.Sprintf("%s proxy (host:port)", p)).
			Value(endpoints[p]).
			Validate(func(s string) error {
				_, err := commands.ParseEndpoint(s)
				return err
			}))
	}
	manualFields := append(endpointFields,
		huh.NewInput().
			Title("Ignored hosts").
			Placeholder("localhost, 127.0.0.0/8, ::1").
			Value(&in.Ignored),
		huh.NewConfirm().
			Title("Use HTTP authentication?").
			Value(&in.UseAuth),
		huh.NewInput().
			Title("HTTP user").
			Value(&in.AuthUser),
		huh.NewInput().
			Title("HTTP password").
			EchoMode(huh.EchoModePassword).
			Value(&in.AuthPass),
	)

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Profile name").
				Value(&in.Name).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("a name is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Mode").
				Options(
					huh.NewOption("Manual", string(proxy.ModeManual)),
					huh.NewOption("Automatic (PAC URL)", string(proxy.ModeAuto)),
				).
				Value(&in.Mode),
		),
		huh.NewGroup(manualFields...).
			WithHideFunc(func() bool { return in.Mode != string(proxy.ModeManual) }),
		huh.NewGroup(
			huh.NewInput().
				Title("Auto-configuration URL").
				Placeholder("http://wpad/wpad.dat").
				Value(&in.ConfigURL),
		).WithHideFunc(func() bool { return in.Mode != string(proxy.ModeAuto) }),
	).Run()
	if err != nil {
		return err
	}

	for _, p := range proxy.Protocols {
		ep, err := commands.ParseEndpoint(*endpoints[p])
		if err != nil {
			return fmt.Errorf("%s proxy: %w", p, err)
		}
		setEndpointText(in, p, ep)
	}
	return nil
}

var saveCurrentMode string

var profileSaveCurrentCmd = &cobra.Command{
	Use:   "save-current <name>",
	Short: "Store the current system proxy settings as a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession()
		if err != nil {
			return err
		}
		defer sess.Close()

		var mode proxy.Mode
		if saveCurrentMode != "" {
			if mode, err = proxy.ParseMode(saveCurrentMode); err != nil {
				return err
			}
		}
		p, err := sess.Engine.SaveCurrent(args[0], mode)
		if err != nil {
			return err
		}
		fmt.Printf("Saved profile %q: %s\n", p.Name, commands.ProfileSummary(p))
		return nil
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete [name...]",
	Short: "Delete profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession()
		if err != nil {
			return err
		}
		defer sess.Close()

		names := args
		if len(names) == 0 {
			var options []huh.Option[string]
			for _, p := range sess.Profiles.List() {
				options = append(options, huh.NewOption(p.Name, p.Name))
			}
			if len(options) == 0 {
				fmt.Println("No profiles configured.")
				return nil
			}
			err := huh.NewForm(
				huh.NewGroup(
					huh.NewMultiSelect[string]().
						Title("Profiles to delete").
						Options(options...).
						Value(&names),
				),
			).Run()
			if err != nil {
				return err
			}
		}

		for _, name := range names {
			removed, err := sess.Profiles.Delete(name)
			if err != nil {
				return err
			}
			if removed {
				fmt.Printf("Deleted profile %q\n", name)
			} else {
				fmt.Printf("No profile named %q\n", name)
			}
		}
		return nil
	},
}

var profileMoveCmd = &cobra.Command{
	Use:       "move <name> up|down",
	Short:     "Move a profile one place up or down in the menu",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"up", "down"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var direction int
		switch args[1] {
		case "up":
			direction = -1
		case "down":
			direction = 1
		default:
			return fmt.Errorf("direction must be up or down, got %q", args[1])
		}

		sess, err := openSession()
		if err != nil {
			return err
		}
		defer sess.Close()

		moved, err := sess.Profiles.Move(args[0], direction)
		if err != nil {
			return err
		}
		if !moved {
			if _, ok := sess.Profiles.Get(args[0]); !ok {
				return profileNotFound(sess, args[0])
			}
			fmt.Printf("Profile %q is already at the %s.\n", args[0], map[int]string{-1: "top", 1: "bottom"}[direction])
			return nil
		}
		fmt.Printf("Moved profile %q %s.\n", args[0], args[1])
		return nil
	},
}

var profileApplyCmd = &cobra.Command{
	Use:   "apply [name]",
	Short: "Apply a profile to the system proxy settings",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession()
		if err != nil {
			return err
		}
		defer sess.Close()

		var name string
		if len(args) == 1 {
			name = args[0]
		} else {
			var options []huh.Option[string]
			for _, p := range sess.Profiles.List() {
				options = append(options, huh.NewOption(p.Name, p.Name))
			}
			if len(options) == 0 {
				fmt.Println("No profiles configured.")
				return nil
			}
			err := huh.NewForm(
				huh.NewGroup(
					huh.NewSelect[string]().
						Title("Profile to apply").
						Options(options...).
						Value(&name),
				),
			).Run()
			if err != nil {
				return err
			}
		}

		if _, ok := sess.Profiles.Get(name); !ok {
			return profileNotFound(sess, name)
		}
		if err := sess.Engine.ApplyProfile(name); err != nil {
			return err
		}
		fmt.Println(commands.StatusLabel(sess.Engine.CurrentInfo(true)))
		return nil
	},
}

func profileNotFound(sess *commands.Session, name string) error {
	var names []string
	for _, p := range sess.Profiles.List() {
		names = append(names, p.Name)
	}
	if len(names) == 0 {
		return fmt.Errorf("profile %q not found (no profiles configured)", name)
	}
	return fmt.Errorf("profile %q not found (available: %s)", name, strings.Join(names, ", "))
}

func init() {
	flags := profileAddCmd.Flags()
	flags.StringVar(&addMode, "mode", "", "profile mode: manual or auto (skips the form)")
	for _, p := range proxy.Protocols {
		addEndpoint[p] = flags.String(string(p), "", fmt.Sprintf("%s proxy as host[:port]", p))
	}
	flags.StringVar(&addIgnored, "ignored", "", "comma-separated hosts that bypass the proxy")
	flags.BoolVar(&addUseAuth, "use-auth", false, "use HTTP proxy authentication")
	flags.StringVar(&addAuthUser, "auth-user", "", "HTTP proxy user")
	flags.StringVar(&addAuthPass, "auth-password", "", "HTTP proxy password")
	flags.StringVar(&addURL, "url", "", "auto-configuration (PAC) URL")

	profileSaveCurrentCmd.Flags().StringVar(&saveCurrentMode, "mode", "", "mode to read: manual or auto (default: current mode)")

	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileAddCmd)
	profileCmd.AddCommand(profileSaveCurrentCmd)
	profileCmd.AddCommand(profileDeleteCmd)
	profileCmd.AddCommand(profileMoveCmd)
	profileCmd.AddCommand(profileApplyCmd)
}
