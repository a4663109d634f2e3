package command

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/giberode/gib/auth"
	"github.com/giberode/gib/roles"
	"github.com/giberode/gib/session"
)

var loginParams = struct {
	Code string
}{}

var loginCmd = &cobra.Command{
	Use:   "login <phone>",
	Args:  cobra.ExactArgs(1),
	Short: "Log in with a one time password",
	Long:  "The login command sends an OTP to the phone and creates the local session once the code is confirmed",
	RunE: func(cmd *cobra.Command, args []string) error {
		phone := args[0]
		return Run(func(login *auth.Login) error {
			return runLogin(login, phone)
		})
	},
}

func runLogin(login *auth.Login, phone string) error {
	ctx := context.TODO()
	if err := login.SendCode(ctx, phone); err != nil {
		return err
	}

	code := loginParams.Code
	if code == "" {
		fmt.Fprint(os.Stderr, "Enter OTP: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return err
		}
		code = strings.TrimSpace(line)
	}

	s, err := login.Confirm(ctx, code)
	if err != nil {
		return err
	}
	return renderSession(s)
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out of the local session",
	RunE:  func(cmd *cobra.Command, args []string) error { return Run(logout) },
}

func logout(l *auth.Logout) error {
	return l.Run(context.TODO())
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Show the local session",
	RunE:  func(cmd *cobra.Command, args []string) error { return Run(showSession) },
}

func showSession(sessions *session.Manager) error {
	s, err := sessions.Current(context.TODO())
	if err != nil {
		return err
	}
	return renderSession(s)
}

func renderSession(s session.Session) error {
	return render(s, []string{"PHONE", "NAME", "ROLE", "TABS"}, func() [][]string {
		tabs := "(none)"
		if role, err := roles.Parse(s.Role); err == nil {
			labels := make([]string, 0)
			for _, tab := range role.Tabs() {
				labels = append(labels, tab.Label)
			}
			tabs = strings.Join(labels, ", ")
		}
		return [][]string{{s.Phone, s.Name, s.Role, tabs}}
	})
}

var clearDeviceCmd = &cobra.Command{
	Use:   "clear-device <phone>",
	Args:  cobra.ExactArgs(1),
	Short: "Release the device binding of a phone",
	RunE: func(cmd *cobra.Command, args []string) error {
		phone := args[0]
		return Run(func(login *auth.Login) error {
			if err := login.ClearDevice(context.TODO(), phone); err != nil {
				return err
			}
			fmt.Fprintln(stdout, "Device cleared")
			return nil
		})
	},
}

var registerParams = struct {
	Name  string
	Email string
}{}

var registerCmd = &cobra.Command{
	Use:   "register <phone>",
	Args:  cobra.ExactArgs(1),
	Short: "Request a non-executive membership",
	RunE: func(cmd *cobra.Command, args []string) error {
		phone := args[0]
		return Run(func(login *auth.Login) error {
			message, err := login.Register(context.TODO(), registerParams.Name, phone, registerParams.Email)
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, message)
			return nil
		})
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginParams.Code, "code", "", "OTP to confirm without prompting")
	registerCmd.Flags().StringVar(&registerParams.Name, "name", "", "Full name")
	registerCmd.Flags().StringVar(&registerParams.Email, "email", "", "Email address")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(clearDeviceCmd)
	rootCmd.AddCommand(registerCmd)
}
