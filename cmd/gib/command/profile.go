package command

import (
	"bufio"
	"context"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/giberode/gib/profiles"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Profile of the logged in member",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the profile",
	RunE:  func(cmd *cobra.Command, args []string) error { return Run(showProfile) },
}

func showProfile(service *profiles.Service) error {
	profile, err := service.Profile(context.TODO())
	if err != nil {
		return err
	}
	return render(profile, []string{"NAME", "PHONE", "ROLE", "BUSINESS", "TEAM", "IMAGE"}, func() [][]string {
		return [][]string{{
			profile.Name,
			profile.Phone.String(),
			profile.Role,
			orEmpty(profile.BusinessName),
			orEmpty(profile.TeamName),
			profile.ProfileImage,
		}}
	})
}

var profileImageCmd = &cobra.Command{
	Use:   "image <file>",
	Args:  cobra.ExactArgs(1),
	Short: "Upload a new profile image",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		return Run(func(service *profiles.Service) error {
			image, err := readFile(path)
			if err != nil {
				return err
			}
			url, err := service.UploadImage(context.TODO(), *image)
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, url)
			return nil
		})
	},
}

var profilePasswordCmd = &cobra.Command{
	Use:   "password",
	Short: "Change the password",
	RunE:  func(cmd *cobra.Command, args []string) error { return Run(changePassword) },
}

func changePassword(service *profiles.Service) error {
	reader := bufio.NewReader(os.Stdin)
	prompt := func(label string) (string, error) {
		fmt.Fprint(os.Stderr, label)
		line, err := reader.ReadString('\n')
		return strings.TrimSpace(line), err
	}

	password, err := prompt("New password: ")
	if err != nil {
		return err
	}
	confirmation, err := prompt("Confirm password: ")
	if err != nil {
		return err
	}
	if err := service.ChangePassword(context.TODO(), password, confirmation); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "Password updated successfully!")
	return nil
}

var registrationSetParams = struct {
	Values []string
}{}

var profileRegistrationCmd = &cobra.Command{
	Use:   "registration",
	Short: "Show the registration record",
	RunE:  func(cmd *cobra.Command, args []string) error { return Run(showRegistration) },
}

func showRegistration(service *profiles.Service) error {
	registration, err := service.Registration(context.TODO())
	if err != nil {
		return err
	}
	flat, err := registration.Flatten()
	if err != nil {
		return err
	}
	return render(flat, []string{"FIELD", "VALUE"}, func() [][]string {
		keys := slices.Sorted(maps.Keys(flat))
		rows := make([][]string, 0, len(keys))
		for _, key := range keys {
			rows = append(rows, []string{key, fmt.Sprint(flat[key])})
		}
		return rows
	})
}

var profileRegistrationSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update fields of the registration record",
	Long:  "Fields are given as --field key=value using the backend field names, e.g. --field city=Erode",
	RunE:  func(cmd *cobra.Command, args []string) error { return Run(updateRegistration) },
}

func updateRegistration(service *profiles.Service) error {
	ctx := context.TODO()
	registration, err := service.Registration(ctx)
	if err != nil {
		return err
	}

	flat, err := registration.Flatten()
	if err != nil {
		return err
	}
	for _, value := range registrationSetParams.Values {
		key, v, ok := strings.Cut(value, "=")
		if !ok {
			return fmt.Errorf("invalid field %q, expected key=value", value)
		}
		flat[key] = v
	}

	edited, err := profiles.DecodeRegistration(flat)
	if err != nil {
		return err
	}
	if err := service.UpdateRegistration(ctx, edited); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "Profile updated successfully.")
	return nil
}

func init() {
	profileRegistrationSetCmd.Flags().StringArrayVar(&registrationSetParams.Values, "field", nil, "key=value")
	profileRegistrationCmd.AddCommand(profileRegistrationSetCmd)

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileImageCmd)
	profileCmd.AddCommand(profilePasswordCmd)
	profileCmd.AddCommand(profileRegistrationCmd)
	rootCmd.AddCommand(profileCmd)
}
