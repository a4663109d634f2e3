package command

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/giberode/gib/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Compare this build with the published app version",
	RunE:  func(cmd *cobra.Command, args []string) error { return Run(checkVersion) },
}

func checkVersion(checker *version.Checker) error {
	status, err := checker.Check(context.TODO())
	if err != nil {
		return err
	}
	return render(status, []string{"CURRENT", "LATEST", "UPDATE REQUIRED", "STORE"}, func() [][]string {
		return [][]string{{status.Current, orEmpty(status.Latest), boolText(status.UpdateRequired), orEmpty(status.StoreURL)}}
	})
}

func boolText(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
