package command

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/giberode/gib/poll"
	"github.com/giberode/gib/screens"
)

var watchParams = struct {
	Count int
}{}

type screenName string

var watchCmd = &cobra.Command{
	Use:   "watch <screen>",
	Short: "Mount one screen and print every refresh of its resources",
	Long:  "The watch command runs the poll resources of a screen until interrupted, e.g. gib watch Home",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(watchScreen, fx.Supply(screenName(args[0])))
	},
}

func watchScreen(name screenName, builder screens.Builder) error {
	screen, err := builder.Build(string(name))
	if err != nil {
		return err
	}

	interrupted, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(interrupted)

	updates := make(chan poll.Snapshot, len(screen.Resources()))
	for _, resource := range screen.Resources() {
		resource.Subscribe(func(snapshot poll.Snapshot) {
			select {
			case updates <- snapshot:
			case <-ctx.Done():
			}
		})
	}

	screen.Start(ctx)
	defer func() {
		cancel()
		screen.Stop()
	}()

	for seen := 0; watchParams.Count <= 0 || seen < watchParams.Count; seen++ {
		select {
		case <-ctx.Done():
			return nil
		case snapshot := <-updates:
			if err := renderSnapshot(snapshot, seen == 0); err != nil {
				return err
			}
		}
	}
	return nil
}

func renderSnapshot(snapshot poll.Snapshot, withHeader bool) error {
	var header []string
	if withHeader {
		header = []string{"RESOURCE", "FETCHES", "UPDATED", "STATUS"}
	}
	return render(snapshot, header, func() [][]string {
		status := "ok"
		if snapshot.Error != "" {
			status = snapshot.Error
		}
		updated := "never"
		if !snapshot.UpdatedAt.IsZero() {
			updated = snapshot.UpdatedAt.Format(time.TimeOnly)
		}
		return [][]string{{snapshot.Name, fmt.Sprint(snapshot.Fetches), updated, status}}
	})
}

func init() {
	watchCmd.Flags().IntVar(&watchParams.Count, "count", 0, "Stop after this many refreshes (0 runs until interrupted)")

	rootCmd.AddCommand(watchCmd)
}
