package command

import (
	"context"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/giberode/gib/blog"
	"github.com/giberode/gib/events"
	"github.com/giberode/gib/remote"
)

var eventsParams = struct {
	Date   string
	Marked bool
}{}

var blogParams = struct {
	Search string
}{}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List upcoming events",
	RunE:  func(cmd *cobra.Command, args []string) error { return Run(listEvents) },
}

func listEvents(service *events.Service) error {
	list, err := service.List(context.TODO())
	if err != nil {
		return err
	}
	if eventsParams.Marked {
		return renderMarked(list)
	}
	if eventsParams.Date != "" {
		day, err := time.Parse(time.DateOnly, eventsParams.Date)
		if err != nil {
			return err
		}
		list = events.OnDate(list, day)
	}
	return renderEvents(list)
}

func renderEvents(list []remote.Event) error {
	return render(list, []string{"DATE", "TITLE", "DESCRIPTION"}, func() [][]string {
		rows := make([][]string, 0, len(list))
		for _, e := range list {
			rows = append(rows, []string{events.Day(e.Date), e.Title, orEmpty(e.Description)})
		}
		return rows
	})
}

// renderMarked prints the calendar days that have events
func renderMarked(list []remote.Event) error {
	days := events.MarkedDates(list).ToSlice()
	slices.Sort(days)

	return render(days, []string{"MARKED"}, func() [][]string {
		rows := make([][]string, 0, len(days))
		for _, d := range days {
			rows = append(rows, []string{d})
		}
		return rows
	})
}

var blogCmd = &cobra.Command{
	Use:   "blog",
	Short: "List blog posts, newest first",
	RunE:  func(cmd *cobra.Command, args []string) error { return Run(listPosts) },
}

func listPosts(service *blog.Service) error {
	posts, err := service.Latest(context.TODO())
	if err != nil {
		return err
	}
	posts = blog.Search(posts, blogParams.Search)

	return render(posts, []string{"CREATED", "CATEGORY", "TITLE"}, func() [][]string {
		rows := make([][]string, 0, len(posts))
		for _, p := range posts {
			rows = append(rows, []string{p.CreatedAt, orEmpty(p.Category), p.Title})
		}
		return rows
	})
}

func init() {
	eventsCmd.Flags().StringVar(&eventsParams.Date, "date", "", "Only list events on this day (YYYY-MM-DD)")
	eventsCmd.Flags().BoolVar(&eventsParams.Marked, "marked", false, "Only print the days that have events")
	blogCmd.Flags().StringVar(&blogParams.Search, "search", "", "Match post titles")

	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(blogCmd)
}
