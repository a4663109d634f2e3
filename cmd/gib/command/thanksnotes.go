package command

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/giberode/gib/remote"
	"github.com/giberode/gib/thanksnotes"
)

var thanksHistoryParams = struct {
	Filter string
	Export string
}{}

var thanksSubmitParams = struct {
	To         string
	Amount     float64
	Direction  string
	Attachment string
}{}

type thanksSummary struct {
	Given    float64 `json:"given" yaml:"given"`
	Taken    float64 `json:"taken" yaml:"taken"`
	Business float64 `json:"business" yaml:"business"`
}

var thanksCmd = &cobra.Command{
	Use:   "thanks",
	Short: "Thanks notes",
	Long:  "The thanks command records and lists the referral business exchanged between members",
}

var thanksTotalsCmd = &cobra.Command{
	Use:   "totals",
	Short: "Show the given and taken totals of the logged in member",
	RunE:  func(cmd *cobra.Command, args []string) error { return Run(showThanksTotals) },
}

func showThanksTotals(service *thanksnotes.Service) error {
	ctx := context.TODO()
	totals, err := service.Totals(ctx)
	if err != nil {
		return err
	}
	business, err := service.BusinessTotal(ctx)
	if err != nil {
		return err
	}

	value := thanksSummary{Given: totals.Given, Taken: totals.Taken, Business: business}
	return render(value, []string{"GIVEN", "TAKEN", "NETWORK BUSINESS"}, func() [][]string {
		return [][]string{{amount(totals.Given), amount(totals.Taken), amount(business)}}
	})
}

var thanksCalculationCmd = &cobra.Command{
	Use:   "calculation",
	Short: "Show the totals computed by the older aggregate endpoint",
	RunE:  func(cmd *cobra.Command, args []string) error { return Run(showThanksCalculation) },
}

func showThanksCalculation(service *thanksnotes.Service) error {
	totals, err := service.Calculation(context.TODO())
	if err != nil {
		return err
	}
	return render(totals, []string{"GIVEN", "TAKEN"}, func() [][]string {
		return [][]string{{amount(totals.Given), amount(totals.Taken)}}
	})
}

var thanksHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List the thanks notes of the logged in member",
	RunE:  func(cmd *cobra.Command, args []string) error { return Run(listThanksHistory) },
}

func listThanksHistory(service *thanksnotes.Service) error {
	items, err := service.History(context.TODO(), thanksHistoryParams.Filter)
	if err != nil {
		return err
	}

	if thanksHistoryParams.Export != "" {
		report, err := thanksnotes.NewReport(items).Generate()
		if err != nil {
			return err
		}
		if err := report.Save(thanksHistoryParams.Export); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Exported %v notes to %s\n", len(items), thanksHistoryParams.Export)
	}

	return render(items, []string{"ID", "DATE", "TYPE", "NAME", "BUSINESS", "AMOUNT"}, func() [][]string {
		rows := make([][]string, 0, len(items))
		for _, item := range items {
			rows = append(rows, []string{
				item.ID.String(),
				item.CreatedAt,
				item.Type,
				item.Name,
				orEmpty(item.BusinessName),
				amount(item.BusinessAmount.Float64()),
			})
		}
		return rows
	})
}

var thanksSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Record a thanks note for another member",
	RunE:  func(cmd *cobra.Command, args []string) error { return Run(submitThanksNote) },
}

func submitThanksNote(service *thanksnotes.Service) error {
	submission := thanksnotes.Submission{
		ToPhone:   thanksSubmitParams.To,
		Amount:    thanksSubmitParams.Amount,
		Direction: thanksSubmitParams.Direction,
	}
	if thanksSubmitParams.Attachment != "" {
		attachment, err := readFile(thanksSubmitParams.Attachment)
		if err != nil {
			return err
		}
		submission.Attachment = attachment
	}

	message, err := service.Submit(context.TODO(), submission)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, message)
	return nil
}

var thanksEditParams = struct {
	Amount   float64
	TeamName string
}{}

var thanksEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Args:  cobra.ExactArgs(1),
	Short: "Change the amount of a thanks note",
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		return Run(func(service *thanksnotes.Service) error {
			return service.Edit(context.TODO(), id, thanksEditParams.Amount, thanksEditParams.TeamName)
		})
	},
}

var thanksDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Args:  cobra.ExactArgs(1),
	Short: "Delete a thanks note",
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		return Run(func(service *thanksnotes.Service) error {
			return service.Delete(context.TODO(), id)
		})
	},
}

func readFile(path string) (*remote.File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &remote.File{
		Name:        filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Content:     content,
	}, nil
}

func amount(value float64) string {
	return "₹" + strconv.FormatFloat(value, 'f', -1, 64)
}

func init() {
	thanksHistoryCmd.Flags().StringVar(&thanksHistoryParams.Filter, "filter", thanksnotes.FilterAll, "All, Given or Taken")
	thanksHistoryCmd.Flags().StringVar(&thanksHistoryParams.Export, "export", "", "Also write the notes to this xlsx file")

	thanksSubmitCmd.Flags().StringVar(&thanksSubmitParams.To, "to", "", "Phone of the other member")
	thanksSubmitCmd.Flags().Float64Var(&thanksSubmitParams.Amount, "amount", 0, "Business amount")
	thanksSubmitCmd.Flags().StringVar(&thanksSubmitParams.Direction, "direction", thanksnotes.Given, "Given or Taken")
	thanksSubmitCmd.Flags().StringVar(&thanksSubmitParams.Attachment, "attachment", "", "File attached to the note")
	_ = thanksSubmitCmd.MarkFlagRequired("to")
	_ = thanksSubmitCmd.MarkFlagRequired("amount")

	thanksEditCmd.Flags().Float64Var(&thanksEditParams.Amount, "amount", 0, "New business amount")
	thanksEditCmd.Flags().StringVar(&thanksEditParams.TeamName, "team", "", "Team name")
	_ = thanksEditCmd.MarkFlagRequired("amount")

	thanksCmd.AddCommand(thanksTotalsCmd)
	thanksCmd.AddCommand(thanksCalculationCmd)
	thanksCmd.AddCommand(thanksHistoryCmd)
	thanksCmd.AddCommand(thanksSubmitCmd)
	thanksCmd.AddCommand(thanksEditCmd)
	thanksCmd.AddCommand(thanksDeleteCmd)
	rootCmd.AddCommand(thanksCmd)
}
