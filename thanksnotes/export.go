package thanksnotes

import (
	"github.com/tealeg/xlsx/v3"

	"github.com/giberode/gib/remote"
)

const (
	HistorySheetName = "Thanks Notes"
	SummarySheetName = "Summary"
)

var historyHeader = []string{"Date", "Type", "Name", "Business", "Phone", "Team", "Amount", "Attachment"}

// Report renders thanks note history as a workbook
type Report struct {
	items []remote.HistoryItem
}

func NewReport(items []remote.HistoryItem) Report {
	return Report{items: items}
}

func (r Report) Generate() (*xlsx.File, error) {
	report := xlsx.NewFile()

	components := []func(report *xlsx.File) error{
		r.addHistorySheet,
		r.addSummarySheet,
	}
	for _, fn := range components {
		if err := fn(report); err != nil {
			return nil, err
		}
	}

	return report, nil
}

func (r Report) addHistorySheet(report *xlsx.File) error {
	sh, err := report.AddSheet(HistorySheetName)
	if err != nil {
		return err
	}

	header := sh.AddRow()
	for _, title := range historyHeader {
		header.AddCell().SetValue(title)
	}

	for _, item := range r.items {
		row := sh.AddRow()
		row.AddCell().SetValue(item.CreatedAt)
		row.AddCell().SetValue(item.Type)
		row.AddCell().SetValue(item.Name)
		row.AddCell().SetValue(item.BusinessName)
		row.AddCell().SetValue(item.Phone.String())
		row.AddCell().SetValue(item.TeamName)
		row.AddCell().SetFloat(item.BusinessAmount.Float64())
		row.AddCell().SetValue(item.FilePath)
	}

	return nil
}

func (r Report) addSummarySheet(report *xlsx.File) error {
	sh, err := report.AddSheet(SummarySheetName)
	if err != nil {
		return err
	}

	var given, taken float64
	for _, item := range r.items {
		switch item.Type {
		case Given:
			given += item.BusinessAmount.Float64()
		case Taken:
			taken += item.BusinessAmount.Float64()
		}
	}

	currentRow := sh.AddRow()
	currentRow.AddCell().SetValue("Notes")
	currentRow.AddCell().SetInt(len(r.items))
	currentRow = sh.AddRow()
	currentRow.AddCell().SetValue("Total Given")
	currentRow.AddCell().SetFloat(given)
	currentRow = sh.AddRow()
	currentRow.AddCell().SetValue("Total Taken")
	currentRow.AddCell().SetFloat(taken)

	return nil
}
