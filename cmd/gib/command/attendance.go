package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/giberode/gib/attendance"
)

var attendanceCmd = &cobra.Command{
	Use:   "attendance",
	Short: "Meeting attendance",
}

var attendanceMarkCmd = &cobra.Command{
	Use:   "mark <code or qr payload>",
	Args:  cobra.ExactArgs(1),
	Short: "Mark attendance with a meeting code or the content of a meeting QR code",
	RunE: func(cmd *cobra.Command, args []string) error {
		input := args[0]
		return Run(func(service *attendance.Service) error {
			return markAttendance(service, input)
		})
	},
}

func markAttendance(service *attendance.Service, input string) error {
	var result attendance.Result
	var err error
	if strings.Contains(input, "code=") {
		result, err = service.Scan(context.TODO(), input)
	} else {
		result, err = service.Enter(context.TODO(), input)
	}
	if err != nil {
		return err
	}
	return render(result, []string{"OUTCOME", "MESSAGE"}, func() [][]string {
		return [][]string{{string(result.Outcome), result.Message}}
	})
}

var attendanceReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the attendance report of the logged in member",
	RunE:  func(cmd *cobra.Command, args []string) error { return Run(showAttendanceReport) },
}

func showAttendanceReport(service *attendance.Service) error {
	report, err := service.Report(context.TODO())
	if err != nil {
		return err
	}
	return render(report, []string{"DATE", "CODE", "TYPE", "TITLE"}, func() [][]string {
		rows := [][]string{{
			"status: " + orEmpty(report.AttendanceStatus),
			fmt.Sprintf("attended: %v/%v", report.AttendedCount, report.RequiredMeetings),
			fmt.Sprintf("KG meets: %v", len(attendance.KGMeetings(report.AttendedMeetings))),
			"",
		}}
		for _, m := range report.AttendedMeetings {
			rows = append(rows, []string{m.MeetingDate, m.MeetingCode, m.MeetingType, orEmpty(m.Title)})
		}
		return rows
	})
}

func init() {
	attendanceCmd.AddCommand(attendanceMarkCmd)
	attendanceCmd.AddCommand(attendanceReportCmd)
	rootCmd.AddCommand(attendanceCmd)
}
