package remote

import (
	"context"
	"net/url"
)

type Meeting struct {
	MeetingCode string `json:"meeting_code"`
	MeetingType string `json:"meeting_type"`
	MeetingDate string `json:"meeting_date"`
	Title       string `json:"title"`
}

type AttendanceReport struct {
	AttendanceStatus  string    `json:"attendance_status"`
	RequiredMeetings  Number    `json:"required_meetings"`
	AttendedCount     Number    `json:"attended_count"`
	OtherMeetTotal    Number    `json:"other_meet_total"`
	OtherMeetAttended Number    `json:"other_meet_attended"`
	AttendedMeetings  []Meeting `json:"attended_meetings"`
}

// AttendanceEntry is the form the meeting check-in endpoint expects
type AttendanceEntry struct {
	MeetingCode  string
	Name         string
	Phone        string
	ProfileImage string
	// CurrentDate is formatted YYYY-MM-DD
	CurrentDate string
}

// InsertAttendance posts a check-in and returns the raw response text. The request
// is aborted once the attendance timeout elapses.
func (c *Client) InsertAttendance(ctx context.Context, entry AttendanceEntry) (string, error) {
	if c.attendanceTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.attendanceTimeout)
		defer cancel()
	}

	body, err := c.postMultipart(ctx, "Insert_atten.php", []formField{
		{"meeting_code", entry.MeetingCode},
		{"name", entry.Name},
		{"phone", entry.Phone},
		{"profile_image", entry.ProfileImage},
		{"current_date", entry.CurrentDate},
	}, nil)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) AttendanceReport(ctx context.Context, phone string) (*AttendanceReport, error) {
	body, err := c.get(ctx, "attendance_report.php", url.Values{"phone": {phone}})
	if err != nil {
		return nil, err
	}
	return decode[AttendanceReport]("attendance_report.php", body, attendanceReportSchema)
}
