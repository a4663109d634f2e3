package attendance

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	errs "github.com/giberode/gib/errors"
	"github.com/giberode/gib/remote"
	"github.com/giberode/gib/session"
)

const (
	CodeLength  = 8
	NotEligible = "Not Eligible"
	KGMeet      = "KG-Meet"
)

type Outcome string

const (
	Marked        Outcome = "marked"
	AlreadyMarked Outcome = "already_marked"
	Rejected      Outcome = "rejected"
)

var (
	ErrInvalidCode = errs.WithMessage(errs.BadRequest, "Enter the 8 character meeting code")
	ErrInvalidQR   = errs.WithMessage(errs.BadRequest, "Invalid QR code: meeting code missing.")
	ErrNotEligible = errs.WithMessage(errs.Authentication, "You have reached your meeting limit.")
	ErrTimeout     = errs.WithMessage(errs.Network, "Request timed out. Please try again.")
)

var (
	meetingCodeRegexp = regexp.MustCompile(`code=([a-zA-Z0-9]+)`)
	jsonObjectRegexp  = regexp.MustCompile(`(?s)\{.*\}`)
)

type Backend interface {
	InsertAttendance(ctx context.Context, entry remote.AttendanceEntry) (string, error)
	AttendanceReport(ctx context.Context, phone string) (*remote.AttendanceReport, error)
}

type Result struct {
	Outcome Outcome `json:"outcome" yaml:"outcome"`
	Message string  `json:"message" yaml:"message"`
}

type Service struct {
	backend  Backend
	sessions *session.Manager
	now      func() time.Time
	logger   *zap.SugaredLogger
}

func NewService(backend Backend, sessions *session.Manager, logger *zap.SugaredLogger) *Service {
	return &Service{
		backend:  backend,
		sessions: sessions,
		now:      time.Now,
		logger:   logger,
	}
}

// ExtractMeetingCode returns the code query value of a scanned QR payload
func ExtractMeetingCode(data string) (string, bool) {
	match := meetingCodeRegexp.FindStringSubmatch(data)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// NormalizeCode drops everything but letters and digits and upper cases the rest
func NormalizeCode(input string) string {
	return strings.ToUpper(strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return r
		}
		return -1
	}, input))
}

// Report returns the attendance summary of the logged in member
func (s *Service) Report(ctx context.Context) (*remote.AttendanceReport, error) {
	current, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, err
	}
	report, err := s.backend.AttendanceReport(ctx, current.Phone)
	if err != nil {
		s.logger.Errorw("unable to fetch the attendance report", "phone", current.Phone, "error", err)
		return nil, err
	}
	return report, nil
}

// Scan marks attendance from the payload of a meeting QR code
func (s *Service) Scan(ctx context.Context, data string) (Result, error) {
	code, ok := ExtractMeetingCode(data)
	if !ok {
		return Result{}, ErrInvalidQR
	}
	return s.mark(ctx, code)
}

// Enter marks attendance from a code typed by the member
func (s *Service) Enter(ctx context.Context, input string) (Result, error) {
	code := NormalizeCode(input)
	if len(code) != CodeLength {
		return Result{}, ErrInvalidCode
	}
	return s.mark(ctx, code)
}

func (s *Service) mark(ctx context.Context, code string) (Result, error) {
	current, err := s.sessions.Current(ctx)
	if err != nil {
		return Result{}, err
	}

	report, err := s.backend.AttendanceReport(ctx, current.Phone)
	if err != nil {
		s.logger.Warnw("unable to check attendance eligibility", "phone", current.Phone, "error", err)
	} else if report.AttendanceStatus == NotEligible {
		return Result{}, ErrNotEligible
	}

	text, err := s.backend.InsertAttendance(ctx, remote.AttendanceEntry{
		MeetingCode:  code,
		Name:         current.Name,
		Phone:        current.Phone,
		ProfileImage: current.ProfileImage,
		CurrentDate:  s.now().UTC().Format(time.DateOnly),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Result{}, ErrTimeout
		}
		s.logger.Errorw("unable to mark attendance", "phone", current.Phone, "code", code, "error", err)
		return Result{}, err
	}

	result := Classify(text)
	s.logger.Infow("attendance submitted", "phone", current.Phone, "code", code, "outcome", result.Outcome)
	return result, nil
}

// Classify interprets the check-in response. The endpoint answers with plain text,
// sometimes wrapping a JSON object with a message.
func Classify(text string) Result {
	message := strings.TrimSpace(text)
	if object := jsonObjectRegexp.FindString(text); object != "" {
		body := struct {
			Message string `json:"message"`
		}{}
		if err := json.Unmarshal([]byte(object), &body); err == nil && body.Message != "" {
			message = body.Message
		}
	}

	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "already") || strings.Contains(lower, "exists"):
		return Result{Outcome: AlreadyMarked, Message: "Attendance already marked."}
	case strings.Contains(message, "✅") || strings.Contains(lower, "success"):
		return Result{Outcome: Marked, Message: "Attendance marked successfully!"}
	case message == "":
		return Result{Outcome: Rejected, Message: "Unexpected server response."}
	default:
		return Result{Outcome: Rejected, Message: message}
	}
}

// KGMeetings keeps the meetings of the KG meet type
func KGMeetings(meetings []remote.Meeting) []remote.Meeting {
	result := make([]remote.Meeting, 0, len(meetings))
	for _, m := range meetings {
		if m.MeetingType == KGMeet {
			result = append(result, m)
		}
	}
	return result
}
