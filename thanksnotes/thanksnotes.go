package thanksnotes

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	errs "github.com/giberode/gib/errors"
	"github.com/giberode/gib/remote"
	"github.com/giberode/gib/session"
)

const (
	Given = "Given"
	Taken = "Taken"

	FilterAll   = "All"
	FilterGiven = Given
	FilterTaken = Taken

	notificationTitle = "🔔 Thanknsnote Alert"
)

var (
	ErrPhoneNotFound     = errs.WithMessage(errs.Authentication, "Phone number not found")
	ErrNoData            = errs.WithMessage(errs.Parse, "No data found")
	ErrMissingFields     = errs.WithMessage(errs.BadRequest, "Please fill in all fields")
	ErrInvalidAmount     = errs.WithMessage(errs.BadRequest, "Enter a valid amount")
	ErrInvalidDirection  = errs.WithMessage(errs.BadRequest, "Choose Given or Taken")
	ErrSelfNote          = errs.WithMessage(errs.BadRequest, "You cannot send a thanks note to yourself")
	ErrInvalidFilter     = errs.WithMessage(errs.BadRequest, "Filter must be All, Given or Taken")
	ErrMissingIdentifier = errs.WithMessage(errs.BadRequest, "Thanks note id is required")
)

type Backend interface {
	ThanksTotals(ctx context.Context, phone string) (*remote.Totals, error)
	ThanksCalculation(ctx context.Context, phone string) (*remote.Calculation, error)
	BusinessTotal(ctx context.Context) (*remote.BusinessTotal, error)
	ThanksHistory(ctx context.Context, phone string) ([]remote.HistoryItem, error)
	UpdateThanksNote(ctx context.Context, id string, amount float64, teamName string) (*remote.StatusResponse, error)
	DeleteThanksNote(ctx context.Context, id string) (*remote.StatusResponse, error)
	SubmitThanksNote(ctx context.Context, note remote.ThanksNote) (*remote.StatusResponse, error)
	NotifyMember(ctx context.Context, phone, title, message string) error
}

// Recipients resolves the member a note is addressed to
type Recipients interface {
	Resolve(ctx context.Context, phone string) (remote.Member, error)
}

type Totals struct {
	Given float64 `json:"given" yaml:"given"`
	Taken float64 `json:"taken" yaml:"taken"`
}

// Submission is a thanks note entered by the logged in member
type Submission struct {
	ToPhone    string
	Amount     float64
	Direction  string
	Attachment *remote.File
}

type Service struct {
	backend    Backend
	recipients Recipients
	sessions   *session.Manager
	logger     *zap.SugaredLogger
}

func NewService(backend Backend, recipients Recipients, sessions *session.Manager, logger *zap.SugaredLogger) *Service {
	return &Service{
		backend:    backend,
		recipients: recipients,
		sessions:   sessions,
		logger:     logger,
	}
}

// Totals returns the amounts the member gave and took
func (s *Service) Totals(ctx context.Context) (Totals, error) {
	phone, err := s.sessions.Phone(ctx)
	if err != nil || phone == "" {
		return Totals{}, ErrPhoneNotFound
	}

	res, err := s.backend.ThanksTotals(ctx, phone)
	if err != nil {
		s.logger.Errorw("unable to fetch thanks note totals", "phone", phone, "error", err)
		return Totals{}, errs.WithMessage(errs.Kind(err), "Failed to fetch data")
	}
	if res.Status != "success" {
		return Totals{}, ErrNoData
	}
	return Totals{Given: res.TotalGiven.Float64(), Taken: res.TotalTaken.Float64()}, nil
}

// Calculation returns the totals computed by the older aggregate endpoint
func (s *Service) Calculation(ctx context.Context) (Totals, error) {
	phone, err := s.phone(ctx)
	if err != nil {
		return Totals{}, err
	}
	res, err := s.backend.ThanksCalculation(ctx, phone)
	if err != nil {
		s.logger.Errorw("unable to fetch the thanks note calculation", "phone", phone, "error", err)
		return Totals{}, err
	}
	return Totals{Given: res.TotalGiven.Float64(), Taken: res.TotalTaken.Float64()}, nil
}

// BusinessTotal returns the amount of business recorded across all members
func (s *Service) BusinessTotal(ctx context.Context) (float64, error) {
	res, err := s.backend.BusinessTotal(ctx)
	if err != nil {
		s.logger.Errorw("unable to fetch the business total", "error", err)
		return 0, err
	}
	return res.TotalBusinessAmount.Float64(), nil
}

// Submit records a thanks note and notifies the recipient. The notification is
// best effort and its failure does not fail the submission.
func (s *Service) Submit(ctx context.Context, submission Submission) (string, error) {
	current, err := s.sessions.Current(ctx)
	if err != nil {
		return "", ErrPhoneNotFound
	}

	toPhone := strings.TrimSpace(submission.ToPhone)
	switch {
	case toPhone == "":
		return "", ErrMissingFields
	case submission.Amount <= 0:
		return "", ErrInvalidAmount
	case submission.Direction != Given && submission.Direction != Taken:
		return "", ErrInvalidDirection
	case toPhone == current.Phone:
		return "", ErrSelfNote
	}

	recipient, err := s.recipients.Resolve(ctx, toPhone)
	if err != nil {
		s.logger.Warnw("unable to resolve thanks note recipient", "to", toPhone, "error", err)
		return "", err
	}

	res, err := s.backend.SubmitThanksNote(ctx, remote.ThanksNote{
		FromPhone:  current.Phone,
		ToPhone:    toPhone,
		Amount:     submission.Amount,
		Direction:  submission.Direction,
		Attachment: submission.Attachment,
	})
	if err != nil {
		s.logger.Errorw("unable to submit thanks note", "from", current.Phone, "to", toPhone, "recipient", recipient.Name, "error", err)
		return "", errs.WithMessage(errs.Kind(err), "Could not submit.")
	}
	if !res.OK() {
		return "", errs.WithMessage(errs.BadRequest, res.Message)
	}

	body := fmt.Sprintf("👤 From: %s\n %s ₹%s | 📌 Check it out...", current.Name, submission.Direction, formatAmount(submission.Amount))
	if err := s.backend.NotifyMember(ctx, toPhone, notificationTitle, body); err != nil {
		s.logger.Warnw("auto notification failed", "phone", toPhone, "error", err)
	}

	return orDefault(res.Message, "Thanks note submitted to "+recipient.Name), nil
}

// History returns the notes of the member matching filter
func (s *Service) History(ctx context.Context, filter string) ([]remote.HistoryItem, error) {
	if filter == "" {
		filter = FilterAll
	}
	if filter != FilterAll && filter != FilterGiven && filter != FilterTaken {
		return nil, ErrInvalidFilter
	}

	phone, err := s.phone(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.backend.ThanksHistory(ctx, phone)
	if err != nil {
		s.logger.Errorw("unable to fetch thanks note history", "phone", phone, "error", err)
		return nil, err
	}
	return Filter(items, filter), nil
}

// Filter keeps the items of the given direction. All keeps everything.
func Filter(items []remote.HistoryItem, filter string) []remote.HistoryItem {
	if filter == "" || filter == FilterAll {
		return items
	}
	result := make([]remote.HistoryItem, 0, len(items))
	for _, item := range items {
		if strings.EqualFold(item.Type, filter) {
			result = append(result, item)
		}
	}
	return result
}

func (s *Service) Edit(ctx context.Context, id string, amount float64, teamName string) error {
	if id == "" {
		return ErrMissingIdentifier
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}

	res, err := s.backend.UpdateThanksNote(ctx, id, amount, teamName)
	if err != nil {
		return err
	}
	if !res.OK() {
		return errs.WithMessage(errs.BadRequest, orDefault(res.Message, "Update failed"))
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingIdentifier
	}

	res, err := s.backend.DeleteThanksNote(ctx, id)
	if err != nil {
		return err
	}
	if !res.OK() {
		return errs.WithMessage(errs.BadRequest, orDefault(res.Message, "Delete failed"))
	}
	return nil
}

func (s *Service) phone(ctx context.Context) (string, error) {
	phone, err := s.sessions.Phone(ctx)
	if err != nil {
		return "", err
	}
	if phone == "" {
		return "", ErrPhoneNotFound
	}
	return phone, nil
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
