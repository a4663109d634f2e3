package members

import (
	"context"
	"slices"
	"strings"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/hashicorp/golang-lru/simplelru"
	"go.uber.org/zap"
	"golang.org/x/text/cases"

	errs "github.com/giberode/gib/errors"
	"github.com/giberode/gib/remote"
	"github.com/giberode/gib/session"
)

// Members with a profile score above the threshold may browse the directories
const EligibilityThreshold = 70

const (
	AllBloodGroups = "All"
	AllSpecialists = "All"

	indexSize = 2048
)

var ErrUnknownMember = errs.WithMessage(errs.BadRequest, "Select a member from the list")

var BloodGroups = []string{AllBloodGroups, "A+", "A-", "B+", "B-", "O+", "O-", "AB+", "AB-"}

type Backend interface {
	AllUsers(ctx context.Context) ([]remote.Member, error)
	SearchUsers(ctx context.Context) ([]remote.Member, error)
	Doctors(ctx context.Context) ([]remote.Doctor, error)
	UserScore(ctx context.Context, phone string) (*remote.Score, error)
}

type Eligibility struct {
	Score    int  `json:"score" yaml:"score"`
	Eligible bool `json:"eligible" yaml:"eligible"`
}

type Service struct {
	backend  Backend
	sessions *session.Manager
	logger   *zap.SugaredLogger

	mu    sync.Mutex
	index *simplelru.LRU
}

func NewService(backend Backend, sessions *session.Manager, logger *zap.SugaredLogger) (*Service, error) {
	index, err := simplelru.NewLRU(indexSize, nil)
	if err != nil {
		return nil, err
	}
	return &Service{
		backend:  backend,
		sessions: sessions,
		logger:   logger,
		index:    index,
	}, nil
}

// Directory returns every member sorted by name
func (s *Service) Directory(ctx context.Context) ([]remote.Member, error) {
	users, err := s.backend.AllUsers(ctx)
	if err != nil {
		s.logger.Errorw("unable to fetch the member directory", "error", err)
		return nil, err
	}
	s.remember(users)
	return sortByName(users), nil
}

// Recipients returns the members a thanks note can be addressed to
func (s *Service) Recipients(ctx context.Context) ([]remote.Member, error) {
	users, err := s.backend.SearchUsers(ctx)
	if err != nil {
		s.logger.Errorw("unable to fetch thanks note recipients", "error", err)
		return nil, err
	}
	s.remember(users)
	return sortByName(users), nil
}

// Lookup returns a member seen in a previous directory or recipients fetch
func (s *Service) Lookup(phone string) (remote.Member, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.index.Get(phone)
	if !ok {
		return remote.Member{}, false
	}
	return value.(remote.Member), true
}

// Resolve returns the member with phone. The recipients list is fetched when the
// index has not seen the phone yet.
func (s *Service) Resolve(ctx context.Context, phone string) (remote.Member, error) {
	if member, ok := s.Lookup(phone); ok {
		return member, nil
	}
	if _, err := s.Recipients(ctx); err != nil {
		return remote.Member{}, err
	}
	if member, ok := s.Lookup(phone); ok {
		return member, nil
	}
	return remote.Member{}, ErrUnknownMember
}

// Score returns the profile completion of the logged in member. A missing score is 0.
func (s *Service) Score(ctx context.Context) (int, error) {
	phone, err := s.sessions.Phone(ctx)
	if err != nil {
		return 0, err
	}
	if phone == "" {
		return 0, session.ErrNoSession
	}

	score, err := s.backend.UserScore(ctx, phone)
	if err != nil {
		s.logger.Errorw("unable to fetch the profile score", "phone", phone, "error", err)
		return 0, err
	}
	if score.Percentage == nil {
		return 0, nil
	}
	return int(score.Percentage.Float64()), nil
}

func (s *Service) Eligibility(ctx context.Context) (Eligibility, error) {
	score, err := s.Score(ctx)
	if err != nil {
		return Eligibility{}, err
	}
	return Eligibility{Score: score, Eligible: score > EligibilityThreshold}, nil
}

// Doctors returns the doctors wing sorted by name
func (s *Service) Doctors(ctx context.Context) ([]remote.Doctor, error) {
	doctors, err := s.backend.Doctors(ctx)
	if err != nil {
		s.logger.Errorw("unable to fetch doctors", "error", err)
		return nil, err
	}

	sorted := slices.Clone(doctors)
	fold := cases.Fold()
	slices.SortStableFunc(sorted, func(a, b remote.Doctor) int {
		return strings.Compare(fold.String(a.Name), fold.String(b.Name))
	})
	return sorted, nil
}

func (s *Service) remember(users []remote.Member) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range users {
		if phone := u.Phone.String(); phone != "" {
			s.index.Add(phone, u)
		}
	}
}

// Search keeps the members whose name, phone, business or address contain query
func Search(users []remote.Member, query string) []remote.Member {
	query = strings.TrimSpace(query)
	if query == "" {
		return users
	}

	fold := cases.Fold()
	needle := fold.String(query)
	result := make([]remote.Member, 0, len(users))
	for _, u := range users {
		for _, field := range []string{u.Name, u.Phone.String(), u.BusinessName, u.BusinessNature, u.CompanyAddress} {
			if strings.Contains(fold.String(field), needle) {
				result = append(result, u)
				break
			}
		}
	}
	return result
}

func FilterBloodGroup(users []remote.Member, group string) []remote.Member {
	if group == "" || group == AllBloodGroups {
		return users
	}
	result := make([]remote.Member, 0, len(users))
	for _, u := range users {
		if strings.EqualFold(strings.TrimSpace(u.BloodGroup), group) {
			result = append(result, u)
		}
	}
	return result
}

// Specialists returns the distinct specialities of doctors, sorted
func Specialists(doctors []remote.Doctor) []string {
	set := mapset.NewThreadUnsafeSet[string]()
	for _, d := range doctors {
		if specialist := strings.TrimSpace(d.Specialist); specialist != "" {
			set.Add(specialist)
		}
	}
	specialists := set.ToSlice()
	slices.Sort(specialists)
	return specialists
}

func FilterSpecialist(doctors []remote.Doctor, specialist string) []remote.Doctor {
	if specialist == "" || specialist == AllSpecialists {
		return doctors
	}
	result := make([]remote.Doctor, 0, len(doctors))
	for _, d := range doctors {
		if strings.TrimSpace(d.Specialist) == specialist {
			result = append(result, d)
		}
	}
	return result
}

// SearchDoctors keeps the doctors whose name, phone or hospital contain query
func SearchDoctors(doctors []remote.Doctor, query string) []remote.Doctor {
	query = strings.TrimSpace(query)
	if query == "" {
		return doctors
	}

	fold := cases.Fold()
	needle := fold.String(query)
	result := make([]remote.Doctor, 0, len(doctors))
	for _, d := range doctors {
		for _, field := range []string{d.Name, d.Phone.String(), d.HospitalName, d.Specialist} {
			if strings.Contains(fold.String(field), needle) {
				result = append(result, d)
				break
			}
		}
	}
	return result
}

func sortByName(users []remote.Member) []remote.Member {
	sorted := slices.Clone(users)
	fold := cases.Fold()
	slices.SortStableFunc(sorted, func(a, b remote.Member) int {
		return strings.Compare(fold.String(a.Name), fold.String(b.Name))
	})
	return sorted
}
