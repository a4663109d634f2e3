package screens

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/giberode/gib/attendance"
	"github.com/giberode/gib/blog"
	"github.com/giberode/gib/events"
	"github.com/giberode/gib/members"
	"github.com/giberode/gib/poll"
	"github.com/giberode/gib/profiles"
	"github.com/giberode/gib/remote"
	"github.com/giberode/gib/thanksnotes"
)

// Tab screens
const (
	Home               = "Home"
	About              = "About"
	Settings           = "Settings"
	Notifications      = "Notifications"
	Profile            = "Profile"
	DoctorHome         = "Doctorhome"
	Directory          = "Directory"
	ExecutiveDirectory = "Excecutive_Directory"
	DoctorProfile      = "DoctorProfile"
	NonHome            = "Nonhome"
	MemberDirectory    = "MemberDic"
)

// Refresh intervals. Zero fetches once when the screen is focused.
const (
	ProfileInterval       = 5 * time.Second
	TotalsInterval        = 3 * time.Second
	BusinessTotalInterval = 5 * time.Second
	ScoreInterval         = 300 * time.Second
	BlogInterval          = 12 * time.Second
	EventsInterval        = time.Duration(0)
	DoctorsInterval       = 2 * time.Second
	EligibilityInterval   = 2 * time.Second
	MembersInterval       = 50 * time.Second
	UsersInterval         = 300 * time.Second
	AttendanceInterval    = 3 * time.Second
)

type UnknownScreenError struct {
	Name string
}

func (e UnknownScreenError) Error() string {
	return fmt.Sprintf("unknown screen %q", e.Name)
}

// Builder creates the resources of a screen
type Builder interface {
	Build(name string) (*Screen, error)
}

// Catalog builds every tab screen from the domain services
type Catalog struct {
	members     *members.Service
	thanksNotes *thanksnotes.Service
	attendance  *attendance.Service
	events      *events.Service
	blog        *blog.Service
	profiles    *profiles.Service
	logger      *zap.SugaredLogger
}

var _ Builder = &Catalog{}

func NewCatalog(
	members *members.Service,
	thanksNotes *thanksnotes.Service,
	attendance *attendance.Service,
	events *events.Service,
	blog *blog.Service,
	profiles *profiles.Service,
	logger *zap.SugaredLogger,
) *Catalog {
	return &Catalog{
		members:     members,
		thanksNotes: thanksNotes,
		attendance:  attendance,
		events:      events,
		blog:        blog,
		profiles:    profiles,
		logger:      logger,
	}
}

func (c *Catalog) Build(name string) (*Screen, error) {
	logger := c.logger.With("screen", name)

	var resources []poll.Poller
	switch name {
	case Home, DoctorHome, NonHome:
		resources = []poll.Poller{
			poll.New("profile", ProfileInterval, c.profiles.Profile, logger),
			poll.New("totals", TotalsInterval, c.thanksNotes.Totals, logger),
			poll.New("businessTotal", BusinessTotalInterval, c.thanksNotes.BusinessTotal, logger),
			poll.New("score", ScoreInterval, c.members.Score, logger),
			poll.New("blog", BlogInterval, c.blog.Latest, logger),
			poll.New("events", EventsInterval, c.events.List, logger),
		}
		if name == Home {
			resources = append(resources, poll.New("doctors", DoctorsInterval, c.members.Doctors, logger))
		}
	case Directory:
		resources = []poll.Poller{
			poll.New("eligibility", EligibilityInterval, c.members.Eligibility, logger),
			poll.New("doctors", DoctorsInterval, c.members.Doctors, logger),
		}
	case About, ExecutiveDirectory, MemberDirectory:
		resources = []poll.Poller{
			poll.New("eligibility", EligibilityInterval, c.members.Eligibility, logger),
			poll.New("members", MembersInterval, c.members.Directory, logger),
		}
	case Settings:
		resources = []poll.Poller{
			poll.New("users", UsersInterval, c.members.Recipients, logger),
		}
	case Notifications:
		resources = []poll.Poller{
			poll.New("attendance", AttendanceInterval, c.attendanceReport, logger),
		}
	case Profile, DoctorProfile:
		resources = []poll.Poller{
			poll.New("profile", ProfileInterval, c.profiles.Profile, logger),
			poll.New("score", ScoreInterval, c.members.Score, logger),
		}
	default:
		return nil, UnknownScreenError{Name: name}
	}

	return NewScreen(name, resources...), nil
}

type AttendanceView struct {
	Report     *remote.AttendanceReport `json:"report" yaml:"report"`
	KGMeetings []remote.Meeting         `json:"kgMeetings" yaml:"kgMeetings"`
}

func (c *Catalog) attendanceReport(ctx context.Context) (AttendanceView, error) {
	report, err := c.attendance.Report(ctx)
	if err != nil {
		return AttendanceView{}, err
	}
	return AttendanceView{
		Report:     report,
		KGMeetings: attendance.KGMeetings(report.AttendedMeetings),
	}, nil
}
