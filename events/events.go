package events

import (
	"context"
	"sort"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/zap"

	"github.com/giberode/gib/remote"
)

type Backend interface {
	Events(ctx context.Context) ([]remote.Event, error)
}

type Service struct {
	backend Backend
	logger  *zap.SugaredLogger
}

func NewService(backend Backend, logger *zap.SugaredLogger) *Service {
	return &Service{backend: backend, logger: logger}
}

// List returns all events ordered by date
func (s *Service) List(ctx context.Context) ([]remote.Event, error) {
	list, err := s.backend.Events(ctx)
	if err != nil {
		s.logger.Errorw("unable to fetch events", "error", err)
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		return Day(list[i].Date) < Day(list[j].Date)
	})
	return list, nil
}

// Day returns the YYYY-MM-DD part of an event date
func Day(date string) string {
	date = strings.TrimSpace(date)
	if len(date) > len(time.DateOnly) {
		return date[:len(time.DateOnly)]
	}
	return date
}

// OnDate returns the events scheduled on day
func OnDate(list []remote.Event, day time.Time) []remote.Event {
	key := day.Format(time.DateOnly)
	var result []remote.Event
	for _, e := range list {
		if Day(e.Date) == key {
			result = append(result, e)
		}
	}
	return result
}

// MarkedDates returns the days that have at least one event
func MarkedDates(list []remote.Event) mapset.Set[string] {
	dates := mapset.NewThreadUnsafeSet[string]()
	for _, e := range list {
		if day := Day(e.Date); day != "" {
			dates.Add(day)
		}
	}
	return dates
}
