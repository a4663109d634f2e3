package blog

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/giberode/gib/remote"
)

var layouts = []string{time.DateTime, time.RFC3339, time.DateOnly}

type Backend interface {
	Posts(ctx context.Context) ([]remote.Post, error)
}

type Service struct {
	backend Backend
	logger  *zap.SugaredLogger
}

func NewService(backend Backend, logger *zap.SugaredLogger) *Service {
	return &Service{backend: backend, logger: logger}
}

// Latest returns the posts newest first
func (s *Service) Latest(ctx context.Context) ([]remote.Post, error) {
	posts, err := s.backend.Posts(ctx)
	if err != nil {
		s.logger.Errorw("unable to fetch blog posts", "error", err)
		return nil, err
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return createdAt(posts[i]).After(createdAt(posts[j]))
	})
	return posts, nil
}

func createdAt(p remote.Post) time.Time {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, p.CreatedAt); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Search keeps the posts whose title contains query, ignoring case
func Search(posts []remote.Post, query string) []remote.Post {
	fold := cases.Fold()
	query = fold.String(strings.TrimSpace(query))
	if query == "" {
		return posts
	}
	var result []remote.Post
	for _, p := range posts {
		if strings.Contains(fold.String(p.Title), query) {
			result = append(result, p)
		}
	}
	return result
}
