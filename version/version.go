package version

import (
	"context"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"

	"github.com/giberode/gib/remote"
)

// Current is the version of this build. It is overridden at link time with
// -ldflags "-X github.com/giberode/gib/version.Current=<version>".
var Current = "1.0.0"

type Source interface {
	AppVersion(ctx context.Context) (*remote.AppVersion, error)
}

type Status struct {
	Current        string `json:"current" yaml:"current"`
	Latest         string `json:"latest" yaml:"latest"`
	UpdateRequired bool   `json:"updateRequired" yaml:"updateRequired"`
	StoreURL       string `json:"storeUrl,omitempty" yaml:"storeUrl,omitempty"`
}

// Checker compares the running build against the version published by the backend
type Checker struct {
	source   Source
	current  string
	storeURL string
	logger   *zap.SugaredLogger
}

func NewChecker(source Source, current, storeURL string, logger *zap.SugaredLogger) *Checker {
	return &Checker{
		source:   source,
		current:  current,
		storeURL: storeURL,
		logger:   logger,
	}
}

func (c *Checker) Check(ctx context.Context) (Status, error) {
	status := Status{Current: c.current}

	latest, err := c.source.AppVersion(ctx)
	if err != nil {
		c.logger.Warnw("unable to fetch the published app version", "error", err)
		return status, err
	}

	status.Latest = latest.AndroidVersion.String()
	if status.Latest != "" {
		if _, err := semver.NewVersion(status.Latest); err != nil {
			c.logger.Warnw("published app version is not a semantic version", "latest", status.Latest, "error", err)
		}
	}
	if status.Latest != "" && Compare(c.current, status.Latest) < 0 {
		status.UpdateRequired = true
		status.StoreURL = c.storeURL
		c.logger.Infow("update required", "current", c.current, "latest", status.Latest)
	}
	return status, nil
}

// Compare returns -1, 0 or 1 when a is older, equal or newer than b. Versions are
// compared numerically per dot separated component, with missing or non numeric
// components counting as 0, so pre-release suffixes are ignored.
func Compare(a, b string) int {
	pa := components(a)
	pb := components(b)
	for i := 0; i < max(len(pa), len(pb)); i++ {
		var x, y int
		if i < len(pa) {
			x = pa[i]
		}
		if i < len(pb) {
			y = pb[i]
		}
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
	}
	return 0
}

func components(v string) []int {
	parts := strings.Split(strings.TrimPrefix(strings.TrimSpace(v), "v"), ".")
	result := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err == nil {
			result[i] = n
		}
	}
	return result
}
