package screens

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/giberode/gib/poll"
	"github.com/giberode/gib/roles"
)

var ErrNotMounted = errors.New("screen is not mounted")

// Screen is a tab and the resources it polls while focused
type Screen struct {
	Name      string
	resources []poll.Poller
}

func NewScreen(name string, resources ...poll.Poller) *Screen {
	return &Screen{Name: name, resources: resources}
}

func (s *Screen) Resources() []poll.Poller {
	return s.resources
}

func (s *Screen) Start(ctx context.Context) {
	for _, r := range s.resources {
		r.Start(ctx)
	}
}

func (s *Screen) Stop() {
	for _, r := range s.resources {
		r.Stop()
	}
}

func (s *Screen) Snapshots() []poll.Snapshot {
	snapshots := make([]poll.Snapshot, 0, len(s.resources))
	for _, r := range s.resources {
		snapshots = append(snapshots, r.Snapshot())
	}
	return snapshots
}

// Host holds the tabs of the logged in role. Only the focused screen polls.
type Host struct {
	builder Builder
	logger  *zap.SugaredLogger

	mu      sync.Mutex
	ctx     context.Context
	role    roles.Role
	tabs    []roles.Tab
	screens map[string]*Screen
	focused string
}

func NewHost(builder Builder, logger *zap.SugaredLogger) *Host {
	return &Host{
		builder: builder,
		logger:  logger,
		screens: map[string]*Screen{},
	}
}

// Mount replaces the mounted tabs with the ones of role and focuses the first tab
func (h *Host) Mount(ctx context.Context, role roles.Role) error {
	tabs := role.Tabs()
	screens := make(map[string]*Screen, len(tabs))
	for _, tab := range tabs {
		screen, err := h.builder.Build(tab.Screen)
		if err != nil {
			return err
		}
		screens[tab.Screen] = screen
	}

	h.UnmountAll()

	h.mu.Lock()
	defer h.mu.Unlock()
	h.ctx = ctx
	h.role = role
	h.tabs = tabs
	h.screens = screens
	h.logger.Infow("tabs mounted", "role", role, "tabs", len(tabs))

	if len(tabs) > 0 {
		h.focus(tabs[0].Screen)
	}
	return nil
}

// Focus starts polling name and stops the previously focused screen
func (h *Host) Focus(name string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.screens[name]; !ok {
		return ErrNotMounted
	}
	h.focus(name)
	return nil
}

func (h *Host) focus(name string) {
	if h.focused == name {
		return
	}
	if previous, ok := h.screens[h.focused]; ok {
		previous.Stop()
	}
	h.focused = name
	h.screens[name].Start(h.ctx)
}

// UnmountAll stops every screen and forgets the tabs
func (h *Host) UnmountAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, screen := range h.screens {
		screen.Stop()
	}
	if len(h.screens) > 0 {
		h.logger.Infow("tabs unmounted", "role", h.role)
	}
	h.screens = map[string]*Screen{}
	h.tabs = nil
	h.role = ""
	h.focused = ""
}

func (h *Host) Role() roles.Role {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.role
}

func (h *Host) Tabs() []roles.Tab {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]roles.Tab(nil), h.tabs...)
}

func (h *Host) Focused() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.focused
}

func (h *Host) Screen(name string) (*Screen, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	screen, ok := h.screens[name]
	return screen, ok
}
