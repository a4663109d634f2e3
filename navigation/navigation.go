package navigation

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dominikbraun/graph"
	"go.uber.org/zap"
)

type Route string

const (
	Splash       Route = "Splash"
	Login        Route = "Login"
	MainApp      Route = "MainApp"
	LogoutScreen Route = "LogoutScreen"
)

var (
	ErrUnknownRoute      = errors.New("unknown route")
	ErrInvalidTransition = errors.New("invalid transition")
)

var transitions = [][2]Route{
	{Splash, Login},
	{Splash, MainApp},
	{Login, MainApp},
	{MainApp, LogoutScreen},
	{LogoutScreen, Login},
}

// Navigator tracks the active route of the root stack
type Navigator struct {
	routes graph.Graph[string, string]
	logger *zap.SugaredLogger

	mu      sync.RWMutex
	current Route
}

func NewNavigator(logger *zap.SugaredLogger) (*Navigator, error) {
	routes := graph.New(graph.StringHash, graph.Directed())
	for _, route := range []Route{Splash, Login, MainApp, LogoutScreen} {
		if err := routes.AddVertex(string(route)); err != nil {
			return nil, err
		}
	}
	for _, t := range transitions {
		if err := routes.AddEdge(string(t[0]), string(t[1])); err != nil {
			return nil, err
		}
	}

	return &Navigator{
		routes:  routes,
		logger:  logger,
		current: Splash,
	}, nil
}

func (n *Navigator) Current() Route {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.current
}

// Navigate moves to route if the route graph has an edge from the current route
func (n *Navigator) Navigate(route Route) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.known(route); err != nil {
		return err
	}
	if route == n.current {
		return nil
	}
	if _, err := n.routes.Edge(string(n.current), string(route)); err != nil {
		if errors.Is(err, graph.ErrEdgeNotFound) {
			return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, n.current, route)
		}
		return err
	}

	n.logger.Debugw("navigate", "from", n.current, "to", route)
	n.current = route
	return nil
}

// Reset replaces the whole stack with route
func (n *Navigator) Reset(route Route) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.known(route); err != nil {
		return err
	}
	n.logger.Infow("navigation reset", "from", n.current, "to", route)
	n.current = route
	return nil
}

func (n *Navigator) known(route Route) error {
	if _, err := n.routes.Vertex(string(route)); err != nil {
		if errors.Is(err, graph.ErrVertexNotFound) {
			return fmt.Errorf("%w: %s", ErrUnknownRoute, route)
		}
		return err
	}
	return nil
}
