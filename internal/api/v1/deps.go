package v1

import (
	"context"
	"errors"
	"log/slog"

	"github.com/vmunix/streamverse/internal/account"
	"github.com/vmunix/streamverse/internal/auth"
	"github.com/vmunix/streamverse/internal/catalog"
	"github.com/vmunix/streamverse/internal/embed"
	"github.com/vmunix/streamverse/internal/events"
	"github.com/vmunix/streamverse/internal/lists"
	"github.com/vmunix/streamverse/internal/tmdb"
)

// ErrMissingDependency is returned when a required dependency is nil.
var ErrMissingDependency = errors.New("missing required dependency")

// Catalog serves browse pages, show details and search. *catalog.Service implements it.
type Catalog interface {
	Page(ctx context.Context, name string) (*catalog.PageResult, error)
	Show(ctx context.Context, mediaType tmdb.MediaType, id int64) (*tmdb.Show, []tmdb.Show, error)
	Search(ctx context.Context, query string, page int) ([]tmdb.Show, error)
}

// StreamResolver finds a player URL. *embed.Resolver implements it.
type StreamResolver interface {
	Resolve(ctx context.Context, mediaType string, id int64, season, episode int) (*embed.Stream, error)
}

//go:generate mockgen -source=deps.go -destination=mocks/mock_deps.go -package=mocks

// ServerDeps contains all dependencies for the API server.
// Required dependencies must be non-nil; optional dependencies may be nil.
type ServerDeps struct {
	// Required dependencies
	Auth       *auth.Manager
	Accounts   *account.Store
	WatchLater *lists.Cache
	Toggler    *lists.Toggler
	History    *lists.History

	// Optional dependencies (nil if not configured)
	Catalog  Catalog
	Streams  StreamResolver
	Bus      *events.Bus      // live notifications for /events/stream
	EventLog *events.EventLog // per-user event history
	Logger   *slog.Logger

	// Version is reported by /status.
	Version string
	// SecureCookies marks session cookies Secure. Enable behind TLS.
	SecureCookies bool
}

// Validate checks that all required dependencies are provided.
func (d ServerDeps) Validate() error {
	switch {
	case d.Auth == nil:
		return errors.Join(ErrMissingDependency, errors.New("auth manager is required"))
	case d.Accounts == nil:
		return errors.Join(ErrMissingDependency, errors.New("account store is required"))
	case d.WatchLater == nil:
		return errors.Join(ErrMissingDependency, errors.New("watch later cache is required"))
	case d.Toggler == nil:
		return errors.Join(ErrMissingDependency, errors.New("toggler is required"))
	case d.History == nil:
		return errors.Join(ErrMissingDependency, errors.New("history is required"))
	}
	return nil
}
