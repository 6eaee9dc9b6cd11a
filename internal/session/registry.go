package session

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/curbz/notam-composer/internal/metrics"
	"github.com/curbz/notam-composer/internal/notam"
	"github.com/curbz/notam-composer/pkg/util"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

var ErrSessionNotFound = errors.New("session not found")

const maxCleanupInterval = time.Minute

// Registry holds the open editing sessions. A session that is not touched for
// the idle timeout expires and is dropped.
type Registry struct {
	cache     *cache.Cache
	templates notam.TemplateSource
	metrics   *metrics.Registry
}

// NewRegistry creates a registry whose sessions load templates from templates.
// A zero idle timeout keeps sessions until they are deleted. m may be nil.
func NewRegistry(templates notam.TemplateSource, idle time.Duration, m *metrics.Registry) *Registry {
	expiration, cleanup := cache.NoExpiration, time.Duration(0)
	if idle > 0 {
		expiration, cleanup = idle, min(idle, maxCleanupInterval)
	}

	r := &Registry{
		cache:     cache.New(expiration, cleanup),
		templates: templates,
		metrics:   m,
	}
	r.cache.OnEvicted(func(id string, _ interface{}) {
		if r.metrics != nil {
			r.metrics.SessionsActive.Dec()
		}
		util.LogWithLabel(id, "session closed")
	})
	return r
}

// Create opens a new session on the default record.
func (r *Registry) Create() *notam.Session {
	s := notam.NewSession(uuid.NewString(), r.templates)
	r.register(s)
	util.LogWithLabel(s.ID, "session opened")
	return s
}

func (r *Registry) register(s *notam.Session) {
	r.cache.SetDefault(s.ID, s)
	if r.metrics != nil {
		r.metrics.SessionsActive.Inc()
	}
}

// Touch restarts the idle timer of s. A session that has already expired is
// registered again and Touch returns false.
func (r *Registry) Touch(s *notam.Session) bool {
	if _, found := r.cache.Get(s.ID); found {
		r.cache.SetDefault(s.ID, s)
		return true
	}
	// drop an expired entry the janitor has not collected yet, so it is counted closed once
	r.cache.Delete(s.ID)
	r.register(s)
	util.LogWithLabel(s.ID, "expired session reopened")
	return false
}

// Get returns the session with id and restarts its idle timer.
func (r *Registry) Get(id string) (*notam.Session, error) {
	v, found := r.cache.Get(id)
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	r.cache.SetDefault(id, v)
	return v.(*notam.Session), nil
}

// List returns the IDs of the live sessions, sorted.
func (r *Registry) List() []string {
	items := r.cache.Items()
	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *Registry) Delete(id string) error {
	if _, found := r.cache.Get(id); !found {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	r.cache.Delete(id)
	return nil
}
