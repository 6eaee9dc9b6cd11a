package notam

import (
	"strings"
	"sync"

	"github.com/curbz/notam-composer/pkg/util"
)

// Session holds the record of one editing session. Every mutation swaps in a
// new record under the lock, so readers never observe a half applied change.
type Session struct {
	ID string

	mu        sync.RWMutex
	record    Record
	templates TemplateSource
}

// NewSession starts a session on the default record. templates may be nil,
// in which case LoadTemplate never finds anything.
func NewSession(id string, templates TemplateSource) *Session {
	return &Session{
		ID:        id,
		record:    Default(),
		templates: templates,
	}
}

// Record returns a snapshot of the current record. The snapshot is a deep copy
// and is not affected by later mutations.
func (s *Session) Record() Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.record.Clone()
}

func (s *Session) update(fn func(r *Record) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.record.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	s.record = next
	return nil
}

// UpdateField sets one scalar field. Values are stored as given.
func (s *Session) UpdateField(field Field, value string) error {
	err := s.update(func(r *Record) error {
		return field.set(r, value)
	})
	if err != nil {
		return err
	}
	util.DebugWithLabel(s.ID, "field %s set to %q", field, value)
	return nil
}

// UpdateDetailField sets one detail. lighting takes a bool, every other detail a string.
func (s *Session) UpdateDetailField(field DetailField, value any) error {
	err := s.update(func(r *Record) error {
		return field.set(&r.Details, value)
	})
	if err != nil {
		return err
	}
	util.DebugWithLabel(s.ID, "detail %s set to %v", field, value)
	return nil
}

// UpdateScheduleField sets one schedule field. Colons are stripped from start
// and end times, so "08:30" is stored as "0830".
func (s *Session) UpdateScheduleField(field ScheduleField, value string) error {
	if field == ScheduleStartTime || field == ScheduleEndTime {
		value = strings.ReplaceAll(value, ":", "")
	}
	err := s.update(func(r *Record) error {
		return field.set(&r.ItemDSchedule, value)
	})
	if err != nil {
		return err
	}
	util.DebugWithLabel(s.ID, "schedule %s set to %q", field, value)
	return nil
}

// Reset puts the session back on a fresh default record.
func (s *Session) Reset() {
	s.mu.Lock()
	s.record = Default()
	s.mu.Unlock()

	util.LogWithLabel(s.ID, "record reset to defaults")
}

// LoadTemplate resets the record and prefills it from the template stored
// under key. An unknown key leaves the session untouched and returns false.
func (s *Session) LoadTemplate(key string) bool {
	if s.templates == nil {
		return false
	}

	tpl, found := s.templates.GetTemplate(key)
	if !found {
		util.DebugWithLabel(s.ID, "no template for key %q, record unchanged", key)
		return false
	}

	next := Default()
	next.Category = tpl.Data.Category
	next.Subject = tpl.Data.Subject
	next.Condition = tpl.Data.Condition
	next.ItemEText = tpl.Data.ItemEText

	s.mu.Lock()
	s.record = next
	s.mu.Unlock()

	util.LogWithLabel(s.ID, "template %q loaded", key)
	return true
}

// AutoEText derives item E from the current record.
func (s *Session) AutoEText() string {
	return AutoEText(s.Record())
}

// FinalNotam composes the message from the current record.
func (s *Session) FinalNotam() string {
	return FinalNotam(s.Record())
}
