// Package memstore keeps every table in process memory. It backs the
// server when DB_DSN is "memory" and serves as the fixture for service tests.
package memstore

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/protomem/medicall/internal/model"
)

type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	seq map[string]model.ID

	users         map[model.ID]model.User
	workers       map[model.ID]model.WorkerProfile // keyed by user id
	hospitals     map[model.ID]model.HospitalProfile
	shifts        map[model.ID]model.Shift
	applications  map[model.ID]model.Application
	reviews       map[model.ID]model.ShiftReview
	notifications map[model.ID]model.Notification
	preferences   map[model.ID]model.NotificationPreference
	revoked       map[string]model.RevokedToken
}

func New() *Store {
	return &Store{
		now:           time.Now,
		seq:           make(map[string]model.ID),
		users:         make(map[model.ID]model.User),
		workers:       make(map[model.ID]model.WorkerProfile),
		hospitals:     make(map[model.ID]model.HospitalProfile),
		shifts:        make(map[model.ID]model.Shift),
		applications:  make(map[model.ID]model.Application),
		reviews:       make(map[model.ID]model.ShiftReview),
		notifications: make(map[model.ID]model.Notification),
		preferences:   make(map[model.ID]model.NotificationPreference),
		revoked:       make(map[string]model.RevokedToken),
	}
}

// WithClock replaces the time source used for timestamps.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Users() *UserStore                       { return &UserStore{s} }
func (s *Store) WorkerProfiles() *WorkerProfileStore     { return &WorkerProfileStore{s} }
func (s *Store) HospitalProfiles() *HospitalProfileStore { return &HospitalProfileStore{s} }
func (s *Store) Shifts() *ShiftStore                     { return &ShiftStore{s} }
func (s *Store) Applications() *ApplicationStore         { return &ApplicationStore{s} }
func (s *Store) Reviews() *ReviewStore                   { return &ReviewStore{s} }
func (s *Store) Notifications() *NotificationStore       { return &NotificationStore{s} }
func (s *Store) Preferences() *PreferenceStore           { return &PreferenceStore{s} }
func (s *Store) Tokens() *TokenStore                     { return &TokenStore{s} }

// next must be called with mu held.
func (s *Store) next(table string) model.ID {
	s.seq[table]++
	return s.seq[table]
}

func paginate[T any](items []T, opts model.FindOptions) []T {
	if opts.Limit == 0 {
		opts = model.NewFindOptions(0, opts.Offset)
	}
	if opts.Offset >= len(items) {
		return []T{}
	}
	end := min(opts.Offset+opts.Limit, len(items))
	return items[opts.Offset:end]
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func has(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func ptr[T any](v T) *T { return &v }

// sortBy orders items by the comparator registered for o.Field, then by fallback.
func sortBy[T any](items []T, o model.Ordering, cmps map[string]func(a, b T) int, fallback func(a, b T) int) {
	cmp := cmps[o.Field]
	slices.SortStableFunc(items, func(a, b T) int {
		if cmp != nil {
			c := cmp(a, b)
			if o.Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return fallback(a, b)
	})
}

func compareIDs(a, b model.ID) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
