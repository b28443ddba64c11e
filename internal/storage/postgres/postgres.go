package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cmstore/internal/id"
	"cmstore/internal/storage"
)

// Package postgres implements the storage contract on PostgreSQL using
// database/sql with parameterized queries. Relational integrity leans
// on the database: cascades are ON DELETE CASCADE foreign keys,
// uniqueness is enforced by unique indexes and surfaced as
// ConflictError, and reorders run as one transaction with one UPDATE
// per row. Behavior through the storage contract must be
// indistinguishable from the JSON engine's.

// Store implements storage.Storage on a *sql.DB.
type Store struct {
	db    *sql.DB
	now   func() time.Time
	newID func() string

	users         *userStore
	carousels     *carouselStore
	projects      *projectStore
	projectImages *projectImageStore
	documents     *documentStore
	handbooks     *handbookStore
	handbookFiles *handbookFileStore
	contacts      *contactStore
	settings      *settingStore
}

var _ storage.Storage = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source. Test seam.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the id source. Test seam.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// New builds a PostgreSQL-backed store over an open connection pool.
func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{
		db:    db,
		now:   func() time.Time { return time.Now().UTC() },
		newID: id.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.users = &userStore{s}
	s.carousels = &carouselStore{s}
	s.projects = &projectStore{s}
	s.projectImages = &projectImageStore{s}
	s.documents = &documentStore{s}
	s.handbooks = &handbookStore{s}
	s.handbookFiles = &handbookFileStore{s}
	s.contacts = &contactStore{s}
	s.settings = &settingStore{s}
	return s
}

func (s *Store) Users() storage.UserStore                 { return s.users }
func (s *Store) Carousels() storage.CarouselStore         { return s.carousels }
func (s *Store) Projects() storage.ProjectStore           { return s.projects }
func (s *Store) ProjectImages() storage.ProjectImageStore { return s.projectImages }
func (s *Store) Documents() storage.DocumentStore         { return s.documents }
func (s *Store) Handbooks() storage.HandbookStore         { return s.handbooks }
func (s *Store) HandbookFiles() storage.HandbookFileStore { return s.handbookFiles }
func (s *Store) Contacts() storage.ContactStore           { return s.contacts }
func (s *Store) Settings() storage.SettingStore           { return s.settings }

// Health verifies database connectivity.
func (s *Store) Health(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres storage: %w", err)
	}
	return nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error { return s.db.Close() }
