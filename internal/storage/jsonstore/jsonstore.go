package jsonstore

import (
	"context"
	"fmt"
	"time"

	"cmstore/internal/id"
	"cmstore/internal/lock"
	"cmstore/internal/model"
	"cmstore/internal/objstore"
	"cmstore/internal/storage"
)

// Package jsonstore implements the storage contract on top of an
// S3-compatible object store. Each collection is one JSON document at
// data/<collection>.json holding the full item map plus a small
// metadata block. Every mutating operation is a whole-document
// read-modify-write serialized by a per-collection advisory lock; a
// high-write-rate collection therefore funnels through a single lock,
// which is an accepted ceiling for admin-tool-scale workloads.
//
// Reads take no lock: they operate on a snapshot and may race a write,
// observing either the old or the new document but never a torn one.
// Cascading deletes take each collection's lock in turn rather than
// nesting locks, so a concurrent reader can transiently see a child
// whose parent is mid-cascade; the cascade is idempotent and safe to
// retry.

// Store implements storage.Storage on an objstore.Client.
type Store struct {
	client objstore.Client
	locks  *lock.Manager
	now    func() time.Time
	newID  func() string

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

// New builds a JSON-backed store. The lock manager is an explicit
// dependency so tests can run isolated engines with isolated lock
// scopes; production wiring shares one manager per process.
func New(client objstore.Client, locks *lock.Manager, opts ...Option) *Store {
	s := &Store{
		client: client,
		locks:  locks,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  id.New,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.users = &userStore{col: newCollection[model.User](s, "users", "user")}
	s.carousels = &carouselStore{col: newCollection[model.Carousel](s, "carousels", "carousel")}
	s.projectImages = &projectImageStore{col: newCollection[model.ProjectImage](s, "projectImages", "project image")}
	s.documents = &documentStore{col: newCollection[model.Document](s, "documents", "document")}
	s.handbookFiles = &handbookFileStore{col: newCollection[model.HandbookFile](s, "handbookFiles", "handbook file")}
	s.handbooks = &handbookStore{
		col:   newCollection[model.Handbook](s, "handbooks", "handbook"),
		files: s.handbookFiles,
	}
	s.projects = &projectStore{
		col:      newCollection[model.Project](s, "projects", "project"),
		children: []childCollection{s.projectImages, s.documents, s.handbooks},
	}
	s.contacts = &contactStore{col: newCollection[model.ContactSubmission](s, "contacts", "contact submission")}
	s.settings = &settingStore{col: newCollection[model.SiteSetting](s, "settings", "setting")}

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

// Health verifies the object store is reachable.
func (s *Store) Health(ctx context.Context) error {
	if err := s.client.Ping(ctx); err != nil {
		return fmt.Errorf("json storage: %w", err)
	}
	return nil
}

// Close is a no-op; the object-store client holds no pooled resources.
func (s *Store) Close() error { return nil }

// childCollection is one edge of the ownership graph. Parents walk
// their child collections on delete; each child removes its records
// through its own delete path so nested cascades and invariants hold.
type childCollection interface {
	deleteByParent(ctx context.Context, parentID string) error
}
