package storage

import (
	"context"

	"cmstore/internal/model"
)

// Package storage defines the unified storage contract consumed by the
// admin API. Two engines implement it — one on PostgreSQL, one on a
// flat JSON-per-collection layout in an S3-compatible object store —
// and callers must not be able to tell them apart through this
// interface.

// Storage is the root contract: one accessor per entity collection.
type Storage interface {
	Users() UserStore
	Carousels() CarouselStore
	Projects() ProjectStore
	ProjectImages() ProjectImageStore
	Documents() DocumentStore
	Handbooks() HandbookStore
	HandbookFiles() HandbookFileStore
	Contacts() ContactStore
	Settings() SettingStore

	// Health verifies the backing store is reachable. A non-nil error
	// carries a diagnostic message suitable for a health endpoint.
	Health(ctx context.Context) error
	// Close releases backend resources.
	Close() error
}

// UserStore manages admin accounts. Email is unique.
type UserStore interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	FindMany(ctx context.Context, q ListQuery) ([]model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, id string, p UserPatch) (*model.User, error)
	Delete(ctx context.Context, id string) error
}

// CarouselStore manages home-page slides, globally ordered.
type CarouselStore interface {
	Create(ctx context.Context, c *model.Carousel) (*model.Carousel, error)
	FindMany(ctx context.Context, q ListQuery) ([]model.Carousel, error)
	FindByID(ctx context.Context, id string) (*model.Carousel, error)
	Update(ctx context.Context, id string, p CarouselPatch) (*model.Carousel, error)
	Delete(ctx context.Context, id string) error
	// Reorder assigns order = position for each id in ids, in order.
	Reorder(ctx context.Context, ids []string) error
}

// ProjectStore manages portfolio projects. Delete cascades to the
// project's images, documents and handbooks (and handbook files).
type ProjectStore interface {
	Create(ctx context.Context, p *model.Project) (*model.Project, error)
	FindMany(ctx context.Context, q ListQuery) ([]model.Project, error)
	FindByID(ctx context.Context, id string) (*model.Project, error)
	Update(ctx context.Context, id string, p ProjectPatch) (*model.Project, error)
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, ids []string) error
}

// ProjectImageStore manages images owned by a project, ordered within
// their parent.
type ProjectImageStore interface {
	Create(ctx context.Context, img *model.ProjectImage) (*model.ProjectImage, error)
	FindMany(ctx context.Context, q ListQuery) ([]model.ProjectImage, error)
	FindByID(ctx context.Context, id string) (*model.ProjectImage, error)
	FindByProject(ctx context.Context, projectID string) ([]model.ProjectImage, error)
	Update(ctx context.Context, id string, p ProjectImagePatch) (*model.ProjectImage, error)
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, projectID string, ids []string) error
}

// DocumentStore manages downloadable documents, optionally attached to
// a project.
type DocumentStore interface {
	Create(ctx context.Context, d *model.Document) (*model.Document, error)
	FindMany(ctx context.Context, q ListQuery) ([]model.Document, error)
	FindByID(ctx context.Context, id string) (*model.Document, error)
	FindByProject(ctx context.Context, projectID string) ([]model.Document, error)
	Update(ctx context.Context, id string, p DocumentPatch) (*model.Document, error)
	Delete(ctx context.Context, id string) error
}

// HandbookStore manages password-gated handbooks. Delete cascades to
// the handbook's files.
type HandbookStore interface {
	Create(ctx context.Context, h *model.Handbook) (*model.Handbook, error)
	FindMany(ctx context.Context, q ListQuery) ([]model.Handbook, error)
	FindByID(ctx context.Context, id string) (*model.Handbook, error)
	FindByProject(ctx context.Context, projectID string) ([]model.Handbook, error)
	Update(ctx context.Context, id string, p HandbookPatch) (*model.Handbook, error)
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, ids []string) error
}

// HandbookFileStore manages files owned by a handbook, ordered within
// their parent.
type HandbookFileStore interface {
	Create(ctx context.Context, f *model.HandbookFile) (*model.HandbookFile, error)
	FindMany(ctx context.Context, q ListQuery) ([]model.HandbookFile, error)
	FindByID(ctx context.Context, id string) (*model.HandbookFile, error)
	FindByHandbook(ctx context.Context, handbookID string) ([]model.HandbookFile, error)
	Update(ctx context.Context, id string, p HandbookFilePatch) (*model.HandbookFile, error)
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, handbookID string, ids []string) error
}

// ContactStore manages contact-form submissions.
type ContactStore interface {
	Create(ctx context.Context, c *model.ContactSubmission) (*model.ContactSubmission, error)
	FindMany(ctx context.Context, q ListQuery) ([]model.ContactSubmission, error)
	FindByID(ctx context.Context, id string) (*model.ContactSubmission, error)
	Update(ctx context.Context, id string, p ContactPatch) (*model.ContactSubmission, error)
	Delete(ctx context.Context, id string) error
}

// SettingStore manages site settings, unique per (type, key).
type SettingStore interface {
	Create(ctx context.Context, s *model.SiteSetting) (*model.SiteSetting, error)
	FindMany(ctx context.Context, q ListQuery) ([]model.SiteSetting, error)
	FindByID(ctx context.Context, id string) (*model.SiteSetting, error)
	FindByTypeAndKey(ctx context.Context, typ, key string) (*model.SiteSetting, error)
	Update(ctx context.Context, id string, p SettingPatch) (*model.SiteSetting, error)
	// Upsert creates the setting if the (type, key) pair is absent and
	// overwrites its value otherwise.
	Upsert(ctx context.Context, typ, key, value string) (*model.SiteSetting, error)
	Delete(ctx context.Context, id string) error
}
