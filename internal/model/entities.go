package model

import "time"

// User is an admin-panel account. Email is unique across users;
// Password holds a bcrypt hash, never plaintext.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Carousel is a home-page slide. Order defines the global display
// sequence: dense, zero-based.
type Carousel struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle,omitempty"`
	ImageURL  string    `json:"imageUrl"`
	Order     int       `json:"order"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Project is a reference/portfolio entry. It owns project images and
// may own documents and handbooks; deleting it cascades to all three.
type Project struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	Order     int       `json:"order"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProjectImage belongs to exactly one project. Order is scoped within
// the parent project.
type ProjectImage struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	ImageURL  string    `json:"imageUrl"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Document is a downloadable file reference. ProjectID is optional;
// an unattached document has an empty ProjectID.
type Document struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId,omitempty"`
	Title     string    `json:"title"`
	FileURL   string    `json:"fileUrl"`
	Category  string    `json:"category"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Handbook is a password-gated file collection, optionally attached to
// a project. Deleting it cascades to its files.
type Handbook struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId,omitempty"`
	Title     string    `json:"title"`
	Password  string    `json:"password"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HandbookFile belongs to exactly one handbook. Order is scoped within
// the parent handbook.
type HandbookFile struct {
	ID         string    `json:"id"`
	HandbookID string    `json:"handbookId"`
	Title      string    `json:"title"`
	FileURL    string    `json:"fileUrl"`
	FileType   string    `json:"fileType"`
	Order      int       `json:"order"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ContactSubmission is an inbound message from the public site.
type ContactSubmission struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Message   string        `json:"message"`
	Status    ContactStatus `json:"status"`
	Archived  bool          `json:"archived"`
	Reply     string        `json:"reply,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// SiteSetting is a free-form configuration value, unique per
// (Type, Key) pair.
type SiteSetting struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
