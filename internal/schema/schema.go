package schema

import (
	"strings"

	"cmstore/internal/model"
	"cmstore/internal/storage"
)

// Package schema checks entity records against their shape invariants
// before anything is persisted. Every violation names the offending
// field. Uniqueness is not checked here — that needs the full
// collection and belongs to the engines.

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &storage.ValidationError{Field: field, Reason: "is required"}
	}
	return nil
}

func ValidateUser(u *model.User) error {
	if err := required("name", u.Name); err != nil {
		return err
	}
	if err := required("email", u.Email); err != nil {
		return err
	}
	if !strings.Contains(u.Email, "@") {
		return &storage.ValidationError{Field: "email", Reason: "must be a valid address"}
	}
	if err := required("password", u.Password); err != nil {
		return err
	}
	if !u.Role.Valid() {
		return &storage.ValidationError{Field: "role", Reason: "must be admin or editor"}
	}
	return nil
}

func ValidateCarousel(c *model.Carousel) error {
	if err := required("title", c.Title); err != nil {
		return err
	}
	return required("imageUrl", c.ImageURL)
}

func ValidateProject(p *model.Project) error {
	if err := required("title", p.Title); err != nil {
		return err
	}
	return required("category", p.Category)
}

func ValidateProjectImage(img *model.ProjectImage) error {
	if err := required("projectId", img.ProjectID); err != nil {
		return err
	}
	return required("imageUrl", img.ImageURL)
}

func ValidateDocument(d *model.Document) error {
	if err := required("title", d.Title); err != nil {
		return err
	}
	return required("fileUrl", d.FileURL)
}

func ValidateHandbook(h *model.Handbook) error {
	if err := required("title", h.Title); err != nil {
		return err
	}
	return required("password", h.Password)
}

func ValidateHandbookFile(f *model.HandbookFile) error {
	if err := required("handbookId", f.HandbookID); err != nil {
		return err
	}
	if err := required("title", f.Title); err != nil {
		return err
	}
	return required("fileUrl", f.FileURL)
}

func ValidateContact(c *model.ContactSubmission) error {
	if err := required("name", c.Name); err != nil {
		return err
	}
	if err := required("email", c.Email); err != nil {
		return err
	}
	if err := required("message", c.Message); err != nil {
		return err
	}
	if !c.Status.Valid() {
		return &storage.ValidationError{Field: "status", Reason: "must be new, processing or completed"}
	}
	return nil
}

func ValidateSetting(s *model.SiteSetting) error {
	if err := required("type", s.Type); err != nil {
		return err
	}
	return required("key", s.Key)
}
