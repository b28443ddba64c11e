package storage

import "cmstore/internal/model"

// Patch types carry partial updates. A nil field is left unmodified;
// a non-nil field replaces the stored value. Engines bump updatedAt on
// every successful update regardless of how many fields changed.

type UserPatch struct {
	Name     *string
	Email    *string
	Password *string
	Role     *model.Role
}

type CarouselPatch struct {
	Title    *string
	Subtitle *string
	ImageURL *string
	IsActive *bool
}

type ProjectPatch struct {
	Title    *string
	Category *string
	IsActive *bool
}

type ProjectImagePatch struct {
	ImageURL *string
}

type DocumentPatch struct {
	ProjectID *string
	Title     *string
	FileURL   *string
	Category  *string
	IsActive  *bool
}

type HandbookPatch struct {
	ProjectID *string
	Title     *string
	Password  *string
}

type HandbookFilePatch struct {
	Title    *string
	FileURL  *string
	FileType *string
}

type ContactPatch struct {
	Status   *model.ContactStatus
	Archived *bool
	Reply    *string
}

type SettingPatch struct {
	Value *string
}
