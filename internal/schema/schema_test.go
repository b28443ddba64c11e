package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cmstore/internal/model"
	"cmstore/internal/storage"
)

func validUser() *model.User {
	return &model.User{Name: "Alice", Email: "alice@example.com", Password: "hash", Role: model.RoleAdmin}
}

func TestValidateUser(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*model.User)
		wantField string
	}{
		{"valid", func(u *model.User) {}, ""},
		{"missing name", func(u *model.User) { u.Name = "" }, "name"},
		{"blank name", func(u *model.User) { u.Name = "   " }, "name"},
		{"missing email", func(u *model.User) { u.Email = "" }, "email"},
		{"malformed email", func(u *model.User) { u.Email = "not-an-address" }, "email"},
		{"missing password", func(u *model.User) { u.Password = "" }, "password"},
		{"unknown role", func(u *model.User) { u.Role = "superuser" }, "role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := validUser()
			tt.mutate(u)
			err := ValidateUser(u)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var ve *storage.ValidationError
			assert.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}

func TestValidateContact_Status(t *testing.T) {
	c := &model.ContactSubmission{Name: "Bob", Email: "bob@example.com", Message: "hi", Status: "resolved"}
	err := ValidateContact(c)
	var ve *storage.ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "status", ve.Field)

	c.Status = model.ContactNew
	assert.NoError(t, ValidateContact(c))
}

func TestValidateChildren_RequireParent(t *testing.T) {
	err := ValidateProjectImage(&model.ProjectImage{ImageURL: "https://cdn/x.jpg"})
	var ve *storage.ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "projectId", ve.Field)

	err = ValidateHandbookFile(&model.HandbookFile{Title: "t", FileURL: "u"})
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "handbookId", ve.Field)
}
