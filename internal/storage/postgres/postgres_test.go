package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmstore/internal/model"
	"cmstore/internal/storage"
)

var testNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { db.Close() })

	n := 0
	s := New(db,
		WithClock(func() time.Time { return testNow }),
		WithIDGenerator(func() string { n++; return []string{"id-1", "id-2", "id-3"}[n-1] }),
	)
	return s, mock
}

func TestUserStore_Create(t *testing.T) {
	s, mock := newTestStore(t)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO users").
			WithArgs("id-1", "Alice", "alice@example.com", "hash", "admin", testNow, testNow).
			WillReturnResult(sqlmock.NewResult(0, 1))

		u, err := s.Users().Create(ctx, &model.User{
			Name: "Alice", Email: "alice@example.com", Password: "hash", Role: model.RoleAdmin,
		})

		require.NoError(t, err)
		assert.Equal(t, "id-1", u.ID)
		assert.Equal(t, testNow, u.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO users").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

		_, err := s.Users().Create(ctx, &model.User{
			Name: "Bob", Email: "alice@example.com", Password: "hash", Role: model.RoleEditor,
		})

		var conflict *storage.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "email", conflict.Field)
	})

	t.Run("validation rejected before insert", func(t *testing.T) {
		_, err := s.Users().Create(ctx, &model.User{Email: "no-name@example.com", Password: "hash", Role: model.RoleAdmin})

		var invalid *storage.ValidationError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "name", invalid.Field)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserStore_FindByID(t *testing.T) {
	s, mock := newTestStore(t)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "name", "email", "password", "role", "created_at", "updated_at"}).
			AddRow("u1", "Alice", "alice@example.com", "hash", "admin", testNow, testNow)

		mock.ExpectQuery("SELECT (.+) FROM users WHERE id = ?").
			WithArgs("u1").
			WillReturnRows(rows)

		u, err := s.Users().FindByID(ctx, "u1")

		require.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, u.Role)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		_, err := s.Users().FindByID(ctx, "missing")

		var notFound *storage.NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "missing", notFound.ID)
	})
}

func TestUserStore_Delete(t *testing.T) {
	s, mock := newTestStore(t)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM users WHERE id = ?").
			WithArgs("u1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, s.Users().Delete(ctx, "u1"))
	})

	t.Run("missing row", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM users WHERE id = ?").
			WithArgs("missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.Users().Delete(ctx, "missing")

		var notFound *storage.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})
}

func TestCarouselStore_CreateAppendsOrder(t *testing.T) {
	s, mock := newTestStore(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM carousels").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectExec("INSERT INTO carousels").
		WithArgs("id-1", "Slide", nil, "https://cdn/x.jpg", 3, true, testNow, testNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	c, err := s.Carousels().Create(ctx, &model.Carousel{
		Title: "Slide", ImageURL: "https://cdn/x.jpg", IsActive: true,
	})

	require.NoError(t, err)
	assert.Equal(t, 3, c.Order)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCarouselStore_Update(t *testing.T) {
	s, mock := newTestStore(t)
	ctx := context.Background()

	t.Run("merges patch", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "title", "subtitle", "image_url", "order", "is_active", "created_at", "updated_at"}).
			AddRow("c1", "Old", "sub", "https://cdn/x.jpg", 0, true, testNow, testNow)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM carousels WHERE id = (.+) FOR UPDATE").
			WithArgs("c1").
			WillReturnRows(rows)
		mock.ExpectExec("UPDATE carousels SET").
			WithArgs("New", "sub", "https://cdn/x.jpg", true, testNow, "c1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		title := "New"
		c, err := s.Carousels().Update(ctx, "c1", storage.CarouselPatch{Title: &title})

		require.NoError(t, err)
		assert.Equal(t, "New", c.Title)
		assert.Equal(t, "sub", c.Subtitle)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found rolls back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM carousels WHERE id = (.+) FOR UPDATE").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		_, err := s.Carousels().Update(ctx, "missing", storage.CarouselPatch{})

		var notFound *storage.NotFoundError
		assert.ErrorAs(t, err, &notFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCarouselStore_Reorder(t *testing.T) {
	s, mock := newTestStore(t)
	ctx := context.Background()

	t.Run("one update per row, single tx", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE carousels SET "order" = (.+) WHERE id = ?`).
			WithArgs(0, testNow, "c3").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE carousels SET "order" = (.+) WHERE id = ?`).
			WithArgs(1, testNow, "c1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE carousels SET "order" = (.+) WHERE id = ?`).
			WithArgs(2, testNow, "c2").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := s.Carousels().Reorder(ctx, []string{"c3", "c1", "c2"})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown id aborts the tx", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE carousels SET "order" = (.+) WHERE id = ?`).
			WithArgs(0, testNow, "ghost").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := s.Carousels().Reorder(ctx, []string{"ghost"})

		var notFound *storage.NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "ghost", notFound.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProjectImageStore_ReorderScoped(t *testing.T) {
	s, mock := newTestStore(t)
	ctx := context.Background()

	t.Run("id owned by another project", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE project_images SET "order" = (.+) WHERE id = (.+) AND project_id = ?`).
			WithArgs(0, testNow, "img9", "p1").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs("img9").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		err := s.ProjectImages().Reorder(ctx, "p1", []string{"img9"})

		var invalid *storage.ValidationError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "project_id", invalid.Field)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSettingStore_Upsert(t *testing.T) {
	s, mock := newTestStore(t)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "type", "key", "value", "created_at", "updated_at"}).
		AddRow("s1", "contact", "phone", "12345", testNow, testNow)

	mock.ExpectQuery("INSERT INTO site_settings (.+) ON CONFLICT \\(type, key\\) DO UPDATE").
		WithArgs("id-1", "contact", "phone", "12345", testNow, testNow).
		WillReturnRows(rows)

	setting, err := s.Settings().Upsert(ctx, "contact", "phone", "12345")

	require.NoError(t, err)
	assert.Equal(t, "s1", setting.ID)
	assert.Equal(t, "12345", setting.Value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingStore_CreateConflict(t *testing.T) {
	s, mock := newTestStore(t)
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO site_settings").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "site_settings_type_key_key"})

	_, err := s.Settings().Create(ctx, &model.SiteSetting{Type: "contact", Key: "phone", Value: "12345"})

	var conflict *storage.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "type/key", conflict.Field)
}

func TestFindMany_QueryShape(t *testing.T) {
	s, mock := newTestStore(t)
	ctx := context.Background()

	t.Run("filter, order and pagination", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "title", "category", "order", "is_active", "created_at", "updated_at"}).
			AddRow("p1", "Bridge", "infrastructure", 0, true, testNow, testNow)

		mock.ExpectQuery(`SELECT (.+) FROM projects WHERE is_active = (.+) ORDER BY title DESC, id ASC LIMIT (.+) OFFSET`).
			WithArgs(true, 5, 10).
			WillReturnRows(rows)

		items, err := s.Projects().FindMany(ctx, storage.ListQuery{
			Where:   map[string]any{"isActive": true},
			OrderBy: &storage.Order{Field: "title", Desc: true},
			Skip:    10,
			Take:    5,
		})

		require.NoError(t, err)
		assert.Len(t, items, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown field rejected without touching the db", func(t *testing.T) {
		_, err := s.Projects().FindMany(ctx, storage.ListQuery{
			Where: map[string]any{"nope": 1},
		})

		var invalid *storage.ValidationError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "nope", invalid.Field)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestHandbookFileStore_FindByHandbook(t *testing.T) {
	s, mock := newTestStore(t)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "handbook_id", "title", "file_url", "file_type", "order", "created_at", "updated_at"}).
		AddRow("f1", "h1", "Manual", "https://cdn/m.pdf", "pdf", 0, testNow, testNow).
		AddRow("f2", "h1", "Plans", "https://cdn/p.pdf", "pdf", 1, testNow, testNow)

	mock.ExpectQuery("SELECT (.+) FROM handbook_files WHERE handbook_id = ?").
		WithArgs("h1").
		WillReturnRows(rows)

	files, err := s.HandbookFiles().FindByHandbook(ctx, "h1")

	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, []int{0, 1}, []int{files[0].Order, files[1].Order})
}

func TestStore_Health(t *testing.T) {
	s, mock := newTestStore(t)

	t.Run("ok", func(t *testing.T) {
		mock.ExpectPing()
		assert.NoError(t, s.Health(context.Background()))
	})

	t.Run("unreachable", func(t *testing.T) {
		mock.ExpectPing().WillReturnError(errors.New("dial tcp: connection refused"))
		err := s.Health(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "postgres storage")
	})
}

func TestStore_TransportErrorPassesThrough(t *testing.T) {
	s, mock := newTestStore(t)
	ctx := context.Background()

	dbDown := errors.New("connection refused")
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id = ?").
		WithArgs("u1").
		WillReturnError(dbDown)

	_, err := s.Users().FindByID(ctx, "u1")

	assert.ErrorIs(t, err, dbDown)
	var notFound *storage.NotFoundError
	assert.False(t, errors.As(err, &notFound))
}
