package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetdesk/notify/pkg/notification"
)

func TestMemoryStoreFetchTemplate(t *testing.T) {
	s := NewMemoryStore()
	s.Put(notification.Template{ID: "a", Name: "welcome", IsActive: true, Subject: "Hi"})
	s.Put(notification.Template{ID: "b", Name: "welcome", IsActive: true, IsDefault: true, Subject: "Hi (default)"})
	s.Put(notification.Template{ID: "c", Name: "retired", IsActive: false})

	t.Run("default wins over sibling", func(t *testing.T) {
		got, err := s.FetchTemplate(context.Background(), "welcome")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "b", got.ID)
	})

	t.Run("inactive is invisible", func(t *testing.T) {
		got, err := s.FetchTemplate(context.Background(), "retired")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("unknown name", func(t *testing.T) {
		got, err := s.FetchTemplate(context.Background(), "nope")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("fetch returns a copy", func(t *testing.T) {
		got, err := s.FetchTemplate(context.Background(), "welcome")
		require.NoError(t, err)
		got.Subject = "mutated"

		again, err := s.FetchTemplate(context.Background(), "welcome")
		require.NoError(t, err)
		assert.Equal(t, "Hi (default)", again.Subject)
	})
}

func TestMemoryStorePutAssignsID(t *testing.T) {
	s := NewMemoryStore()
	id := s.Put(notification.Template{Name: "x", IsActive: true})
	assert.NotEmpty(t, id)

	other := s.Put(notification.Template{Name: "y", IsActive: true})
	assert.NotEqual(t, id, other)
}

func TestMemoryStoreDelete(t *testing.T) {
	s := NewMemoryStore()
	id := s.Put(notification.Template{Name: "x", IsActive: true})

	require.NoError(t, s.Delete(id))
	assert.ErrorIs(t, s.Delete(id), ErrNotFound)
}

func TestMemoryStoreListSorted(t *testing.T) {
	s := NewMemoryStore()
	s.Put(notification.Template{ID: "2", Name: "b"})
	s.Put(notification.Template{ID: "1", Name: "a"})
	s.Put(notification.Template{ID: "3", Name: "a"})

	list := s.List()
	require.Len(t, list, 3)
	assert.Equal(t, "1", list[0].ID)
	assert.Equal(t, "3", list[1].ID)
	assert.Equal(t, "2", list[2].ID)
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "booking.yaml", `
templates:
  - id: t-1
    name: booking_confirmed
    category: booking
    subject: "Booking {{booking_id}} confirmed"
    html_content: "<p>Hello {{customer_name}}</p>"
    is_active: true
    is_default: true
`)
	writeFile(t, dir, "quotation.json", `{
  "templates": [
    {"id": "t-2", "name": "quotation_sent", "subject": "Quotation", "html_content": "x", "is_active": true}
  ]
}`)
	writeFile(t, dir, "notes.txt", "ignored")

	s, err := LoadDirectory(dir)
	require.NoError(t, err)

	got, err := s.FetchTemplate(context.Background(), "booking_confirmed")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "booking", got.Category)
	assert.True(t, got.IsDefault)

	got, err = s.FetchTemplate(context.Background(), "quotation_sent")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "t-2", got.ID)
}

func TestLoadDirectoryErrors(t *testing.T) {
	t.Run("missing dir", func(t *testing.T) {
		_, err := LoadDirectory(filepath.Join(t.TempDir(), "nope"))
		assert.ErrorIs(t, err, ErrFileNotFound)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "bad.yaml", "templates: [unclosed")
		_, err := LoadDirectory(dir)
		assert.ErrorIs(t, err, ErrInvalidFile)
	})
}

func TestLoadSettings(t *testing.T) {
	t.Run("json-encoded values decode", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "settings.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
primary_color: "#1A2B3C"
feature_enabled: '{"rollout": true}'
max_rows: "25"
plain: hello
`), 0o644))

		settings, err := LoadSettings(path)
		require.NoError(t, err)

		assert.Equal(t, "#1A2B3C", settings["primary_color"])
		assert.Equal(t, map[string]any{"rollout": true}, settings["feature_enabled"])
		assert.Equal(t, float64(25), settings["max_rows"])
		assert.Equal(t, "hello", settings["plain"])
	})

	t.Run("missing file is empty settings", func(t *testing.T) {
		settings, err := LoadSettings(filepath.Join(t.TempDir(), "none.yaml"))
		require.NoError(t, err)
		assert.Empty(t, settings)
	})

	t.Run("empty path is empty settings", func(t *testing.T) {
		settings, err := LoadSettings("")
		require.NoError(t, err)
		assert.Empty(t, settings)
	})
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
