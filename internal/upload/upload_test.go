package upload

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildForm(t *testing.T, files map[string]string) *multipart.Form {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for field, content := range files {
		part, err := w.CreateFormFile(field, field+"-original.png")
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.WriteField("name", "Green Valley"))
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form
}

func newTestUploader(t *testing.T, maxSize int64) (*Uploader, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "uploads")
	storage, err := NewLocalStorage(dir)
	require.NoError(t, err)

	u := NewUploader(storage, maxSize, logrus.New())
	tick := int64(1700000000000000000)
	u.now = func() time.Time {
		tick++
		return time.Unix(0, tick)
	}
	return u, dir
}

func TestUploader_FileName(t *testing.T) {
	u, _ := newTestUploader(t, 1024)
	u.now = func() time.Time { return time.Unix(0, 1700000000000000000) }

	assert.Equal(t, "logo-1700000000000000000.jpg", u.FileName("logo", "my logo.jpg"))
	assert.Equal(t, "pdf1-1700000000000000000.pdf", u.FileName("pdf1", "brochure.pdf"))
	assert.Equal(t, "image-1700000000000000000", u.FileName("image", "noext"))
}

func TestUploader_Store(t *testing.T) {
	u, dir := newTestUploader(t, 1024)
	form := buildForm(t, map[string]string{"logo": "png-bytes"})

	p, err := u.Store(context.Background(), form.File["logo"][0], "logo")
	require.NoError(t, err)
	assert.Regexp(t, `^uploads/logo-\d+\.png$`, p)

	data, err := os.ReadFile(filepath.Join(dir, Key(p)))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestUploader_TooLarge(t *testing.T) {
	u, dir := newTestUploader(t, 4)
	form := buildForm(t, map[string]string{"image": "way too large"})

	_, err := u.Store(context.Background(), form.File["image"][0], "image")
	assert.ErrorIs(t, err, ErrFileTooLarge)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUploader_CollectChecksAllSizesFirst(t *testing.T) {
	u, dir := newTestUploader(t, 5)
	form := buildForm(t, map[string]string{
		"floorImg1": "ok",
		"floorImg2": "too large for the limit",
	})

	paths, err := u.Collect(context.Background(), form, []string{"floorImg1", "floorImg2"})
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Nil(t, paths)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing is persisted when one file is rejected")
}

func TestUploader_Collect(t *testing.T) {
	u, _ := newTestUploader(t, 1024)
	form := buildForm(t, map[string]string{"logo1": "a", "logo3": "c"})

	paths, err := u.Collect(context.Background(), form, []string{"logo1", "logo2", "logo3"})
	require.NoError(t, err)
	assert.Len(t, paths, 2)
	assert.Contains(t, paths, "logo1")
	assert.Contains(t, paths, "logo3")
	assert.NotContains(t, paths, "logo2")
}

func TestUploader_Optional(t *testing.T) {
	u, _ := newTestUploader(t, 1024)
	form := buildForm(t, map[string]string{"image": "new"})

	kept, err := u.Optional(context.Background(), form, "logo", "uploads/logo-1.png")
	require.NoError(t, err)
	assert.Equal(t, "uploads/logo-1.png", kept)

	replaced, err := u.Optional(context.Background(), form, "image", "uploads/image-1.png")
	require.NoError(t, err)
	assert.NotEqual(t, "uploads/image-1.png", replaced)
	assert.Regexp(t, `^uploads/image-\d+\.png$`, replaced)
}

func TestUploader_RetriesOnNameCollision(t *testing.T) {
	u, dir := newTestUploader(t, 1024)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "image-42.png"), []byte("old"), 0644))

	calls := 0
	u.now = func() time.Time {
		calls++
		return time.Unix(0, int64(41+calls))
	}

	form := buildForm(t, map[string]string{"image": "new"})
	p, err := u.Store(context.Background(), form.File["image"][0], "image")
	require.NoError(t, err)
	assert.Equal(t, "uploads/image-43.png", p)
}

func TestLocalStorage_Open(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, storage.Save(ctx, "pdf1-1.pdf", bytes.NewReader([]byte("%PDF")), 4, "application/pdf"))

	rc, size, err := storage.Open(ctx, "pdf1-1.pdf")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, int64(4), size)
	assert.Equal(t, "%PDF", string(data))

	_, _, err = storage.Open(ctx, "missing.pdf")
	assert.ErrorIs(t, err, ErrNotExist)

	_, _, err = storage.Open(ctx, "../etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidKey)

	err = storage.Save(ctx, "pdf1-1.pdf", bytes.NewReader(nil), 0, "")
	assert.ErrorIs(t, err, ErrExist)
}

func TestAbsoluteURL(t *testing.T) {
	tests := []struct {
		name   string
		scheme string
		host   string
		path   string
		want   string
	}{
		{"Relative path", "http", "example.com", "uploads/image-1.png", "http://example.com/uploads/image-1.png"},
		{"Backslashes", "http", "localhost:3000", `uploads\image-1.png`, "http://localhost:3000/uploads/image-1.png"},
		{"Leading slash", "https", "example.com", "/uploads/a.pdf", "https://example.com/uploads/a.pdf"},
		{"Already absolute", "http", "example.com", "https://cdn.example.com/a.png", "https://cdn.example.com/a.png"},
		{"Empty", "http", "example.com", "", ""},
		{"Default scheme", "", "example.com", "uploads/a.png", "http://example.com/uploads/a.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AbsoluteURL(tt.scheme, tt.host, tt.path))
		})
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "image-1.png", Key("uploads/image-1.png"))
	assert.Equal(t, "image-1.png", Key(`uploads\image-1.png`))
	assert.Equal(t, "image-1.png", Key("image-1.png"))
}

// failingStorage refuses keys with a given prefix and delegates everything else.
type failingStorage struct {
	*LocalStorage
	prefix string
}

func (s failingStorage) Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if strings.HasPrefix(key, s.prefix) {
		return errors.New("disk full")
	}
	return s.LocalStorage.Save(ctx, key, r, size, contentType)
}

func TestUploader_CollectDiscardsOnFailure(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	local, err := NewLocalStorage(dir)
	require.NoError(t, err)
	u := NewUploader(failingStorage{LocalStorage: local, prefix: "floorImg2-"}, 1024, logrus.New())

	form := buildForm(t, map[string]string{"image": "img", "floorImg2": "plan"})
	_, err = u.Collect(context.Background(), form, []string{"image", "floorImg2"})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "files stored before the failure are removed")
}

func TestUploader_Discard(t *testing.T) {
	u, dir := newTestUploader(t, 1024)
	form := buildForm(t, map[string]string{"image": "img", "logo": "png"})

	paths, err := u.Collect(context.Background(), form, []string{"image", "logo"})
	require.NoError(t, err)
	require.Len(t, paths, 2)

	u.Discard(context.Background(), paths["image"], "")
	_, err = os.Stat(filepath.Join(dir, Key(paths["image"])))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, Key(paths["logo"])))
	assert.NoError(t, err)

	u.DiscardAll(context.Background(), paths)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUploader_OnStored(t *testing.T) {
	u, _ := newTestUploader(t, 4)
	var fields []string
	u.OnStored(func(field string) { fields = append(fields, field) })

	form := buildForm(t, map[string]string{"logo": "png", "image": "too large"})
	_, err := u.Optional(context.Background(), form, "logo", "")
	require.NoError(t, err)
	_, err = u.Optional(context.Background(), form, "image", "")
	require.ErrorIs(t, err, ErrFileTooLarge)

	assert.Equal(t, []string{"logo"}, fields)
}

func TestLocalStorage_Delete(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, storage.Save(ctx, "logo-1.png", bytes.NewReader([]byte("png")), 3, "image/png"))
	require.NoError(t, storage.Delete(ctx, "logo-1.png"))

	_, _, err = storage.Open(ctx, "logo-1.png")
	assert.ErrorIs(t, err, ErrNotExist)

	assert.NoError(t, storage.Delete(ctx, "logo-1.png"), "deleting twice is fine")
	assert.ErrorIs(t, storage.Delete(ctx, "../x"), ErrInvalidKey)
}
