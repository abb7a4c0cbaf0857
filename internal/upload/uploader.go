package upload

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Prefix is the leading element of every stored upload path.
const Prefix = "uploads"

var ErrFileTooLarge = errors.New("file too large")

// Uploader names and stores the files of multipart forms. Records keep the returned
// relative path; absolute URLs are derived when rendering.
type Uploader struct {
	storage Storage
	maxSize int64
	now     func() time.Time
	logger  *logrus.Logger
	stored  func(field string)
}

func NewUploader(storage Storage, maxSize int64, logger *logrus.Logger) *Uploader {
	return &Uploader{
		storage: storage,
		maxSize: maxSize,
		now:     time.Now,
		logger:  logger,
	}
}

// OnStored registers fn to run after every file written by Store.
func (u *Uploader) OnStored(fn func(field string)) {
	u.stored = fn
}

func (u *Uploader) MaxSize() int64 {
	return u.maxSize
}

// FileName returns "<field>-<unix nanos><ext>".
func (u *Uploader) FileName(field, original string) string {
	return field + "-" + strconv.FormatInt(u.now().UnixNano(), 10) + filepath.Ext(original)
}

func (u *Uploader) check(fh *multipart.FileHeader) error {
	if fh.Size > u.maxSize {
		return fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrFileTooLarge, fh.Filename, fh.Size, u.maxSize)
	}
	return nil
}

// Store persists one file and returns its relative path, e.g. "uploads/image-1700000000000000000.png".
func (u *Uploader) Store(ctx context.Context, fh *multipart.FileHeader, field string) (string, error) {
	if err := u.check(fh); err != nil {
		return "", err
	}

	contentType := fh.Header.Get("Content-Type")
	for attempt := 0; ; attempt++ {
		name := u.FileName(field, fh.Filename)

		f, err := fh.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open uploaded file: %w", err)
		}
		err = u.storage.Save(ctx, name, f, fh.Size, contentType)
		f.Close()

		// Two requests can land on the same nanosecond for the same field
		if errors.Is(err, ErrExist) && attempt < 3 {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to store %s: %w", field, err)
		}

		u.logger.WithFields(logrus.Fields{
			"field": field,
			"file":  name,
			"size":  fh.Size,
		}).Debug("Stored upload")
		if u.stored != nil {
			u.stored(field)
		}
		return path.Join(Prefix, name), nil
	}
}

// Collect stores the first file of each named field present in the form. Sizes are
// checked for every field before anything is written.
func (u *Uploader) Collect(ctx context.Context, form *multipart.Form, fields []string) (map[string]string, error) {
	paths := make(map[string]string)
	if form == nil {
		return paths, nil
	}

	for _, field := range fields {
		if fh := first(form, field); fh != nil {
			if err := u.check(fh); err != nil {
				return nil, err
			}
		}
	}

	for _, field := range fields {
		fh := first(form, field)
		if fh == nil {
			continue
		}
		p, err := u.Store(ctx, fh, field)
		if err != nil {
			u.DiscardAll(ctx, paths)
			return nil, err
		}
		paths[field] = p
	}
	return paths, nil
}

// Discard deletes stored uploads by their relative paths. Failures are logged, not
// returned: callers discard while already handling another error.
func (u *Uploader) Discard(ctx context.Context, paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := u.storage.Delete(ctx, Key(p)); err != nil {
			u.logger.WithError(err).WithField("path", p).Warn("Failed to discard upload")
		}
	}
}

// DiscardAll deletes every upload returned by Collect.
func (u *Uploader) DiscardAll(ctx context.Context, paths map[string]string) {
	for _, p := range paths {
		u.Discard(ctx, p)
	}
}

// Optional stores field when the form carries it and returns existing otherwise.
func (u *Uploader) Optional(ctx context.Context, form *multipart.Form, field, existing string) (string, error) {
	fh := first(form, field)
	if fh == nil {
		return existing, nil
	}
	return u.Store(ctx, fh, field)
}

// Storage is the backend uploads are written to; routes serve files from it.
func (u *Uploader) Storage() Storage {
	return u.storage
}

func first(form *multipart.Form, field string) *multipart.FileHeader {
	if form == nil {
		return nil
	}
	files := form.File[field]
	if len(files) == 0 || files[0] == nil || files[0].Filename == "" {
		return nil
	}
	return files[0]
}

// Key strips the uploads prefix from a stored path.
func Key(p string) string {
	p = strings.TrimLeft(strings.ReplaceAll(p, `\`, "/"), "/")
	return strings.TrimPrefix(p, Prefix+"/")
}

// AbsoluteURL derives the public URL of a stored relative path. Paths that already
// carry a scheme are returned unchanged.
func AbsoluteURL(scheme, host, p string) string {
	if p == "" {
		return ""
	}
	if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return p
	}
	if scheme == "" {
		scheme = "http"
	}
	p = strings.TrimLeft(strings.ReplaceAll(p, `\`, "/"), "/")
	return scheme + "://" + host + "/" + p
}
