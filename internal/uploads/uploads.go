// Package uploads stores the images attached to admin records.
package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/01moynul/taptosell-admin/internal/models"
)

const (
	// MaxFiles is the most images accepted in one form submission.
	MaxFiles = 10
	// MaxFileSize is the largest accepted image, in bytes.
	MaxFileSize = 5 << 20
)

var (
	ErrTooManyFiles = fmt.Errorf("at most %d images may be uploaded at once", MaxFiles)
	ErrFileTooLarge = fmt.Errorf("images must be %d MiB or smaller", MaxFileSize>>20)
	ErrNotAnImage   = errors.New("only image files may be uploaded")
)

// ImageStore saves image bytes somewhere publicly reachable.
type ImageStore interface {
	// Save stores the content under name and returns its public URL.
	Save(ctx context.Context, name, contentType string, r io.Reader) (string, error)
	// Delete removes a previously saved image by its public URL.
	Delete(ctx context.Context, url string) error
}

// NewFilename returns a collision-free object name keeping the extension of
// the uploaded file (uuid + extension).
func NewFilename(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return uuid.New().String() + ext
}

// SaveAll validates and stores every file of a multipart form field, in order.
// If one file fails, the ones already stored are removed again.
func SaveAll(ctx context.Context, store ImageStore, files []*multipart.FileHeader) (models.ImageList, error) {
	if len(files) > MaxFiles {
		return nil, ErrTooManyFiles
	}

	urls := make(models.ImageList, 0, len(files))
	for _, fh := range files {
		url, err := saveOne(ctx, store, fh)
		if err != nil {
			if rbErr := DeleteAll(ctx, store, urls); rbErr != nil {
				return nil, errors.Join(err, fmt.Errorf("roll back uploads: %w", rbErr))
			}
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func saveOne(ctx context.Context, store ImageStore, fh *multipart.FileHeader) (string, error) {
	if fh.Size > MaxFileSize {
		return "", fmt.Errorf("%s: %w", fh.Filename, ErrFileTooLarge)
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return "", fmt.Errorf("detect type of %s: %w", fh.Filename, err)
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", fmt.Errorf("%s: %w", fh.Filename, ErrNotAnImage)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload %s: %w", fh.Filename, err)
	}

	ext := filepath.Ext(fh.Filename)
	if ext == "" {
		ext = mtype.Extension()
	}
	return store.Save(ctx, NewFilename("upload"+ext), mtype.String(), f)
}

// DeleteAll removes every image in urls, collecting failures.
func DeleteAll(ctx context.Context, store ImageStore, urls []string) error {
	var errs []error
	for _, url := range urls {
		if err := store.Delete(ctx, url); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
