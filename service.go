package galleria

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/google/uuid"
)

// ImageStorage defines the interface for the flat directory that holds the
// gallery. The directory listing is the index: there is no other metadata.
//
// All methods accept a context for cancellation. Names are plain file names
// without directory components.
type ImageStorage interface {
	// Get opens a stored file for reading.
	//
	// Returns ErrNotFound if the file does not exist. The caller is
	// responsible for closing the returned ReadSeekCloser.
	Get(ctx context.Context, name string) (io.ReadSeekCloser, error)

	// Write stores content under name, replacing any existing file.
	//
	// Implementations must never expose a partially written file to readers,
	// e.g. by writing to a temp file and renaming it into place.
	Write(ctx context.Context, name string, content io.Reader) (SaveResult, error)

	// Delete removes a stored file.
	//
	// Returns ErrNotFound if the file does not exist.
	Delete(ctx context.Context, name string) error

	// List returns the names of the regular files in storage, in no
	// particular order. In-flight temp files are not included.
	List(ctx context.Context) ([]string, error)
}

type GalleryService struct {
	storage   ImageStorage
	validator *Validator
	digest    Digest
}

// ServiceConfig holds configuration options for GalleryService.
type ServiceConfig struct {
	Digest    Digest // Content id hash (default: md5)
	Validator ValidatorConfig
}

func NewGalleryService(storage ImageStorage, cfg ServiceConfig) (*GalleryService, error) {
	digest := cfg.Digest
	if digest == "" {
		digest = DigestMD5
	}
	if !digest.IsValid() {
		return nil, fmt.Errorf("new gallery service: invalid digest: %s", digest)
	}
	return &GalleryService{
		storage:   storage,
		validator: NewValidator(cfg.Validator),
		digest:    digest,
	}, nil
}

// Ingest runs an upload through the write path: validate, canonicalize,
// derive the content id, store.
//
// Rejections match ErrInvalidInput (see RejectionReason) and leave storage
// untouched. Uploading content that is already stored rewrites the same
// file with identical bytes and reports Replaced.
func (s *GalleryService) Ingest(ctx context.Context, filename string, data []byte) (IngestResult, error) {
	if err := ctx.Err(); err != nil {
		return IngestResult{}, fmt.Errorf("ingest: %w", err)
	}

	format, err := s.validator.Validate(filename, data)
	if err != nil {
		return IngestResult{}, fmt.Errorf("ingest: %w", err)
	}

	canonical, err := Canonicalize(data)
	if err != nil {
		return IngestResult{}, fmt.Errorf("ingest %q: %w", filename, err)
	}

	id := s.digest.ContentID(canonical)
	name := FileName(id)

	saveResult, err := s.storage.Write(ctx, name, bytes.NewReader(canonical))
	if err != nil {
		return IngestResult{}, fmt.Errorf("ingest %q: write %s: %w", filename, name, err)
	}

	slog.Debug("image stored",
		"id", id, "source", filename, "format", format,
		"bytes", saveResult.BytesWritten, "replaced", saveResult.Replaced)

	return IngestResult{
		ID:       id,
		Format:   format,
		Size:     saveResult.BytesWritten,
		Replaced: saveResult.Replaced,
	}, nil
}

// ContentID returns the id the service assigns to canonical bytes.
func (s *GalleryService) ContentID(canonical []byte) uuid.UUID {
	return s.digest.ContentID(canonical)
}

// ListIDs returns every stored content id, sorted ascending.
func (s *GalleryService) ListIDs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list ids: %w", err)
	}

	names, err := s.storage.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ids: %w", err)
	}

	ids := make([]string, 0, len(names))
	for _, name := range names {
		if id, ok := idFromFileName(name); ok {
			ids = append(ids, id)
		}
	}

	slices.Sort(ids)
	return ids, nil
}

// ListPage lays out one gallery page. rawPage is the unparsed page query
// value; malformed or out of range values are clamped, never rejected.
func (s *GalleryService) ListPage(ctx context.Context, rawPage string) (Page, error) {
	ids, err := s.ListIDs(ctx)
	if err != nil {
		return Page{}, fmt.Errorf("list page: %w", err)
	}

	return Paginate(ids, ParsePage(rawPage)), nil
}

// Open returns the stored image for id. Returns ErrNotFound if there is none.
func (s *GalleryService) Open(ctx context.Context, id uuid.UUID) (io.ReadSeekCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}

	f, err := s.storage.Get(ctx, FileName(id))
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", id, err)
	}

	return f, nil
}

// Delete removes the images named by ids and returns how many were removed.
//
// Every id is passed through SanitizeID before it is used as a file name.
// Ids that sanitize to nothing or have no stored image are skipped. Any
// other storage error stops the batch; the count so far is returned with it.
func (s *GalleryService) Delete(ctx context.Context, ids []string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("delete images: %w", err)
	}

	deleted := 0
	for _, raw := range ids {
		safe := SanitizeID(raw)
		if safe == "" {
			continue
		}

		err := s.storage.Delete(ctx, safe+CanonicalExt)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return deleted, fmt.Errorf("delete image %s: %w", safe, err)
		}

		deleted++
	}

	return deleted, nil
}
