package galleria_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/galleria"
	"github.com/sagarc03/galleria/filesystem"
)

type SpyImageStorage struct {
	mock.Mock
}

func (s *SpyImageStorage) Get(ctx context.Context, name string) (io.ReadSeekCloser, error) {
	args := s.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadSeekCloser), args.Error(1)
}

func (s *SpyImageStorage) Write(ctx context.Context, name string, content io.Reader) (galleria.SaveResult, error) {
	args := s.Called(ctx, name, content)
	return args.Get(0).(galleria.SaveResult), args.Error(1)
}

func (s *SpyImageStorage) Delete(ctx context.Context, name string) error {
	args := s.Called(ctx, name)
	return args.Error(0)
}

func (s *SpyImageStorage) List(ctx context.Context) ([]string, error) {
	args := s.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// newDiskService returns a service over a real store in a temp directory.
func newDiskService(t *testing.T, cfg galleria.ServiceConfig) (*galleria.GalleryService, string) {
	t.Helper()

	dir := t.TempDir()
	root, err := os.OpenRoot(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = root.Close() })

	service, err := galleria.NewGalleryService(filesystem.NewFileStorage(root), cfg)
	require.NoError(t, err)
	return service, dir
}

func dirNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestNewGalleryService_InvalidDigest(t *testing.T) {
	_, err := galleria.NewGalleryService(new(SpyImageStorage), galleria.ServiceConfig{Digest: "sha1"})
	assert.Error(t, err)
}

func TestGalleryService_Ingest(t *testing.T) {
	service, dir := newDiskService(t, galleria.ServiceConfig{})
	ctx := context.Background()

	data := encodeJPEG(t, gradient(10, 10))
	result, err := service.Ingest(ctx, "holiday.JPG", data)
	require.NoError(t, err)

	assert.Equal(t, galleria.Format("jpeg"), result.Format)
	assert.False(t, result.Replaced)
	assert.Equal(t, []string{galleria.FileName(result.ID)}, dirNames(t, dir))

	stored, err := os.ReadFile(filepath.Join(dir, galleria.FileName(result.ID)))
	require.NoError(t, err)
	assert.Equal(t, int64(len(stored)), result.Size)

	// the id is the digest of exactly the stored bytes
	assert.Equal(t, result.ID, service.ContentID(stored))
	assert.Equal(t, result.ID, galleria.DigestMD5.ContentID(stored))

	canonical, err := galleria.Canonicalize(data)
	require.NoError(t, err)
	assert.Equal(t, canonical, stored)
}

func TestGalleryService_Ingest_Idempotent(t *testing.T) {
	service, dir := newDiskService(t, galleria.ServiceConfig{Digest: galleria.DigestBLAKE2b})
	ctx := context.Background()

	data := encodePNG(t, gradient(6, 6))

	first, err := service.Ingest(ctx, "a.png", data)
	require.NoError(t, err)
	second, err := service.Ingest(ctx, "renamed-copy.png", data)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.False(t, first.Replaced)
	assert.True(t, second.Replaced)
	assert.Len(t, dirNames(t, dir), 1)
	assert.Equal(t, galleria.DigestBLAKE2b.ContentID(mustRead(t, dir, first.ID)), first.ID)
}

func TestGalleryService_Ingest_SamePixelsDifferentMetadata(t *testing.T) {
	service, dir := newDiskService(t, galleria.ServiceConfig{})
	ctx := context.Background()

	plain := encodePNG(t, gradient(5, 5))
	tagged := withTextChunk(t, plain, "Author", "someone")

	a, err := service.Ingest(ctx, "a.png", plain)
	require.NoError(t, err)
	b, err := service.Ingest(ctx, "b.png", tagged)
	require.NoError(t, err)

	assert.Equal(t, a.ID, b.ID)
	assert.Len(t, dirNames(t, dir), 1)
}

func TestGalleryService_Ingest_Rejections(t *testing.T) {
	service, dir := newDiskService(t, galleria.ServiceConfig{})
	ctx := context.Background()

	valid := encodePNG(t, gradient(8, 8))

	tests := []struct {
		name     string
		filename string
		data     []byte
		want     error
	}{
		{"bad extension", "x.svg", valid, galleria.ErrExtensionNotAllowed},
		{"not an image", "x.png", []byte("hello"), galleria.ErrInvalidImage},
		// header is fine, pixel data is cut off: passes validation, fails decoding
		{"truncated body", "x.png", valid[:60], galleria.ErrInvalidImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Ingest(ctx, tt.filename, tt.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			_, ok := galleria.RejectionReason(err)
			assert.True(t, ok)
		})
	}

	assert.Empty(t, dirNames(t, dir))
}

func TestGalleryService_Ingest_StorageError(t *testing.T) {
	storage := new(SpyImageStorage)
	service, err := galleria.NewGalleryService(storage, galleria.ServiceConfig{})
	require.NoError(t, err)

	storage.On("Write", mock.Anything, mock.Anything, mock.Anything).
		Return(galleria.SaveResult{}, errors.New("disk full"))

	_, err = service.Ingest(context.Background(), "a.png", encodePNG(t, gradient(2, 2)))
	require.Error(t, err)

	_, ok := galleria.RejectionReason(err)
	assert.False(t, ok)
	storage.AssertExpectations(t)
}

func TestGalleryService_Ingest_ContextCanceled(t *testing.T) {
	storage := new(SpyImageStorage)
	service, err := galleria.NewGalleryService(storage, galleria.ServiceConfig{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = service.Ingest(ctx, "a.png", encodePNG(t, gradient(2, 2)))
	assert.ErrorIs(t, err, context.Canceled)
	storage.AssertNotCalled(t, "Write", mock.Anything, mock.Anything, mock.Anything)
}

func TestGalleryService_ListIDs(t *testing.T) {
	storage := new(SpyImageStorage)
	service, err := galleria.NewGalleryService(storage, galleria.ServiceConfig{})
	require.NoError(t, err)

	storage.On("List", mock.Anything).Return([]string{
		"b-id.png", "readme.txt", "a-id.png", ".png", "c-id.PNG",
	}, nil)

	ids, err := service.ListIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a-id", "b-id"}, ids)
}

func TestGalleryService_ListPage(t *testing.T) {
	service, _ := newDiskService(t, galleria.ServiceConfig{})
	ctx := context.Background()

	empty, err := service.ListPage(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 1, empty.TotalPages)
	assert.Empty(t, empty.IDs())

	var ids []string
	for i := range 10 {
		img := gradient(3, 3)
		img.Pix[0] = uint8(i)
		res, err := service.Ingest(ctx, "img.png", encodePNG(t, img))
		require.NoError(t, err)
		ids = append(ids, res.ID.String())
	}

	first, err := service.ListPage(ctx, "1")
	require.NoError(t, err)
	second, err := service.ListPage(ctx, "2")
	require.NoError(t, err)
	clamped, err := service.ListPage(ctx, "50")
	require.NoError(t, err)

	assert.Len(t, first.IDs(), 9)
	assert.Len(t, second.IDs(), 1)
	assert.Equal(t, second, clamped)
	assert.ElementsMatch(t, ids, append(first.IDs(), second.IDs()...))
}

func TestGalleryService_ListPage_StorageError(t *testing.T) {
	storage := new(SpyImageStorage)
	service, err := galleria.NewGalleryService(storage, galleria.ServiceConfig{})
	require.NoError(t, err)

	storage.On("List", mock.Anything).Return(nil, errors.New("io error"))

	_, err = service.ListPage(context.Background(), "1")
	assert.Error(t, err)
}

func TestGalleryService_Open(t *testing.T) {
	service, _ := newDiskService(t, galleria.ServiceConfig{})
	ctx := context.Background()

	res, err := service.Ingest(ctx, "a.gif", encodeGIF(t, gradient(4, 4)))
	require.NoError(t, err)

	rc, err := service.Open(ctx, res.ID)
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, res.ID, service.ContentID(data))

	_, err = service.Open(ctx, uuid.New())
	assert.ErrorIs(t, err, galleria.ErrNotFound)
}

func TestGalleryService_Delete(t *testing.T) {
	service, dir := newDiskService(t, galleria.ServiceConfig{})
	ctx := context.Background()

	a, err := service.Ingest(ctx, "a.png", encodePNG(t, gradient(2, 2)))
	require.NoError(t, err)
	b, err := service.Ingest(ctx, "b.png", encodePNG(t, gradient(3, 3)))
	require.NoError(t, err)

	// a file outside the naming scheme must survive a traversal attempt
	require.NoError(t, os.WriteFile(filepath.Join(dir, "etc_passwd.txt"), []byte("x"), 0o644))

	deleted, err := service.Delete(ctx, []string{
		a.ID.String(),
		uuid.New().String(), // never stored
		"../../etc/passwd",
		"",
		a.ID.String(), // already gone
	})
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	assert.ElementsMatch(t, []string{galleria.FileName(b.ID), "etc_passwd.txt"}, dirNames(t, dir))
}

func TestGalleryService_Delete_Missing(t *testing.T) {
	service, _ := newDiskService(t, galleria.ServiceConfig{})

	deleted, err := service.Delete(context.Background(), []string{uuid.New().String()})
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestGalleryService_Delete_SanitizesBeforeStorage(t *testing.T) {
	storage := new(SpyImageStorage)
	service, err := galleria.NewGalleryService(storage, galleria.ServiceConfig{})
	require.NoError(t, err)

	storage.On("Delete", mock.Anything, "etc_passwd.png").Return(galleria.ErrNotFound)
	storage.On("Delete", mock.Anything, "a_b_c.png").Return(galleria.ErrNotFound)
	storage.On("Delete", mock.Anything, "abc.png").Return(nil)

	deleted, err := service.Delete(context.Background(), []string{"../../etc/passwd", "a/b/c", "///", "abc"})
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	storage.AssertNotCalled(t, "Delete", mock.Anything, ".png")
}

func TestGalleryService_Delete_StopsOnStorageError(t *testing.T) {
	storage := new(SpyImageStorage)
	service, err := galleria.NewGalleryService(storage, galleria.ServiceConfig{})
	require.NoError(t, err)

	storage.On("Delete", mock.Anything, "one.png").Return(nil)
	storage.On("Delete", mock.Anything, "two.png").Return(errors.New("permission denied"))

	deleted, err := service.Delete(context.Background(), []string{"one", "two", "three"})
	require.Error(t, err)
	assert.Equal(t, 1, deleted)
	storage.AssertNotCalled(t, "Delete", mock.Anything, "three.png")
}

func mustRead(t *testing.T, dir string, id uuid.UUID) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, galleria.FileName(id)))
	require.NoError(t, err)
	return bytes.Clone(data)
}
