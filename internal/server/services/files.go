package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/gophadmin/internal/logging"
	"github.com/dmitrijs2005/gophadmin/internal/models"
	srvmodels "github.com/dmitrijs2005/gophadmin/internal/server/models"
	"github.com/dmitrijs2005/gophadmin/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophadmin/internal/server/storage"
)

const defaultContentType = "application/octet-stream"

type FileService struct {
	db          DB
	repomanager repomanager.RepositoryManager
	blobs       storage.BlobStore
	log         logging.Logger
	now         func() time.Time
}

func NewFileService(db DB, m repomanager.RepositoryManager, blobs storage.BlobStore, log logging.Logger) *FileService {
	return &FileService{db: db, repomanager: m, blobs: blobs, log: log, now: time.Now}
}

func toStored(f *srvmodels.File) *models.StoredFile {
	return &models.StoredFile{Key: f.Key, Name: f.Name, Size: f.Size, ContentType: f.ContentType}
}

// Upload writes the blob first and records its metadata afterwards, so a
// metadata row always points at existing bytes.
func (s *FileService) Upload(ctx context.Context, ownerID int64, name, contentType string, r io.Reader, size int64) (*models.StoredFile, error) {
	if contentType == "" {
		contentType = defaultContentType
	}
	f := &srvmodels.File{
		Key:         storage.NewKey(s.now()),
		Name:        name,
		Size:        size,
		ContentType: contentType,
		OwnerID:     ownerID,
	}

	if err := s.blobs.Put(ctx, f.Key, r, size, contentType); err != nil {
		return nil, fmt.Errorf("upload %q: %w", name, err)
	}
	if err := s.repomanager.Files(s.db).Create(ctx, f); err != nil {
		return nil, fmt.Errorf("record %q: %w", name, err)
	}

	s.log.Info(ctx, "file uploaded", "key", f.Key, "size", size, "user_id", ownerID)
	return toStored(f), nil
}

// Download opens the blob stored under key. The caller closes the reader.
func (s *FileService) Download(ctx context.Context, key string) (io.ReadCloser, *models.StoredFile, error) {
	f, err := s.repomanager.Files(s.db).Get(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.blobs.Get(ctx, key)
	if err != nil {
		return nil, nil, fmt.Errorf("download %s: %w", key, err)
	}
	return rc, toStored(f), nil
}
