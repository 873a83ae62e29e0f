package services

import (
	"context"
	"io"
	"net/url"

	"github.com/dmitrijs2005/gophadmin/internal/client/client"
	"github.com/dmitrijs2005/gophadmin/internal/models"
)

// FileField is the multipart field the backend reads uploads from.
const FileField = "arquivo"

type FileService interface {
	Upload(ctx context.Context, name string, r io.Reader) (*models.StoredFile, error)
	Download(ctx context.Context, key string) ([]byte, error)
}

type fileService struct {
	gw Gateway
}

func NewFileService(gw Gateway) FileService {
	return &fileService{gw: gw}
}

func (s *fileService) Upload(ctx context.Context, name string, r io.Reader) (*models.StoredFile, error) {
	var f models.StoredFile
	if err := s.gw.Upload(ctx, "arquivos", FileField, name, r, &f); err != nil {
		return nil, client.NewUserError(err)
	}
	return &f, nil
}

func (s *fileService) Download(ctx context.Context, key string) ([]byte, error) {
	data, err := s.gw.Download(ctx, "arquivos/"+url.PathEscape(key))
	if err != nil {
		return nil, client.NewUserError(err)
	}
	return data, nil
}
