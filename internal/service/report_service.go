package service

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"leap_assessment_backend/internal/config"
	"leap_assessment_backend/internal/util"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageProvider abstracts where rendered report PDFs live.
type StorageProvider interface {
	Upload(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error
	Fetch(ctx context.Context, objectKey string) (io.ReadCloser, error)
	Delete(ctx context.Context, objectKey string) error
}

// LocalStorageProvider keeps report artifacts on local disk.
type LocalStorageProvider struct {
	Config *config.StorageConfig
}

func (p *LocalStorageProvider) Upload(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error {
	dst := filepath.Join(p.Config.LocalPath, objectKey)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, reader)
	return err
}

func (p *LocalStorageProvider) Fetch(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(p.Config.LocalPath, objectKey))
}

func (p *LocalStorageProvider) Delete(ctx context.Context, objectKey string) error {
	return os.Remove(filepath.Join(p.Config.LocalPath, objectKey))
}

// MinioStorageProvider keeps report artifacts in a MinIO bucket.
type MinioStorageProvider struct {
	Config *config.StorageConfig
	Client *minio.Client
}

func NewMinioStorageProvider(cfg *config.StorageConfig) (*MinioStorageProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: false,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStorageProvider{Config: cfg, Client: client}, nil
}

func (p *MinioStorageProvider) Upload(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error {
	_, err := p.Client.PutObject(ctx, p.Config.MinioBucket, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (p *MinioStorageProvider) Fetch(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	return p.Client.GetObject(ctx, p.Config.MinioBucket, objectKey, minio.GetObjectOptions{})
}

func (p *MinioStorageProvider) Delete(ctx context.Context, objectKey string) error {
	return p.Client.RemoveObject(ctx, p.Config.MinioBucket, objectKey, minio.RemoveObjectOptions{})
}

// ReportWriter is the slice of the response repository the report service
// needs beyond reads.
type ReportWriter interface {
	SetReportObject(id, objectKey string) error
}

// ReportService stores and serves the externally rendered PDF report of a
// response. Rendering itself happens outside this service; access control
// reuses the result gate.
type ReportService struct {
	Provider StorageProvider
	Results  *ResultService
	Writer   ReportWriter
}

func NewReportService(cfg *config.Config, results *ResultService, writer ReportWriter) *ReportService {
	var provider StorageProvider
	if cfg.Storage.Type == util.StorageMinio {
		p, err := NewMinioStorageProvider(&cfg.Storage)
		if err == nil {
			provider = p
		}
	}
	if provider == nil {
		provider = &LocalStorageProvider{Config: &cfg.Storage}
	}

	return &ReportService{
		Provider: provider,
		Results:  results,
		Writer:   writer,
	}
}

func reportObjectKey(responseID string) string {
	return "reports/" + responseID + ".pdf"
}

// StoreReport attaches a rendered PDF to an existing response.
func (s *ReportService) StoreReport(ctx context.Context, responseID string, reader io.Reader, size int64) error {
	resp, err := s.Results.Responses.FindByID(responseID)
	if err != nil {
		return util.ErrResponseNotFound
	}

	key := reportObjectKey(resp.ID)
	if err := s.Provider.Upload(ctx, key, reader, size, util.MimePDF); err != nil {
		return err
	}
	return s.Writer.SetReportObject(resp.ID, key)
}

// FetchReport streams the stored PDF, subject to the same access decision as
// the result itself.
func (s *ReportService) FetchReport(ctx context.Context, responseID string, claims *util.Claims, clientAddr string) (io.ReadCloser, error) {
	resp, err := s.Results.GetResponse(ctx, responseID, claims, clientAddr)
	if err != nil {
		return nil, err
	}
	if resp.ReportObject == "" {
		return nil, util.ErrReportNotAvailable
	}

	rc, err := s.Provider.Fetch(ctx, resp.ReportObject)
	if err != nil {
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			return nil, util.ErrReportNotAvailable
		}
		return nil, err
	}
	return rc, nil
}
