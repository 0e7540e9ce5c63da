package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/go-playground/validator/v10"

	"github.com/i474232898/temperature-capture/internal/weather"
)

var validate = validator.New()

// AzureConfig locates the target container.
type AzureConfig struct {
	ConnectionString string `validate:"required"`
	Container        string `validate:"required"`
}

// AzureBlobStore writes objects as block blobs into one container.
// The client is built on first use so missing settings surface from Put.
type AzureBlobStore struct {
	cfg AzureConfig

	once    sync.Once
	client  *azblob.Client
	initErr error
}

// NewAzureBlobStore creates a store for cfg.Container.
func NewAzureBlobStore(cfg AzureConfig) *AzureBlobStore {
	return &AzureBlobStore{cfg: cfg}
}

func (s *AzureBlobStore) init() error {
	s.once.Do(func() {
		if err := validate.Struct(s.cfg); err != nil {
			s.initErr = fmt.Errorf("%w: azure storage: %w", weather.ErrConfiguration, err)
			return
		}
		client, err := azblob.NewClientFromConnectionString(s.cfg.ConnectionString, nil)
		if err != nil {
			s.initErr = fmt.Errorf("%w: azure connection string: %w", weather.ErrConfiguration, err)
			return
		}
		s.client = client
	})
	return s.initErr
}

// Put uploads data to path. Block blob uploads replace an existing blob.
func (s *AzureBlobStore) Put(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if s.cfg.Container == "" {
		return "", fmt.Errorf("%w: azure container name is not set", weather.ErrConfiguration)
	}
	if err := s.init(); err != nil {
		return "", err
	}

	_, err := s.client.UploadBuffer(ctx, s.cfg.Container, path, data, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: to.Ptr(contentType),
		},
	})
	if err != nil {
		return "", fmt.Errorf("upload %s/%s: %w", s.cfg.Container, path, err)
	}
	return path, nil
}
