package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	apperrors "github.com/anime-shed/thumbnail-inspector-go/internal/errors"
)

const blobHostSuffix = ".blob.core.windows.net"

// blobDownloader is the slice of *azblob.Client the fetcher needs
type blobDownloader interface {
	DownloadStream(ctx context.Context, containerName string, blobName string, o *azblob.DownloadStreamOptions) (azblob.DownloadStreamResponse, error)
}

// AzureBlobFetcher implements Fetcher for blobs in one storage account
type AzureBlobFetcher struct {
	account  string
	client   blobDownloader
	maxBytes int64
}

// NewAzureBlobFetcher authenticates with a shared key against
// https://<account>.blob.core.windows.net
func NewAzureBlobFetcher(accountName, accountKey string) (*AzureBlobFetcher, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("azure credential: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s%s", accountName, blobHostSuffix),
		credential,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("azure client: %w", err)
	}

	return &AzureBlobFetcher{account: accountName, client: client, maxBytes: DefaultMaxBytes}, nil
}

// Account returns the storage account the fetcher is bound to
func (s *AzureBlobFetcher) Account() string {
	return s.account
}

// Fetch downloads the blob addressed by
// https://<account>.blob.core.windows.net/<container>/<blob>
func (s *AzureBlobFetcher) Fetch(ctx context.Context, blobURL string) ([]byte, error) {
	ref, err := ParseBlobURL(blobURL)
	if err != nil {
		return nil, err
	}
	if ref.Account != s.account {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("blob account %q is not configured", ref.Account), nil)
	}

	resp, err := s.client.DownloadStream(ctx, ref.Container, ref.Blob, nil)
	if err != nil {
		return nil, apperrors.NewNetworkError("blob download failed", err)
	}
	defer resp.Body.Close()

	return readCapped(resp.Body, s.maxBytes)
}

// BlobRef names one blob
type BlobRef struct {
	Account   string
	Container string
	Blob      string
}

// IsBlobURL reports whether rawURL points at an Azure Blob endpoint
func IsBlobURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.HasSuffix(strings.ToLower(u.Hostname()), blobHostSuffix)
}

// ParseBlobURL splits a blob URL into account, container and blob name.
// Blob names may contain slashes.
func ParseBlobURL(rawURL string) (BlobRef, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return BlobRef{}, apperrors.NewValidationError("invalid blob URL", err)
	}

	host := strings.ToLower(u.Hostname())
	if !strings.HasSuffix(host, blobHostSuffix) {
		return BlobRef{}, apperrors.NewValidationError("not an Azure Blob URL", nil)
	}
	account := strings.TrimSuffix(host, blobHostSuffix)

	container, blob, ok := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
	if !ok || container == "" || blob == "" {
		return BlobRef{}, apperrors.NewValidationError("blob URL must name a container and a blob", nil)
	}

	return BlobRef{Account: account, Container: container, Blob: blob}, nil
}
