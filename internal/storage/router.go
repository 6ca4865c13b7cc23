package storage

import "context"

// Router picks the Azure fetcher for blob URLs of the configured account
// and the HTTP fetcher for everything else.
type Router struct {
	http Fetcher
	blob *AzureBlobFetcher
}

// NewRouter creates a router. blob may be nil when Azure is not configured.
func NewRouter(httpFetcher Fetcher, blob *AzureBlobFetcher) *Router {
	return &Router{http: httpFetcher, blob: blob}
}

// Fetch implements Fetcher
func (r *Router) Fetch(ctx context.Context, sourceURL string) ([]byte, error) {
	return r.route(sourceURL).Fetch(ctx, sourceURL)
}

func (r *Router) route(sourceURL string) Fetcher {
	if r.blob != nil && IsBlobURL(sourceURL) {
		if ref, err := ParseBlobURL(sourceURL); err == nil && ref.Account == r.blob.Account() {
			return r.blob
		}
	}
	return r.http
}
