package store

import "errors"

var (
	// ErrThumbnailNotFound indicates no thumbnail has the requested ID
	ErrThumbnailNotFound = errors.New("thumbnail not found")

	// ErrStoreFull indicates the store already holds its limit of thumbnails
	ErrStoreFull = errors.New("thumbnail limit reached")

	// ErrUnsupportedLanguage indicates a language code outside the supported set
	ErrUnsupportedLanguage = errors.New("unsupported language")
)
