package service

import (
	"image"
	"net/url"
	"path"

	"github.com/corona10/goimagehash"

	"github.com/anime-shed/thumbnail-inspector-go/internal/store"
)

type hashRef = *goimagehash.ImageHash

// hash returns nil for undecoded images or when hashing fails
func (s *thumbnailService) hash(img image.Image) hashRef {
	if img == nil {
		return nil
	}
	h, err := store.PerceptualHash(img)
	if err != nil {
		s.log.WithError(err).Warn("Perceptual hash failed")
		return nil
	}
	return h
}

// fileNameOf uses the last path segment of a source URL
func fileNameOf(sourceURL string) string {
	u, err := url.Parse(sourceURL)
	if err != nil {
		return ""
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return ""
	}
	return name
}
