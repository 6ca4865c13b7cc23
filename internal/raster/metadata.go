package raster

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/bep/imagemeta"
)

// Metadata holds the handful of embedded tags worth surfacing next to a thumbnail
type Metadata struct {
	Orientation string `json:"orientation,omitempty"`
	Software    string `json:"software,omitempty"`
	Artist      string `json:"artist,omitempty"`
	Copyright   string `json:"copyright,omitempty"`
	DateTaken   string `json:"date_taken,omitempty"`
	Creator     string `json:"creator,omitempty"`
	Credit      string `json:"credit,omitempty"`
}

var metadataTags = map[imagemeta.Source]map[string]bool{
	imagemeta.EXIF: {
		"Orientation":      true,
		"Software":         true,
		"Artist":           true,
		"Copyright":        true,
		"DateTimeOriginal": true,
	},
	imagemeta.IPTC: {
		"Credit": true,
		"Byline": true,
	},
	imagemeta.XMP: {
		"Creator": true,
	},
}

var metadataFormats = map[string]imagemeta.ImageFormat{
	"jpeg": imagemeta.JPEG,
	"png":  imagemeta.PNG,
	"webp": imagemeta.WebP,
	"tiff": imagemeta.TIFF,
}

// ExtractMetadata reads EXIF, IPTC and XMP tags from raw bytes of the given
// decoder format. It returns nil when the format carries no supported
// metadata, parsing fails, or no wanted tag is present.
func ExtractMetadata(data []byte, format string) *Metadata {
	imageFormat, ok := metadataFormats[strings.ToLower(format)]
	if !ok || len(data) == 0 {
		return nil
	}

	meta := &Metadata{}
	found := false

	_, err := imagemeta.Decode(imagemeta.Options{
		R:           bytes.NewReader(data),
		ImageFormat: imageFormat,
		Sources:     imagemeta.EXIF | imagemeta.IPTC | imagemeta.XMP,
		ShouldHandleTag: func(ti imagemeta.TagInfo) bool {
			if tags, ok := metadataTags[ti.Source]; ok {
				return tags[ti.Tag]
			}
			return false
		},
		HandleTag: func(ti imagemeta.TagInfo) error {
			if applyTag(meta, ti) {
				found = true
			}
			return nil
		},
	})

	if err != nil || !found {
		return nil
	}
	return meta
}

func applyTag(meta *Metadata, ti imagemeta.TagInfo) bool {
	s := tagValueString(ti.Value)
	if s == "" {
		return false
	}

	switch ti.Tag {
	case "Orientation":
		meta.Orientation = s
	case "Software":
		meta.Software = s
	case "Artist":
		meta.Artist = s
	case "Copyright":
		meta.Copyright = s
	case "DateTimeOriginal":
		meta.DateTaken = s
	case "Creator", "Byline":
		if meta.Creator == "" {
			meta.Creator = s
		}
	case "Credit":
		meta.Credit = s
	default:
		return false
	}
	return true
}

func tagValueString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case []string:
		return strings.TrimSpace(strings.Join(val, ", "))
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}
