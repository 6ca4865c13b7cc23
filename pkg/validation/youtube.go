package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// youTubeThumbnailURL is the largest still image kept for a video
const youTubeThumbnailURL = "https://img.youtube.com/vi/%s/maxresdefault.jpg"

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ResolveYouTubeThumbnail maps a video link to the URL of its thumbnail image.
// It understands youtube.com/watch?v=ID, youtu.be/ID and youtube.com/embed/ID.
// Any other URL is returned unchanged with ok set to false.
func ResolveYouTubeThumbnail(sourceURL string) (string, bool) {
	id, ok := youTubeVideoID(sourceURL)
	if !ok {
		return sourceURL, false
	}
	return fmt.Sprintf(youTubeThumbnailURL, id), true
}

func youTubeVideoID(sourceURL string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(sourceURL))
	if err != nil {
		return "", false
	}

	var id string
	switch host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www."); host {
	case "youtu.be":
		id = firstSegment(u.Path)
	case "youtube.com", "m.youtube.com":
		switch {
		case u.Path == "/watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/embed/"):
			id = firstSegment(strings.TrimPrefix(u.Path, "/embed"))
		}
	}

	if !videoIDPattern.MatchString(id) {
		return "", false
	}
	return id, true
}

func firstSegment(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	return path
}
