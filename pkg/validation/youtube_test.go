package validation

import "testing"

func TestResolveYouTubeThumbnail(t *testing.T) {
	const thumb = "https://img.youtube.com/vi/dQw4w9WgXcQ/maxresdefault.jpg"

	tests := []struct {
		name   string
		url    string
		want   string
		wantOK bool
	}{
		{"watch link", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", thumb, true},
		{"watch link with extra params", "https://youtube.com/watch?t=42&v=dQw4w9WgXcQ&list=PL1", thumb, true},
		{"mobile watch link", "https://m.youtube.com/watch?v=dQw4w9WgXcQ", thumb, true},
		{"short link", "https://youtu.be/dQw4w9WgXcQ", thumb, true},
		{"short link with timestamp", "https://youtu.be/dQw4w9WgXcQ?t=10", thumb, true},
		{"embed link", "https://www.youtube.com/embed/dQw4w9WgXcQ", thumb, true},
		{"embed link with params", "http://youtube.com/embed/dQw4w9WgXcQ?autoplay=1", thumb, true},
		{"plain image url", "https://cdn.example.com/thumb.png", "https://cdn.example.com/thumb.png", false},
		{"watch without id", "https://www.youtube.com/watch?list=PL1", "https://www.youtube.com/watch?list=PL1", false},
		{"channel page", "https://www.youtube.com/@creator", "https://www.youtube.com/@creator", false},
		{"lookalike host", "https://notyoutube.com/watch?v=dQw4w9WgXcQ", "https://notyoutube.com/watch?v=dQw4w9WgXcQ", false},
		{"id with path characters", "https://youtu.be/..%2F..%2Fetc", "https://youtu.be/..%2F..%2Fetc", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveYouTubeThumbnail(tt.url)
			if ok != tt.wantOK {
				t.Errorf("Expected ok=%v, got %v", tt.wantOK, ok)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
