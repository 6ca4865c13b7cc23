package models

// AddFromURLRequest asks the service to fetch a remote image and store it
type AddFromURLRequest struct {
	URL   string `json:"url" binding:"required"`
	Title string `json:"title,omitempty"`
}

// UpdateTitleRequest replaces the title of a stored thumbnail
type UpdateTitleRequest struct {
	Title string `json:"title"`
}

// CompareThumbnailsRequest names two stored thumbnails
type CompareThumbnailsRequest struct {
	A string `json:"a" binding:"required"`
	B string `json:"b" binding:"required"`
}

// UpdateSettingsRequest changes viewer settings. Absent fields are left alone.
type UpdateSettingsRequest struct {
	Language               *string `json:"language,omitempty"`
	ToggleDarkMode         bool    `json:"toggle_dark_mode,omitempty"`
	ToggleTestPageDarkMode bool    `json:"toggle_test_page_dark_mode,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Time    string `json:"time"`
}
