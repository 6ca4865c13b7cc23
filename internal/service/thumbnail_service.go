package service

import (
	"context"
	"errors"
	"image"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/anime-shed/thumbnail-inspector-go/internal/analyzer"
	"github.com/anime-shed/thumbnail-inspector-go/internal/comparison"
	apperrors "github.com/anime-shed/thumbnail-inspector-go/internal/errors"
	"github.com/anime-shed/thumbnail-inspector-go/internal/logger"
	"github.com/anime-shed/thumbnail-inspector-go/internal/observer"
	"github.com/anime-shed/thumbnail-inspector-go/internal/raster"
	"github.com/anime-shed/thumbnail-inspector-go/internal/scoring"
	"github.com/anime-shed/thumbnail-inspector-go/internal/storage"
	"github.com/anime-shed/thumbnail-inspector-go/internal/store"
	"github.com/anime-shed/thumbnail-inspector-go/pkg/models"
	"github.com/anime-shed/thumbnail-inspector-go/pkg/validation"
)

// Upload is one image file received from a client
type Upload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ThumbnailService defines the use cases behind the HTTP API
type ThumbnailService interface {
	// Stateless analysis. AnalysisOptions is the configured baseline callers
	// adjust per request.
	AnalysisOptions() analyzer.AnalysisOptions
	Analyze(ctx context.Context, upload Upload, options analyzer.AnalysisOptions) (*models.AnalyzeResponse, error)
	CompareUploads(ctx context.Context, a, b Upload) (*models.ComparisonResponse, error)

	// Stored thumbnails
	AddUpload(ctx context.Context, upload Upload, title string) (*models.ThumbnailResponse, error)
	AddFromURL(ctx context.Context, request models.AddFromURLRequest) (*models.ThumbnailResponse, error)
	List() *models.ThumbnailListResponse
	Get(id string) (*models.ThumbnailResponse, error)
	UpdateTitle(id, title string) (*models.ThumbnailResponse, error)
	Remove(ctx context.Context, id string) error
	Score(id string) (*models.ThumbnailScoreResponse, error)
	Preview(id string) ([]byte, error)
	CompareThumbnails(ctx context.Context, a, b string) (*models.ComparisonResponse, error)

	// Settings
	Settings() store.Settings
	UpdateSettings(request models.UpdateSettingsRequest) (store.Settings, error)

	PoolStats() analyzer.PoolStats
}

// Dependencies groups what the service needs. Zero timeouts and distances
// fall back to defaults.
type Dependencies struct {
	Store     *store.Store
	Analyzer  analyzer.ThumbnailAnalyzer
	Scoring   *scoring.Engine
	Sources   storage.Fetcher
	Validator *validation.URLValidator
	Events    observer.Subject

	AnalysisOptions   analyzer.AnalysisOptions
	AnalysisTimeout   time.Duration
	FetchTimeout      time.Duration
	DuplicateDistance int
	MaxImagePixels    int
}

type thumbnailService struct {
	store     *store.Store
	analyzer  analyzer.ThumbnailAnalyzer
	scoring   *scoring.Engine
	sources   storage.Fetcher
	validator *validation.URLValidator
	events    observer.Subject
	log       *logrus.Entry

	baseOptions       analyzer.AnalysisOptions
	analysisTimeout   time.Duration
	fetchTimeout      time.Duration
	duplicateDistance int
	maxImagePixels    int
}

// NewThumbnailService creates the service
func NewThumbnailService(deps Dependencies) ThumbnailService {
	s := &thumbnailService{
		store:             deps.Store,
		analyzer:          deps.Analyzer,
		scoring:           deps.Scoring,
		sources:           deps.Sources,
		validator:         deps.Validator,
		events:            deps.Events,
		log:               logger.Component("thumbnail_service"),
		baseOptions:       deps.AnalysisOptions,
		analysisTimeout:   deps.AnalysisTimeout,
		fetchTimeout:      deps.FetchTimeout,
		duplicateDistance: deps.DuplicateDistance,
		maxImagePixels:    deps.MaxImagePixels,
	}
	if s.store == nil {
		s.store = store.New()
	}
	if s.scoring == nil {
		s.scoring = scoring.NewEngine()
	}
	if s.validator == nil {
		s.validator = validation.NewURLValidator()
	}
	if s.events == nil {
		s.events = observer.NewEventPublisher(s.log)
	}
	if s.baseOptions.MaxDimension == 0 {
		s.baseOptions = analyzer.DefaultOptions()
	}
	if s.analysisTimeout <= 0 {
		s.analysisTimeout = 20 * time.Second
	}
	if s.fetchTimeout <= 0 {
		s.fetchTimeout = 15 * time.Second
	}
	if s.duplicateDistance <= 0 {
		s.duplicateDistance = store.DefaultDuplicateDistance
	}
	if s.maxImagePixels <= 0 {
		s.maxImagePixels = raster.DefaultMaxPixels
	}
	return s
}

// AnalysisOptions returns the options stored uploads are analysed with
func (s *thumbnailService) AnalysisOptions() analyzer.AnalysisOptions {
	return s.baseOptions
}

// PoolStats reports the analyzer's worker pool counters
func (s *thumbnailService) PoolStats() analyzer.PoolStats {
	return s.analyzer.Stats()
}

// processed is an upload after decoding and analysis. img is nil when the
// bytes could not be decoded.
type processed struct {
	img      image.Image
	format   string
	analysis analyzer.ImageAnalysis
	elapsed  time.Duration
}

// process decodes data and analyses it under the analysis deadline
func (s *thumbnailService) process(ctx context.Context, data []byte, options analyzer.AnalysisOptions) (processed, error) {
	start := time.Now()

	img, format, err := raster.DecodeLimit(data, s.maxImagePixels)
	if errors.Is(err, raster.ErrTooLarge) {
		return processed{}, apperrors.NewValidationError("image dimensions exceed the allowed pixel count", err)
	}
	if err != nil {
		s.log.WithError(err).Warn("Upload could not be decoded")
		return processed{
			analysis: analyzer.DecodeFailureAnalysis(options),
			elapsed:  time.Since(start),
		}, nil
	}

	analysis, err := s.analyzeWithDeadline(ctx, img, options)
	if err != nil {
		return processed{}, err
	}
	analysis.Format = format

	return processed{img: img, format: format, analysis: analysis, elapsed: time.Since(start)}, nil
}

// analyzeWithDeadline joins the CPU-bound analysis against ctx and the
// configured analysis timeout
func (s *thumbnailService) analyzeWithDeadline(ctx context.Context, img image.Image, options analyzer.AnalysisOptions) (analyzer.ImageAnalysis, error) {
	ctx, cancel := context.WithTimeout(ctx, s.analysisTimeout)
	defer cancel()

	done := make(chan analyzer.ImageAnalysis, 1)
	go func() {
		done <- s.analyzer.AnalyzeImage(img, options)
	}()

	select {
	case analysis := <-done:
		return analysis, nil
	case <-ctx.Done():
		return analyzer.ImageAnalysis{}, apperrors.NewTimeoutError("image analysis timed out", ctx.Err())
	}
}

func (s *thumbnailService) publishAnalysis(ctx context.Context, id string, p processed) {
	event := observer.ThumbnailEvent{
		EventType:      observer.AnalysisCompleted,
		ThumbnailID:    id,
		ProcessingTime: p.elapsed,
		Success:        true,
	}
	if p.analysis.Degraded() {
		event.EventType = observer.AnalysisDegraded
		event.Metadata = map[string]interface{}{"warnings": p.analysis.Warnings}
	}
	s.events.NotifyObservers(ctx, event)
}

// Analyze runs the full pipeline on one upload without storing it.
// Undecodable uploads yield the default analysis with a warning.
func (s *thumbnailService) Analyze(ctx context.Context, upload Upload, options analyzer.AnalysisOptions) (*models.AnalyzeResponse, error) {
	p, err := s.process(ctx, upload.Data, options)
	if err != nil {
		return nil, err
	}
	s.publishAnalysis(ctx, "", p)

	resp := &models.AnalyzeResponse{
		FileName:          upload.FileName,
		Timestamp:         time.Now().UTC(),
		ProcessingTimeSec: p.elapsed.Seconds(),
		Analysis:          p.analysis,
		Score:             s.scoring.Score(p.analysis),
		EstimatedCTR:      s.scoring.EstimateCTR(p.analysis),
	}
	if p.img != nil {
		resp.Metadata = raster.ExtractMetadata(upload.Data, p.format)
	}
	return resp, nil
}

// CompareUploads analyses both uploads concurrently and compares them
func (s *thumbnailService) CompareUploads(ctx context.Context, a, b Upload) (*models.ComparisonResponse, error) {
	start := time.Now()

	var (
		wg     sync.WaitGroup
		pa, pb processed
		ea, eb error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		pa, ea = s.process(ctx, a.Data, s.baseOptions)
	}()
	go func() {
		defer wg.Done()
		pb, eb = s.process(ctx, b.Data, s.baseOptions)
	}()
	wg.Wait()

	if ctx.Err() != nil {
		return nil, apperrors.NewTimeoutError("comparison cancelled", ctx.Err())
	}
	pa = s.degradeOnError(pa, ea, "A")
	pb = s.degradeOnError(pb, eb, "B")
	s.publishAnalysis(ctx, "", pa)
	s.publishAnalysis(ctx, "", pb)

	hashA, hashB := s.hash(pa.img), s.hash(pb.img)
	resp := s.compare(pa.analysis, pb.analysis, hashA, hashB)
	resp.A, resp.B = labelOf(a, "A"), labelOf(b, "B")
	resp.ProcessingTimeSec = time.Since(start).Seconds()

	s.events.NotifyObservers(ctx, observer.ThumbnailEvent{
		EventType:      observer.ComparisonCompleted,
		ProcessingTime: time.Since(start),
		Success:        true,
		Metadata:       map[string]interface{}{"suggestions": len(resp.Suggestions)},
	})
	return resp, nil
}

// degradeOnError replaces a failed side of a comparison with the default
// analysis so the other side still gets compared
func (s *thumbnailService) degradeOnError(p processed, err error, side string) processed {
	if err == nil {
		return p
	}
	warning := analyzer.WarningDecodeFailed
	switch {
	case apperrors.IsType(err, apperrors.ErrorTypeTimeout):
		warning = analyzer.WarningAnalysisTimedOut
	case errors.Is(err, raster.ErrTooLarge):
		warning = analyzer.WarningImageTooLarge
	}
	s.log.WithError(err).WithField("side", side).Warn("Comparison side degraded to default analysis")
	return processed{
		analysis: analyzer.FallbackAnalysis(s.baseOptions, warning),
		elapsed:  p.elapsed,
	}
}

func labelOf(u Upload, fallback string) string {
	if u.FileName != "" {
		return u.FileName
	}
	return fallback
}

// compare builds the comparison response shared by uploads and stored thumbnails
func (s *thumbnailService) compare(a, b analyzer.ImageAnalysis, hashA, hashB hashRef) *models.ComparisonResponse {
	suggestions := comparison.Compare(a, b)
	scoreA, scoreB := s.scoring.Score(a), s.scoring.Score(b)

	resp := &models.ComparisonResponse{
		Suggestions:        suggestions,
		NoStrongDifference: len(suggestions) == 0,
		ScoreA:             &scoreA,
		ScoreB:             &scoreB,
	}
	if d, ok := store.HashDistance(hashA, hashB); ok {
		resp.PerceptualDistance = &d
		resp.NearDuplicate = d < s.duplicateDistance
	}
	return resp
}

// AddUpload analyses an upload and stores it
func (s *thumbnailService) AddUpload(ctx context.Context, upload Upload, title string) (*models.ThumbnailResponse, error) {
	p, err := s.process(ctx, upload.Data, s.baseOptions)
	if err != nil {
		return nil, err
	}
	if p.img == nil {
		return nil, apperrors.NewDecodeError("uploaded file is not a supported image", raster.ErrUnsupportedFormat)
	}

	preview, err := raster.EncodePreview(p.img, raster.DefaultPreviewWidth, raster.DefaultPreviewHeight)
	if err != nil {
		s.log.WithError(err).Warn("Preview encoding failed")
	}

	contentType := upload.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(upload.Data)
	}

	t, err := s.store.Add(store.NewThumbnail{
		Title:       title,
		FileName:    upload.FileName,
		ContentType: contentType,
		Size:        int64(len(upload.Data)),
		Analysis:    p.analysis,
		Metadata:    raster.ExtractMetadata(upload.Data, p.format),
		Preview:     preview,
		Hash:        s.hash(p.img),
	})
	if err != nil {
		return nil, err
	}

	s.publishAnalysis(ctx, t.ID, p)
	s.events.NotifyObservers(ctx, observer.ThumbnailEvent{
		EventType:   observer.ThumbnailAdded,
		ThumbnailID: t.ID,
		Success:     true,
		Metadata:    map[string]interface{}{"duplicate_of": t.DuplicateOf},
	})

	resp := models.NewThumbnailResponse(t)
	return &resp, nil
}

// AddFromURL fetches a remote image through the configured sources and stores
// it. Video page links are first resolved to their thumbnail image.
func (s *thumbnailService) AddFromURL(ctx context.Context, request models.AddFromURLRequest) (*models.ThumbnailResponse, error) {
	sourceURL, _ := validation.ResolveYouTubeThumbnail(request.URL)
	if err := s.validator.ValidateSourceURL(sourceURL); err != nil {
		return nil, err
	}
	if s.sources == nil {
		return nil, apperrors.NewInternalError("no image sources configured", nil)
	}

	start := time.Now()
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	data, err := s.sources.Fetch(fetchCtx, sourceURL)
	cancel()

	if err != nil {
		s.events.NotifyObservers(ctx, observer.ThumbnailEvent{
			EventType:      observer.SourceFetchFailed,
			SourceURL:      sourceURL,
			ProcessingTime: time.Since(start),
			ErrorMessage:   err.Error(),
		})
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperrors.NewNetworkError("failed to fetch image", err)
	}
	s.events.NotifyObservers(ctx, observer.ThumbnailEvent{
		EventType:      observer.SourceFetched,
		SourceURL:      sourceURL,
		ProcessingTime: time.Since(start),
		Success:        true,
		Metadata:       map[string]interface{}{"bytes": len(data)},
	})

	return s.AddUpload(ctx, Upload{FileName: fileNameOf(sourceURL), Data: data}, request.Title)
}

// List returns every stored thumbnail
func (s *thumbnailService) List() *models.ThumbnailListResponse {
	list := s.store.List()
	out := make([]models.ThumbnailResponse, len(list))
	for i, t := range list {
		out[i] = models.NewThumbnailResponse(t)
	}
	return &models.ThumbnailListResponse{Thumbnails: out, Count: len(out), Limit: s.store.Limit()}
}

// Get returns one stored thumbnail
func (s *thumbnailService) Get(id string) (*models.ThumbnailResponse, error) {
	t, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	resp := models.NewThumbnailResponse(t)
	return &resp, nil
}

// UpdateTitle renames a stored thumbnail
func (s *thumbnailService) UpdateTitle(id, title string) (*models.ThumbnailResponse, error) {
	t, err := s.store.UpdateTitle(id, title)
	if err != nil {
		return nil, err
	}
	resp := models.NewThumbnailResponse(t)
	return &resp, nil
}

// Remove deletes a stored thumbnail
func (s *thumbnailService) Remove(ctx context.Context, id string) error {
	if err := s.store.Remove(id); err != nil {
		return err
	}
	s.events.NotifyObservers(ctx, observer.ThumbnailEvent{
		EventType:   observer.ThumbnailRemoved,
		ThumbnailID: id,
		Success:     true,
	})
	return nil
}

// Score scores a stored thumbnail. The predicted CTR carries fresh jitter
// on every call.
func (s *thumbnailService) Score(id string) (*models.ThumbnailScoreResponse, error) {
	t, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	return &models.ThumbnailScoreResponse{
		ThumbnailID:  t.ID,
		Score:        s.scoring.Score(t.Analysis),
		EstimatedCTR: s.scoring.EstimateCTR(t.Analysis),
	}, nil
}

// Preview returns the WebP preview of a stored thumbnail
func (s *thumbnailService) Preview(id string) ([]byte, error) {
	t, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	preview := t.Preview()
	if len(preview) == 0 {
		return nil, apperrors.NewNotFoundError("thumbnail has no preview", nil)
	}
	return preview, nil
}

// CompareThumbnails compares two stored thumbnails
func (s *thumbnailService) CompareThumbnails(ctx context.Context, a, b string) (*models.ComparisonResponse, error) {
	start := time.Now()

	ta, err := s.store.Get(a)
	if err != nil {
		return nil, err
	}
	tb, err := s.store.Get(b)
	if err != nil {
		return nil, err
	}

	resp := s.compare(ta.Analysis, tb.Analysis, ta.Hash(), tb.Hash())
	resp.A, resp.B = ta.ID, tb.ID
	resp.ProcessingTimeSec = time.Since(start).Seconds()

	s.events.NotifyObservers(ctx, observer.ThumbnailEvent{
		EventType:      observer.ComparisonCompleted,
		ProcessingTime: time.Since(start),
		Success:        true,
		Metadata:       map[string]interface{}{"a": ta.ID, "b": tb.ID, "suggestions": len(resp.Suggestions)},
	})
	return resp, nil
}

// Settings returns the viewer settings
func (s *thumbnailService) Settings() store.Settings {
	return s.store.Settings()
}

// UpdateSettings applies the language first so an invalid code changes nothing
func (s *thumbnailService) UpdateSettings(request models.UpdateSettingsRequest) (store.Settings, error) {
	if request.Language != nil {
		if err := s.store.SetLanguage(*request.Language); err != nil {
			return store.Settings{}, err
		}
	}
	if request.ToggleDarkMode {
		s.store.ToggleDarkMode()
	}
	if request.ToggleTestPageDarkMode {
		s.store.ToggleTestPageDarkMode()
	}
	return s.store.Settings(), nil
}
