package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ThumbnailEvent describes something that happened to a thumbnail, an
// analysis or a remote source
type ThumbnailEvent struct {
	EventType      EventType              `json:"event_type"`
	Timestamp      time.Time              `json:"timestamp"`
	ThumbnailID    string                 `json:"thumbnail_id,omitempty"`
	SourceURL      string                 `json:"source_url,omitempty"`
	ProcessingTime time.Duration          `json:"processing_time"`
	Success        bool                   `json:"success"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of thumbnail event
type EventType string

const (
	// ThumbnailAdded when a thumbnail enters the store
	ThumbnailAdded EventType = "thumbnail_added"
	// ThumbnailRemoved when a thumbnail leaves the store
	ThumbnailRemoved EventType = "thumbnail_removed"
	// AnalysisCompleted when an analysis finishes with every part computed
	AnalysisCompleted EventType = "analysis_completed"
	// AnalysisDegraded when an analysis finishes with fallback values
	AnalysisDegraded EventType = "analysis_degraded"
	// ComparisonCompleted when two thumbnails were compared
	ComparisonCompleted EventType = "comparison_completed"
	// SourceFetched when a remote image was downloaded
	SourceFetched EventType = "source_fetched"
	// SourceFetchFailed when a remote image could not be downloaded
	SourceFetchFailed EventType = "source_fetch_failed"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event ThumbnailEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event ThumbnailEvent)
}

// LoggingObserver logs thumbnail events
type LoggingObserver struct {
	logger *logrus.Entry
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Entry) Observer {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent handles events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event ThumbnailEvent) {
	fields := logrus.Fields{
		"event_type":         event.EventType,
		"processing_time_ms": event.ProcessingTime.Milliseconds(),
		"success":            event.Success,
	}
	if event.ThumbnailID != "" {
		fields["thumbnail_id"] = event.ThumbnailID
	}
	if event.SourceURL != "" {
		fields["source_url"] = event.SourceURL
	}
	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}
	for k, v := range event.Metadata {
		fields[k] = v
	}

	entry := o.logger.WithFields(fields)
	switch event.EventType {
	case ThumbnailAdded:
		entry.Info("Thumbnail added")
	case ThumbnailRemoved:
		entry.Info("Thumbnail removed")
	case AnalysisCompleted:
		entry.Info("Thumbnail analysis completed")
	case AnalysisDegraded:
		entry.Warn("Thumbnail analysis completed with fallback values")
	case ComparisonCompleted:
		entry.Info("Thumbnail comparison completed")
	case SourceFetched:
		entry.Debug("Source image fetched")
	case SourceFetchFailed:
		entry.Error("Source image fetch failed")
	default:
		entry.Info("Thumbnail event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// MetricsSnapshot is a point-in-time copy of the counters
type MetricsSnapshot struct {
	TotalAnalyses         int64   `json:"total_analyses"`
	DegradedAnalyses      int64   `json:"degraded_analyses"`
	Comparisons           int64   `json:"comparisons"`
	ThumbnailsAdded       int64   `json:"thumbnails_added"`
	ThumbnailsRemoved     int64   `json:"thumbnails_removed"`
	SourcesFetched        int64   `json:"sources_fetched"`
	FetchFailures         int64   `json:"fetch_failures"`
	TotalProcessingTimeMs int64   `json:"total_processing_time_ms"`
	AvgProcessingTimeMs   float64 `json:"avg_processing_time_ms"`
}

// MetricsObserver collects metrics from events
type MetricsObserver struct {
	mu                  sync.RWMutex
	totalAnalyses       int64
	degradedAnalyses    int64
	comparisons         int64
	added               int64
	removed             int64
	fetched             int64
	fetchFailures       int64
	totalProcessingTime time.Duration
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{}
}

// OnEvent handles events by collecting metrics
func (o *MetricsObserver) OnEvent(ctx context.Context, event ThumbnailEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case AnalysisCompleted:
		o.totalAnalyses++
		o.totalProcessingTime += event.ProcessingTime
	case AnalysisDegraded:
		o.totalAnalyses++
		o.degradedAnalyses++
		o.totalProcessingTime += event.ProcessingTime
	case ComparisonCompleted:
		o.comparisons++
	case ThumbnailAdded:
		o.added++
	case ThumbnailRemoved:
		o.removed++
	case SourceFetched:
		o.fetched++
	case SourceFetchFailed:
		o.fetchFailures++
	}
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// Snapshot returns current metrics
func (o *MetricsObserver) Snapshot() MetricsSnapshot {
	o.mu.RLock()
	defer o.mu.RUnlock()

	var avg float64
	if o.totalAnalyses > 0 {
		avg = float64(o.totalProcessingTime.Microseconds()) / 1000 / float64(o.totalAnalyses)
	}

	return MetricsSnapshot{
		TotalAnalyses:         o.totalAnalyses,
		DegradedAnalyses:      o.degradedAnalyses,
		Comparisons:           o.comparisons,
		ThumbnailsAdded:       o.added,
		ThumbnailsRemoved:     o.removed,
		SourcesFetched:        o.fetched,
		FetchFailures:         o.fetchFailures,
		TotalProcessingTimeMs: o.totalProcessingTime.Milliseconds(),
		AvgProcessingTimeMs:   avg,
	}
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
	logger    *logrus.Entry
	now       func() time.Time
}

// NewEventPublisher creates a new event publisher. Panicking observers are
// reported through logger.
func NewEventPublisher(logger *logrus.Entry) *EventPublisher {
	return &EventPublisher{
		observers: make([]Observer, 0),
		logger:    logger,
		now:       time.Now,
	}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers delivers the event to every observer in subscription
// order before returning. A zero Timestamp is filled in.
func (p *EventPublisher) NotifyObservers(ctx context.Context, event ThumbnailEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now()
	}

	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	for _, obs := range observers {
		p.deliver(ctx, obs, event)
	}
}

func (p *EventPublisher) deliver(ctx context.Context, obs Observer, event ThumbnailEvent) {
	defer func() {
		if r := recover(); r != nil {
			// Log panic but don't crash the application
			p.logger.WithField("observer", obs.GetObserverName()).
				WithField("panic", r).
				Error("Observer panicked while handling event")
		}
	}()
	obs.OnEvent(ctx, event)
}
