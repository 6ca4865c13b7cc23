package observer

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

type recordingObserver struct {
	name   string
	events []ThumbnailEvent
}

func (r *recordingObserver) OnEvent(ctx context.Context, event ThumbnailEvent) {
	r.events = append(r.events, event)
}

func (r *recordingObserver) GetObserverName() string { return r.name }

type panickingObserver struct{}

func (panickingObserver) OnEvent(ctx context.Context, event ThumbnailEvent) {
	panic("observer failure")
}

func (panickingObserver) GetObserverName() string { return "panicking" }

func testLogger() (*logrus.Entry, *bytes.Buffer) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(logrus.DebugLevel)
	return logrus.NewEntry(l), &buf
}

func TestEventPublisher_DeliversInOrder(t *testing.T) {
	log, _ := testLogger()
	p := NewEventPublisher(log)
	first := &recordingObserver{name: "first"}
	second := &recordingObserver{name: "second"}
	p.Subscribe(first)
	p.Subscribe(second)

	p.NotifyObservers(context.Background(), ThumbnailEvent{EventType: ThumbnailAdded, ThumbnailID: "abc"})

	if len(first.events) != 1 || len(second.events) != 1 {
		t.Fatalf("Expected each observer to get 1 event, got %d and %d", len(first.events), len(second.events))
	}
	if first.events[0].Timestamp.IsZero() {
		t.Error("Expected timestamp to be filled in")
	}
	if first.events[0].ThumbnailID != "abc" {
		t.Errorf("Expected thumbnail ID abc, got %s", first.events[0].ThumbnailID)
	}
}

func TestEventPublisher_Unsubscribe(t *testing.T) {
	log, _ := testLogger()
	p := NewEventPublisher(log)
	obs := &recordingObserver{name: "obs"}
	p.Subscribe(obs)
	p.Unsubscribe(obs)

	p.NotifyObservers(context.Background(), ThumbnailEvent{EventType: ThumbnailRemoved})

	if len(obs.events) != 0 {
		t.Errorf("Expected no events after unsubscribe, got %d", len(obs.events))
	}
}

func TestEventPublisher_RecoversFromPanics(t *testing.T) {
	log, buf := testLogger()
	p := NewEventPublisher(log)
	after := &recordingObserver{name: "after"}
	p.Subscribe(panickingObserver{})
	p.Subscribe(after)

	p.NotifyObservers(context.Background(), ThumbnailEvent{EventType: ComparisonCompleted})

	if len(after.events) != 1 {
		t.Errorf("Expected observer after the panicking one to still be notified")
	}
	if !strings.Contains(buf.String(), "Observer panicked") {
		t.Errorf("Expected panic to be logged, got %q", buf.String())
	}
}

func TestMetricsObserver_Snapshot(t *testing.T) {
	m := NewMetricsObserver()
	ctx := context.Background()

	m.OnEvent(ctx, ThumbnailEvent{EventType: AnalysisCompleted, ProcessingTime: 10 * time.Millisecond})
	m.OnEvent(ctx, ThumbnailEvent{EventType: AnalysisDegraded, ProcessingTime: 30 * time.Millisecond})
	m.OnEvent(ctx, ThumbnailEvent{EventType: ComparisonCompleted})
	m.OnEvent(ctx, ThumbnailEvent{EventType: SourceFetchFailed})
	m.OnEvent(ctx, ThumbnailEvent{EventType: SourceFetched})
	m.OnEvent(ctx, ThumbnailEvent{EventType: ThumbnailAdded})
	m.OnEvent(ctx, ThumbnailEvent{EventType: ThumbnailRemoved})

	s := m.Snapshot()
	if s.TotalAnalyses != 2 || s.DegradedAnalyses != 1 {
		t.Errorf("Expected 2 analyses with 1 degraded, got %d and %d", s.TotalAnalyses, s.DegradedAnalyses)
	}
	if s.Comparisons != 1 || s.FetchFailures != 1 || s.SourcesFetched != 1 {
		t.Errorf("Unexpected counters %+v", s)
	}
	if s.ThumbnailsAdded != 1 || s.ThumbnailsRemoved != 1 {
		t.Errorf("Unexpected store counters %+v", s)
	}
	if s.TotalProcessingTimeMs != 40 {
		t.Errorf("Expected 40ms total, got %d", s.TotalProcessingTimeMs)
	}
	if s.AvgProcessingTimeMs != 20 {
		t.Errorf("Expected 20ms average, got %f", s.AvgProcessingTimeMs)
	}
}

func TestMetricsObserver_EmptySnapshot(t *testing.T) {
	s := NewMetricsObserver().Snapshot()
	if s.AvgProcessingTimeMs != 0 {
		t.Errorf("Expected zero average without analyses, got %f", s.AvgProcessingTimeMs)
	}
}

func TestLoggingObserver_Fields(t *testing.T) {
	log, buf := testLogger()
	obs := NewLoggingObserver(log)

	obs.OnEvent(context.Background(), ThumbnailEvent{
		EventType:    SourceFetchFailed,
		SourceURL:    "https://example.com/a.png",
		ErrorMessage: "boom",
		Metadata:     map[string]interface{}{"attempts": 3},
	})

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected one JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["level"] != "error" {
		t.Errorf("Expected error level, got %v", entry["level"])
	}
	if entry["source_url"] != "https://example.com/a.png" || entry["error"] != "boom" {
		t.Errorf("Unexpected fields %v", entry)
	}
	if entry["attempts"] != float64(3) {
		t.Errorf("Expected metadata to be merged, got %v", entry["attempts"])
	}
}
