package analyzer

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/anime-shed/thumbnail-inspector-go/internal/logger"
	"github.com/anime-shed/thumbnail-inspector-go/internal/raster"
)

// coreAnalyzer implements ThumbnailAnalyzer and orchestrates the sub-analyses
type coreAnalyzer struct {
	workerPool *WorkerPool
	newText    func(AnalysisOptions) TextDetector
	newPerson  func(AnalysisOptions) PersonDetector
	log        *logrus.Entry
	closeOnce  sync.Once
}

// NewThumbnailAnalyzer creates an analyzer backed by a pool of workers.
// Zero or fewer workers means one per CPU.
func NewThumbnailAnalyzer(workers int) ThumbnailAnalyzer {
	workerPool := NewWorkerPool(workers)
	workerPool.Start()

	return &coreAnalyzer{
		workerPool: workerPool,
		newText:    NewTextDetector,
		newPerson:  NewPersonDetector,
		log:        logger.Component("analyzer"),
	}
}

// Analyze decodes the bytes and analyzes them
func (ca *coreAnalyzer) Analyze(data []byte, options AnalysisOptions) ImageAnalysis {
	img, format, err := raster.Decode(data)
	if errors.Is(err, raster.ErrTooLarge) {
		ca.log.WithError(err).Warn("Image too large, returning default analysis")
		return FallbackAnalysis(options, WarningImageTooLarge)
	}
	if err != nil {
		ca.log.WithError(err).Warn("Image decode failed, returning default analysis")
		return DecodeFailureAnalysis(options)
	}

	analysis := ca.AnalyzeImage(img, options)
	analysis.Format = format
	return analysis
}

// AnalyzeImage computes pixel statistics on the downscaled raster and runs
// the enabled sub-analyses. Text runs on the full-resolution raster, person
// detection on the downscaled one.
func (ca *coreAnalyzer) AnalyzeImage(img image.Image, options AnalysisOptions) ImageAnalysis {
	start := time.Now()
	options = options.normalized()

	if img == nil || img.Bounds().Empty() {
		return DecodeFailureAnalysis(options)
	}

	small := raster.Downscale(img, options.MaxDimension)
	stats := ComputePixelStatistics(small)

	bounds := img.Bounds()
	analysis := ImageAnalysis{
		Width:           bounds.Dx(),
		Height:          bounds.Dy(),
		Brightness:      stats.Brightness,
		Contrast:        stats.Contrast,
		Colorfulness:    stats.Colorfulness,
		DominantColors:  stats.DominantColors,
		TextReadability: stats.TextReadability,
		VisualImpact:    VisualImpact(stats),
	}

	var (
		text      TextAnalysis
		person    PersonAnalysis
		textErr   error
		personErr error
		tasks     []func()
	)

	if options.IncludeTextAnalysis {
		tasks = append(tasks, func() {
			textErr = safeRun("text analysis", func() {
				text = ca.newText(options).Analyze(raster.FromImage(img))
			})
		})
	}
	if options.IncludePersonAnalysis {
		tasks = append(tasks, func() {
			personErr = safeRun("person analysis", func() {
				person = ca.newPerson(options).Analyze(small)
			})
		})
	}

	ca.runTasks(tasks, options.UseWorkerPool)

	if options.IncludeTextAnalysis {
		if textErr != nil {
			ca.log.WithError(textErr).Error("Text analysis failed, using default")
			text = DefaultTextAnalysis()
			analysis.Warnings = append(analysis.Warnings, WarningTextAnalysisFailed)
		}
		analysis.Text = &text
	}
	if options.IncludePersonAnalysis {
		if personErr != nil {
			ca.log.WithError(personErr).Error("Person analysis failed, using default")
			person = DefaultPersonAnalysis()
			analysis.Warnings = append(analysis.Warnings, WarningPersonAnalysisFailed)
		}
		analysis.Person = &person
	}

	ca.log.WithFields(logrus.Fields{
		"width":       analysis.Width,
		"height":      analysis.Height,
		"duration_ms": time.Since(start).Milliseconds(),
		"warnings":    len(analysis.Warnings),
	}).Debug("Image analysis completed")

	return analysis
}

// runTasks fans the tasks out on the pool and waits for all of them. A
// single task, a disabled pool or a closed pool runs inline.
func (ca *coreAnalyzer) runTasks(tasks []func(), usePool bool) {
	if len(tasks) < 2 || !usePool {
		for _, task := range tasks {
			task()
		}
		return
	}

	var wg sync.WaitGroup
	for _, task := range tasks {
		wg.Add(1)
		task := task
		if !ca.workerPool.Submit(func() {
			defer wg.Done()
			task()
		}) {
			task()
			wg.Done()
		}
	}
	wg.Wait()
}

// Stats returns the counters of the shared worker pool
func (ca *coreAnalyzer) Stats() PoolStats {
	return ca.workerPool.GetStats()
}

// Close releases the worker pool
func (ca *coreAnalyzer) Close() error {
	ca.closeOnce.Do(ca.workerPool.Close)
	return nil
}

// DecodeFailureAnalysis is the all-default bundle for bytes that could not be
// rasterized
func DecodeFailureAnalysis(options AnalysisOptions) ImageAnalysis {
	return FallbackAnalysis(options, WarningDecodeFailed)
}

// FallbackAnalysis is the all-default bundle carrying a single warning
func FallbackAnalysis(options AnalysisOptions, warning string) ImageAnalysis {
	analysis := ImageAnalysis{
		DominantColors: []DominantColor{},
		Warnings:       []string{warning},
	}
	if options.IncludeTextAnalysis {
		text := DefaultTextAnalysis()
		analysis.Text = &text
	}
	if options.IncludePersonAnalysis {
		person := DefaultPersonAnalysis()
		analysis.Person = &person
	}
	return analysis
}

// safeRun converts a panic in fn into an error
func safeRun(name string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panicked: %v", name, r)
		}
	}()
	fn()
	return nil
}
