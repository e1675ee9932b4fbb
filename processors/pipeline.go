package processors

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"videoAnalyze/config"
	"videoAnalyze/core"
	"videoAnalyze/llm"
	"videoAnalyze/storage"
)

// Options controls how one ProcessVideo run behaves.
type Options struct {
	// Degraded collects per-analysis failures into the Errors map instead of
	// failing the whole request. Transcription failures always fail the
	// request; without a transcript there is nothing to analyze.
	Degraded bool
	// VideoURL is echoed back in the response so callers can fetch the
	// stored upload.
	VideoURL string
}

// Pipeline runs the full analysis for one uploaded video and merges every
// product into a single response.
type Pipeline struct {
	cfg *config.Config
	log *logrus.Logger

	asr      ASRProvider
	detector SubtitleDetector
	store    storage.VectorStore

	offtopic    *OffTopicDetector
	segments    *SegmentAnalyzer
	comparative *ComparativeAnalyzer
	quality     *QualityAnalyzer
	facts       *FactVerifier
	reconciler  *SubtitleReconciler
	enricher    *Enricher

	// extractAudio is swappable so tests run without ffmpeg installed.
	extractAudio func(ctx context.Context, videoPath, audioPath string) error
}

func NewPipeline(cfg *config.Config, log *logrus.Logger, cli llm.Client,
	asr ASRProvider, detector SubtitleDetector, store storage.VectorStore) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		log:      log,
		asr:      asr,
		detector: detector,
		store:    store,

		offtopic:    NewOffTopicDetector(cli, cfg),
		segments:    NewSegmentAnalyzer(cli, cfg),
		comparative: NewComparativeAnalyzer(cli, cfg),
		quality:     NewQualityAnalyzer(cli, cfg),
		facts:       NewFactVerifier(cli, cfg),
		reconciler:  NewSubtitleReconciler(cli, cfg),
		enricher:    NewEnricher(cli, cfg),

		extractAudio: ExtractAudio,
	}
}

type ocrResult struct {
	subtitles []core.Subtitle
	persons   []core.BoundingBox
	err       error
}

// ProcessVideo runs OCR, transcription and every transcript analysis for the
// video at videoPath and merges the products into one result. In strict mode
// the first analysis failure fails the request; in degraded mode failures are
// reported per field and the rest of the response is still produced.
func (p *Pipeline) ProcessVideo(ctx context.Context, videoPath string, opts Options) (*core.ProcessVideoResult, error) {
	jobID := uuid.NewString()
	log := p.log.WithFields(logrus.Fields{"job_id": jobID, "video": filepath.Base(videoPath)})
	log.Info("processing video")

	// OCR reads the raw video, not the audio track, so it runs alongside
	// extraction and transcription from the start.
	ocrCh := make(chan ocrResult, 1)
	go func() {
		subtitles, persons, err := p.detector.DetectSubtitles(ctx, videoPath)
		ocrCh <- ocrResult{subtitles: subtitles, persons: persons, err: err}
	}()

	segments, err := p.transcribe(ctx, videoPath)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("transcription produced no segments: %w", core.ErrEmptyInput)
	}
	log.WithField("segments", len(segments)).Info("transcription complete")

	result := &core.ProcessVideoResult{
		Transcription: segments,
		VideoURL:      opts.VideoURL,
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
		failures = map[string]string{}
	)
	fail := func(name string, err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
		failures[name] = err.Error()
	}
	run := func(name string, fn func(ctx context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			callCtx, cancel := context.WithTimeout(ctx, p.cfg.CallTimeout)
			defer cancel()
			if err := fn(callCtx); err != nil {
				log.WithError(err).Warnf("%s failed", name)
				fail(name, err)
			}
		}()
	}

	run("analysis", func(ctx context.Context) error {
		subject, spans, err := p.offtopic.Detect(ctx, segments)
		if err != nil {
			return err
		}
		mu.Lock()
		result.Analysis.MainSubject = subject
		result.Analysis.OffTopicSegments = spans
		mu.Unlock()
		return nil
	})
	run("quality_metrics", func(ctx context.Context) error {
		metrics, err := p.quality.AnalyzeAll(ctx, segments)
		if err != nil {
			return err
		}
		mu.Lock()
		result.Analysis.QualityMetrics = metrics
		mu.Unlock()
		return nil
	})
	run("segments_analysis", func(ctx context.Context) error {
		analyses, err := p.segments.AnalyzeSegments(ctx, segments)
		if err != nil {
			return err
		}
		mu.Lock()
		result.SegmentsAnalysis = analyses
		mu.Unlock()
		return nil
	})
	run("events", func(ctx context.Context) error {
		events, err := p.comparative.AnalyzeTransitions(ctx, segments)
		if err != nil {
			return err
		}
		mu.Lock()
		result.Events = events
		mu.Unlock()
		return nil
	})
	run("questions", func(ctx context.Context) error {
		questions, err := p.enricher.GenerateQuestions(ctx, JoinTranscript(segments))
		if err != nil {
			return err
		}
		mu.Lock()
		result.Questions = questions.Questions
		mu.Unlock()
		return nil
	})
	run("summary", func(ctx context.Context) error {
		summary, err := p.enricher.WriteSummary(ctx, JoinTranscript(segments))
		if err != nil {
			return err
		}
		mu.Lock()
		result.Summary = summary.Summary
		mu.Unlock()
		return nil
	})

	wg.Wait()
	if firstErr != nil && !opts.Degraded {
		return nil, firstErr
	}

	// Fact verification needs the extracted claims, so it runs after the
	// quality report. Claims are verified in their self-contained form.
	if m := result.Analysis.QualityMetrics; m != nil && len(m.FactsToVerify) > 0 {
		claims := make([]string, 0, len(m.FactsToVerify))
		for _, f := range m.FactsToVerify {
			claims = append(claims, f.FactWithMoreContext)
		}
		callCtx, cancel := context.WithTimeout(ctx, p.cfg.CallTimeout)
		checks, err := p.facts.VerifyFacts(callCtx, claims)
		cancel()
		if err != nil {
			if !opts.Degraded {
				return nil, err
			}
			log.WithError(err).Warn("fact verification failed")
			failures["fact_checks"] = err.Error()
		} else {
			result.FactChecks = checks
		}
	}

	ocr := <-ocrCh
	if ocr.err != nil {
		if !opts.Degraded {
			return nil, ocr.err
		}
		log.WithError(ocr.err).Warn("subtitle detection failed")
		failures["subtitles_matching"] = ocr.err.Error()
	} else {
		result.DetectedPersons = ocr.persons
		if len(ocr.subtitles) > 0 {
			callCtx, cancel := context.WithTimeout(ctx, p.cfg.CallTimeout)
			match, err := p.reconciler.Compare(callCtx, segments, ocr.subtitles)
			cancel()
			if err != nil {
				if !opts.Degraded {
					return nil, err
				}
				log.WithError(err).Warn("subtitle comparison failed")
				failures["subtitles_matching"] = err.Error()
			} else {
				result.SubtitlesMatch = match
			}
		}
	}

	// Persistence is best effort; a storage outage never voids an analysis
	// the caller already paid for.
	if n, err := p.store.UpsertSegments(ctx, jobID, segments); err != nil {
		log.WithError(err).Warn("segment storage failed")
	} else {
		log.WithField("stored", n).Debug("segments stored")
	}

	if opts.Degraded && len(failures) > 0 {
		result.Errors = failures
	}
	log.Info("processing complete")
	return result, nil
}

// transcribe extracts the audio track next to the upload and runs ASR on it.
// The intermediate WAV is deleted afterwards.
func (p *Pipeline) transcribe(ctx context.Context, videoPath string) ([]core.Segment, error) {
	audioPath := trimExt(videoPath) + ".wav"
	if err := p.extractAudio(ctx, videoPath, audioPath); err != nil {
		return nil, fmt.Errorf("extract audio: %w: %v", core.ErrExternalCall, err)
	}
	defer os.Remove(audioPath)

	callCtx, cancel := context.WithTimeout(ctx, p.cfg.CallTimeout)
	defer cancel()
	_, segments, err := p.asr.Transcribe(callCtx, audioPath)
	if err != nil {
		return nil, err
	}
	return segments, nil
}

func trimExt(path string) string {
	return path[:len(path)-len(filepath.Ext(path))]
}
