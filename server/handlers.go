package server

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"videoAnalyze/core"
	"videoAnalyze/processors"
)

func (s *Server) healthCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
}

// analysisError is the shared 500 shape of the analysis endpoints.
func analysisError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":  "An error occurred during analysis.",
		"reason": err.Error(),
	})
}

// saveUpload stores the multipart "video_file" part into the upload
// directory and returns its path. The stored name is the client's base name;
// path components are stripped.
func (s *Server) saveUpload(c *fiber.Ctx) (string, error) {
	file, err := c.FormFile("video_file")
	if err != nil {
		return "", fmt.Errorf("No file part")
	}
	if file.Filename == "" {
		return "", fmt.Errorf("No selected file")
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return "", err
	}
	videoPath := filepath.Join(s.cfg.UploadDir, filepath.Base(file.Filename))
	if err := c.SaveFile(file, videoPath); err != nil {
		return "", err
	}
	return videoPath, nil
}

func (s *Server) processVideo(c *fiber.Ctx) error {
	videoPath, err := s.saveUpload(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	opts := processors.Options{
		Degraded: c.Query("degraded") == "true",
		VideoURL: "/get_video/" + filepath.Base(videoPath),
	}

	result, err := s.pipeline.ProcessVideo(c.Context(), videoPath, opts)
	if err != nil {
		s.log.WithError(err).Error("video processing failed")
		return analysisError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

func (s *Server) getVideo(c *fiber.Ctx) error {
	name := filepath.Base(c.Params("filename"))
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid filename"})
	}

	videoPath := filepath.Join(s.cfg.UploadDir, name)
	if _, err := os.Stat(videoPath); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "video not found"})
	}
	return c.SendFile(videoPath)
}

type querySegmentsRequest struct {
	VideoID string `json:"video_id"`
	Query   string `json:"query"`
	TopK    int    `json:"top_k"`
}

func (s *Server) querySegments(c *fiber.Ctx) error {
	var req querySegmentsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if strings.TrimSpace(req.VideoID) == "" || strings.TrimSpace(req.Query) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "video_id and query are required"})
	}

	hits, err := s.store.SearchSegments(c.Context(), req.VideoID, req.Query, req.TopK)
	if err != nil {
		return analysisError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"hits": hits})
}

type segmentPairRequest struct {
	PreviousSegment string `json:"previous_segment"`
	CurrentSegment  string `json:"current_segment"`
}

func (s *Server) testSegment(c *fiber.Ctx) error {
	var req segmentPairRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := s.segment.AnalyzeSegment(c.Context(), req.CurrentSegment)
	if err != nil {
		return analysisError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

func (s *Server) testSegmentComparatively(c *fiber.Ctx) error {
	var req segmentPairRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := s.compare.AnalyzePair(c.Context(),
		core.Segment{Text: req.PreviousSegment},
		core.Segment{Index: 1, Text: req.CurrentSegment})
	if err != nil {
		return analysisError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

type transcriptRequest struct {
	Transcript string `json:"transcript"`
}

// testTranscript splits a raw transcript into sentence segments and runs the
// aggregate quality analysis over them.
func (s *Server) testTranscript(c *fiber.Ctx) error {
	var req transcriptRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	sentences := core.SegmentTranscript(req.Transcript)
	segments := make([]core.Segment, 0, len(sentences))
	for i, sentence := range sentences {
		segments = append(segments, core.Segment{Index: i, Text: sentence})
	}

	result, err := s.quality.AnalyzeAll(c.Context(), segments)
	if err != nil {
		return analysisError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

func (s *Server) testTranscribe(c *fiber.Ctx) error {
	videoPath, err := s.saveUpload(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	audioPath := strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".wav"
	if err := processors.ExtractAudio(c.Context(), videoPath, audioPath); err != nil {
		return analysisError(c, err)
	}
	defer os.Remove(audioPath)

	transcription, segments, err := s.asr.Transcribe(c.Context(), audioPath)
	if err != nil {
		return analysisError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"segments":      segments,
		"transcription": transcription,
	})
}

type factsVerificationRequest struct {
	FactsToVerify []core.FactDetail `json:"facts_to_verify"`
}

func (s *Server) testFactsVerification(c *fiber.Ctx) error {
	var req factsVerificationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	claims := make([]string, 0, len(req.FactsToVerify))
	for _, f := range req.FactsToVerify {
		claims = append(claims, f.FactWithMoreContext)
	}

	result, err := s.facts.VerifyFacts(c.Context(), claims)
	if err != nil {
		return analysisError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(result)
}
