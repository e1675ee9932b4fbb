package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/sirupsen/logrus"

	"videoAnalyze/config"
	"videoAnalyze/llm"
	"videoAnalyze/processors"
	"videoAnalyze/storage"
)

// Server wires the HTTP surface to the analysis components.
type Server struct {
	cfg      *config.Config
	log      *logrus.Logger
	pipeline *processors.Pipeline
	store    storage.VectorStore

	asr     processors.ASRProvider
	segment *processors.SegmentAnalyzer
	compare *processors.ComparativeAnalyzer
	quality *processors.QualityAnalyzer
	facts   *processors.FactVerifier
}

func New(cfg *config.Config, log *logrus.Logger, cli llm.Client,
	pipeline *processors.Pipeline, asr processors.ASRProvider, store storage.VectorStore) *Server {
	return &Server{
		cfg:      cfg,
		log:      log,
		pipeline: pipeline,
		store:    store,

		asr:     asr,
		segment: processors.NewSegmentAnalyzer(cli, cfg),
		compare: processors.NewComparativeAnalyzer(cli, cfg),
		quality: processors.NewQualityAnalyzer(cli, cfg),
		facts:   processors.NewFactVerifier(cli, cfg),
	}
}

// App builds the fiber application with all routes registered.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit: 512 * 1024 * 1024, // uploads are whole videos
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	app.Use(fiberlogger.New())

	app.Get("/", s.healthCheck)
	app.Post("/process_video", s.processVideo)
	app.Get("/get_video/:filename", s.getVideo)
	app.Post("/query_segments", s.querySegments)

	// Component-level endpoints for exercising single analyses by hand.
	app.Post("/test_ai_segment", s.testSegment)
	app.Post("/test_ai_segment_comparatively", s.testSegmentComparatively)
	app.Post("/test_ai_transcript", s.testTranscript)
	app.Post("/test_transcribe", s.testTranscribe)
	app.Post("/test_facts_verification", s.testFactsVerification)

	return app
}

// Listen starts serving on addr and blocks.
func (s *Server) Listen(addr string) error {
	return s.App().Listen(addr)
}
