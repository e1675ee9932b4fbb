package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"videoAnalyze/config"
	"videoAnalyze/llm"
	"videoAnalyze/processors"
	"videoAnalyze/server"
	"videoAnalyze/storage"
)

func main() {
	root := &cobra.Command{
		Use:          "videoanalyze",
		Short:        "Video transcript analysis service",
		SilenceUsage: true,
	}
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP analysis server",
		RunE:  runServe,
	}
	serveCmd.Flags().String("addr", ":5000", "Listen address")

	analyzeCmd := &cobra.Command{
		Use:   "analyze <video-file>",
		Short: "Analyze one video and print the result as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args[0])
		},
	}
	analyzeCmd.Flags().Bool("degraded", false, "Report analysis failures per field instead of aborting")

	root.AddCommand(serveCmd, analyzeCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type components struct {
	cfg      *config.Config
	log      *logrus.Logger
	cli      llm.Client
	asr      processors.ASRProvider
	store    storage.VectorStore
	pipeline *processors.Pipeline
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr, _ := cmd.Flags().GetString("addr")

	c, err := buildComponents()
	if err != nil {
		return err
	}

	srv := server.New(c.cfg, c.log, c.cli, c.pipeline, c.asr, c.store)
	c.log.WithField("addr", addr).Info("starting server")
	return srv.Listen(addr)
}

func runAnalyze(cmd *cobra.Command, videoPath string) error {
	degraded, _ := cmd.Flags().GetBool("degraded")

	if _, err := os.Stat(videoPath); err != nil {
		return fmt.Errorf("video file: %w", err)
	}

	c, err := buildComponents()
	if err != nil {
		return err
	}

	result, err := c.pipeline.ProcessVideo(context.Background(), videoPath, processors.Options{Degraded: degraded})
	if err != nil {
		return err
	}
	c.log.Info("analysis complete")

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func buildComponents() (*components, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := config.NewLogger()

	cli := llm.NewOpenAIClient(cfg)
	asr := processors.PickASR(cfg)
	detector := processors.PickSubtitleDetector(cfg)
	store := storage.NewStore(cfg, cli)
	pipeline := processors.NewPipeline(cfg, log, cli, asr, detector, store)

	return &components{cfg: cfg, log: log, cli: cli, asr: asr, store: store, pipeline: pipeline}, nil
}
