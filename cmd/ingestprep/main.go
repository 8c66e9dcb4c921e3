// Command ingestprep reads JSON documents from stdin, one per line, applies
// the configured chunking and embedding steps, and writes the transformed
// documents to stdout in input order.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"go.uber.org/zap"

	ingestprep "github.com/kailas-cloud/ingestprep"
	"github.com/kailas-cloud/ingestprep/internal/config"
	"github.com/kailas-cloud/ingestprep/internal/domain/value"
	logpkg "github.com/kailas-cloud/ingestprep/internal/logger"
	"github.com/kailas-cloud/ingestprep/internal/metrics"
	"github.com/kailas-cloud/ingestprep/internal/version"
)

const maxLineBytes = 16 * 1024 * 1024

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting ingestprep",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.String("index", cfg.Pipeline.IndexName),
		zap.Int("batch_size", cfg.Pipeline.BatchSize),
	)

	// Register inference metrics explicitly (no init())
	metrics.RegisterInferenceMetrics()

	pipeline, err := ingestprep.New(cfg, ingestprep.WithLogger(logger))
	if err != nil {
		logger.Fatal("Failed to build pipeline", zap.Error(err))
	}
	defer pipeline.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, pipeline, logger); err != nil {
		logger.Fatal("Processing failed", zap.Error(err))
	}
}

func run(ctx context.Context, pipeline *ingestprep.Pipeline, logger *zap.Logger) error {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	batch := make([]ingestprep.Document, 0, pipeline.BatchSize())
	line, processed, failed := 0, 0, 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		results := pipeline.ProcessBatch(ctx, batch)
		for i, r := range results {
			if err := r.Err(); err != nil {
				failed++
				logger.Warn("Document failed",
					zap.String("doc_id", r.ID()),
					zap.Error(err),
				)
				continue
			}
			encoded, err := value.EncodeJSON(batch[i].Doc)
			if err != nil {
				return fmt.Errorf("encode doc %s: %w", r.ID(), err)
			}
			if _, err := out.Write(append(encoded, '\n')); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			processed++
		}
		batch = batch[:0]
		return nil
	}

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		doc, err := value.DecodeJSONObject(raw)
		if err != nil {
			failed++
			logger.Warn("Skipping malformed document",
				zap.Int("line", line),
				zap.Error(err),
			)
			continue
		}

		batch = append(batch, ingestprep.Document{
			ID:  strconv.Itoa(line),
			Doc: doc,
		})
		if len(batch) >= pipeline.BatchSize() {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if err := flush(); err != nil {
		return err
	}

	logger.Info("Done",
		zap.Int("processed", processed),
		zap.Int("failed", failed),
	)
	return nil
}
