// Package ingestprep builds ingest-time document transformation pipelines:
// text chunking and embedding inference over nested document fields.
package ingestprep

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ingestprep/internal/analysis"
	"github.com/kailas-cloud/ingestprep/internal/config"
	"github.com/kailas-cloud/ingestprep/internal/domain/batch"
	"github.com/kailas-cloud/ingestprep/internal/domain/value"
	"github.com/kailas-cloud/ingestprep/internal/repository/settings"
	"github.com/kailas-cloud/ingestprep/internal/transport/openai"
	chunkinguc "github.com/kailas-cloud/ingestprep/internal/usecase/chunking"
	inferenceuc "github.com/kailas-cloud/ingestprep/internal/usecase/inference"
)

// Document pairs an identifier with a parsed document for batch processing.
type Document = inferenceuc.Doc

// Result reports the per-document outcome of a batch.
type Result = batch.Result

// Pipeline applies the configured transformation steps to documents.
type Pipeline struct {
	chunking  *chunkinguc.Service
	embedding *inferenceuc.Service
	indexName string
	batchSize int
	store     *settings.Client
	logger    *zap.Logger
}

// New creates a Pipeline from configuration. If the config names a settings
// store it is connected and awaited; otherwise the environment-level index
// defaults apply to every document.
func New(cfg config.Config, opts ...Option) (*Pipeline, error) {
	pc := &pipelineConfig{logger: zap.NewNop()}
	for _, o := range opts {
		o(pc)
	}

	p := &Pipeline{
		indexName: cfg.Pipeline.IndexName,
		batchSize: cfg.Pipeline.BatchSize,
		logger:    pc.logger,
	}

	reader, store, err := newSettingsReader(cfg, pc)
	if err != nil {
		return nil, err
	}
	p.store = store

	if step := cfg.Pipeline.Chunking; step != nil {
		fm, err := step.FieldMapValue()
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("ingestprep: chunking field_map: %w", err)
		}
		tok := pc.tokenizer
		if tok == nil {
			tok = analysis.Registry{}
		}
		svc, err := chunkinguc.New(step.Algorithm, fm, tok, reader, pc.logger)
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("ingestprep: chunking: %w", err)
		}
		p.chunking = svc
	}

	if step := cfg.Pipeline.Embedding; step != nil {
		fm, err := step.FieldMapValue()
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("ingestprep: embedding field_map: %w", err)
		}
		inf := pc.inferencer
		if inf == nil {
			inf = openai.NewInferencer(&openai.Config{
				APIKey:     cfg.Inference.APIKey,
				BaseURL:    cfg.Inference.BaseURL,
				Model:      cfg.Inference.Model,
				Dimensions: cfg.Inference.Dimensions,
				User:       cfg.Inference.User,
				Provider:   cfg.Inference.Provider,
				Logger:     pc.logger,
			})
		}
		svc, err := inferenceuc.New(fm, inf, reader, pc.logger)
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("ingestprep: embedding: %w", err)
		}
		p.embedding = svc.WithNestedListKey(step.NestedListKey)
	}

	return p, nil
}

func newSettingsReader(cfg config.Config, pc *pipelineConfig) (SettingsReader, *settings.Client, error) {
	defaults := settings.Defaults{
		MaxNestingDepth: cfg.Index.MaxNestingDepth,
		MaxTokenCount:   cfg.Index.MaxTokenCount,
	}
	if pc.settings != nil {
		return pc.settings, nil, nil
	}
	if len(cfg.Store.Addrs) == 0 {
		return settings.Static{Defaults: defaults}, nil, nil
	}

	client, err := settings.NewClient(settings.ClientConfig{
		Addrs:    cfg.Store.Addrs,
		Username: cfg.Store.Username,
		Password: cfg.Store.Password,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("ingestprep: settings store: %w", err)
	}

	timeout := time.Duration(cfg.Store.ReadinessTimeout) * time.Second
	if err := client.WaitForReady(context.Background(), timeout); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("ingestprep: settings store not ready: %w", err)
	}

	repo := settings.New(client, defaults).WithKeyPrefix(cfg.Store.KeyPrefix)
	return repo, client, nil
}

// SettingsReader joins the per-step reader contracts so one repository
// instance serves both. Custom settings sources passed through
// WithSettingsReader must satisfy it.
type SettingsReader interface {
	chunkinguc.SettingsReader
	inferenceuc.SettingsReader
}

// Process applies the configured steps to one document in place:
// chunking first, then embedding.
func (p *Pipeline) Process(ctx context.Context, doc *value.Map) error {
	if p.chunking != nil {
		if err := p.chunking.Execute(ctx, doc, p.indexName); err != nil {
			return fmt.Errorf("chunking: %w", err)
		}
	}
	if p.embedding != nil {
		if err := p.embedding.Execute(ctx, doc, p.indexName); err != nil {
			return fmt.Errorf("embedding: %w", err)
		}
	}
	return nil
}

// ProcessJSON applies the pipeline to one JSON document. Key order is
// preserved in the returned encoding.
func (p *Pipeline) ProcessJSON(ctx context.Context, data []byte) ([]byte, error) {
	doc, err := value.DecodeJSONObject(data)
	if err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if err := p.Process(ctx, doc); err != nil {
		return nil, err
	}
	out, err := value.EncodeJSON(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return out, nil
}

// ProcessBatch applies the pipeline to many documents, batching embedding
// inference across the whole slice. The returned results align with docs by
// position; a failed document never blocks the rest.
func (p *Pipeline) ProcessBatch(ctx context.Context, docs []Document) []Result {
	results := make([]Result, len(docs))
	pending := make([]Document, 0, len(docs))
	pendingIdx := make([]int, 0, len(docs))
	for i, d := range docs {
		if p.chunking != nil {
			if err := p.chunking.Execute(ctx, d.Doc, p.indexName); err != nil {
				p.logger.Warn("chunking failed",
					zap.String("doc_id", d.ID),
					zap.Error(err),
				)
				results[i] = batch.NewError(d.ID, fmt.Errorf("chunking: %w", err))
				continue
			}
		}
		pending = append(pending, d)
		pendingIdx = append(pendingIdx, i)
	}

	if p.embedding == nil {
		for _, i := range pendingIdx {
			results[i] = batch.NewOK(docs[i].ID)
		}
		return results
	}

	embedded := p.embedding.ExecuteBatch(ctx, pending, p.indexName)
	for j, r := range embedded {
		results[pendingIdx[j]] = r
	}
	return results
}

// BatchSize returns the configured batch ceiling for callers that split
// their own streams.
func (p *Pipeline) BatchSize() int {
	return p.batchSize
}

// Ping checks settings store connectivity. It is a no-op without a store.
func (p *Pipeline) Ping(ctx context.Context) error {
	if p.store == nil {
		return nil
	}
	if err := p.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close releases the settings store connection.
func (p *Pipeline) Close() {
	if p.store != nil {
		p.store.Close()
	}
}
