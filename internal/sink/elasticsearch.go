package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	es "github.com/elastic/go-elasticsearch/v8"

	"github.com/jonesrussell/jobcore/internal/config"
	"github.com/jonesrussell/jobcore/internal/logger"
	"github.com/jonesrussell/jobcore/internal/model"
)

// ElasticsearchSink upserts Jobs into a single index, adapted from the
// teacher's ElasticsearchStorage.IndexDocument client plumbing
// (internal/storage/elasticsearch.go) narrowed to this core's single
// upsert-by-ID contract — no search/scroll/mapping surface is needed.
type ElasticsearchSink struct {
	client *es.Client
	index  string
	log    logger.Interface
}

// NewElasticsearchSink builds a client from cfg and returns a Sink bound
// to cfg.Index.
func NewElasticsearchSink(cfg config.ElasticsearchConfig, log logger.Interface) (*ElasticsearchSink, error) {
	client, err := es.NewClient(es.Config{
		Addresses: cfg.Addresses,
		APIKey:    cfg.APIKey,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("build elasticsearch client: %w", err)
	}
	index := cfg.Index
	if index == "" {
		index = "jobs"
	}
	if log == nil {
		log = logger.NoOp{}
	}
	return &ElasticsearchSink{client: client, index: index, log: log}, nil
}

// Upsert indexes job under its own ID, overwriting any prior document
// with the same identity — an index call with an explicit document ID
// is already an upsert in Elasticsearch's semantics.
func (s *ElasticsearchSink) Upsert(ctx context.Context, job *model.Job) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job %s: %w", job.ID, err)
	}

	res, err := s.client.Index(
		s.index,
		bytes.NewReader(body),
		s.client.Index.WithContext(ctx),
		s.client.Index.WithDocumentID(job.ID),
	)
	if err != nil {
		return fmt.Errorf("index job %s: %w", job.ID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch rejected job %s: %s", job.ID, res.String())
	}

	s.log.Debug("job upserted", "id", job.ID, "index", s.index)
	return nil
}

var _ Sink = (*ElasticsearchSink)(nil)
