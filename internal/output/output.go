package output

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"boxoffice/internal/model"
	"boxoffice/internal/pipeline"
)

// Dataset is the document handed to the rendering side.
type Dataset struct {
	ID            string              `json:"id"`
	GeneratedAt   time.Time           `json:"generatedAt"`
	StartYear     int                 `json:"startYear"`
	ReferenceYear int                 `json:"referenceYear"`
	Records       []model.MovieRecord `json:"records"`
	Stats         pipeline.Stats      `json:"stats"`
	Bands         []pipeline.Band     `json:"bands"`
}

// NewDataset assembles a Dataset from a pipeline result.
func NewDataset(id string, generatedAt time.Time, cfg pipeline.Config, res pipeline.Result) Dataset {
	return Dataset{
		ID:            id,
		GeneratedAt:   generatedAt.UTC(),
		StartYear:     cfg.StartYear,
		ReferenceYear: cfg.ReferenceYear,
		Records:       res.Records,
		Stats:         res.Stats,
		Bands:         res.Bands,
	}
}

type Sink interface {
	Publish(ctx context.Context, ds Dataset) error
	Name() string
}

// MultiSink publishes to several sinks in order, stopping at the first error.
type MultiSink struct {
	sinks []Sink
}

func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) Name() string {
	names := make([]string, 0, len(m.sinks))
	for _, s := range m.sinks {
		names = append(names, s.Name())
	}
	return strings.Join(names, "+")
}

func (m *MultiSink) Publish(ctx context.Context, ds Dataset) error {
	for _, s := range m.sinks {
		if err := s.Publish(ctx, ds); err != nil {
			return fmt.Errorf("%s sink: %w", s.Name(), err)
		}
	}
	return nil
}

// FileSink writes <baseDir>/<id>/dataset.json.
type FileSink struct {
	baseDir string
}

func NewFileSink(baseDir string) *FileSink {
	return &FileSink{baseDir: baseDir}
}

func (f *FileSink) Name() string { return "file" }

// Path returns where the dataset with the given id is written.
func (f *FileSink) Path(id string) string {
	return filepath.Join(f.baseDir, id, "dataset.json")
}

func (f *FileSink) Publish(_ context.Context, ds Dataset) error {
	if err := os.MkdirAll(filepath.Join(f.baseDir, ds.ID), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	out, err := os.Create(f.Path(ds.ID))
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	defer out.Close()

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&ds); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadDataset loads a dataset written by FileSink.
func ReadDataset(path string) (Dataset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("read dataset: %w", err)
	}
	var ds Dataset
	if err := json.Unmarshal(b, &ds); err != nil {
		return Dataset{}, fmt.Errorf("unmarshal dataset: %w", err)
	}
	return ds, nil
}

// SummaryKey is the message key of the per-dataset summary record.
const SummaryKey = "summary"

// Summary is the value of the summary message published to Kafka.
type Summary struct {
	DatasetID     string          `json:"datasetId"`
	GeneratedAt   time.Time       `json:"generatedAt"`
	StartYear     int             `json:"startYear"`
	ReferenceYear int             `json:"referenceYear"`
	RecordCount   int             `json:"recordCount"`
	Stats         pipeline.Stats  `json:"stats"`
	Bands         []pipeline.Band `json:"bands"`
}

// KafkaSink publishes one message per record keyed by title, followed by a
// summary message. Pure-Go client (segmentio/kafka-go).
type KafkaSink struct {
	writer kafkaMessageWriter
}

// kafkaMessageWriter abstracts kafka.Writer for testability.
type kafkaMessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// NewKafkaSink creates a Kafka sink.
// bootstrap can be a comma-separated list of host:port.
func NewKafkaSink(bootstrap string, topic string) *KafkaSink {
	return &KafkaSink{writer: &kafka.Writer{
		Addr:         kafka.TCP(SplitBrokers(bootstrap)...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}}
}

// NewKafkaSinkWith is only for tests to inject a fake writer.
func NewKafkaSinkWith(w kafkaMessageWriter) *KafkaSink {
	return &KafkaSink{writer: w}
}

func (k *KafkaSink) Name() string { return "kafka" }

func (k *KafkaSink) Publish(ctx context.Context, ds Dataset) error {
	hdr := []kafka.Header{{Key: "dataset", Value: []byte(ds.ID)}}
	msgs := make([]kafka.Message, 0, len(ds.Records)+1)
	for _, rec := range ds.Records {
		b, err := json.Marshal(&rec)
		if err != nil {
			return fmt.Errorf("marshal record %q: %w", rec.Title, err)
		}
		msgs = append(msgs, kafka.Message{Key: []byte(rec.Title), Value: b, Headers: hdr})
	}
	sum := Summary{
		DatasetID:     ds.ID,
		GeneratedAt:   ds.GeneratedAt,
		StartYear:     ds.StartYear,
		ReferenceYear: ds.ReferenceYear,
		RecordCount:   len(ds.Records),
		Stats:         ds.Stats,
		Bands:         ds.Bands,
	}
	b, err := json.Marshal(&sum)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	msgs = append(msgs, kafka.Message{Key: []byte(SummaryKey), Value: b, Headers: hdr})
	return k.writer.WriteMessages(ctx, msgs...)
}

// SplitBrokers splits a comma-separated bootstrap list, dropping blanks.
func SplitBrokers(bootstrap string) []string {
	var brokers []string
	for _, a := range strings.Split(bootstrap, ",") {
		a = strings.TrimSpace(a)
		if a != "" {
			brokers = append(brokers, a)
		}
	}
	return brokers
}
