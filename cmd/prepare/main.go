package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"boxoffice/internal/chart"
	"boxoffice/internal/config"
	"boxoffice/internal/errors"
	"boxoffice/internal/logger"
	"boxoffice/internal/manifest"
	"boxoffice/internal/metrics"
	"boxoffice/internal/model"
	"boxoffice/internal/output"
	"boxoffice/internal/pipeline"
)

// Exit codes.
const (
	exitOK        = 0
	exitFailure   = 1
	exitUsage     = 2
	exitMalformed = 3
	exitEmpty     = 4
)

func main() {
	cfg, err := config.Load(os.Args[1:], time.Now())
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(exitOK)
		}
		fmt.Fprintf(os.Stderr, "prepare: %v\n", err)
		os.Exit(exitCode(err))
	}

	log := logger.New(logger.Config{
		Format:      cfg.Logger.Format,
		Environment: cfg.App.Environment,
		Level:       logger.ParseLevel(cfg.Logger.Level),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, log, time.Now())
	stop()
	if err != nil {
		code := exitCode(err)
		log.WithError(err).WithField("exit_code", code).Error("prepare failed")
		os.Exit(code)
	}
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, errors.ErrValidation):
		return exitUsage
	case errors.Is(err, errors.ErrMalformedInput):
		return exitMalformed
	case errors.Is(err, errors.ErrEmptyDataset):
		return exitEmpty
	default:
		return exitFailure
	}
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger, now time.Time) error {
	mreg := metrics.NewRegistry()
	if cfg.Output.MetricsFile != "" {
		defer func() {
			if err := mreg.WriteTextfile(cfg.Output.MetricsFile); err != nil {
				log.WithError(err).Warn("metrics textfile not written")
			}
		}()
	}

	params := cfg.PipelineParams()
	log.Info("starting prepare",
		"input", cfg.Pipeline.InputPath,
		"start_year", params.StartYear,
		"reference_year", params.ReferenceYear,
		"dataset_sink", cfg.Output.DatasetSink,
		"manifest_sink", cfg.Output.ManifestSink,
	)

	raws, err := readInput(cfg.Pipeline.InputPath, mreg, log)
	if err != nil {
		return err
	}

	started := time.Now()
	res, err := pipeline.Prepare(raws, params)
	mreg.PipelineSec.Observe(time.Since(started).Seconds())
	mreg.ObserveReport(res.Report)
	for _, d := range res.Report.Drops {
		log.Debug("dropped record", "index", d.Index, "title", d.Title, "reason", string(d.Reason))
	}
	if err != nil {
		return err
	}
	mreg.ObserveStats(res.Stats, len(res.Records))

	log.Info("dataset prepared",
		"read", res.Report.Read,
		"kept", res.Report.Kept,
		"dropped", res.Report.DroppedTotal(),
		"mean", chart.FormatMillions(res.Stats.MeanBoxOffice),
		"top_genres", strings.Join(res.Stats.TopGenres, ","),
		"from", res.Stats.DateRange.Start.Format("2006"),
		"to", res.Stats.DateRange.End.Format("2006"),
	)

	ds := output.NewDataset(now.UTC().Format("20060102T150405Z"), now, params, res)
	dlog := log.WithField("dataset", ds.ID)
	sink := datasetSink(cfg)
	if err := sink.Publish(ctx, ds); err != nil {
		mreg.SinkFailed.WithLabelValues(sink.Name()).Inc()
		return fmt.Errorf("publish dataset to %s: %w", sink.Name(), err)
	}
	mreg.SinkPublished.WithLabelValues(sink.Name()).Inc()
	dlog.Info("dataset published", "sink", sink.Name(), "records", len(ds.Records))

	if pub := manifestPublisher(cfg); pub != nil {
		m := manifest.For(ds)
		if err := pub.PublishLatest(ctx, m); err != nil {
			return fmt.Errorf("publish manifest: %w", err)
		}
		dlog.Info("manifest published", "sink", cfg.Output.ManifestSink)
	}

	if cfg.Output.ChartPath != "" {
		if err := chart.Save(cfg.Output.ChartPath, res, chart.DefaultOptions()); err != nil {
			return err
		}
		dlog.Info("chart rendered", "path", cfg.Output.ChartPath)
	}
	return nil
}

func readInput(path string, mreg *metrics.Registry, log *logger.Logger) ([]model.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	raws, skipped, err := pipeline.LoadRaw(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if skipped > 0 {
		mreg.Undecodable.Add(float64(skipped))
		log.Warn("skipped undecodable entries", "count", skipped)
	}
	return raws, nil
}

func datasetSink(cfg *config.Config) output.Sink {
	var sinks []output.Sink
	if config.UsesFile(cfg.Output.DatasetSink) {
		sinks = append(sinks, output.NewFileSink(cfg.Output.Dir))
	}
	if config.UsesKafka(cfg.Output.DatasetSink) {
		sinks = append(sinks, output.NewKafkaSink(cfg.Kafka.Bootstrap, cfg.Kafka.Topic))
	}
	if len(sinks) == 1 {
		return sinks[0]
	}
	return output.NewMultiSink(sinks...)
}

func manifestPublisher(cfg *config.Config) manifest.Publisher {
	var pubs []manifest.Publisher
	if config.UsesFile(cfg.Output.ManifestSink) {
		pubs = append(pubs, manifest.NewFilesystemManifest(cfg.Output.Dir))
	}
	if config.UsesKafka(cfg.Output.ManifestSink) {
		pubs = append(pubs, manifest.NewKafkaManifest(cfg.Kafka.Bootstrap, cfg.Kafka.ManifestTopic, manifest.LatestKey))
	}
	switch len(pubs) {
	case 0:
		return nil
	case 1:
		return pubs[0]
	default:
		return manifest.MultiPublisher(pubs...)
	}
}
