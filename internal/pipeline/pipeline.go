// Package pipeline orchestrates one bronze-to-gold run: read the three raw
// datasets, clean them in memory, persist the silver tables, then build and
// persist the county-joined gold table. Silver writes only start after every
// transform has succeeded, so a schema failure in one dataset leaves the
// partition untouched.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"edulake/internal/config"
	"edulake/internal/dataprocessing"
	"edulake/internal/exporter"
	"edulake/internal/gold"
	"edulake/internal/infrastructure"
	"edulake/internal/storage"
	"edulake/pkg/contracts/domain"
)

// Dataset names used in summaries, progress events and metrics labels.
const (
	DatasetHousing      = "housing"
	DatasetSchool       = "school"
	DatasetSpecialEd    = "special_education"
	DatasetCountyJoined = "county_joined"
)

// DatasetSummary describes one written table.
type DatasetSummary struct {
	Rows       int    `json:"rows"`
	Columns    int    `json:"columns"`
	OutputPath string `json:"output_path"`
}

// Summary is the result of one full run.
type Summary struct {
	RunID      string                    `json:"run_id"`
	IngestDate string                    `json:"ingest_date"`
	Silver     map[string]DatasetSummary `json:"silver"`
	Gold       map[string]DatasetSummary `json:"gold"`
	Duration   time.Duration             `json:"duration_ms"`
}

// ProgressUpdate is one stage transition broadcast to listeners.
type ProgressUpdate struct {
	RunID   string `json:"run_id"`
	Stage   string `json:"stage"`
	Status  string `json:"status"`
	Rows    int    `json:"rows,omitempty"`
	Message string `json:"message,omitempty"`
}

// ProgressNotifier receives stage transitions during a run.
type ProgressNotifier interface {
	PublishProgress(update ProgressUpdate)
}

// NoopNotifier discards progress updates.
type NoopNotifier struct{}

func (NoopNotifier) PublishProgress(ProgressUpdate) {}

// Service runs the pipeline against a byte store.
type Service struct {
	store    storage.Store
	logger   *slog.Logger
	notifier ProgressNotifier
	tracer   trace.Tracer
	metrics  *infrastructure.PipelineMetrics
}

// NewService builds a pipeline service. Notifier, tracer and metrics are
// optional.
func NewService(store storage.Store, logger *slog.Logger, notifier ProgressNotifier, tracer trace.Tracer, metrics *infrastructure.PipelineMetrics) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("pipeline")
	}

	return &Service{
		store:    store,
		logger:   logger.With(slog.String("component", "pipeline")),
		notifier: notifier,
		tracer:   tracer,
		metrics:  metrics,
	}
}

// Run executes one bronze-to-gold pass for the given ingest date partition.
func (s *Service) Run(ctx context.Context, ingestDate string) (*Summary, error) {
	runID := uuid.New().String()
	ctx = infrastructure.WithTraceID(ctx, runID)
	start := time.Now()

	ctx, span := s.tracer.Start(ctx, "pipeline.run",
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("ingest.date", ingestDate),
		))
	defer span.End()

	logger := s.logger.With(slog.String("run_id", runID), slog.String("ingest_date", ingestDate))
	logger.Info("pipeline run started")

	if s.metrics != nil {
		s.metrics.RunsTotal.Add(ctx, 1)
	}

	summary, err := s.run(ctx, logger, runID, ingestDate)

	elapsed := time.Since(start)
	if s.metrics != nil {
		s.metrics.RunDuration.Record(ctx, elapsed.Seconds(),
			metric.WithAttributes(attribute.Bool("success", err == nil)))
	}

	if err != nil {
		if s.metrics != nil {
			s.metrics.RunErrors.Add(ctx, 1)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error("pipeline run failed", slog.String("error", err.Error()), slog.Duration("duration", elapsed))
		s.notifier.PublishProgress(ProgressUpdate{RunID: runID, Stage: "run", Status: "failed", Message: err.Error()})
		return nil, err
	}

	summary.Duration = elapsed
	logger.Info("pipeline run completed",
		slog.Int("gold_rows", summary.Gold[DatasetCountyJoined].Rows),
		slog.Duration("duration", elapsed))
	s.notifier.PublishProgress(ProgressUpdate{RunID: runID, Stage: "run", Status: "completed"})

	return summary, nil
}

func (s *Service) run(ctx context.Context, logger *slog.Logger, runID, ingestDate string) (*Summary, error) {
	paths := config.NewLakePaths(ingestDate)

	// Stage 1: decode and clean all three datasets before any write. The
	// datasets run in a fixed order, one at a time, so a failing run always
	// surfaces the same error.
	housing, err := s.transformHousing(ctx, logger, runID, paths)
	if err != nil {
		return nil, err
	}
	school, err := s.transformSchool(ctx, logger, runID, paths)
	if err != nil {
		return nil, err
	}
	specialEd, err := s.transformSpecialEd(ctx, logger, runID, paths)
	if err != nil {
		return nil, err
	}

	// Stage 2: persist silver.
	summary := &Summary{
		RunID:      runID,
		IngestDate: ingestDate,
		Silver:     make(map[string]DatasetSummary, 3),
		Gold:       make(map[string]DatasetSummary, 1),
	}

	silverTables := []struct {
		dataset string
		table   exporter.Table
		path    string
	}{
		{DatasetHousing, exporter.HousingTable(housing), paths.SilverHousing()},
		{DatasetSchool, exporter.SchoolTable(school), paths.SilverSchool()},
		{DatasetSpecialEd, exporter.SpecialEdTable(specialEd), paths.SilverSpecialEd()},
	}
	for _, st := range silverTables {
		if err := s.writeTable(ctx, st.table, st.path); err != nil {
			return nil, err
		}
		summary.Silver[st.dataset] = DatasetSummary{
			Rows:       len(st.table.Rows),
			Columns:    len(st.table.Headers),
			OutputPath: st.path,
		}
		s.metrics.RecordRows(ctx, st.dataset, len(st.table.Rows))
		s.notifier.PublishProgress(ProgressUpdate{
			RunID: runID, Stage: "silver:" + st.dataset, Status: "completed", Rows: len(st.table.Rows),
		})
	}

	// Stage 3: build and persist gold.
	ctx, span := s.tracer.Start(ctx, "pipeline.gold")
	goldRecords := gold.Build(housing, school, specialEd, logger)
	goldTable := exporter.GoldTable(goldRecords)
	if err := s.writeTable(ctx, goldTable, paths.GoldCountyJoined()); err != nil {
		span.End()
		return nil, err
	}
	span.SetAttributes(attribute.Int("rows", len(goldTable.Rows)))
	span.End()

	summary.Gold[DatasetCountyJoined] = DatasetSummary{
		Rows:       len(goldTable.Rows),
		Columns:    len(goldTable.Headers),
		OutputPath: paths.GoldCountyJoined(),
	}
	s.metrics.RecordRows(ctx, DatasetCountyJoined, len(goldTable.Rows))
	s.notifier.PublishProgress(ProgressUpdate{
		RunID: runID, Stage: "gold:" + DatasetCountyJoined, Status: "completed", Rows: len(goldTable.Rows),
	})

	return summary, nil
}

func (s *Service) transformHousing(ctx context.Context, logger *slog.Logger, runID string, paths config.LakePaths) ([]domain.HousingRecord, error) {
	ctx, span := s.tracer.Start(ctx, "pipeline.transform.housing")
	defer span.End()

	data, err := s.store.ReadBytes(ctx, paths.BronzeHousing())
	if err != nil {
		return nil, err
	}
	rows, err := dataprocessing.DecodeCSV(data)
	if err != nil {
		return nil, err
	}
	records, err := dataprocessing.NormalizeHousing(rows)
	if err != nil {
		return nil, err
	}

	logger.Info("cleaned housing dataset", slog.Int("rows", len(records)))
	s.notifier.PublishProgress(ProgressUpdate{RunID: runID, Stage: "transform:" + DatasetHousing, Status: "completed", Rows: len(records)})
	return records, nil
}

func (s *Service) transformSchool(ctx context.Context, logger *slog.Logger, runID string, paths config.LakePaths) ([]domain.SchoolRecord, error) {
	ctx, span := s.tracer.Start(ctx, "pipeline.transform.school")
	defer span.End()

	data, err := s.store.ReadBytes(ctx, paths.BronzeSchool())
	if err != nil {
		return nil, err
	}
	rows, err := dataprocessing.DecodeWorkbook(data)
	if err != nil {
		return nil, err
	}
	records, err := dataprocessing.NormalizeSchool(rows)
	if err != nil {
		return nil, err
	}

	logger.Info("cleaned school dataset", slog.Int("rows", len(records)))
	s.notifier.PublishProgress(ProgressUpdate{RunID: runID, Stage: "transform:" + DatasetSchool, Status: "completed", Rows: len(records)})
	return records, nil
}

func (s *Service) transformSpecialEd(ctx context.Context, logger *slog.Logger, runID string, paths config.LakePaths) ([]domain.SpecialEdRecord, error) {
	ctx, span := s.tracer.Start(ctx, "pipeline.transform.special_education")
	defer span.End()

	data, err := s.store.ReadBytes(ctx, paths.BronzeSpecialEd())
	if err != nil {
		return nil, err
	}
	rows, err := dataprocessing.DecodeCSV(data)
	if err != nil {
		return nil, err
	}
	records, err := dataprocessing.NormalizeSpecialEd(rows)
	if err != nil {
		return nil, err
	}

	logger.Info("cleaned special education dataset", slog.Int("rows", len(records)))
	s.notifier.PublishProgress(ProgressUpdate{RunID: runID, Stage: "transform:" + DatasetSpecialEd, Status: "completed", Rows: len(records)})
	return records, nil
}

func (s *Service) writeTable(ctx context.Context, table exporter.Table, path string) error {
	data, err := table.Encode()
	if err != nil {
		return err
	}
	return s.store.WriteBytes(ctx, path, data)
}
