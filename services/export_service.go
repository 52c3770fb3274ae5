package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"

	"github.com/Dosada05/swiss-tables/models"
	"github.com/Dosada05/swiss-tables/repositories"
	"github.com/Dosada05/swiss-tables/storage"
)

const exportKeyPrefix = "standings/"

type ExportResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// ExportService uploads standings snapshots to object storage.
type ExportService interface {
	ExportStandings(ctx context.Context, caller models.Caller) (*ExportResult, error)
	// StartSchedule exports every interval until the returned stop func is
	// called.
	StartSchedule(interval time.Duration) (stop func() error, err error)
}

type exportService struct {
	standings StandingsService
	store     repositories.Store
	uploader  storage.FileUploader
	gate      AccessGate
	logger    *slog.Logger
	now       func() time.Time
}

// NewExportService accepts a nil uploader; every export then fails with
// ErrExportDisabled.
func NewExportService(
	standings StandingsService,
	store repositories.Store,
	uploader storage.FileUploader,
	gate AccessGate,
	logger *slog.Logger,
) ExportService {
	return &exportService{
		standings: standings,
		store:     store,
		uploader:  uploader,
		gate:      gate,
		logger:    loggerOrDefault(logger),
		now:       time.Now,
	}
}

func (s *exportService) ExportStandings(ctx context.Context, caller models.Caller) (*ExportResult, error) {
	if err := requireAdmin(s.gate, caller); err != nil {
		return nil, err
	}
	return s.export(ctx)
}

func (s *exportService) export(ctx context.Context) (*ExportResult, error) {
	if s.uploader == nil {
		return nil, ErrExportDisabled
	}

	standings, err := s.standings.Standings(ctx)
	if err != nil {
		return nil, err
	}
	rounds, err := s.store.Rounds().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}

	now := s.now().UTC()
	snapshot := models.StandingsSnapshot{
		GeneratedAt: now.Format(time.RFC3339),
		RoundCount:  len(rounds),
		Standings:   standings,
	}
	body, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("marshal standings snapshot: %w", err)
	}

	key := fmt.Sprintf("%s%s-%s.json", exportKeyPrefix, now.Format("20060102T150405Z"), uuid.NewString())
	uploaded, err := s.uploader.Upload(ctx, key, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("upload standings snapshot: %w", err)
	}

	s.logger.InfoContext(ctx, "standings exported", slog.String("key", uploaded.Key), slog.Int("rows", len(standings)))
	return &ExportResult{Key: uploaded.Key, URL: uploaded.Location}, nil
}

func (s *exportService) StartSchedule(interval time.Duration) (func() error, error) {
	if s.uploader == nil {
		return nil, ErrExportDisabled
	}
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if _, err := s.export(ctx); err != nil {
				s.logger.Error("scheduled standings export failed", slog.Any("error", err))
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("schedule standings export: %w", err)
	}
	sched.Start()
	s.logger.Info("standings export scheduled", slog.Duration("interval", interval))
	return sched.Shutdown, nil
}
