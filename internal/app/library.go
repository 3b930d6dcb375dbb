package app

import (
	"fmt"

	"github.com/yourusername/pahe-web-go/internal/domain"
	"github.com/yourusername/pahe-web-go/internal/infrastructure"
	"go.uber.org/zap"
)

// RunOutcome is the terminal state observed at the end of an event stream
type RunOutcome string

const (
	OutcomeCompleted RunOutcome = "completed"
	OutcomeFailed    RunOutcome = "failed"
	OutcomeCancelled RunOutcome = "cancelled"
)

// LibraryService keeps the persistent history of download runs and fires
// completion notifications.
type LibraryService struct {
	repo     domain.HistoryRepository
	notifier *infrastructure.NotificationService
	logger   *zap.Logger
}

// NewLibraryService creates a new library service
func NewLibraryService(repo domain.HistoryRepository, notifier *infrastructure.NotificationService, logger *zap.Logger) *LibraryService {
	return &LibraryService{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
	}
}

// Begin records an accepted download run
func (l *LibraryService) Begin(req *domain.DownloadRequest) (*domain.DownloadRecord, error) {
	record := domain.NewDownloadRecord(req)
	if err := l.repo.Create(record); err != nil {
		return nil, fmt.Errorf("failed to record download: %w", err)
	}
	return record, nil
}

// Finish transitions a run record to its terminal state
func (l *LibraryService) Finish(record *domain.DownloadRecord, outcome RunOutcome, errorMessage string) {
	switch outcome {
	case OutcomeCompleted:
		record.MarkCompleted()
		if l.notifier != nil {
			l.notifier.NotifyDownloadCompleted(record.Title)
		}
	case OutcomeFailed:
		record.MarkFailed(errorMessage)
		if l.notifier != nil {
			l.notifier.NotifyDownloadFailed(record.Title)
		}
	case OutcomeCancelled:
		record.MarkCancelled()
	}

	if err := l.repo.Update(record); err != nil {
		l.logger.Error("Failed to update download record",
			zap.String("id", record.ID),
			zap.Error(err))
		return
	}

	l.logger.Info("Download finished",
		zap.String("id", record.ID),
		zap.String("title", record.Title),
		zap.String("status", string(record.Status)))
}

// List returns all recorded runs, newest first
func (l *LibraryService) List() ([]*domain.DownloadRecord, error) {
	return l.repo.FindAll()
}

// MarkStaleRunning moves records left in running state by a previous server
// process to failed. Called once at startup.
func (l *LibraryService) MarkStaleRunning() error {
	stale, err := l.repo.FindByStatus(domain.StatusRunning)
	if err != nil {
		return err
	}
	for _, record := range stale {
		record.MarkFailed("server restarted during run")
		if err := l.repo.Update(record); err != nil {
			return err
		}
		l.logger.Warn("Marked stale running record as failed",
			zap.String("id", record.ID),
			zap.String("title", record.Title))
	}
	return nil
}
