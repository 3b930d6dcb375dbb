package domain

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus represents the current status of a download run
type RunStatus string

const (
	StatusRunning   RunStatus = "running"
	StatusCompleted RunStatus = "completed"
	StatusFailed    RunStatus = "failed"
	StatusCancelled RunStatus = "cancelled"
)

// DownloadRecord is the persisted history entry for one script run.
// One record is created when a download is accepted and transitioned to a
// terminal status when the run ends.
type DownloadRecord struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	Title        string    `json:"title" gorm:"not null"`
	StartEpisode int       `json:"start_episode"`
	EndEpisode   int       `json:"end_episode,omitempty"`
	Quality      int       `json:"quality"`
	PreferDub    bool      `json:"prefer_dub"`
	Status       RunStatus `json:"status" gorm:"not null;index"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// NewDownloadRecord creates a running record from an accepted request
func NewDownloadRecord(req *DownloadRequest) *DownloadRecord {
	return &DownloadRecord{
		ID:           uuid.New().String(),
		Title:        req.Title,
		StartEpisode: req.StartEpisode,
		EndEpisode:   req.EndEpisode,
		Quality:      int(req.Quality),
		PreferDub:    req.PreferDub,
		Status:       StatusRunning,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

// MarkCompleted marks the run as finished successfully
func (r *DownloadRecord) MarkCompleted() {
	r.Status = StatusCompleted
	now := time.Now()
	r.CompletedAt = &now
	r.UpdatedAt = now
}

// MarkFailed marks the run as finished with a nonzero exit
func (r *DownloadRecord) MarkFailed(message string) {
	r.Status = StatusFailed
	r.ErrorMessage = message
	now := time.Now()
	r.CompletedAt = &now
	r.UpdatedAt = now
}

// MarkCancelled marks the run as killed on request. Cancellation is not a
// failure and carries no error message.
func (r *DownloadRecord) MarkCancelled() {
	r.Status = StatusCancelled
	now := time.Now()
	r.CompletedAt = &now
	r.UpdatedAt = now
}

// IsTerminal checks if the record is in a terminal state
func (r *DownloadRecord) IsTerminal() bool {
	return r.Status != StatusRunning
}
