package infrastructure

import (
	"fmt"
	"os/exec"

	"github.com/yourusername/pahe-web-go/internal/domain"
	"go.uber.org/zap"
)

// NotificationService sends best-effort desktop notifications for finished
// download runs.
type NotificationService struct {
	config *domain.NotificationConfig
	logger *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(config *domain.NotificationConfig, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		config: config,
		logger: logger,
	}
}

// Send sends a notification
func (n *NotificationService) Send(title, message string) error {
	if !n.config.Enabled {
		return nil
	}

	switch n.config.Method {
	case "osascript":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, message, title)
		return n.run("osascript", "-e", script)
	case "notify-send":
		return n.run("notify-send", title, message)
	default:
		n.logger.Warn("Unknown notification method", zap.String("method", n.config.Method))
		return nil
	}
}

func (n *NotificationService) run(name string, args ...string) error {
	if err := exec.Command(name, args...).Run(); err != nil {
		n.logger.Error("Failed to send notification",
			zap.String("method", n.config.Method),
			zap.Error(err))
		return err
	}
	return nil
}

// NotifyDownloadCompleted sends a notification when a run completes
func (n *NotificationService) NotifyDownloadCompleted(title string) {
	n.Send("Download Completed", fmt.Sprintf("Finished: %s", truncateString(title, 40)))
}

// NotifyDownloadFailed sends a notification when a run fails
func (n *NotificationService) NotifyDownloadFailed(title string) {
	n.Send("Download Failed", fmt.Sprintf("Failed: %s", truncateString(title, 40)))
}

// truncateString truncates a string to the specified length
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
