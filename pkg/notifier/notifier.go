// Package notifier provides desktop notifications for line events
package notifier

import (
	"fmt"

	"github.com/gen2brain/beeep"

	"github.com/packline/packline/pkg/logger"
)

// LineNotifier raises desktop notifications for production line events
type LineNotifier struct {
	enabled bool
	logger  logger.Logger
}

// Config represents notification configuration
type Config struct {
	Enabled bool
}

// New creates a new line notifier
func New(config Config, log logger.Logger) *LineNotifier {
	return &LineNotifier{
		enabled: config.Enabled,
		logger:  log,
	}
}

// NotifyBatchComplete reports a finished batch import
func (n *LineNotifier) NotifyBatchComplete(source string, processed, approved, rejected, errors int) {
	if !n.enabled {
		return
	}

	title := "✅ Batch Import Complete"
	message := fmt.Sprintf("%s: %d processed, %d approved, %d rejected", source, processed, approved, rejected)
	if errors > 0 {
		title = "⚠️ Batch Import Finished With Errors"
		message = fmt.Sprintf("%s (%d row errors)", message, errors)
	}

	n.send(title, message)
}

// NotifyBatchFailed reports a batch that could not start
func (n *LineNotifier) NotifyBatchFailed(source string, err error) {
	if !n.enabled {
		return
	}

	n.send("❌ Batch Import Failed", fmt.Sprintf("%s: %v", source, err))
}

func (n *LineNotifier) send(title, message string) {
	if err := beeep.Notify(title, message, ""); err != nil && n.logger != nil {
		n.logger.Debug("Failed to send notification", logger.WithField("error", err))
	}
}
