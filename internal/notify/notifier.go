// Package notify defines the notification interface and implementations
// for price alert delivery.
package notify

import (
	"context"
)

// AlertPayload contains the data needed to deliver one price alert.
// Prices arrive pre-formatted so the sink never re-rounds them.
type AlertPayload struct {
	ProductName   string
	ProductURL    string
	Site          string
	Kind          string
	TriggerPrice  string
	PreviousPrice string
	TargetPrice   string
	PercentChange string
	Email         string
}

// Notifier defines the interface for sending price alert notifications.
type Notifier interface {
	SendAlert(ctx context.Context, alert *AlertPayload) error
	SendBatchAlert(ctx context.Context, alerts []AlertPayload, title string) error
}
