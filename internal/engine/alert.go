package engine

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/pricepulse/pricepulse/internal/metrics"
	"github.com/pricepulse/pricepulse/internal/notify"
	"github.com/pricepulse/pricepulse/internal/store"
	domain "github.com/pricepulse/pricepulse/pkg/types"
)

// priceDropThreshold is the minimum percentage drop that fires a
// PRICE_DROP alert.
var priceDropThreshold = decimal.NewFromInt(5)

const batchThreshold = 5

// EvaluationInput is one product observation handed to the evaluator.
// PrevPrice is the last recorded price, nil on the first observation.
type EvaluationInput struct {
	Product   *domain.Product
	NewPrice  decimal.Decimal
	PrevPrice *decimal.Decimal
}

// EvaluateAlerts decides which alerts a new price observation triggers.
// It is a pure function of its input: no clock, no store, no I/O.
//
// TARGET_REACHED fires on the crossing edge only: the new price is at or
// below the target while the previous price was above it (or absent).
// A price that stays below target on consecutive observations fires once.
//
// PRICE_DROP fires when the price fell at least 5% from the previous
// observation. The percentage is rounded half-up to four decimal places
// before comparison, so a drop of exactly 5.0000% fires. Both kinds can
// fire from the same observation.
func EvaluateAlerts(in EvaluationInput) []domain.AlertEvent {
	p := in.Product
	if p == nil {
		return nil
	}

	var events []domain.AlertEvent

	if p.HasTarget() &&
		in.NewPrice.LessThanOrEqual(*p.TargetPrice) &&
		(in.PrevPrice == nil || in.PrevPrice.GreaterThan(*p.TargetPrice)) {
		events = append(events, domain.AlertEvent{
			ProductID:     p.ID,
			Kind:          domain.AlertTargetReached,
			TriggerPrice:  in.NewPrice,
			PreviousPrice: in.PrevPrice,
			Email:         p.AlertEmail,
		})
	}

	if in.PrevPrice != nil && in.PrevPrice.IsPositive() && in.NewPrice.LessThan(*in.PrevPrice) {
		pct := dropPercent(*in.PrevPrice, in.NewPrice)
		if pct.GreaterThanOrEqual(priceDropThreshold) {
			pctFloat := pct.InexactFloat64()
			events = append(events, domain.AlertEvent{
				ProductID:     p.ID,
				Kind:          domain.AlertPriceDrop,
				TriggerPrice:  in.NewPrice,
				PreviousPrice: in.PrevPrice,
				PercentChange: &pctFloat,
				Email:         p.AlertEmail,
			})
		}
	}

	return events
}

// dropPercent computes (prev-new)/prev as a percentage, with the ratio
// rounded half-up to four decimal places before scaling.
func dropPercent(prev, next decimal.Decimal) decimal.Decimal {
	return prev.Sub(next).DivRound(prev, 4).Mul(decimal.NewFromInt(100))
}

// ProcessAlerts sends notifications for pending alerts, then marks them
// as notified. Delivery is at-most-once per alert: an alert is marked
// only after the sink accepts it, and a failed send leaves it pending
// for the next cycle. Five or more pending alerts go out as one batch
// message.
func ProcessAlerts(
	ctx context.Context,
	s store.Store,
	n notify.Notifier,
) error {
	pending, err := s.ListPendingAlerts(ctx)
	if err != nil {
		return fmt.Errorf("listing pending alerts: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	if len(pending) >= batchThreshold {
		return sendBatch(ctx, s, n, pending)
	}

	for i := range pending {
		if err := sendSingle(ctx, s, n, &pending[i]); err != nil {
			metrics.NotificationFailuresTotal.Inc()
			return err
		}
	}

	return nil
}

func sendSingle(
	ctx context.Context,
	s store.Store,
	n notify.Notifier,
	alert *domain.Alert,
) error {
	product, err := s.GetProduct(ctx, alert.ProductID)
	if err != nil {
		return fmt.Errorf("getting product %s: %w", alert.ProductID, err)
	}

	payload := buildAlertPayload(product, alert)

	if err := n.SendAlert(ctx, payload); err != nil {
		return fmt.Errorf("sending alert: %w", err)
	}

	metrics.AlertsFiredTotal.WithLabelValues(string(alert.Kind)).Inc()

	return s.MarkAlertNotified(ctx, alert.ID)
}

func sendBatch(
	ctx context.Context,
	s store.Store,
	n notify.Notifier,
	alerts []domain.Alert,
) error {
	payloads := make([]notify.AlertPayload, 0, len(alerts))
	alertIDs := make([]string, 0, len(alerts))

	for i := range alerts {
		product, err := s.GetProduct(ctx, alerts[i].ProductID)
		if err != nil {
			continue // product may have been deleted
		}
		payloads = append(payloads, *buildAlertPayload(product, &alerts[i]))
		alertIDs = append(alertIDs, alerts[i].ID)
	}

	if len(payloads) == 0 {
		return nil
	}

	if err := n.SendBatchAlert(ctx, payloads, "Price Alerts"); err != nil {
		metrics.NotificationFailuresTotal.Inc()
		return fmt.Errorf("sending batch alert: %w", err)
	}

	for i, id := range alertIDs {
		metrics.AlertsFiredTotal.WithLabelValues(string(alerts[i].Kind)).Inc()
		if err := s.MarkAlertNotified(ctx, id); err != nil {
			return fmt.Errorf("marking alert %s notified: %w", id, err)
		}
	}

	return nil
}

func buildAlertPayload(product *domain.Product, alert *domain.Alert) *notify.AlertPayload {
	payload := &notify.AlertPayload{
		ProductName:  product.Name,
		ProductURL:   product.URL,
		Site:         product.SourceSite,
		Kind:         string(alert.Kind),
		TriggerPrice: alert.TriggerPrice.StringFixed(2),
		Email:        alert.Email,
	}

	if alert.PreviousPrice != nil {
		payload.PreviousPrice = alert.PreviousPrice.StringFixed(2)
	}
	if alert.PercentChange != nil {
		payload.PercentChange = fmt.Sprintf("%.2f%%", *alert.PercentChange)
	}
	if product.TargetPrice != nil {
		payload.TargetPrice = product.TargetPrice.StringFixed(2)
	}

	return payload
}
