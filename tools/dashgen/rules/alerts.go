package rules

// AlertRules returns a PrometheusRule CR containing alert rules for
// pricepulse operational monitoring.
func AlertRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "pricepulse-alerts",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "pricepulse-alerts",
					Rules: []Rule{
						{
							Alert: "PricePulseDown",
							Expr:  `absent(up{job="pricepulse"})`,
							For:   "2m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "PricePulse is down",
								"description": "The pricepulse job has been absent for more than 2 minutes.",
							},
						},
						{
							Alert: "PricePulseReadinessDown",
							Expr:  `pricepulse_readyz_up == 0`,
							For:   "2m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "PricePulse readiness check is failing",
								"description": "The readiness probe has been reporting not-ready for more than 2 minutes. The database connection is the usual suspect.",
							},
						},
						{
							Alert: "PricePulseHighErrorRate",
							Expr:  `pricepulse:http_errors:rate5m / pricepulse:http_requests:rate5m > 0.05`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "High HTTP error rate on PricePulse",
								"description": "More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes.",
							},
						},
						{
							Alert: "PricePulseScrapeFailures",
							Expr:  `pricepulse:scrape_failures:rate5m > 0.1`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Scrape failure rate is elevated",
								"description": "Scrapes are failing at more than 0.1/s for the last 5 minutes. Site markup may have changed.",
							},
						},
						{
							Alert: "PricePulseNoScrapes",
							Expr:  `sum(increase(pricepulse_scrapes_total[2h])) == 0`,
							For:   "0m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "No successful scrapes in 2 hours",
								"description": "The hourly batch should produce successful scrapes at least every hour; none completed in the last 2 hours.",
							},
						},
						{
							Alert: "PricePulseNotificationFailures",
							Expr:  `increase(pricepulse_notification_failures_total[5m]) > 0`,
							For:   "1m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Notification delivery failures detected",
								"description": "One or more price alert notifications (Discord webhooks) have failed to send.",
							},
						},
					},
				},
			},
		},
	}
}
