package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "pricepulse-recording-rules",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "pricepulse-recording",
					Rules: []Rule{
						{
							Record: "pricepulse:http_requests:rate5m",
							Expr:   `sum(rate(pricepulse_http_requests_total[5m]))`,
						},
						{
							Record: "pricepulse:http_errors:rate5m",
							Expr:   `sum(rate(pricepulse_http_requests_total{status=~"5.."}[5m]))`,
						},
						{
							Record: "pricepulse:scrapes:rate5m",
							Expr:   `sum(rate(pricepulse_scrapes_total[5m]))`,
						},
						{
							Record: "pricepulse:scrape_failures:rate5m",
							Expr:   `sum(rate(pricepulse_scrape_failures_total[5m]))`,
						},
					},
				},
			},
		},
	}
}
