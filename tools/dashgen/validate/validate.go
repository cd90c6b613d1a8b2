// Package validate checks generated dashboards for PromQL syntax errors and
// references to metrics the service does not export.
package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/prometheus/prometheus/promql/parser"
)

// Result collects validation errors and warnings.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether validation found no errors. Warnings do not fail
// validation.
func (r Result) Ok() bool {
	return len(r.Errors) == 0
}

// Dashboard parses every query expression in the dashboard and checks each
// referenced metric against the known set. It walks the dashboard's JSON
// form, so it is independent of how the SDK nests panels and targets.
func Dashboard(dash dashboard.Dashboard, known map[string]bool) Result {
	var res Result

	raw, err := json.Marshal(dash)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("marshaling dashboard: %v", err))
		return res
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("decoding dashboard: %v", err))
		return res
	}

	for _, expr := range collectExprs(doc) {
		checkExpr(expr, known, &res)
	}
	return res
}

// collectExprs gathers every non-empty "expr" string in the document tree.
func collectExprs(node any) []string {
	var exprs []string
	switch v := node.(type) {
	case map[string]any:
		for key, val := range v {
			if key == "expr" {
				if s, ok := val.(string); ok && s != "" {
					exprs = append(exprs, s)
					continue
				}
			}
			exprs = append(exprs, collectExprs(val)...)
		}
	case []any:
		for _, item := range v {
			exprs = append(exprs, collectExprs(item)...)
		}
	}
	return exprs
}

func checkExpr(expr string, known map[string]bool, res *Result) {
	node, err := parser.ParseExpr(expr)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("invalid PromQL %q: %v", expr, err))
		return
	}

	parser.Inspect(node, func(n parser.Node, _ []parser.Node) error {
		vs, ok := n.(*parser.VectorSelector)
		if !ok {
			return nil
		}
		if vs.Name == "" {
			res.Warnings = append(res.Warnings, fmt.Sprintf("selector without metric name in %q", expr))
			return nil
		}
		if !knownMetric(vs.Name, known) {
			res.Errors = append(res.Errors, fmt.Sprintf("unknown metric %q in %q", vs.Name, expr))
		}
		return nil
	})
}

// knownMetric accepts histogram series suffixes against their base metric:
// a known histogram implies its _bucket, _count, and _sum series.
func knownMetric(name string, known map[string]bool) bool {
	if known[name] {
		return true
	}
	for _, suffix := range []string{"_bucket", "_count", "_sum"} {
		if base, ok := strings.CutSuffix(name, suffix); ok && known[base] {
			return true
		}
	}
	return false
}
