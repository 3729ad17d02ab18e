package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"k8s.io/klog/v2"

	"github.com/shapestone/shape-csv-dialect/pkg/csv"
)

func printRecord(w io.Writer, rec csv.Record) error {
	return json.NewEncoder(w).Encode(rec)
}

func printRecords(w io.Writer, rows []csv.Record) error {
	enc := json.NewEncoder(w)
	for _, rec := range rows {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}

// parseWhere turns column=value conditions into a record predicate that
// requires all of them.
func parseWhere(conds []string) (func(csv.Record) bool, error) {
	want := make(map[string]string, len(conds))
	for _, c := range conds {
		col, val, ok := strings.Cut(c, "=")
		if !ok {
			return nil, fmt.Errorf("--where %q: expected column=value", c)
		}
		want[col] = val
	}

	return func(rec csv.Record) bool {
		for col, val := range want {
			if got, ok := rec[col]; !ok || got != val {
				return false
			}
		}
		return true
	}, nil
}

func logMetrics(reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			klog.InfoS("Pipeline counter", "name", mf.GetName(), "value", m.GetCounter().GetValue())
		}
	}
	return nil
}
