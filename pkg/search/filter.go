package search

import (
	"sort"

	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/vectordb"
)

// TranslateFilter turns spec into an AND of equality conditions, one per
// scalar entry, in key order. Entries whose value is not a string, bool,
// integer or float are dropped and their keys returned as ignored. An empty
// spec yields a nil filter, which matches every point.
func TranslateFilter(spec vectordb.FilterSpec) (filter *vectordb.Filter, ignored []string) {
	if len(spec) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(spec))
	for k := range spec {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var must []vectordb.Condition
	for _, k := range keys {
		v := vectordb.NormalizeValue(spec[k])
		if !vectordb.IsScalar(v) {
			ignored = append(ignored, k)
			continue
		}
		must = append(must, vectordb.Condition{Field: k, Value: v})
	}
	if len(must) == 0 {
		return nil, ignored
	}
	return &vectordb.Filter{Must: must}, ignored
}
