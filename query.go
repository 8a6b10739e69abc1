package warehouse

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/PaesslerAG/jsonpath"
)

// Query evaluates a JSONPath expression against the snapshot form of a state,
// for instance `$.assets[?(@.status=="AVAILABLE")].signalNumber`.
func Query(st State, path string) (any, error) {
	data, err := json.Marshal(NewSnapshot(st, time.Time{}))
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	v, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", path, err)
	}
	return v, nil
}
