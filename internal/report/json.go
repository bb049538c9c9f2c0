package report

import (
	"encoding/json"
	"io"

	"github.com/commitlens/commitlens-go/internal/pipeline"
)

// WriteJSON renders the result as indented JSON for machine consumption.
// Empty collections serialize as empty arrays, keeping "no activity"
// distinguishable from a failed run (which produces no output at all).
func WriteJSON(w io.Writer, result *pipeline.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// MarshalResult returns the compact JSON encoding used by the run store.
func MarshalResult(result *pipeline.Result) ([]byte, error) {
	return json.Marshal(result)
}

// UnmarshalResult decodes a stored run snapshot.
func UnmarshalResult(data []byte) (*pipeline.Result, error) {
	var result pipeline.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
