package archive

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/deliberate/deliberate/pkg/decision"
)

// Encode serializes a collection as a JSON array. Timestamps use RFC 3339
// with nanoseconds; order is preserved. Repeated IDs are rejected.
func Encode(deliberations []decision.Deliberation) ([]byte, error) {
	if err := checkUnique(deliberations); err != nil {
		return nil, err
	}
	if deliberations == nil {
		deliberations = []decision.Deliberation{}
	}
	data, err := json.MarshalIndent(deliberations, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode deliberations: %w", err)
	}
	return data, nil
}

// Decode parses a collection written by Encode. Blank input decodes to an
// empty collection. Anything else that is not a valid array wraps ErrCorrupt.
func Decode(data []byte) ([]decision.Deliberation, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []decision.Deliberation{}, nil
	}
	var out []decision.Deliberation
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if out == nil {
		out = []decision.Deliberation{}
	}
	for i := range out {
		out[i] = repair(out[i])
	}
	return out, nil
}

// encodeOne and decodeOne serve the row-per-deliberation SQL backends.
func encodeOne(d decision.Deliberation) ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode deliberation %s: %w", d.ID, err)
	}
	return data, nil
}

func decodeOne(data []byte) (decision.Deliberation, error) {
	var d decision.Deliberation
	if err := json.Unmarshal(data, &d); err != nil {
		return decision.Deliberation{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return repair(d), nil
}

// repair replaces nil collections left by hand-edited or older archives.
func repair(d decision.Deliberation) decision.Deliberation {
	if d.Contenders == nil {
		d.Contenders = []decision.Contender{}
	}
	if d.Criteria == nil {
		d.Criteria = []decision.Criterion{}
	}
	for i := range d.Contenders {
		if d.Contenders[i].Appraisals == nil {
			d.Contenders[i].Appraisals = map[string]float64{}
		}
	}
	return d
}
