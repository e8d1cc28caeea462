package pipeline

import (
	"encoding/json"
	"io"

	"boxoffice/internal/errors"
	"boxoffice/internal/model"
)

// LoadRaw decodes a JSON array of raw movie records. The document as a
// whole must be an array; elements that do not decode into a record are
// skipped and counted in the second return value.
func LoadRaw(r io.Reader) ([]model.RawRecord, int, error) {
	var elems []json.RawMessage
	if err := json.NewDecoder(r).Decode(&elems); err != nil {
		return nil, 0, errors.MalformedInput("decode movies array").WithCause(err)
	}
	if elems == nil {
		return nil, 0, errors.MalformedInput("movies document is null")
	}
	out := make([]model.RawRecord, 0, len(elems))
	skipped := 0
	for _, e := range elems {
		var rec model.RawRecord
		if err := json.Unmarshal(e, &rec); err != nil {
			skipped++
			continue
		}
		out = append(out, rec)
	}
	return out, skipped, nil
}
