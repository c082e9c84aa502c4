package dispatcher

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"tour-solver-service/internal/api/dto"
	"tour-solver-service/internal/domain"
)

type request struct {
	// data is the raw city array as received; checksums cover its
	// canonical form.
	data    json.RawMessage
	cities  []domain.City
	hash    string
	hasHash bool
}

// decodeRequest accepts either {"data": [...], "hash": "..."} or a bare
// city array. Failures wrap domain.ErrDecode.
func decodeRequest(payload []byte) (request, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return request{}, fmt.Errorf("decode request: %w: empty payload", domain.ErrDecode)
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return request{}, fmt.Errorf("decode request: %w: malformed JSON: %v", domain.ErrDecode, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return request{}, fmt.Errorf("decode request: %w: payload must contain only one JSON value", domain.ErrDecode)
	}

	var req request
	switch raw[0] {
	case '[':
		req.data = raw
	case '{':
		var env dto.SolveRequest
		if err := json.Unmarshal(raw, &env); err != nil {
			return request{}, fmt.Errorf("decode request: %w: hash must be a string", domain.ErrDecode)
		}
		if len(env.Data) == 0 {
			return request{}, fmt.Errorf("decode request: %w: missing field data", domain.ErrDecode)
		}
		req.data = env.Data
		if env.Hash != nil {
			req.hash = *env.Hash
			req.hasHash = true
		}
	default:
		return request{}, fmt.Errorf("decode request: %w: payload must be an object or an array", domain.ErrDecode)
	}

	cities, err := dto.DecodeCities(req.data)
	if err != nil {
		return request{}, fmt.Errorf("decode request: %w", err)
	}
	req.cities = cities

	return req, nil
}
