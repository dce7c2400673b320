package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

var jsonNull = []byte("null")

// Unwrap decodes a backend body that is either a {"data": T} envelope or
// a bare T. Anything else, including a null payload, is ErrMalformedResponse.
func Unwrap[T any](body []byte) (T, error) {
	var zero T

	payload, err := envelopePayload(body)
	if err != nil {
		return zero, err
	}

	var out T
	if err := json.Unmarshal(payload, &out); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return out, nil
}

// unwrapOneOrMany decodes a payload that may hold a single T or a list of T.
func unwrapOneOrMany[T any](body []byte) ([]T, error) {
	payload, err := envelopePayload(body)
	if err != nil {
		return nil, err
	}

	if payload[0] == '[' {
		var many []T
		if err := json.Unmarshal(payload, &many); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		return many, nil
	}

	var one T
	if err := json.Unmarshal(payload, &one); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return []T{one}, nil
}

// envelopePayload returns the bytes holding the actual value: the "data"
// member of an envelope object, or the whole body.
func envelopePayload(body []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedResponse)
	}
	if bytes.Equal(trimmed, jsonNull) {
		return nil, fmt.Errorf("%w: null body", ErrMalformedResponse)
	}

	if trimmed[0] != '{' {
		if trimmed[0] != '[' {
			return nil, fmt.Errorf("%w: body is neither an object nor a list", ErrMalformedResponse)
		}
		return trimmed, nil
	}

	var env map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	data, ok := env["data"]
	if !ok {
		return trimmed, nil
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		return nil, fmt.Errorf("%w: data is null", ErrMalformedResponse)
	}
	return data, nil
}
