/*
Copyright Trustfabric Contributors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package canonical implements deterministic JCS-style serialization of JSON values.
//
// Two structurally equal JSON documents always serialize to byte-identical
// output: object keys are sorted by Unicode code point, numbers are emitted
// in ES6 shortest round-trip form, strings are NFC-normalized with minimal
// JSON escaping, and array order is preserved. Independent processes hashing
// the canonical bytes of the same document therefore agree on the digest.
package canonical

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

// ErrInvalidInput is returned when the input text is blank.
var ErrInvalidInput = errors.New("input text is empty")

// InvalidJSONError is returned by Parse when the input text is not valid JSON.
// The digest layer treats this case as a designed fallback, not an error.
type InvalidJSONError struct {
	Text     string
	ParseErr error
}

func (e *InvalidJSONError) Error() string {
	return fmt.Sprintf("invalid json: %v", e.ParseErr)
}

// Unwrap returns the underlying parse error.
func (e *InvalidJSONError) Unwrap() error {
	return e.ParseErr
}

// Parse parses text into a JSON value tree: map[string]interface{},
// []interface{}, json.Number, string, bool or nil. Numbers are kept as
// json.Number so canonical formatting is not lost to float64 defaults.
//
// Returns ErrInvalidInput for blank text and *InvalidJSONError for text that
// does not parse as JSON. A bare JSON literal ("\"str\"", "12", "true") is valid.
func Parse(text string) (interface{}, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrInvalidInput
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var v interface{}

	if err := dec.Decode(&v); err != nil {
		return nil, &InvalidJSONError{Text: text, ParseErr: err}
	}

	// anything after the first value makes the whole text non-JSON
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &InvalidJSONError{Text: text, ParseErr: errors.New("unexpected content after top-level value")}
	}

	return v, nil
}

// MarshalCanonical serializes a JSON value tree to its canonical byte form.
// Supported node types are map[string]interface{}, []interface{}, json.Number,
// float64, string, bool and nil.
func MarshalCanonical(v interface{}) ([]byte, error) {
	var buf bytes.Buffer

	if err := writeValue(&buf, v); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Transform parses text and returns its canonical byte form.
func Transform(text string) ([]byte, error) {
	v, err := Parse(text)
	if err != nil {
		return nil, err
	}

	return MarshalCanonical(v)
}

func writeValue(buf *bytes.Buffer, v interface{}) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case string:
		writeString(buf, val)
	case json.Number:
		return writeNumber(buf, string(val))
	case float64:
		s, err := formatNumber(val)
		if err != nil {
			return err
		}

		buf.WriteString(s)
	case int:
		return writeValue(buf, float64(val))
	case int64:
		return writeValue(buf, float64(val))
	case []interface{}:
		buf.WriteByte('[')

		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}

			if err := writeValue(buf, item); err != nil {
				return err
			}
		}

		buf.WriteByte(']')
	case map[string]interface{}:
		return writeObject(buf, val)
	default:
		return fmt.Errorf("canonical: unsupported value type %T", v)
	}

	return nil
}

func writeObject(buf *bytes.Buffer, m map[string]interface{}) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	// native string order over UTF-8 is Unicode code point order
	sort.Strings(keys)

	buf.WriteByte('{')

	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		writeString(buf, k)
		buf.WriteByte(':')

		if err := writeValue(buf, m[k]); err != nil {
			return err
		}
	}

	buf.WriteByte('}')

	return nil
}
