/*
Copyright Trustfabric Contributors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package canonical

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// writeNumber emits the canonical form of a JSON number literal. The literal
// is first bound to an IEEE-754 double, matching what every JCS implementation
// hashes, so "1.50" and "1.5" canonicalize identically.
func writeNumber(buf *bytes.Buffer, literal string) error {
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return fmt.Errorf("canonical: number %q out of range: %w", literal, err)
	}

	s, err := formatNumber(f)
	if err != nil {
		return err
	}

	buf.WriteString(s)

	return nil
}

// formatNumber serializes a double in ES6 Number-to-string form: the shortest
// round-trippable digit sequence, decimal notation while the exponent stays in
// [-6, 20], and "d.dde±x" notation outside it. Negative zero collapses to "0".
func formatNumber(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", errors.New("canonical: NaN and Infinity have no JSON form")
	}

	if f == 0 {
		return "0", nil
	}

	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}

	// shortest round-trip digits in the form d[.ddd]e±dd
	mant := strconv.FormatFloat(f, 'e', -1, 64)

	ePos := strings.IndexByte(mant, 'e')

	exp, err := strconv.Atoi(mant[ePos+1:])
	if err != nil {
		return "", fmt.Errorf("canonical: malformed exponent in %q: %w", mant, err)
	}

	digits := strings.Replace(mant[:ePos], ".", "", 1)

	k := len(digits)
	n := exp + 1 // decimal point position relative to the digit sequence

	switch {
	case n >= k && n <= 21:
		return sign + digits + strings.Repeat("0", n-k), nil
	case n > 0 && n < k:
		return sign + digits[:n] + "." + digits[n:], nil
	case n > -6 && n <= 0:
		return sign + "0." + strings.Repeat("0", -n) + digits, nil
	default:
		e := n - 1

		es := strconv.Itoa(e)
		if e >= 0 {
			es = "+" + es
		}

		m := digits[:1]
		if k > 1 {
			m += "." + digits[1:]
		}

		return sign + m + "e" + es, nil
	}
}
