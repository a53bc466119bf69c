/*
Copyright © 2020 Marvin

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package common

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	numericPattern = regexp.MustCompile(`[-+]?\d*\.?\d+(?:[eE][-+]?\d+)?`)
	versionPattern = regexp.MustCompile(`\d+(?:\.\d+)*`)
	spacePattern   = regexp.MustCompile(`\s+`)
)

// CoerceNumeric extracts the first numeric token from a report cell,
// tolerating thousands separators, percent signs and non-breaking spaces.
// Returns false when the cell carries no number.
func CoerceNumeric(s string) (float64, bool) {
	cleaned := strings.NewReplacer(",", "", "%", "", " ", " ").Replace(strings.TrimSpace(s))
	token := numericPattern.FindString(cleaned)
	if token == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(token)
	if err != nil {
		return 0, false
	}
	f, _ := d.Float64()
	return f, true
}

// CollapseWhitespace folds runs of whitespace (including NBSP) into single
// spaces, used to normalize AWR column headers before keyword lookup.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(spacePattern.ReplaceAllString(strings.ReplaceAll(s, " ", " "), " "))
}

// ContainsAnyFold reports whether text contains any of the needles,
// case-insensitive.
func ContainsAnyFold(text string, needles ...string) bool {
	t := strings.ToLower(text)
	for _, n := range needles {
		if strings.Contains(t, strings.ToLower(n)) {
			return true
		}
	}
	return false
}

// LeadingVersionToken extracts the dotted numeric head of a version display
// string, e.g. "19.27" from "19.27 (APR 2025)".
func LeadingVersionToken(s string) string {
	return versionPattern.FindString(s)
}

// MajorMinor reduces a dotted version string to its first two numeric
// components. A single component implies minor 0.
func MajorMinor(version string) (int, int, bool) {
	var parts []int
	for _, p := range strings.Split(version, ".") {
		n, err := strconv.Atoi(p)
		if err != nil {
			break
		}
		parts = append(parts, n)
	}
	switch len(parts) {
	case 0:
		return 0, 0, false
	case 1:
		return parts[0], 0, true
	default:
		return parts[0], parts[1], true
	}
}
