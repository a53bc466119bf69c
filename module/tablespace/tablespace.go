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
package tablespace

import (
	"fmt"
	"os"
	"strings"

	"github.com/mfec/orapm/common"
	"github.com/pkg/errors"
)

const (
	colTablespaceName = "TABLESPACE_NAME"
	colPctFreeOfMax   = "PCT_FREE_OF_MAX"
)

// Flagged is one tablespace below the free-space threshold.
type Flagged struct {
	Name    string
	PctFree float64
}

// Result is the outcome of one tablespace free-space report scan.
type Result struct {
	Threshold   float64
	HeaderFound bool
	Flagged     []Flagged
}

// CheckFile scans a tablespace free-space report file.
func CheckFile(path string, threshold float64) (*Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read tablespace report [%s]", path)
	}
	return Check(string(raw), threshold), nil
}

// Check scans the space-delimited report: continuation lines are repaired,
// the header row located by its two known column names, and every data row
// below it checked against the percent-free-of-max threshold. Rows with
// unparseable numbers are skipped, never fatal.
func Check(content string, threshold float64) *Result {
	r := &Result{Threshold: threshold}

	lines := repairWrappedLines(strings.Split(content, "\n"))

	nameIdx, pctIdx := -1, -1
	for _, line := range lines {
		if !r.HeaderFound {
			if strings.Contains(line, colTablespaceName) && strings.Contains(line, colPctFreeOfMax) {
				r.HeaderFound = true
				headers := strings.Fields(line)
				for i, h := range headers {
					switch h {
					case colTablespaceName:
						nameIdx = i
					case colPctFreeOfMax:
						pctIdx = i
					}
				}
				if nameIdx < 0 || pctIdx < 0 {
					r.HeaderFound = false
					return r
				}
			}
			continue
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(line, "-") ||
			strings.HasPrefix(line, "db_name") || strings.HasPrefix(line, "SQL*Plus") ||
			strings.Contains(line, "rows selected") {
			continue
		}

		parts := strings.Fields(trimmed)
		max := nameIdx
		if pctIdx > max {
			max = pctIdx
		}
		if len(parts) <= max {
			continue
		}
		pct, ok := common.CoerceNumeric(parts[pctIdx])
		if !ok {
			continue
		}
		if pct < threshold {
			r.Flagged = append(r.Flagged, Flagged{Name: parts[nameIdx], PctFree: pct})
		}
	}
	return r
}

// Format renders the one-line pass/fail summary used as the checklist
// description.
func (r *Result) Format() string {
	if len(r.Flagged) == 0 {
		return fmt.Sprintf("%s All tablespaces have more than %.0f%% free space.", common.MarkerPass, r.Threshold)
	}
	parts := make([]string, 0, len(r.Flagged))
	for _, f := range r.Flagged {
		parts = append(parts, fmt.Sprintf("%s(%.2f%%)", f.Name, f.PctFree))
	}
	return fmt.Sprintf("%s %s have less than %.0f%% space left", common.MarkerFail, strings.Join(parts, ","), r.Threshold)
}

// repairWrappedLines joins lines beginning with whitespace onto the
// previous line; the report writer wraps long rows that way.
func repairWrappedLines(lines []string) []string {
	var out []string
	for _, line := range lines {
		if strings.TrimSpace(line) != "" && (strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")) && len(out) > 0 {
			out[len(out)-1] = strings.TrimSpace(out[len(out)-1]) + " " + strings.TrimSpace(line)
			continue
		}
		out = append(out, line)
	}
	return out
}
