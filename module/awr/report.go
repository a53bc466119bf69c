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
package awr

import (
	"os"
	"regexp"
	"strings"

	"github.com/mfec/orapm/common"
	"github.com/pkg/errors"
)

var (
	efficiencySummaryRe = regexp.MustCompile(`instance\s+efficiency\s+percentages`)
	topEventsSummaryRe  = regexp.MustCompile(`top\s+10.*wait\s+events.*total\s+wait\s+time`)
	pgaSummaryRe        = regexp.MustCompile(`pga.*advisory`)
	sgaSummaryRe        = regexp.MustCompile(`sga.*target.*advisory`)
	threadSummaryRe     = regexp.MustCompile(`thread\s+activity\s+stats`)
)

// Report carries the targeted tables extracted from one AWR HTML report.
type Report struct {
	DBTimeMinutes  float64
	Efficiency     []Metric
	TopEvents      []WaitEvent
	TopSQL         []SQLStat
	PGAAdvisory    []Record
	SGAAdvisory    []Record
	ThreadActivity []Record
}

type Metric struct {
	Name     string
	Value    float64
	HasValue bool
}

type WaitEvent struct {
	Event        string
	Waits        float64
	TotalWaitSec float64
	PctDBTime    float64
	HasPctDBTime bool
	WaitClass    string
}

type SQLStat struct {
	SQLID      string
	ElapsedSec float64
	Executions float64
	PerExecSec float64
}

// ExtractFile parses and extracts the targeted tables from an AWR HTML
// file on disk.
func ExtractFile(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open awr report [%s]", path)
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parse awr report [%s]", path)
	}
	return Extract(doc), nil
}

// Extract pulls the six targeted tables out of the document. Missing
// tables yield empty slices, never an error.
func Extract(doc *Document) *Report {
	seconds, ok := DBTimeSeconds(doc.Text())
	rep := &Report{}
	if ok {
		rep.DBTimeMinutes = seconds / 60.0
	}
	rep.Efficiency = extractEfficiency(doc)
	rep.TopEvents = extractTopEvents(doc)
	rep.TopSQL = extractTopSQL(doc)
	if t := doc.FindTable(pgaSummaryRe, "PGA Memory Advisory", "PGA Aggregate Target Advisory"); t != nil {
		rep.PGAAdvisory = t.Records()
	}
	if t := doc.FindTable(sgaSummaryRe, "SGA Target Advisory"); t != nil {
		rep.SGAAdvisory = t.Records()
	}
	if t := doc.FindTable(threadSummaryRe, "Instance Activity Stats - Thread Activity"); t != nil {
		rep.ThreadActivity = t.Records()
	}
	return rep
}

// extractEfficiency walks the metric:value pair layout, two cells per
// metric, keeping only the ratio metrics the rules care about.
func extractEfficiency(doc *Document) []Metric {
	t := doc.FindTable(efficiencySummaryRe, "Instance Efficiency Percentages")
	if t == nil {
		return nil
	}
	var out []Metric
	all := append([][]string{t.Columns}, t.Rows...)
	for _, row := range all {
		for i := 0; i+1 < len(row); i += 2 {
			name := row[i]
			if !common.ContainsAnyFold(name, "Hit %", "Parse", "Latch", "Redo", "Buffer", "Library", "Flash Cache") {
				continue
			}
			m := Metric{Name: strings.ReplaceAll(name, ":", "")}
			m.Value, m.HasValue = common.CoerceNumeric(row[i+1])
			out = append(out, m)
		}
	}
	return out
}

func extractTopEvents(doc *Document) []WaitEvent {
	t := doc.FindTable(topEventsSummaryRe, "Top 10 Foreground Events by Total Wait Time")
	if t == nil {
		return nil
	}

	eventIdx := -1
	for i, col := range t.Columns {
		if common.ContainsAnyFold(col, "event") && !common.ContainsAnyFold(col, "class") {
			eventIdx = i
			break
		}
	}
	if eventIdx < 0 {
		return nil
	}
	waitsIdx := t.ColumnIndex("waits")
	totalIdx := t.ColumnIndex("total wait", "time (sec")
	pctIdx := t.ColumnIndex("% db time")
	classIdx := t.ColumnIndex("wait class")

	var events []WaitEvent
	for _, row := range t.Rows {
		if len(events) == 10 {
			break
		}
		if eventIdx >= len(row) {
			continue
		}
		ev := WaitEvent{Event: row[eventIdx]}
		if waitsIdx >= 0 && waitsIdx < len(row) {
			ev.Waits, _ = common.CoerceNumeric(row[waitsIdx])
		}
		if totalIdx >= 0 && totalIdx < len(row) {
			ev.TotalWaitSec, _ = common.CoerceNumeric(row[totalIdx])
		}
		if pctIdx >= 0 && pctIdx < len(row) {
			ev.PctDBTime, ev.HasPctDBTime = common.CoerceNumeric(row[pctIdx])
		}
		if classIdx >= 0 && classIdx < len(row) {
			ev.WaitClass = row[classIdx]
		}
		events = append(events, ev)
	}
	return events
}

// extractTopSQL scans every table that looks like the "SQL ordered by
// Elapsed Time" section, deduplicated by SQL id with first occurrence
// winning.
func extractTopSQL(doc *Document) []SQLStat {
	var out []SQLStat
	seen := map[string]bool{}
	for _, t := range doc.AllTables() {
		if !t.HasCell("sql id", "sqlid", "sql_id") || !t.HasCell("elapsed time") {
			continue
		}
		idIdx := t.ColumnIndex("sql id", "sqlid", "sql_id")
		if idIdx < 0 {
			continue
		}
		perExecIdx, elapsedIdx := -1, -1
		for i, col := range t.Columns {
			lc := strings.ToLower(common.CollapseWhitespace(col))
			if strings.Contains(lc, "elapsed time") && (strings.Contains(lc, "/exec") || strings.Contains(lc, "per exec")) {
				if perExecIdx < 0 {
					perExecIdx = i
				}
			} else if strings.Contains(lc, "elapsed time") && (strings.Contains(lc, "(s") || strings.Contains(lc, "sec")) {
				if elapsedIdx < 0 {
					elapsedIdx = i
				}
			}
		}
		if elapsedIdx < 0 && perExecIdx < 0 {
			continue
		}
		execIdx := t.ColumnIndex("executions")

		taken := 0
		for _, row := range t.Rows {
			if taken == 10 {
				break
			}
			taken++
			if idIdx >= len(row) || strings.TrimSpace(row[idIdx]) == "" {
				continue
			}
			id := strings.TrimSpace(row[idIdx])
			if seen[id] {
				continue
			}
			seen[id] = true
			s := SQLStat{SQLID: id}
			if elapsedIdx >= 0 && elapsedIdx < len(row) {
				s.ElapsedSec, _ = common.CoerceNumeric(row[elapsedIdx])
			}
			if perExecIdx >= 0 && perExecIdx < len(row) {
				s.PerExecSec, _ = common.CoerceNumeric(row[perExecIdx])
			}
			if execIdx >= 0 && execIdx < len(row) {
				s.Executions, _ = common.CoerceNumeric(row[execIdx])
			}
			out = append(out, s)
		}
	}
	return out
}
