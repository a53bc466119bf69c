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
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mfec/orapm/common"
)

const sectionRule = "======================================================================"

// Analysis is the rule evaluation over one extracted report. Empty advice
// strings and empty warning slices mean the section passed.
type Analysis struct {
	DBTimeMinutes    float64
	HitRatioWarnings []Metric
	EventWarnings    []EventWarning
	ConcerningSQL    []string
	SGAAdvice        string
	PGAAdvice        string
	RedoSwitchHigh   bool
}

type EventWarning struct {
	Event     string
	PctDBTime float64
}

// Analyze evaluates the threshold rules against an extracted report.
func Analyze(rep *Report) *Analysis {
	a := &Analysis{DBTimeMinutes: rep.DBTimeMinutes}
	a.HitRatioWarnings = analyzeEfficiency(rep.Efficiency)
	a.EventWarnings = analyzeTopEvents(rep.TopEvents, rep.DBTimeMinutes)
	a.ConcerningSQL = analyzeTopSQL(rep.TopSQL)
	a.SGAAdvice = analyzeSGAAdvisory(rep.SGAAdvisory)
	a.PGAAdvice = analyzePGAAdvisory(rep.PGAAdvisory)
	a.RedoSwitchHigh = analyzeThreadActivity(rep.ThreadActivity)
	return a
}

// analyzeEfficiency flags ratio metrics below 70%, Flash Cache excluded.
func analyzeEfficiency(metrics []Metric) []Metric {
	var warnings []Metric
	for _, m := range metrics {
		if strings.Contains(m.Name, "Flash Cache Hit") || !m.HasValue || m.Value >= 70 {
			continue
		}
		if strings.Contains(m.Name, "Hit %") ||
			(strings.Contains(m.Name, "Parse") && strings.Contains(m.Name, "to")) ||
			strings.Contains(m.Name, "Latch Hit %") {
			warnings = append(warnings, m)
		}
	}
	return warnings
}

// analyzeTopEvents flags non-CPU events carrying more %DB time than DB CPU
// itself. Reports with under 50 minutes of DB time pass outright.
func analyzeTopEvents(events []WaitEvent, dbTimeMinutes float64) []EventWarning {
	if dbTimeMinutes < 50 {
		return nil
	}
	var dbCPUPct float64
	for _, ev := range events {
		if ev.Event == "DB CPU" {
			dbCPUPct = ev.PctDBTime
			break
		}
	}
	var warnings []EventWarning
	for _, ev := range events {
		if ev.Event != "DB CPU" && ev.HasPctDBTime && ev.PctDBTime > dbCPUPct {
			warnings = append(warnings, EventWarning{Event: ev.Event, PctDBTime: ev.PctDBTime})
		}
	}
	return warnings
}

func analyzeTopSQL(stats []SQLStat) []string {
	var flagged []string
	seen := map[string]bool{}
	for _, s := range stats {
		if s.SQLID == "" || seen[s.SQLID] {
			continue
		}
		heavyTotal := s.ElapsedSec > 100000
		heavyPerExec := s.PerExecSec > 3000
		hotAndSlow := s.Executions > 100 && s.PerExecSec > 300
		if heavyTotal || heavyPerExec || hotAndSlow {
			seen[s.SQLID] = true
			flagged = append(flagged, s.SQLID)
		}
	}
	return flagged
}

// analyzeSGAAdvisory recommends the smallest larger SGA whose estimated
// physical-read drop is worth the size increase: proportional improvement
// of at least 1.5x the factor increase, or a sub-1GiB increase dropping
// reads by more than ten million.
func analyzeSGAAdvisory(rows []Record) string {
	var current Record
	for _, row := range rows {
		if f, ok := row.Number("sga size factor"); ok && f == 1.00 {
			current = row
			break
		}
	}
	if current == nil {
		return ""
	}
	curReads, okReads := current.Number("est physical reads")
	curSize, okSize := current.Number("sga target size")
	if !okReads || !okSize {
		return ""
	}

	for _, row := range rows {
		factor, ok := row.Number("sga size factor")
		if !ok || factor <= 1.00 {
			continue
		}
		estReads, ok1 := row.Number("est physical reads")
		tgtSize, ok2 := row.Number("sga target size")
		if !ok1 || !ok2 {
			continue
		}

		proportional := false
		if curReads > 0 {
			improvement := (curReads - estReads) / curReads
			proportional = improvement >= 1.5*(factor-1.0)
		}
		cheapBigWin := tgtSize-curSize < 1024 && curReads-estReads > 10_000_000

		if proportional || cheapBigWin {
			return fmt.Sprintf("Recommend to increase size from %.0f MB to %.0f MB. Physical Reads would decrease by %.0f from %.0f to %.0f",
				curSize, tgtSize, curReads-estReads, curReads, estReads)
		}
	}
	return ""
}

// analyzePGAAdvisory mirrors the SGA rule over the extra work-area MB
// read/written estimate.
func analyzePGAAdvisory(rows []Record) string {
	var current Record
	for _, row := range rows {
		if f, ok := row.Number("size factr"); ok && f == 1.00 {
			current = row
			break
		}
	}
	if current == nil {
		return ""
	}
	curExtra, okExtra := current.Number("estd extra w/a")
	curSize, okSize := current.Number("pga target est")
	if !okExtra || !okSize {
		return ""
	}

	for _, row := range rows {
		factor, ok := row.Number("size factr")
		if !ok || factor <= 1.00 {
			continue
		}
		estExtra, ok1 := row.Number("estd extra w/a")
		tgtSize, ok2 := row.Number("pga target est")
		if !ok1 || !ok2 {
			continue
		}
		improvement := curExtra * 1.5 * (factor - 1.0)
		if improvement > 0 && curExtra-estExtra >= improvement {
			return fmt.Sprintf("Recommend to increase size from %.0f MB to %.0f MB. Extra W/A MB Read/Written to Disk would decrease by %.0f from %.0f to %.0f",
				curSize, tgtSize, curExtra-estExtra, curExtra, estExtra)
		}
	}
	return ""
}

func analyzeThreadActivity(rows []Record) bool {
	for _, row := range rows {
		stat, ok := row.Cell("statistic")
		if !ok || !strings.Contains(strings.ToLower(stat), "log switches") {
			continue
		}
		if perHour, ok := row.Number("per hour"); ok && perHour > 4 {
			return true
		}
	}
	return false
}

// FormatReport renders the section-by-section analysis text written to
// awr_analysis.txt.
func FormatReport(rep *Report, a *Analysis) string {
	var b strings.Builder
	b.WriteString("--- AWR Targeted Tables ---\n\n")
	fmt.Fprintf(&b, "DB Time (minutes): %.2f\n\n", rep.DBTimeMinutes)

	section(&b, "Instance Efficiency Percentages (Target 100%)", len(rep.Efficiency) == 0, func() string {
		if len(a.HitRatioWarnings) > 0 {
			parts := make([]string, 0, len(a.HitRatioWarnings))
			for _, m := range a.HitRatioWarnings {
				parts = append(parts, fmt.Sprintf("%s: %.2f", m.Name, m.Value))
			}
			return fmt.Sprintf("%s Hit Ratio: %s", common.MarkerFail, strings.Join(parts, ", "))
		}
		return fmt.Sprintf("%s Hit Ratio: All statistics more than 70%% or follow the same trend", common.MarkerPass)
	})

	section(&b, "Top 10 Foreground Events by Total Wait Time", len(rep.TopEvents) == 0, func() string {
		text := renderEventTable(rep.TopEvents)
		if len(a.EventWarnings) > 0 {
			parts := make([]string, 0, len(a.EventWarnings))
			for _, w := range a.EventWarnings {
				parts = append(parts, fmt.Sprintf("%s: %.1f%% DB Time", w.Event, w.PctDBTime))
			}
			return text + fmt.Sprintf("%s %s", common.MarkerFail, strings.Join(parts, ", "))
		}
		return text + fmt.Sprintf("%s Wait event: No concerning wait event with significant DB time more than CPU time", common.MarkerPass)
	})

	section(&b, "SQL ordered by Elapsed Time", len(rep.TopSQL) == 0, func() string {
		text := renderSQLTable(rep.TopSQL)
		if len(a.ConcerningSQL) > 0 {
			return text + fmt.Sprintf("%s Concerning running SQL with significant running time or wait sql_id:%s",
				common.MarkerFail, strings.Join(a.ConcerningSQL, ","))
		}
		return text + fmt.Sprintf("%s Top Running SQL: There is no concerning running SQL with significant running time or wait", common.MarkerPass)
	})

	section(&b, "SGA Target Advisory", len(rep.SGAAdvisory) == 0, func() string {
		if a.SGAAdvice != "" {
			return fmt.Sprintf("%s %s", common.MarkerFail, a.SGAAdvice)
		}
		return fmt.Sprintf("%s SGA Advisor: Appropriate DB time and physical read", common.MarkerPass)
	})

	section(&b, "PGA Memory Advisory", len(rep.PGAAdvisory) == 0, func() string {
		if a.PGAAdvice != "" {
			return fmt.Sprintf("%s PGA Advisor: %s", common.MarkerFail, a.PGAAdvice)
		}
		return fmt.Sprintf("%s PGA Advisor: Appropriate DB time and physical read", common.MarkerPass)
	})

	section(&b, "Instance Activity Stats - Thread Activity", len(rep.ThreadActivity) == 0, func() string {
		if a.RedoSwitchHigh {
			return fmt.Sprintf("%s Redo Log switch: Redo log switch more than 4 times per hour", common.MarkerFail)
		}
		return fmt.Sprintf("%s Redo Log switch: Redo log switches are within normal range", common.MarkerPass)
	})

	return b.String()
}

func section(b *strings.Builder, title string, empty bool, render func() string) {
	fmt.Fprintf(b, "## %s\n\n", title)
	if empty {
		b.WriteString("   (Table not found or empty)\n")
	} else {
		b.WriteString(render())
		b.WriteString("\n")
	}
	b.WriteString("\n" + sectionRule + "\n\n")
}

func renderEventTable(events []WaitEvent) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"EVENT", "TOTAL WAIT (S)", "% DB TIME", "WAIT CLASS"})
	for _, ev := range events {
		pct := ""
		if ev.HasPctDBTime {
			pct = fmt.Sprintf("%.1f", ev.PctDBTime)
		}
		tw.AppendRow(table.Row{ev.Event, fmt.Sprintf("%.1f", ev.TotalWaitSec), pct, ev.WaitClass})
	}
	return tw.Render() + "\n"
}

func renderSQLTable(stats []SQLStat) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"SQL ID", "ELAPSED (S)", "EXECUTIONS", "PER EXEC (S)"})
	for _, s := range stats {
		tw.AppendRow(table.Row{s.SQLID, fmt.Sprintf("%.1f", s.ElapsedSec), fmt.Sprintf("%.0f", s.Executions), fmt.Sprintf("%.1f", s.PerExecSec)})
	}
	return tw.Render() + "\n"
}
