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
package severity

import (
	"fmt"

	"github.com/scylladb/go-set/strset"

	"github.com/mfec/orapm/common"
	"github.com/mfec/orapm/module/alertlog"
	"github.com/mfec/orapm/module/awr"
	"github.com/mfec/orapm/module/configcheck"
	"github.com/mfec/orapm/module/tablespace"
)

// Level is the urgency rank of one finding, 1 most urgent to 4 healthy.
type Level int

const (
	Urgent Level = 1
	High   Level = 2
	Medium Level = 3
	Low    Level = 4
)

var levelNames = map[Level]string{
	Urgent: "urgent",
	High:   "high",
	Medium: "medium",
	Low:    "low",
}

// Label renders the level the way the summary reports carry it.
func (l Level) Label() string {
	name, ok := levelNames[l]
	if !ok {
		name = "unknown"
	}
	return fmt.Sprintf("Severity %d (%s)", int(l), name)
}

// Status maps the level onto the two-state report column.
func (l Level) Status() string {
	if l == Low {
		return common.StatusNormal
	}
	return common.StatusAttention
}

// codes whose presence in an alert log alone warrants the rank
var (
	criticalAlertCodes = strset.New("ORA-00600", "ORA-07445")
	highAlertCodes     = strset.New(
		"ORA-04031", "ORA-04030",
		"ORA-01652", "ORA-01654", "ORA-01628",
		"ORA-01578", "ORA-01157", "ORA-01110",
	)
)

// Configuration ranks the config check: losing redundancy on both the
// control files and the redo logs is urgent, on one of them high.
func Configuration(res *configcheck.Result) Level {
	if res == nil {
		return Low
	}
	ctrlBad := !res.ControlfileRedundant
	redoBad := !res.RedoRedundant
	switch {
	case ctrlBad && redoBad:
		return Urgent
	case ctrlBad || redoBad:
		return High
	default:
		return Low
	}
}

// Performance ranks the AWR analysis.
func Performance(a *awr.Analysis) Level {
	if a == nil {
		return Low
	}
	worst := Low
	for _, w := range a.EventWarnings {
		switch {
		case w.PctDBTime >= 50:
			if High < worst {
				worst = High
			}
		case w.PctDBTime >= 20:
			if Medium < worst {
				worst = Medium
			}
		}
	}
	for _, m := range a.HitRatioWarnings {
		if m.HasValue && m.Value < 50 && Medium < worst {
			worst = Medium
		}
	}
	if len(a.ConcerningSQL) > 0 && Medium < worst {
		worst = Medium
	}
	return worst
}

// Tablespace ranks free space by the tightest flagged tablespace.
func Tablespace(res *tablespace.Result) Level {
	if res == nil || len(res.Flagged) == 0 {
		return Low
	}
	min := res.Flagged[0].PctFree
	for _, f := range res.Flagged[1:] {
		if f.PctFree < min {
			min = f.PctFree
		}
	}
	switch {
	case min < 5:
		return Urgent
	case min <= 10:
		return High
	default:
		return Medium
	}
}

// AlertLog ranks the aggregated alert entries. A scan that failed
// outright is ranked high, since the log could not be inspected at all.
func AlertLog(entries []*alertlog.Entry, scanFailed bool) Level {
	if scanFailed {
		return High
	}
	if len(entries) == 0 {
		return Low
	}
	worst := Medium
	for _, e := range entries {
		switch {
		case criticalAlertCodes.Has(e.Code):
			return Urgent
		case highAlertCodes.Has(e.Code):
			worst = High
		}
	}
	return worst
}

// Backup ranks by how many RMAN logs failed the freshness check.
func Backup(failCount int) Level {
	switch {
	case failCount >= 3:
		return Urgent
	case failCount >= 1:
		return High
	default:
		return Low
	}
}
