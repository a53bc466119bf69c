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
package configcheck

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mfec/orapm/common"
	"github.com/scylladb/go-set/iset"
	"github.com/scylladb/go-set/strset"
)

var (
	versionLabelRe = regexp.MustCompile(`(?i)\bVersion\s+(\d+(?:\.\d+){1,4})`)
	releaseLabelRe = regexp.MustCompile(`(?i)\bRelease\s+(\d+(?:\.\d+){1,4})`)

	controlfilePathRe = regexp.MustCompile(`\+\S+/CONTROLFILE/\S+`)

	redoGroupCountRe = regexp.MustCompile(`COUNT\(DISTINCTGROUP#\)\s+[-\s]+\s*(\d+)`)
	redoLogLineRe    = regexp.MustCompile(`(?m)^\s*(\d+)\s+\+\S+/ONLINELOG/\S+`)
)

// Result is the structured outcome of one configuration dump check.
type Result struct {
	TargetVersion string
	FileVersion   string
	VersionKnown  bool
	UpToDate      bool

	ControlfilePaths      []string
	ControlfileFound      bool
	ControlfileRedundant  bool

	RedoGroupCount int
	RedoFound      bool
	RedoRedundant  bool
}

// Check scans an mfec_pm.txt-style configuration dump. Malformed input
// never fails; missing sections simply report as not found.
func Check(content, targetVersion string) *Result {
	r := &Result{TargetVersion: targetVersion}

	r.FileVersion = extractFileVersion(content)
	targetToken := common.LeadingVersionToken(targetVersion)
	if r.FileVersion != "" && targetToken != "" {
		fMaj, fMin, fOK := common.MajorMinor(r.FileVersion)
		tMaj, tMin, tOK := common.MajorMinor(targetToken)
		if fOK && tOK {
			r.VersionKnown = true
			r.UpToDate = fMaj == tMaj && fMin == tMin
		}
	}

	paths := controlfilePaths(content)
	r.ControlfilePaths = paths.List()
	r.ControlfileFound = paths.Size() > 0
	r.ControlfileRedundant = paths.Size() >= 2

	r.RedoGroupCount = redoGroupCount(content)
	r.RedoFound = r.RedoGroupCount > 0
	r.RedoRedundant = r.RedoGroupCount > 1

	return r
}

// Format renders the check result in the fixed report line shape consumed
// by the summary spreadsheet description column.
func (r *Result) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Checking configuration against target version: %s\n", r.TargetVersion)

	switch {
	case !r.VersionKnown:
		fmt.Fprintf(&b, "%s Patches: Unable to determine versions for comparison\n", common.MarkerFail)
	case r.UpToDate:
		fmt.Fprintf(&b, "%s Patches: Up to date\n", common.MarkerPass)
	default:
		fmt.Fprintf(&b, "%s Patches: Recommend applying the Database Release Update (DBRU) to version %s\n",
			common.MarkerFail, r.TargetVersion)
	}

	switch {
	case r.ControlfileRedundant:
		fmt.Fprintf(&b, "%s Control file: Redundancy\n", common.MarkerPass)
	case r.ControlfileFound:
		fmt.Fprintf(&b, "%s Control file: non Redundancy\n", common.MarkerFail)
	default:
		fmt.Fprintf(&b, "%s Control file: section not found\n", common.MarkerFail)
	}

	switch {
	case r.RedoRedundant:
		fmt.Fprintf(&b, "%s Redo Logs: Redundancy\n", common.MarkerPass)
	case r.RedoFound:
		fmt.Fprintf(&b, "%s Redo Logs: non Redundancy\n", common.MarkerFail)
	default:
		fmt.Fprintf(&b, "%s Redo Logs: section not found\n", common.MarkerFail)
	}

	return b.String()
}

// extractSection captures the block after a ^o^----Title----^o^ banner up to
// the next section marker (*8* line or >O<) or end of document.
func extractSection(content, title string) (string, bool) {
	re := regexp.MustCompile(`\^o\^-*` + title + `-*\^o\^`)
	loc := re.FindStringIndex(content)
	if loc == nil {
		return "", false
	}
	rest := content[loc[1]:]
	end := len(rest)
	if i := strings.Index(rest, "\n*8*"); i >= 0 && i < end {
		end = i
	}
	if i := strings.Index(rest, ">O<"); i >= 0 && i < end {
		end = i
	}
	return rest[:end], true
}

func extractFileVersion(content string) string {
	if m := versionLabelRe.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	if m := releaseLabelRe.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	return ""
}

// controlfilePaths prefers the Controlfile section, then falls back to
// scanning the whole document while reconstructing paths the report
// formatter wrapped onto a second line.
func controlfilePaths(content string) *strset.Set {
	paths := strset.New()
	if sec, ok := extractSection(content, "Controlfile"); ok {
		for _, p := range controlfilePathRe.FindAllString(sec, -1) {
			paths.Add(strings.TrimSuffix(strings.TrimSpace(p), ","))
		}
	}
	if paths.Size() > 0 {
		return paths
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		for _, tok := range controlfilePathRe.FindAllString(line, -1) {
			// token ending the line may continue on the next one
			if strings.HasSuffix(strings.TrimRight(line, " \t\r"), tok) && i+1 < len(lines) {
				if next := strings.Fields(lines[i+1]); len(next) > 0 && !strings.HasPrefix(next[0], "+") && next[0] != "," {
					tok += next[0]
				}
			}
			paths.Add(strings.TrimSuffix(tok, ","))
		}
	}
	return paths
}

// redoGroupCount counts distinct redo log groups: the explicit count line
// first, then the redo log file table, then a whole-document scan.
func redoGroupCount(content string) int {
	if sec, ok := extractSection(content, "Amount of log group"); ok {
		if m := redoGroupCountRe.FindStringSubmatch(sec); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				return n
			}
		}
	}

	groups := iset.New()
	if sec, ok := extractSection(content, "Redo log file"); ok {
		for _, m := range redoLogLineRe.FindAllStringSubmatch(sec, -1) {
			if n, err := strconv.Atoi(m[1]); err == nil {
				groups.Add(n)
			}
		}
	}
	if groups.Size() > 0 {
		return groups.Size()
	}

	for _, m := range redoLogLineRe.FindAllStringSubmatch(content, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil {
			groups.Add(n)
		}
	}
	return groups.Size()
}
