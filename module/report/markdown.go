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
package report

import (
	"fmt"
	"strings"
	"time"
)

// Summary is everything the markdown report needs about one run.
type Summary struct {
	RunID      string
	Source     string
	FirstLevel string
	Layout     string
	Generated  time.Time
	Systems    []SystemSummary
	Rows       []Row
}

// SystemSummary is the per container database narrative block.
type SystemSummary struct {
	Name      string
	ChosenAWR string
	Notes     []string
}

// RenderMarkdown produces the run summary document.
func RenderMarkdown(s *Summary) string {
	var b strings.Builder

	b.WriteString("# PM Summary\n\n")
	fmt.Fprintf(&b, "- Run: `%s`\n", s.RunID)
	fmt.Fprintf(&b, "- Generated: %s\n", s.Generated.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "- Source: `%s`\n", s.Source)
	fmt.Fprintf(&b, "- First level: `%s` (%s)\n", s.FirstLevel, s.Layout)
	fmt.Fprintf(&b, "- Databases: %d\n\n", len(s.Systems))

	for _, sys := range s.Systems {
		fmt.Fprintf(&b, "## %s\n\n", sys.Name)
		if sys.ChosenAWR != "" {
			fmt.Fprintf(&b, "Selected AWR for analysis: %s\n\n", sys.ChosenAWR)
		}
		for _, note := range sys.Notes {
			fmt.Fprintf(&b, "- %s\n", note)
		}
		if len(sys.Notes) > 0 {
			b.WriteString("\n")
		}
		writeFindingsTable(&b, sys.Name, s.Rows)
	}
	return b.String()
}

func writeFindingsTable(b *strings.Builder, system string, rows []Row) {
	b.WriteString("| Database | Checklist Items | Status | Severity |\n")
	b.WriteString("| --- | --- | --- | --- |\n")
	for _, row := range rows {
		if row.System != system {
			continue
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n", row.Database, row.Item, row.Status, row.SeverityLabel)
	}
	b.WriteString("\n")
}
