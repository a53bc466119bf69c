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
	"github.com/jedib0t/go-pretty/v6/table"
)

// RenderConsole renders the findings as a console table for the run log.
func RenderConsole(rows []Row) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"System Name", "Database", "Checklist Items", "Status", "Severity"})
	for _, row := range rows {
		t.AppendRow(table.Row{row.System, row.Database, row.Item, row.Status, row.SeverityLabel})
	}
	return t.Render()
}
