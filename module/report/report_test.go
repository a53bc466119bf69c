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
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mfec/orapm/common"
)

func sampleRows() []Row {
	return []Row{
		{System: "CDB2", Database: "PDB1", Item: common.CheckItemAlertLog, Status: common.StatusNormal, Severity: 4, SeverityLabel: "Severity 4 (low)"},
		{System: "CDB1", Database: "PDB2", Item: common.CheckItemConfiguration, Status: common.StatusNormal, Severity: 4, SeverityLabel: "Severity 4 (low)"},
		{System: "CDB1", Database: "PDB1", Item: common.CheckItemTablespace, Status: common.StatusAttention, Severity: 2, SeverityLabel: "Severity 2 (high)", Description: "USERS(8.00%)"},
		{System: "CDB1", Database: "PDB1", Item: common.CheckItemConfiguration, Status: common.StatusNormal, Severity: 4, SeverityLabel: "Severity 4 (low)"},
	}
}

func TestSortRows(t *testing.T) {
	rows := sampleRows()
	SortRows(rows, common.CheckItemOrder)

	if rows[0].System != "CDB1" || rows[0].Database != "PDB1" || rows[0].Item != common.CheckItemConfiguration {
		t.Errorf("rows[0] = %+v", rows[0])
	}
	if rows[1].Item != common.CheckItemTablespace {
		t.Errorf("rows[1] = %+v", rows[1])
	}
	if rows[3].System != "CDB2" {
		t.Errorf("rows[3] = %+v", rows[3])
	}
}

func TestRenderMarkdown(t *testing.T) {
	rows := sampleRows()
	SortRows(rows, common.CheckItemOrder)
	s := &Summary{
		RunID:      "run-1",
		Source:     "/data/input",
		FirstLevel: "/data/input/CDB_ALL",
		Layout:     "cdb dirs at root",
		Generated:  time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
		Systems: []SystemSummary{
			{Name: "CDB1", ChosenAWR: "(top1_120)awr1.html", Notes: []string{"⚠️ Skipped AWR (no report folder)"}},
			{Name: "CDB2"},
		},
		Rows: rows,
	}
	out := RenderMarkdown(s)
	for _, want := range []string{
		"# PM Summary",
		"## CDB1",
		"Selected AWR for analysis: (top1_120)awr1.html",
		"| PDB1 | " + common.CheckItemTablespace + " | " + common.StatusAttention + " | Severity 2 (high) |",
		"## CDB2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestExcelGeneratorMergesGroups(t *testing.T) {
	rows := sampleRows()
	SortRows(rows, common.CheckItemOrder)

	dir := t.TempDir()
	path := filepath.Join(dir, "pm_summary.xlsx")
	if err := NewExcelGenerator().Generate(rows, path); err != nil {
		t.Fatal(err)
	}

	wb, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer wb.Close()

	wantHeader := []string{"System Name", "Database", "Checklist Items", "Status", "Severity", "Description"}
	for i, want := range wantHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		got, err := wb.GetCellValue(summarySheetName, cell)
		if err != nil || got != want {
			t.Errorf("header %s = %q err=%v, want %q", cell, got, err, want)
		}
	}
	got, err := wb.GetCellValue(summarySheetName, "A2")
	if err != nil || got != "CDB1" {
		t.Errorf("A2 = %q err=%v", got, err)
	}
	merged, err := wb.GetMergeCells(summarySheetName)
	if err != nil {
		t.Fatal(err)
	}
	var haveSysMerge, haveDBMerge bool
	for _, m := range merged {
		if m.GetStartAxis() == "A2" && m.GetEndAxis() == "A4" {
			haveSysMerge = true
		}
		if m.GetStartAxis() == "B2" && m.GetEndAxis() == "B3" {
			haveDBMerge = true
		}
	}
	if !haveSysMerge {
		t.Errorf("missing system merge A2:A4, got %v", merged)
	}
	if !haveDBMerge {
		t.Errorf("missing database merge B2:B3, got %v", merged)
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "out.txt")
	if err := WriteFile(path, "hello\n"); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "hello\n" {
		t.Errorf("content = %q", raw)
	}
}

func TestRenderConsole(t *testing.T) {
	out := RenderConsole(sampleRows())
	if !strings.Contains(out, "CHECKLIST ITEMS") && !strings.Contains(out, "Checklist Items") {
		t.Errorf("console table missing header: %s", out)
	}
}
