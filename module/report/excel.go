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

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const summarySheetName = "PM Summary"

var summaryHeader = []string{"System Name", "Database", "Checklist Items", "Status", "Severity", "Description"}

// severity fills, 1 most urgent
var severityFills = map[int]string{
	1: "#FCE8E8",
	2: "#FFE8CC",
	3: "#FFF3BD",
	4: "#E6F4EA",
}

// ExcelGenerator renders the summary rows into a color coded workbook
// with the system and database columns merged across their row spans.
type ExcelGenerator struct {
	workbook *excelize.File
	styles   map[string]int
}

func NewExcelGenerator() *ExcelGenerator {
	return &ExcelGenerator{styles: map[string]int{}}
}

// Generate builds the workbook and saves it to path.
func (g *ExcelGenerator) Generate(rows []Row, path string) error {
	g.workbook = excelize.NewFile()
	defer g.workbook.Close()

	g.workbook.SetSheetName("Sheet1", summarySheetName)
	if err := g.createStyles(); err != nil {
		return err
	}
	if err := g.writeHeader(); err != nil {
		return err
	}
	if err := g.writeRows(rows); err != nil {
		return err
	}
	g.mergeGroupColumns(rows)

	if err := g.workbook.SaveAs(path); err != nil {
		return errors.Wrapf(err, "save summary workbook [%s]", path)
	}
	return nil
}

func (g *ExcelGenerator) createStyles() error {
	border := []excelize.Border{
		{Type: "left", Color: "#000000", Style: 1}, {Type: "top", Color: "#000000", Style: 1},
		{Type: "right", Color: "#000000", Style: 1}, {Type: "bottom", Color: "#000000", Style: 1},
	}

	headerStyle, err := g.workbook.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return errors.Wrap(err, "create header style")
	}
	g.styles["header"] = headerStyle

	groupStyle, err := g.workbook.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E7F0FE"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return errors.Wrap(err, "create group style")
	}
	g.styles["group"] = groupStyle

	itemStyle, err := g.workbook.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return errors.Wrap(err, "create item style")
	}
	g.styles["item"] = itemStyle

	descStyle, err := g.workbook.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "top", WrapText: true},
		Border:    border,
	})
	if err != nil {
		return errors.Wrap(err, "create description style")
	}
	g.styles["desc"] = descStyle

	for sev, fill := range severityFills {
		style, err := g.workbook.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Color: []string{fill}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
			Border:    border,
		})
		if err != nil {
			return errors.Wrapf(err, "create severity %d style", sev)
		}
		g.styles[fmt.Sprintf("sev%d", sev)] = style
	}
	return nil
}

func (g *ExcelGenerator) writeHeader() error {
	widths := []struct {
		col   string
		width float64
	}{
		{"A", 22}, {"B", 18}, {"C", 35}, {"D", 12}, {"E", 18}, {"F", 100},
	}
	for _, w := range widths {
		if err := g.workbook.SetColWidth(summarySheetName, w.col, w.col, w.width); err != nil {
			return errors.Wrap(err, "set column width")
		}
	}
	for i, name := range summaryHeader {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return errors.Wrap(err, "header cell name")
		}
		g.workbook.SetCellValue(summarySheetName, cell, name)
		g.workbook.SetCellStyle(summarySheetName, cell, cell, g.styles["header"])
	}
	return nil
}

func (g *ExcelGenerator) writeRows(rows []Row) error {
	for i, row := range rows {
		r := i + 2
		sevStyle, ok := g.styles[fmt.Sprintf("sev%d", row.Severity)]
		if !ok {
			sevStyle = g.styles["item"]
		}

		g.workbook.SetCellValue(summarySheetName, fmt.Sprintf("A%d", r), row.System)
		g.workbook.SetCellValue(summarySheetName, fmt.Sprintf("B%d", r), row.Database)
		g.workbook.SetCellValue(summarySheetName, fmt.Sprintf("C%d", r), row.Item)
		g.workbook.SetCellValue(summarySheetName, fmt.Sprintf("D%d", r), row.Status)
		g.workbook.SetCellValue(summarySheetName, fmt.Sprintf("E%d", r), row.SeverityLabel)
		g.workbook.SetCellValue(summarySheetName, fmt.Sprintf("F%d", r), row.Description)

		g.workbook.SetCellStyle(summarySheetName, fmt.Sprintf("A%d", r), fmt.Sprintf("B%d", r), g.styles["group"])
		g.workbook.SetCellStyle(summarySheetName, fmt.Sprintf("C%d", r), fmt.Sprintf("C%d", r), g.styles["item"])
		g.workbook.SetCellStyle(summarySheetName, fmt.Sprintf("D%d", r), fmt.Sprintf("E%d", r), sevStyle)
		g.workbook.SetCellStyle(summarySheetName, fmt.Sprintf("F%d", r), fmt.Sprintf("F%d", r), g.styles["desc"])
	}
	return nil
}

// mergeGroupColumns merges contiguous runs of the same system in column
// A and, inside each system, the same database in column B. Rows are
// expected presorted by SortRows.
func (g *ExcelGenerator) mergeGroupColumns(rows []Row) {
	mergeRun := func(col string, start, end int) {
		if end > start {
			g.workbook.MergeCell(summarySheetName,
				fmt.Sprintf("%s%d", col, start+2), fmt.Sprintf("%s%d", col, end+2))
		}
	}

	sysStart := 0
	dbStart := 0
	for i := 1; i <= len(rows); i++ {
		sysBreak := i == len(rows) || rows[i].System != rows[sysStart].System
		dbBreak := sysBreak || rows[i].Database != rows[dbStart].Database
		if dbBreak {
			mergeRun("B", dbStart, i-1)
			dbStart = i
		}
		if sysBreak {
			mergeRun("A", sysStart, i-1)
			sysStart = i
		}
	}
}
