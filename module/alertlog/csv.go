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
package alertlog

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
)

var reportHeader = []string{"Alert code", "Alert info", "first occur", "count", "cause", "action"}

// WriteCSV emits the aggregated report. The header row is written even
// when there are no entries so downstream readers always see a well
// formed file.
func WriteCSV(w io.Writer, entries []*Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(reportHeader); err != nil {
		return errors.Wrap(err, "write alert report header")
	}
	for _, e := range entries {
		row := []string{e.Code, e.Info, e.First, strconv.Itoa(e.Count), e.Cause, e.Action}
		if err := cw.Write(row); err != nil {
			return errors.Wrapf(err, "write alert report row [%s]", e.Code)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush alert report")
}

// WriteCSVFile writes the report to path, creating parent directories.
func WriteCSVFile(path string, entries []*Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "create report dir for [%s]", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create alert report [%s]", path)
	}
	defer f.Close()
	return WriteCSV(f, entries)
}
