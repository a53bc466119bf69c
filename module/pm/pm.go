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
package pm

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mfec/orapm/common"
	"github.com/mfec/orapm/config"
	"github.com/mfec/orapm/errors"
	"github.com/mfec/orapm/module/alertlog"
	"github.com/mfec/orapm/module/awr"
	"github.com/mfec/orapm/module/backup"
	"github.com/mfec/orapm/module/configcheck"
	"github.com/mfec/orapm/module/discover"
	"github.com/mfec/orapm/module/report"
	"github.com/mfec/orapm/module/severity"
	"github.com/mfec/orapm/module/tablespace"
)

const topAWRCount = 3

var tablespaceFileRe = regexp.MustCompile(`(?i)^tablespace_(.+?)\.txt$`)

// Runner drives the full preventive-maintenance pipeline over one
// collected input tree.
type Runner struct {
	cfg     *config.Config
	mapping map[string]alertlog.Advisory
	now     func() time.Time
}

func NewRunner(cfg *config.Config) *Runner {
	return &Runner{cfg: cfg, now: time.Now}
}

// checkResult is one extractor+classifier outcome for one collection.
type checkResult struct {
	item  string
	level severity.Level
	text  string
}

func (c *checkResult) row(system, database string, descLines int) report.Row {
	return report.Row{
		System:        system,
		Database:      database,
		Item:          c.item,
		Status:        c.level.Status(),
		Severity:      int(c.level),
		SeverityLabel: c.level.Label(),
		Description:   summarize(c.text, descLines),
	}
}

// Run walks every database collection and writes the per-check artifacts
// plus the run-level summary surfaces. A collection's internal failures
// never abort the run.
func (r *Runner) Run(ctx context.Context) error {
	runID := uuid.New().String()
	zap.L().Info("pm run starting",
		zap.String("run", runID),
		zap.String("input", r.cfg.AppConfig.InputPath),
		zap.String("output", r.cfg.AppConfig.OutputDir))

	root, err := discover.Prepare(r.cfg.AppConfig.InputPath)
	if err != nil {
		return errors.NewPMError(errors.ORAPM, errors.DOMAIN_DISCOVER, err)
	}
	firstLevel, layout, err := discover.FirstLevel(root)
	if err != nil {
		return errors.NewPMError(errors.ORAPM, errors.DOMAIN_DISCOVER, err)
	}
	collections, err := discover.ListCollections(firstLevel)
	if err != nil {
		return errors.NewPMError(errors.ORAPM, errors.DOMAIN_DISCOVER, err)
	}
	zap.L().Info("collections discovered",
		zap.String("run", runID),
		zap.String("first-level", firstLevel),
		zap.String("layout", layout.String()),
		zap.Int("count", len(collections)))

	if r.cfg.AppConfig.MappingFile != "" {
		mapping, err := alertlog.LoadMapping(r.cfg.AppConfig.MappingFile)
		if err != nil {
			zap.L().Warn("alert mapping unavailable, continuing without cause/action text",
				zap.String("file", r.cfg.AppConfig.MappingFile), zap.Error(err))
		} else {
			r.mapping = mapping
		}
	}

	summary := &report.Summary{
		RunID:      runID,
		Source:     r.cfg.AppConfig.InputPath,
		FirstLevel: firstLevel,
		Layout:     layout.String(),
		Generated:  r.now(),
	}

	var rows []report.Row
	for _, col := range collections {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		colRows, sys := r.runCollection(col)
		rows = append(rows, colRows...)
		summary.Systems = append(summary.Systems, sys)
	}

	report.SortRows(rows, common.CheckItemOrder)
	summary.Rows = rows

	outDir := r.cfg.AppConfig.OutputDir
	if err := report.WriteFile(filepath.Join(outDir, common.SummaryMarkdownFileName), report.RenderMarkdown(summary)); err != nil {
		return errors.NewPMError(errors.ORAPM, errors.DOMAIN_REPORT, err)
	}
	if err := report.NewExcelGenerator().Generate(rows, filepath.Join(outDir, common.SummaryExcelFileName)); err != nil {
		return errors.NewPMError(errors.ORAPM, errors.DOMAIN_REPORT, err)
	}

	fmt.Println(report.RenderConsole(rows))
	zap.L().Info("pm run finished",
		zap.String("run", runID),
		zap.Int("databases", len(collections)),
		zap.Int("rows", len(rows)))
	return nil
}

// runCollection runs the sequential check pipeline for one container
// database directory.
func (r *Runner) runCollection(col discover.Collection) ([]report.Row, report.SystemSummary) {
	zap.L().Info("checking collection", zap.String("cdb", col.Name), zap.String("path", col.Path))
	sys := report.SystemSummary{Name: col.Name}
	outDir := filepath.Join(r.cfg.AppConfig.OutputDir, col.Name)

	configRes := r.checkConfiguration(col, outDir, &sys)
	perfRes := r.checkPerformance(col, outDir, &sys)
	tsResults := r.checkTablespaces(col, outDir, &sys)
	alertRes := r.checkAlertLog(col, outDir, &sys)
	backupRes := r.checkBackup(col, outDir, &sys)

	sizeRes := &checkResult{
		item:  common.CheckItemSizeGrowth,
		level: severity.Low,
		text:  "Manual review of the capacity trend in " + common.ConfigDumpFileName,
	}

	// one row block per sub-database; the CDB itself stands in when no
	// tablespace files were found
	type pdbResult struct {
		name string
		ts   *checkResult
	}
	var pdbs []pdbResult
	for _, ts := range tsResults {
		pdbs = append(pdbs, pdbResult{name: ts.pdb, ts: ts.result})
	}
	sort.Slice(pdbs, func(i, j int) bool { return pdbs[i].name < pdbs[j].name })
	if len(pdbs) == 0 {
		pdbs = []pdbResult{{name: col.Name, ts: &checkResult{
			item:  common.CheckItemTablespace,
			level: severity.Low,
			text:  common.MarkerSkip + " Skipped tablespace (no tablespace_*.txt in DB root)",
		}}}
	}

	var rows []report.Row
	for _, pdb := range pdbs {
		rows = append(rows,
			configRes.row(col.Name, pdb.name, 12),
			perfRes.row(col.Name, pdb.name, 12),
			sizeRes.row(col.Name, pdb.name, 12),
			pdb.ts.row(col.Name, pdb.name, 12),
			alertRes.row(col.Name, pdb.name, 8),
			backupRes.row(col.Name, pdb.name, 12),
		)
	}
	return rows, sys
}

func (r *Runner) checkConfiguration(col discover.Collection, outDir string, sys *report.SystemSummary) *checkResult {
	res := &checkResult{item: common.CheckItemConfiguration, level: severity.Low}

	dumpPath := filepath.Join(col.Path, common.MarkerAutoCollection, common.ConfigDumpFileName)
	raw, err := os.ReadFile(dumpPath)
	if os.IsNotExist(err) {
		res.text = fmt.Sprintf("%s Skipped config_check (missing %s)", common.MarkerSkip, common.ConfigDumpFileName)
		sys.Notes = append(sys.Notes, res.text)
	} else if err != nil {
		res.text = fmt.Sprintf("%s Failed config_check (%v)", common.MarkerFail, err)
		sys.Notes = append(sys.Notes, res.text)
	} else {
		checked := configcheck.Check(string(raw), r.cfg.CheckConfig.TargetVersion)
		res.text = checked.Format()
		res.level = severity.Configuration(checked)
	}

	r.writeCheckFile(col.Name, filepath.Join(outDir, common.ConfigCheckFileName), res.text)
	return res
}

func (r *Runner) checkPerformance(col discover.Collection, outDir string, sys *report.SystemSummary) *checkResult {
	res := &checkResult{item: common.CheckItemPerformance, level: severity.Low}

	reportDir := filepath.Join(col.Path, common.MarkerReport)
	if _, err := os.Stat(reportDir); err != nil {
		res.text = common.MarkerSkip + " Skipped AWR (no report folder)"
		sys.Notes = append(sys.Notes, res.text)
		r.writeCheckFile(col.Name, filepath.Join(outDir, common.AWRAnalysisFileName), res.text)
		return res
	}

	scored, err := awr.Rank(reportDir)
	if err != nil || len(scored) == 0 {
		res.text = common.MarkerSkip + " Skipped AWR (no *.html)"
		if err != nil {
			zap.L().Warn("awr ranking failed", zap.String("cdb", col.Name), zap.Error(err))
		}
		sys.Notes = append(sys.Notes, res.text)
		r.writeCheckFile(col.Name, filepath.Join(outDir, common.AWRAnalysisFileName), res.text)
		return res
	}

	if _, err := awr.CopyTop(scored, outDir, topAWRCount); err != nil {
		zap.L().Warn("copying top awr reports failed", zap.String("cdb", col.Name), zap.Error(err))
	}

	best := scored[0].Path
	sys.ChosenAWR = filepath.Base(best)
	zap.L().Info("selected awr report", zap.String("cdb", col.Name), zap.String("report", sys.ChosenAWR))

	rep, err := awr.ExtractFile(best)
	if err != nil {
		res.text = fmt.Sprintf("%s Failed AWR analysis (%v)", common.MarkerFail, err)
		sys.Notes = append(sys.Notes, res.text)
		r.writeCheckFile(col.Name, filepath.Join(outDir, common.AWRAnalysisFileName), res.text)
		return res
	}
	analysis := awr.Analyze(rep)
	res.text = awr.FormatReport(rep, analysis)
	res.level = severity.Performance(analysis)
	r.writeCheckFile(col.Name, filepath.Join(outDir, common.AWRAnalysisFileName), res.text)
	return res
}

type tablespaceCheck struct {
	pdb    string
	result *checkResult
}

func (r *Runner) checkTablespaces(col discover.Collection, outDir string, sys *report.SystemSummary) []tablespaceCheck {
	entries, err := os.ReadDir(col.Path)
	if err != nil {
		zap.L().Warn("reading collection dir failed", zap.String("cdb", col.Name), zap.Error(err))
		return nil
	}

	var checks []tablespaceCheck
	var block strings.Builder
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := tablespaceFileRe.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		pdb := m[1]
		res := &checkResult{item: common.CheckItemTablespace, level: severity.Low}
		checked, err := tablespace.CheckFile(filepath.Join(col.Path, entry.Name()), r.cfg.CheckConfig.TablespacePctFree)
		if err != nil {
			res.text = fmt.Sprintf("%s Failed tablespace check for %s (%v)", common.MarkerFail, pdb, err)
		} else {
			res.text = checked.Format()
			res.level = severity.Tablespace(checked)
		}
		fmt.Fprintf(&block, "[%s]\n%s\n", pdb, res.text)
		checks = append(checks, tablespaceCheck{pdb: pdb, result: res})
	}

	if len(checks) == 0 {
		note := common.MarkerSkip + " Skipped tablespace (no tablespace_*.txt in DB root)"
		sys.Notes = append(sys.Notes, note)
		r.writeCheckFile(col.Name, filepath.Join(outDir, common.TablespaceReportFileName), note)
		return nil
	}
	r.writeCheckFile(col.Name, filepath.Join(outDir, common.TablespaceReportFileName), block.String())
	return checks
}

func (r *Runner) checkAlertLog(col discover.Collection, outDir string, sys *report.SystemSummary) *checkResult {
	res := &checkResult{item: common.CheckItemAlertLog, level: severity.Low}
	since := r.now().AddDate(0, 0, -r.cfg.CheckConfig.AlertDays)

	logPath, found := findAlertLog(filepath.Join(col.Path, common.MarkerLog), col.Name)
	var entries []*alertlog.Entry
	scanFailed := false
	if !found {
		res.text = common.MarkerSkip + " Skipped alert log (no alert_*.log in log folder)"
		sys.Notes = append(sys.Notes, res.text)
	} else {
		f, err := os.Open(logPath)
		if err != nil {
			scanFailed = true
			res.text = fmt.Sprintf("%s Failed alert log scan (%v)", common.MarkerFail, err)
		} else {
			entries, err = alertlog.Aggregate(f, alertlog.Options{Since: since})
			f.Close()
			if err != nil {
				scanFailed = true
				res.text = fmt.Sprintf("%s Failed alert log scan (%v)", common.MarkerFail, err)
			}
		}
	}

	if found && !scanFailed {
		alertlog.ApplyMapping(entries, r.mapping)
		res.level = severity.AlertLog(entries, false)
		if len(entries) == 0 {
			res.text = "No ORA-* in the last window."
		} else {
			var b strings.Builder
			for _, e := range entries {
				first := e.First
				if first == "" {
					first = "unknown"
				}
				fmt.Fprintf(&b, "%s x%d first: %s %s\n", e.Code, e.Count, first, e.Info)
			}
			res.text = b.String()
		}
	} else if scanFailed {
		res.level = severity.AlertLog(nil, true)
	}

	// the CSV is written even when there is nothing to report
	if err := alertlog.WriteCSVFile(filepath.Join(outDir, common.AlertReportFileName), entries); err != nil {
		zap.L().Warn("writing alert report failed", zap.String("cdb", col.Name), zap.Error(err))
	}
	return res
}

func (r *Runner) checkBackup(col discover.Collection, outDir string, sys *report.SystemSummary) *checkResult {
	res := &checkResult{item: common.CheckItemBackup, level: severity.Low}

	backupDir := filepath.Join(col.Path, common.MarkerAutoCollection, common.BackupSubDirName)
	maxAge := time.Duration(r.cfg.CheckConfig.BackupDays) * 24 * time.Hour
	results, err := backup.CheckDir(backupDir, maxAge, time.Local)
	switch {
	case err != nil:
		res.level = severity.Backup(1)
		res.text = fmt.Sprintf("%s Failed backup check (%v)", common.MarkerFail, err)
	case len(results) == 0:
		res.text = common.MarkerSkip + " Skipped backup check (no RMAN logs in backup folder)"
		sys.Notes = append(sys.Notes, res.text)
	default:
		failCount := 0
		for _, b := range results {
			if !b.OK() {
				failCount++
			}
		}
		res.level = severity.Backup(failCount)
		res.text = backup.FormatReport(results)
	}

	r.writeCheckFile(col.Name, filepath.Join(outDir, common.BackupReportFileName), res.text)
	return res
}

func (r *Runner) writeCheckFile(cdb, path, content string) {
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if err := report.WriteFile(path, content); err != nil {
		zap.L().Warn("writing check file failed",
			zap.String("cdb", cdb), zap.String("file", path), zap.Error(err))
	}
}

// findAlertLog prefers a log carrying the collection name, then the
// first alert_*.log in directory order.
func findAlertLog(logDir, name string) (string, bool) {
	named, err := filepath.Glob(filepath.Join(logDir, "alert_"+name+"*.log"))
	if err == nil && len(named) > 0 {
		sort.Strings(named)
		return named[0], true
	}
	all, err := filepath.Glob(filepath.Join(logDir, "alert_*.log"))
	if err == nil && len(all) > 0 {
		sort.Strings(all)
		return all[0], true
	}
	return "", false
}

// summarize keeps the first n non-empty lines, dropping rule lines.
func summarize(text string, n int) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "====") {
			continue
		}
		kept = append(kept, trimmed)
		if len(kept) == n {
			break
		}
	}
	return strings.Join(kept, "\n")
}
