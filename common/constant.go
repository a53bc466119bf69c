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
package common

// program run mode
const (
	TaskModePM         = "PM"
	TaskModeConfig     = "CONFIG"
	TaskModeAWR        = "AWR"
	TaskModeTablespace = "TABLESPACE"
	TaskModeAlert      = "ALERT"
	TaskModeBackup     = "BACKUP"
)

// program task type
const (
	TaskTypeConfig     = "CONFIG"
	TaskTypeDiscover   = "DISCOVER"
	TaskTypeConfCheck  = "CONFCHECK"
	TaskTypeAWR        = "AWR"
	TaskTypeTablespace = "TABLESPACE"
	TaskTypeAlertLog   = "ALERTLOG"
	TaskTypeBackup     = "BACKUP"
	TaskTypeReport     = "REPORT"
)

// checklist items, fixed spreadsheet order
const (
	CheckItemConfiguration = "Database Configuration"
	CheckItemPerformance   = "Database Performance"
	CheckItemSizeGrowth    = "Database Size and Allocated Growth Rate"
	CheckItemTablespace    = "Tablespaces Size and Free Space"
	CheckItemAlertLog      = "Database Alert log"
	CheckItemBackup        = "Backup Status"
)

var CheckItemOrder = []string{
	CheckItemConfiguration,
	CheckItemPerformance,
	CheckItemSizeGrowth,
	CheckItemTablespace,
	CheckItemAlertLog,
	CheckItemBackup,
}

// collection tree markers
const (
	MarkerAutoCollection = "auto_collection"
	MarkerReport         = "report"
	MarkerLog            = "log"

	CDBDirPrefix     = "CDB"
	WrapperDirPrefix = "pm_"
)

// per-collection artifact names
const (
	ConfigDumpFileName = "mfec_pm.txt"
	BackupSubDirName   = "backup"

	ConfigCheckFileName      = "config_check.txt"
	AWRAnalysisFileName      = "awr_analysis.txt"
	TablespaceReportFileName = "tablespace_report.txt"
	AlertReportFileName      = "alert_report.csv"
	BackupReportFileName     = "backup_report.txt"

	SummaryMarkdownFileName = "summary_report.md"
	SummaryExcelFileName    = "pm_summary.xlsx"
)

// check text line markers, matched by downstream severity rules
const (
	MarkerPass = "✅"
	MarkerFail = "❌"
	MarkerSkip = "⚠️"
)

// status values derived from severity
const (
	StatusNormal    = "Normal"
	StatusAttention = "Attention"
)
