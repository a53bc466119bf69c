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
package errors

import "github.com/mfec/orapm/common"

type (
	PMErrorType   string
	PMErrorDomain string
)

// program error type
const (
	ORAPM PMErrorType = "ORAPM"
)

// program error domain
const (
	DOMAIN_CONFIG     PMErrorDomain = common.TaskTypeConfig
	DOMAIN_DISCOVER   PMErrorDomain = common.TaskTypeDiscover
	DOMAIN_CONFCHECK  PMErrorDomain = common.TaskTypeConfCheck
	DOMAIN_AWR        PMErrorDomain = common.TaskTypeAWR
	DOMAIN_TABLESPACE PMErrorDomain = common.TaskTypeTablespace
	DOMAIN_ALERTLOG   PMErrorDomain = common.TaskTypeAlertLog
	DOMAIN_BACKUP     PMErrorDomain = common.TaskTypeBackup
	DOMAIN_REPORT     PMErrorDomain = common.TaskTypeReport
)

func (t PMErrorType) Explain() string {
	return explainPMErrorType[t]
}

func (d PMErrorDomain) Explain() string {
	return explainPMErrorDomain[d]
}

var explainPMErrorType = map[PMErrorType]string{
	ORAPM: "ORAPM",
}

var explainPMErrorDomain = map[PMErrorDomain]string{
	DOMAIN_CONFIG:     common.TaskTypeConfig,
	DOMAIN_DISCOVER:   common.TaskTypeDiscover,
	DOMAIN_CONFCHECK:  common.TaskTypeConfCheck,
	DOMAIN_AWR:        common.TaskTypeAWR,
	DOMAIN_TABLESPACE: common.TaskTypeTablespace,
	DOMAIN_ALERTLOG:   common.TaskTypeAlertLog,
	DOMAIN_BACKUP:     common.TaskTypeBackup,
	DOMAIN_REPORT:     common.TaskTypeReport,
}
