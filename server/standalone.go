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
package server

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mfec/orapm/config"
	"github.com/mfec/orapm/errors"
	"github.com/mfec/orapm/module/alertlog"
	"github.com/mfec/orapm/module/awr"
	"github.com/mfec/orapm/module/backup"
	"github.com/mfec/orapm/module/configcheck"
	"github.com/mfec/orapm/module/tablespace"
)

// the standalone modes run one extractor against one input file and
// print the result, mirroring the per-check command line tools

func IConfig(_ context.Context, cfg *config.Config) error {
	raw, err := os.ReadFile(cfg.AppConfig.InputPath)
	if err != nil {
		return errors.NewPMError(errors.ORAPM, errors.DOMAIN_CONFCHECK, fmt.Errorf("error on read config dump [%v]: %v", cfg.AppConfig.InputPath, err))
	}
	res := configcheck.Check(string(raw), cfg.CheckConfig.TargetVersion)
	fmt.Println(res.Format())
	return nil
}

func IAWR(_ context.Context, cfg *config.Config) error {
	rep, err := awr.ExtractFile(cfg.AppConfig.InputPath)
	if err != nil {
		return errors.NewPMError(errors.ORAPM, errors.DOMAIN_AWR, err)
	}
	fmt.Println(awr.FormatReport(rep, awr.Analyze(rep)))
	return nil
}

func ITablespace(_ context.Context, cfg *config.Config) error {
	res, err := tablespace.CheckFile(cfg.AppConfig.InputPath, cfg.CheckConfig.TablespacePctFree)
	if err != nil {
		return errors.NewPMError(errors.ORAPM, errors.DOMAIN_TABLESPACE, err)
	}
	fmt.Println(res.Format())
	return nil
}

func IAlert(_ context.Context, cfg *config.Config) error {
	f, err := os.Open(cfg.AppConfig.InputPath)
	if err != nil {
		return errors.NewPMError(errors.ORAPM, errors.DOMAIN_ALERTLOG, fmt.Errorf("error on open alert log [%v]: %v", cfg.AppConfig.InputPath, err))
	}
	defer f.Close()

	opts := alertlog.Options{}
	if cfg.CheckConfig.AlertDays > 0 {
		opts.Since = time.Now().AddDate(0, 0, -cfg.CheckConfig.AlertDays)
	}
	entries, err := alertlog.Aggregate(f, opts)
	if err != nil {
		return errors.NewPMError(errors.ORAPM, errors.DOMAIN_ALERTLOG, err)
	}
	if cfg.AppConfig.MappingFile != "" {
		mapping, err := alertlog.LoadMapping(cfg.AppConfig.MappingFile)
		if err != nil {
			return errors.NewPMError(errors.ORAPM, errors.DOMAIN_ALERTLOG, err)
		}
		alertlog.ApplyMapping(entries, mapping)
	}
	return alertlog.WriteCSV(os.Stdout, entries)
}

func IBackup(_ context.Context, cfg *config.Config) error {
	maxAge := time.Duration(cfg.CheckConfig.BackupDays) * 24 * time.Hour
	res, err := backup.CheckFile(cfg.AppConfig.InputPath, maxAge, time.Local)
	if err != nil {
		return errors.NewPMError(errors.ORAPM, errors.DOMAIN_BACKUP, err)
	}
	fmt.Println(res.Format())
	return nil
}
