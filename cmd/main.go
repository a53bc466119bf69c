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
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mfec/orapm/common"
	"github.com/mfec/orapm/config"
	"github.com/mfec/orapm/logger"
	"github.com/mfec/orapm/pkg/signal"
	"github.com/mfec/orapm/server"
)

var (
	conf          = flag.String("config", "", "specify the configuration file, overridden by the flags below")
	mode          = flag.String("mode", "pm", "specify the program running mode: [pm config awr tablespace alert backup]")
	input         = flag.String("input", "", "collected input: a directory or zip archive in pm mode, a single file otherwise")
	mappingFile   = flag.String("map", "", "alert code cause/action mapping csv")
	targetVersion = flag.String("target-version", "", "expected database release update version, default 19.27")
	out           = flag.String("out", "", "report output directory, default mini_pm_report")
	alertDays     = flag.Int("alert-days", 0, "alert log scan window in days, default 92")
	version       = flag.Bool("version", false, "view orapm version info")
)

func main() {
	flag.Parse()

	common.GetAppVersion(*version)

	cfg, err := config.ReadConfigFile(*conf)
	if err != nil {
		log.Fatalf("read config file [%s] failed: %v", *conf, err)
	}
	cfg.TaskMode = *mode
	if *input != "" {
		cfg.AppConfig.InputPath = *input
	}
	if *mappingFile != "" {
		cfg.AppConfig.MappingFile = *mappingFile
	}
	if *targetVersion != "" {
		cfg.CheckConfig.TargetVersion = *targetVersion
	}
	if *out != "" {
		cfg.AppConfig.OutputDir = *out
	}
	if *alertDays > 0 {
		cfg.CheckConfig.AlertDays = *alertDays
	}
	if cfg.AppConfig.InputPath == "" {
		log.Fatalf("flag [input] can not null, specify the collected directory, archive or file")
	}

	logger.NewZapLogger(cfg)
	common.RecordAppVersion("orapm", zap.L())

	signal.SetupSignalHandler(func() {
		os.Exit(1)
	})

	if err = server.Run(context.Background(), cfg); err != nil {
		zap.L().Fatal("server run failed", zap.Error(errors.Cause(err)))
	}
}
