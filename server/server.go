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
	"strings"

	"github.com/mfec/orapm/common"
	"github.com/mfec/orapm/config"
)

// Run dispatches on the task mode.
func Run(ctx context.Context, cfg *config.Config) error {
	switch strings.ToUpper(strings.TrimSpace(cfg.TaskMode)) {
	case common.TaskModePM:
		// full preventive-maintenance pipeline over a collected tree
		err := IPM(ctx, cfg)
		if err != nil {
			return err
		}
	case common.TaskModeConfig:
		// single configuration dump check
		err := IConfig(ctx, cfg)
		if err != nil {
			return err
		}
	case common.TaskModeAWR:
		// single AWR report analysis
		err := IAWR(ctx, cfg)
		if err != nil {
			return err
		}
	case common.TaskModeTablespace:
		// single tablespace report check
		err := ITablespace(ctx, cfg)
		if err != nil {
			return err
		}
	case common.TaskModeAlert:
		// single alert log scan
		err := IAlert(ctx, cfg)
		if err != nil {
			return err
		}
	case common.TaskModeBackup:
		// single RMAN log freshness check
		err := IBackup(ctx, cfg)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("flag [mode] can not null or value configure error")
	}
	return nil
}
