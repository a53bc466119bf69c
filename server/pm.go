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
	"time"

	"go.uber.org/zap"

	"github.com/mfec/orapm/config"
	"github.com/mfec/orapm/module/pm"
)

func IPM(ctx context.Context, cfg *config.Config) error {
	startTime := time.Now()
	zap.L().Info("pm task starting", zap.String("config", cfg.String()))

	if err := pm.NewRunner(cfg).Run(ctx); err != nil {
		return err
	}

	zap.L().Info("pm task finished", zap.String("cost", time.Since(startTime).String()))
	return nil
}
