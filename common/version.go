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

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

// build-time variables, set via -ldflags
var (
	Version   = "None"
	BuildTS   = "None"
	GitHash   = "None"
	GitBranch = "None"
)

// 获取程序版本
func GetAppVersion(version bool) {
	if version {
		fmt.Printf("Release Version: %s\n", Version)
		fmt.Printf("Git Commit Hash: %s\n", GitHash)
		fmt.Printf("Git Branch: %s\n", GitBranch)
		fmt.Printf("UTC Build Time: %s\n", BuildTS)
		os.Exit(0)
	}
}

// 记录程序版本
func RecordAppVersion(app string, logger *zap.Logger) {
	logger.Info("welcome to "+app,
		zap.String("release-version", Version),
		zap.String("git-commit-hash", GitHash),
		zap.String("git-branch", GitBranch),
		zap.String("utc-build-time", BuildTS))
}
