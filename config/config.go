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
package config

import (
	"encoding/json"
	"fmt"

	"github.com/BurntSushi/toml"
)

// 程序配置文件
type Config struct {
	AppConfig   AppConfig   `toml:"app" json:"app"`
	CheckConfig CheckConfig `toml:"check" json:"check"`
	LogConfig   LogConfig   `toml:"log" json:"log"`
	TaskMode    string      `toml:"-" json:"task-mode"`
}

type AppConfig struct {
	InputPath   string `toml:"input-path" json:"input-path"`
	OutputDir   string `toml:"output-dir" json:"output-dir"`
	MappingFile string `toml:"mapping-file" json:"mapping-file"`
}

type CheckConfig struct {
	TargetVersion     string  `toml:"target-version" json:"target-version"`
	AlertDays         int     `toml:"alert-days" json:"alert-days"`
	BackupDays        int     `toml:"backup-days" json:"backup-days"`
	TablespacePctFree float64 `toml:"tablespace-pct-free" json:"tablespace-pct-free"`
}

type LogConfig struct {
	LogLevel   string `toml:"log-level" json:"log-level"`
	LogFile    string `toml:"log-file" json:"log-file"`
	MaxSize    int    `toml:"max-size" json:"max-size"`
	MaxDays    int    `toml:"max-days" json:"max-days"`
	MaxBackups int    `toml:"max-backups" json:"max-backups"`
}

// 读取配置文件
func ReadConfigFile(file string) (*Config, error) {
	cfg := &Config{}
	if file != "" {
		if err := cfg.configFromFile(file); err != nil {
			return cfg, err
		}
	}
	cfg.applyDefaults()
	return cfg, nil
}

// 加载配置文件并解析
func (c *Config) configFromFile(file string) error {
	if _, err := toml.DecodeFile(file, c); err != nil {
		return fmt.Errorf("failed decode toml config file %s: %v", file, err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.AppConfig.OutputDir == "" {
		c.AppConfig.OutputDir = "mini_pm_report"
	}
	if c.CheckConfig.TargetVersion == "" {
		c.CheckConfig.TargetVersion = "19.27"
	}
	if c.CheckConfig.AlertDays == 0 {
		c.CheckConfig.AlertDays = 92
	}
	if c.CheckConfig.BackupDays == 0 {
		c.CheckConfig.BackupDays = 7
	}
	if c.CheckConfig.TablespacePctFree == 0 {
		c.CheckConfig.TablespacePctFree = 15.0
	}
	if c.LogConfig.LogLevel == "" {
		c.LogConfig.LogLevel = "info"
	}
}

func (c *Config) String() string {
	cfg, err := json.Marshal(c)
	if err != nil {
		return "<nil>"
	}
	return string(cfg)
}
