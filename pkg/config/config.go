// Copyright 2026 BapanBigData
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config holds the explicit bootstrap configuration that replaces
// the implicit state (working directory, activated virtualenv) of the
// original shell-based setup.
package config

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPythonVersion = "3.10.12"
	DefaultRepoURL       = "https://github.com/BapanBigData/multi-agents-health-wellness-app.git"
	DefaultAppDir        = "multi-agents-health-wellness-app"
	DefaultPort          = 7860
)

// Build dependencies for compiling CPython from source on Debian-like hosts.
var DefaultPackages = []string{
	"build-essential",
	"zlib1g-dev",
	"libncurses5-dev",
	"libgdbm-dev",
	"libnss3-dev",
	"libssl-dev",
	"libreadline-dev",
	"libffi-dev",
	"libsqlite3-dev",
	"libbz2-dev",
	"wget",
	"curl",
	"git",
}

type Config struct {
	// WorkDir is where the interpreter source tree and the app checkout live.
	WorkDir  string       `yaml:"work_dir"`
	Packages []string     `yaml:"packages"`
	Python   PythonConfig `yaml:"python"`
	App      AppConfig    `yaml:"app"`
	Server   ServerConfig `yaml:"server"`
	// absent from YAML
	hasPersisted bool
}

type PythonConfig struct {
	Version     string `yaml:"version"`
	DownloadURL string `yaml:"download_url"`
}

type AppConfig struct {
	RepoURL      string `yaml:"repo_url"`
	Dir          string `yaml:"dir"`
	VenvDir      string `yaml:"venv_dir"`
	EnvFile      string `yaml:"env_file"`
	Requirements string `yaml:"requirements"`
}

type ServerConfig struct {
	AppModule string `yaml:"app_module"`
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	LogFile   string `yaml:"log_file"`
	PidFile   string `yaml:"pid_file"`
}

func Default() *Config {
	return &Config{
		WorkDir:  ".",
		Packages: DefaultPackages,
		Python: PythonConfig{
			Version: DefaultPythonVersion,
		},
		App: AppConfig{
			RepoURL:      DefaultRepoURL,
			Dir:          DefaultAppDir,
			VenvDir:      ".venv",
			EnvFile:      ".env",
			Requirements: "requirements.txt",
		},
		Server: ServerConfig{
			AppModule: "app.main:app",
			Host:      "0.0.0.0",
			Port:      DefaultPort,
			LogFile:   "server.log",
			PidFile:   "server.pid",
		},
	}
}

// LoadOrCreate loads the config file from ~/.hwapp/config.yaml, filling any
// unset field with its default. A missing file yields the full defaults.
func LoadOrCreate() (*Config, error) {
	configPath, err := getConfigLocation()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

func LoadFrom(configPath string) (*Config, error) {
	c := Default()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return c, nil
	} else if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(content, c); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}
	c.applyDefaults()
	c.hasPersisted = true

	return c, c.Validate()
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.WorkDir == "" {
		c.WorkDir = d.WorkDir
	}
	if len(c.Packages) == 0 {
		c.Packages = d.Packages
	}
	if c.Python.Version == "" {
		c.Python.Version = d.Python.Version
	}
	if c.App.RepoURL == "" {
		c.App.RepoURL = d.App.RepoURL
	}
	if c.App.Dir == "" {
		c.App.Dir = d.App.Dir
	}
	if c.App.VenvDir == "" {
		c.App.VenvDir = d.App.VenvDir
	}
	if c.App.EnvFile == "" {
		c.App.EnvFile = d.App.EnvFile
	}
	if c.App.Requirements == "" {
		c.App.Requirements = d.App.Requirements
	}
	if c.Server.AppModule == "" {
		c.Server.AppModule = d.Server.AppModule
	}
	if c.Server.Host == "" {
		c.Server.Host = d.Server.Host
	}
	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
	if c.Server.LogFile == "" {
		c.Server.LogFile = d.Server.LogFile
	}
	if c.Server.PidFile == "" {
		c.Server.PidFile = d.Server.PidFile
	}
}

func (c *Config) Validate() error {
	if _, err := c.PythonVersion(); err != nil {
		return err
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

func (c *Config) PythonVersion() (*semver.Version, error) {
	v, err := semver.StrictNewVersion(c.Python.Version)
	if err != nil {
		return nil, fmt.Errorf("invalid python version %q: %w", c.Python.Version, err)
	}
	return v, nil
}

// PythonCommand returns the altinstall binary name for the configured
// version, e.g. "python3.10". altinstall names binaries by major.minor so
// the system python3 is never shadowed.
func (c *Config) PythonCommand() string {
	v, err := c.PythonVersion()
	if err != nil {
		return "python3"
	}
	return fmt.Sprintf("python%d.%d", v.Major(), v.Minor())
}

// PythonDownloadURL returns the configured archive URL, or the canonical
// python.org location for the configured version.
func (c *Config) PythonDownloadURL() string {
	if c.Python.DownloadURL != "" {
		return c.Python.DownloadURL
	}
	return fmt.Sprintf("https://www.python.org/ftp/python/%s/Python-%s.tgz", c.Python.Version, c.Python.Version)
}

// AppPath returns the absolute-ish path of the app checkout under WorkDir.
func (c *Config) AppPath() string {
	return filepath.Join(c.WorkDir, c.App.Dir)
}

func (c *Config) VenvBin(name string) string {
	return filepath.Join(c.AppPath(), c.App.VenvDir, "bin", name)
}

func (c *Config) EnvFilePath() string {
	return filepath.Join(c.AppPath(), c.App.EnvFile)
}

func (c *Config) LogFilePath() string {
	return filepath.Join(c.WorkDir, c.Server.LogFile)
}

func (c *Config) PidFilePath() string {
	return filepath.Join(c.WorkDir, c.Server.PidFile)
}

func (c *Config) PersistIfNeeded() error {
	if !c.hasPersisted {
		return nil
	}

	configPath, err := getConfigLocation()
	if err != nil {
		return err
	}
	return c.PersistTo(configPath)
}

func (c *Config) PersistTo(configPath string) error {
	if err := os.MkdirAll(path.Dir(configPath), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	if err = os.WriteFile(configPath, data, 0600); err != nil {
		return err
	}
	c.hasPersisted = true
	return nil
}

func getConfigLocation() (string, error) {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return path.Join(dir, ".hwapp", "config.yaml"), nil
}
