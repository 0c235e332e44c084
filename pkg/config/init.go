package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const sampleConfigTemplate = `# StructFS Configuration File
#
# Configuration sources, highest precedence first:
#   1. Environment variables (STRUCTFS_*)
#   2. This file
#   3. Built-in defaults

logging:
  level: "INFO"
  format: "text"
  output: "stdout"

server:
  enabled: true
  port: 8080
  read_timeout: 10s
  write_timeout: 10s
  idle_timeout: 120s

metrics:
  enabled: true

broker:
  timeout: 30s
  max_response_size: 10MB

shutdown_timeout: 30s

# Mounts installed at startup via writes to _mounts/<name>. Additional
# mounts can be created at runtime the same way.
bootstrap:
  - name: ctx/sys
    type: sys
  - name: ctx/http
    type: http_broker
  - name: ctx/registers
    type: registers
  - name: ctx/help
    type: help
`

// InitConfig creates a sample configuration file at the default location.
// Returns an error if the file already exists and force is false.
func InitConfig(force bool) (string, error) {
	path := GetDefaultConfigPath()
	if err := InitConfigToPath(path, force); err != nil {
		return "", err
	}
	return path, nil
}

// InitConfigToPath creates a sample configuration file at path. Returns an
// error if the file already exists and force is false.
func InitConfigToPath(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("configuration file already exists at %s (use --force to overwrite)", path)
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(sampleConfigTemplate), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
