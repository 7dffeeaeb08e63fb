// Copyright 2026 The Reactotron Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestDefault(t *testing.T) {
	configuration := Default()
	if configuration.Port != DefaultPort {
		t.Errorf("Port = %d, want %d", configuration.Port, DefaultPort)
	}
	if configuration.TLS.Enabled() {
		t.Error("TLS should be disabled by default")
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
host: 127.0.0.1
port: 4000
tls:
  cert_path: /etc/reactotron/cert.pem
  key_path: /etc/reactotron/key.pem
`)

	configuration, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if configuration.Host != "127.0.0.1" {
		t.Errorf("Host = %q, want 127.0.0.1", configuration.Host)
	}
	if configuration.Port != 4000 {
		t.Errorf("Port = %d, want 4000", configuration.Port)
	}
	if configuration.TLS.CertPath != "/etc/reactotron/cert.pem" {
		t.Errorf("CertPath = %q", configuration.TLS.CertPath)
	}
}

func TestLoadKeepsDefaultsForAbsentFields(t *testing.T) {
	path := writeConfig(t, "host: 10.0.0.5\n")

	configuration, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if configuration.Port != DefaultPort {
		t.Errorf("Port = %d, want default %d", configuration.Port, DefaultPort)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "port: [not a number\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadRejectsInvalidPort(t *testing.T) {
	path := writeConfig(t, "port: 70000\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for out-of-range port")
	}
}

func TestLoadRejectsConflictingTLS(t *testing.T) {
	path := writeConfig(t, `
tls:
  pfx_path: bundle.pfx
  cert_path: cert.pem
  key_path: key.pem
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for conflicting TLS forms")
	}
}
