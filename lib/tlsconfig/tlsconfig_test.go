// Copyright 2026 The Reactotron Authors
// SPDX-License-Identifier: Apache-2.0

package tlsconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ads-mirrors/react-reactotron-infinitered/lib/testutil"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		wantErr  bool
	}{
		{"empty", Settings{}, false},
		{"pfx only", Settings{PFXPath: "bundle.pfx"}, false},
		{"pfx with passphrase", Settings{PFXPath: "bundle.pfx", Passphrase: "secret"}, false},
		{"cert and key", Settings{CertPath: "cert.pem", KeyPath: "key.pem"}, false},
		{"cert without key", Settings{CertPath: "cert.pem"}, true},
		{"key without cert", Settings{KeyPath: "key.pem"}, true},
		{"pfx and cert pair", Settings{PFXPath: "bundle.pfx", CertPath: "cert.pem", KeyPath: "key.pem"}, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.settings.Validate()
			if (err != nil) != test.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, test.wantErr)
			}
			if err != nil {
				var configError *ConfigError
				if !errors.As(err, &configError) {
					t.Fatalf("error = %v, want *ConfigError", err)
				}
			}
		})
	}
}

func TestResolveNoMaterial(t *testing.T) {
	config, err := Resolve(Settings{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if config != nil {
		t.Fatalf("config = %+v, want nil for plaintext", config)
	}
}

func TestResolveCertKeyPair(t *testing.T) {
	certPath, keyPath := testutil.SelfSignedCertFiles(t)

	config, err := Resolve(Settings{CertPath: certPath, KeyPath: keyPath})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(config.Certificates) != 1 {
		t.Fatalf("got %d certificates, want 1", len(config.Certificates))
	}
}

func TestResolveMissingCertFile(t *testing.T) {
	directory := t.TempDir()
	_, err := Resolve(Settings{
		CertPath: filepath.Join(directory, "absent.pem"),
		KeyPath:  filepath.Join(directory, "also-absent.pem"),
	})
	var configError *ConfigError
	if !errors.As(err, &configError) {
		t.Fatalf("error = %v, want *ConfigError", err)
	}
}

func TestResolveMismatchedPair(t *testing.T) {
	certPath, _ := testutil.SelfSignedCertFiles(t)
	_, otherKeyPath := testutil.SelfSignedCertFiles(t)

	_, err := Resolve(Settings{CertPath: certPath, KeyPath: otherKeyPath})
	var configError *ConfigError
	if !errors.As(err, &configError) {
		t.Fatalf("error = %v, want *ConfigError", err)
	}
}

func TestResolveMalformedPFX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.pfx")
	if err := os.WriteFile(path, []byte("not a pkcs12 bundle"), 0600); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}

	_, err := Resolve(Settings{PFXPath: path})
	var configError *ConfigError
	if !errors.As(err, &configError) {
		t.Fatalf("error = %v, want *ConfigError", err)
	}
	if configError.Path != path {
		t.Errorf("error path = %q, want %q", configError.Path, path)
	}
}

func TestResolveMissingPFXFile(t *testing.T) {
	_, err := Resolve(Settings{PFXPath: filepath.Join(t.TempDir(), "absent.pfx")})
	var configError *ConfigError
	if !errors.As(err, &configError) {
		t.Fatalf("error = %v, want *ConfigError", err)
	}
}
