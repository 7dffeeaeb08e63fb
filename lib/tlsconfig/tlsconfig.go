// Copyright 2026 The Reactotron Authors
// SPDX-License-Identifier: Apache-2.0

// Package tlsconfig resolves configured certificate material into a
// *tls.Config for the server's listener.
//
// Two forms of material are supported: a PKCS#12 bundle (pfx_path plus
// optional passphrase) or a PEM certificate/key pair (cert_path plus
// key_path). Resolution failures are fatal at startup; the server
// never silently falls back to plaintext.
package tlsconfig

import (
	"crypto/tls"
	"fmt"
	"os"

	"golang.org/x/crypto/pkcs12"
)

// Settings names the certificate material to load. The zero value
// means no TLS. The two forms are mutually exclusive.
type Settings struct {
	// PFXPath is a PKCS#12 bundle containing certificate and key.
	PFXPath string `yaml:"pfx_path"`

	// Passphrase decrypts the PFX bundle. Optional; empty means an
	// unprotected bundle.
	Passphrase string `yaml:"passphrase"`

	// CertPath and KeyPath are a PEM certificate/key pair. Both must
	// be set together.
	CertPath string `yaml:"cert_path"`
	KeyPath  string `yaml:"key_path"`
}

// Enabled reports whether any certificate material is configured.
func (s Settings) Enabled() bool {
	return s.PFXPath != "" || s.CertPath != "" || s.KeyPath != ""
}

// Validate checks the settings for shape errors before any file is
// touched: the PFX form and the cert/key form are mutually exclusive,
// and cert/key must be set together.
func (s Settings) Validate() error {
	if s.PFXPath != "" && (s.CertPath != "" || s.KeyPath != "") {
		return &ConfigError{Reason: "pfx_path and cert_path/key_path are mutually exclusive"}
	}
	if (s.CertPath == "") != (s.KeyPath == "") {
		return &ConfigError{Reason: "cert_path and key_path must be set together"}
	}
	return nil
}

// ConfigError reports missing or invalid certificate material. These
// errors are fatal at startup; the process entry exits nonzero on them.
type ConfigError struct {
	// Path is the file that could not be used, when one is involved.
	Path string

	// Reason describes the failure.
	Reason string

	// Err is the underlying I/O or parse error, if any.
	Err error
}

func (e *ConfigError) Error() string {
	message := "tls config: " + e.Reason
	if e.Path != "" {
		message = fmt.Sprintf("tls config: %s: %s", e.Path, e.Reason)
	}
	if e.Err != nil {
		message += ": " + e.Err.Error()
	}
	return message
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Resolve loads the configured material and builds a *tls.Config for
// the listener. Returns (nil, nil) when no material is configured:
// the caller serves plaintext, which is an explicit choice, never a
// fallback from a failed load.
func Resolve(settings Settings) (*tls.Config, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if !settings.Enabled() {
		return nil, nil
	}

	var certificate tls.Certificate
	if settings.PFXPath != "" {
		loaded, err := loadPFX(settings.PFXPath, settings.Passphrase)
		if err != nil {
			return nil, err
		}
		certificate = loaded
	} else {
		loaded, err := tls.LoadX509KeyPair(settings.CertPath, settings.KeyPath)
		if err != nil {
			return nil, &ConfigError{Path: settings.CertPath, Reason: "loading certificate/key pair", Err: err}
		}
		certificate = loaded
	}

	return &tls.Config{
		Certificates: []tls.Certificate{certificate},
		MinVersion:   tls.VersionTLS12,
	}, nil
}

// loadPFX reads and decodes a PKCS#12 bundle into a tls.Certificate.
func loadPFX(path, passphrase string) (tls.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return tls.Certificate{}, &ConfigError{Path: path, Reason: "reading PFX bundle", Err: err}
	}
	privateKey, leaf, err := pkcs12.Decode(data, passphrase)
	if err != nil {
		return tls.Certificate{}, &ConfigError{Path: path, Reason: "decoding PFX bundle", Err: err}
	}
	return tls.Certificate{
		Certificate: [][]byte{leaf.Raw},
		PrivateKey:  privateKey,
		Leaf:        leaf,
	}, nil
}
