// Copyright 2025 The Nextcloud App Store Authors.
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

// Package options defines the command-line options and flags for the
// appstore-cert CLI. It provides option structures for the root command and
// the certificate, signature and app-id verification operations.
package options

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/osisa/nextcloud-appstore/pkg/config"
	"github.com/osisa/nextcloud-appstore/pkg/logging"
)

// EnvPrefix is the prefix used for environment variables that configure the CLI.
const EnvPrefix = "APPSTORE_CERT"

// RootOptions defines flags and options for the root CLI command.
// These options are available globally across all subcommands.
type RootOptions struct {
	// OutputFile specifies a file path to redirect output to instead of stdout.
	OutputFile string
	// LogLevel sets the minimum log level (debug, info, warn, error, silent).
	LogLevel string
	// LogFormat sets the log output format (text, json).
	LogFormat string
	// DigestAlgorithm names the digest used for signature verification.
	DigestAlgorithm string
	// MasterCNs lists certificate CNs trusted to sign for any app id.
	MasterCNs []string
}

// ValidLogLevels lists the valid log level strings.
var ValidLogLevels = []string{"debug", "info", "warn", "error", "silent"}

// ValidLogFormats lists the valid log format strings.
var ValidLogFormats = []string{"text", "json"}

var _ Interface = (*RootOptions)(nil)

// AddFlags implements the Interface by adding root-level flags to the cobra
// command. This includes flags for output file redirection, log level/format,
// and the process-wide certificate configuration (digest algorithm and
// master CNs).
func (o *RootOptions) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&o.OutputFile, "output-file", "",
		"log output to a file")
	_ = cmd.MarkFlagFilename("output-file", logExts...)

	cmd.PersistentFlags().StringVar(&o.LogLevel, "log-level", "info",
		"set the minimum log level (debug, info, warn, error, silent)")

	cmd.PersistentFlags().StringVar(&o.LogFormat, "log-format", "text",
		"set the log output format (text, json)")

	cmd.PersistentFlags().StringVar(&o.DigestAlgorithm, "digest", config.DefaultDigestAlgorithm,
		"digest algorithm for signature verification ("+strings.Join(config.DigestAlgorithms(), ", ")+")")

	cmd.PersistentFlags().StringSliceVar(&o.MasterCNs, "master-cn", nil,
		"certificate CN trusted to sign for any app id (repeatable)")
}

// GetLogLevel returns the effective log level based on the options.
func (o *RootOptions) GetLogLevel() logging.LogLevel {
	return logging.ParseLogLevel(o.LogLevel)
}

// GetLogFormat returns the log format based on the options.
func (o *RootOptions) GetLogFormat() logging.LogFormat {
	return logging.ParseLogFormat(o.LogFormat)
}

// NewLogger creates a new logger based on the root options.
func (o *RootOptions) NewLogger() logging.Logger {
	return logging.NewLoggerWithOptions(logging.LoggerOptions{
		Level:  o.GetLogLevel(),
		Format: o.GetLogFormat(),
	})
}

// NewCertificateConfig builds the certificate configuration from the root
// flags. The configuration is validated by the validator constructor, so an
// unknown digest surfaces there.
func (o *RootOptions) NewCertificateConfig() *config.CertificateConfig {
	return config.NewCertificateConfig().
		UseDigestAlgorithm(o.DigestAlgorithm).
		SetMasterCNs(o.MasterCNs)
}
