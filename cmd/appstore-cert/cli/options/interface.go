// Copyright 2025 The Nextcloud App Store Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package options

import (
	"github.com/spf13/cobra"
)

// Interface is implemented by any option group that can register its flags
// on a cobra command.
type Interface interface {
	// AddFlags adds this options' flags to the cobra command.
	AddFlags(cmd *cobra.Command)
}

// logExts lists the file extensions suggested for the --output-file flag.
var logExts = []string{"log", "txt"}

// pemExts lists the file extensions suggested for PEM input flags.
var pemExts = []string{"pem", "crt", "cert"}
