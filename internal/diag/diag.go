// Copyright 2026 Chris Waring
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

// Package diag defines the shared diagnostic vocabulary used across
// container parsing and token analysis. A Diagnostic never aborts a
// pipeline; it is attached to whatever result was still producible.
package diag

import "fmt"

// Level classifies how seriously a diagnostic should be taken.
type Level string

const (
	Notice Level = "notice"
	Warn   Level = "warn"
	Error  Level = "error"
)

// Diagnostic is a non-fatal finding with a stable machine-readable code.
type Diagnostic struct {
	Level   Level  `json:"level"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Noticef builds a notice-level diagnostic.
func Noticef(code, format string, args ...any) Diagnostic {
	return Diagnostic{Level: Notice, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Warnf builds a warn-level diagnostic.
func Warnf(code, format string, args ...any) Diagnostic {
	return Diagnostic{Level: Warn, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Errorf builds an error-level diagnostic.
func Errorf(code, format string, args ...any) Diagnostic {
	return Diagnostic{Level: Error, Code: code, Message: fmt.Sprintf(format, args...)}
}
