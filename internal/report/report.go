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

// Package report assembles inspection results into one immutable report
// and serializes it deterministically as plain JSON or DAG-JSON.
package report

import (
	"time"

	"github.com/cwaring/ucan-inspector/internal/container"
	"github.com/cwaring/ucan-inspector/internal/diag"
	"github.com/cwaring/ucan-inspector/internal/token"
)

// Source says where the analyzed tokens came from.
type Source string

const (
	SourceContainer Source = "container"
	SourceRaw       Source = "raw"
)

// ContainerInfo is the report's view of a successful container parse.
type ContainerInfo struct {
	Header      container.Header
	TokenCount  int
	Diagnostics []diag.Diagnostic

	// Raw material, exported only on request.
	PayloadBytes []byte
	CBOR         any
	TokenBytes   [][]byte
}

// ContainerInfoFrom projects a parse result into the report model.
func ContainerInfoFrom(res *container.Result) *ContainerInfo {
	return &ContainerInfo{
		Header:       res.Header,
		TokenCount:   len(res.Tokens),
		Diagnostics:  res.Diagnostics,
		PayloadBytes: res.PayloadBytes,
		CBOR:         res.CBOR,
		TokenBytes:   res.Tokens,
	}
}

// Report is the single object handed to every consumer (terminal printer,
// web API, export). Immutable once built.
type Report struct {
	Source    Source
	RawInput  string
	Container *ContainerInfo
	Tokens    []token.Analysis
	Issues    []diag.Diagnostic
	CreatedAt time.Time
}

// Build constructs a report. Pure assembly: validation already happened
// upstream.
func Build(source Source, rawInput string, c *ContainerInfo, tokens []token.Analysis, issues []diag.Diagnostic) *Report {
	return &Report{
		Source:    source,
		RawInput:  rawInput,
		Container: c,
		Tokens:    tokens,
		Issues:    issues,
		CreatedAt: time.Now(),
	}
}
