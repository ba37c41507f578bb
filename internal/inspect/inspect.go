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

// Package inspect wires the full pipeline: input classification, container
// parsing with raw-token fallback, fan-out token analysis, and report
// assembly.
package inspect

import (
	"context"
	"errors"

	"github.com/cwaring/ucan-inspector/internal/container"
	"github.com/cwaring/ucan-inspector/internal/diag"
	"github.com/cwaring/ucan-inspector/internal/format"
	"github.com/cwaring/ucan-inspector/internal/report"
	"github.com/cwaring/ucan-inspector/internal/token"
)

// Inspector runs inspections. The zero value is not usable; construct with
// New and override the analyzer for tests.
type Inspector struct {
	Analyzer *token.Analyzer
}

func New() *Inspector {
	return &Inspector{Analyzer: token.NewAnalyzer()}
}

// Inspect analyses text input. Container-looking input that fails strict
// container parsing is retried as a bare token: the parse failure becomes a
// warn-level issue, never a dead end.
func (ins *Inspector) Inspect(ctx context.Context, input string) *report.Report {
	var issues []diag.Diagnostic

	if format.Detect(input) == format.KindContainer {
		res, err := container.ParseString(input)
		if err == nil {
			analyses := ins.Analyzer.AnalyzeAll(ctx, res.Tokens)
			return report.Build(report.SourceContainer, input, report.ContainerInfoFrom(res), analyses, issues)
		}

		var perr *container.ParseError
		if errors.As(err, &perr) {
			issues = append(issues, diag.Warnf("container_parse_failed",
				"container parse failed at %s (%s): %s", perr.Stage, perr.Code, perr.Message()))
		} else {
			issues = append(issues, diag.Warnf("container_parse_failed", "container parse failed: %v", err))
		}
	}

	return ins.inspectRawToken(ctx, input, issues)
}

// InspectBytes analyses raw binary input, which may use the byte-only
// container encodings ('@', 'M').
func (ins *Inspector) InspectBytes(ctx context.Context, input []byte) *report.Report {
	res, err := container.Parse(input)
	if err == nil {
		analyses := ins.Analyzer.AnalyzeAll(ctx, res.Tokens)
		return report.Build(report.SourceContainer, "", report.ContainerInfoFrom(res), analyses, nil)
	}

	var issues []diag.Diagnostic
	var perr *container.ParseError
	if errors.As(err, &perr) {
		issues = append(issues, diag.Warnf("container_parse_failed",
			"container parse failed at %s (%s): %s", perr.Stage, perr.Code, perr.Message()))
	}

	analysis := ins.Analyzer.Analyze(ctx, input, 0)
	return report.Build(report.SourceRaw, "", nil, []token.Analysis{analysis}, issues)
}

// inspectRawToken treats text input as one base64/base64url-encoded token.
func (ins *Inspector) inspectRawToken(ctx context.Context, input string, issues []diag.Diagnostic) *report.Report {
	trimmed := format.StripWhitespace(input)

	data, err := format.DecodeBase64URL(trimmed)
	if err != nil {
		data, err = format.DecodeBase64Std(trimmed)
	}
	if err != nil {
		// Not decodable at all: analyse the raw text bytes so the report
		// still carries an unknown-token entry with a decode issue.
		data = []byte(trimmed)
	}

	analysis := ins.Analyzer.Analyze(ctx, data, 0)
	return report.Build(report.SourceRaw, input, nil, []token.Analysis{analysis}, issues)
}
