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

// Package output renders inspection reports for the terminal.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/cwaring/ucan-inspector/internal/diag"
	"github.com/cwaring/ucan-inspector/internal/did"
	"github.com/cwaring/ucan-inspector/internal/report"
	"github.com/cwaring/ucan-inspector/internal/token"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	labelColor   = color.New(color.FgYellow)
	dimColor     = color.New(color.Faint)
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	warnColor    = color.New(color.FgYellow)
)

// Options controls printing.
type Options struct {
	NoColor bool
	Verbose bool
	Writer  io.Writer
}

func (o Options) writer() io.Writer {
	if o.Writer != nil {
		return o.Writer
	}
	return os.Stdout
}

// PrintReport renders the full report.
func PrintReport(r *report.Report, opts Options) {
	w := opts.writer()

	headerColor.Fprintf(w, "UCAN Inspection Report\n")
	printField(w, "Source", string(r.Source))

	if r.Container != nil {
		fmt.Fprintln(w)
		headerColor.Fprintln(w, "Container")
		printField(w, "Header", fmt.Sprintf("%q (%s, %s)", string(r.Container.Header.Byte), r.Container.Header.Encoding, r.Container.Header.Compression))
		printField(w, "Tokens", fmt.Sprintf("%d", r.Container.TokenCount))
		printDiagnostics(w, r.Container.Diagnostics)
	}

	printDiagnostics(w, r.Issues)

	for i := range r.Tokens {
		fmt.Fprintln(w)
		printToken(w, &r.Tokens[i], opts)
	}
}

func printToken(w io.Writer, t *token.Analysis, opts Options) {
	headerColor.Fprintf(w, "Token %d — %s\n", t.Index, t.Type)

	if t.CID.Defined() {
		printField(w, "CID", t.CID.String())
	}

	switch t.Type {
	case token.TypeDelegation:
		p := t.Delegation
		printField(w, "Issuer", p.Iss)
		printField(w, "Audience", p.Aud)
		if p.Sub != "" {
			printField(w, "Subject", p.Sub)
		}
		printField(w, "Command", p.Cmd)
		printField(w, "Policy", fmt.Sprintf("%d clause(s)", len(p.Pol)))

	case token.TypeInvocation:
		p := t.Invocation
		printField(w, "Issuer", p.Iss)
		printField(w, "Subject", p.Sub)
		if p.Aud != "" {
			printField(w, "Audience", p.Aud)
		}
		printField(w, "Command", p.Cmd)
		printField(w, "Proofs", fmt.Sprintf("%d", len(p.Proofs)))

	case token.TypeUnknown:
		printField(w, "Reason", t.Reason)
	}

	if t.Type != token.TypeUnknown {
		printField(w, "Envelope", fmt.Sprintf("%s v%s (%s)", t.Header.Spec, t.Header.Version, t.Header.Algorithm))
		printTimeline(w, t.Timeline)
	}
	printSignature(w, t.Signature)
	printDiagnostics(w, t.Issues)

	if opts.Verbose {
		dimColor.Fprintf(w, "  token: %s\n", t.TokenBase64)
	}
}

func printTimeline(w io.Writer, tl token.Timeline) {
	var chip string
	switch tl.State {
	case token.StateValid:
		chip = successColor.Sprint("valid")
	case token.StateExpired:
		chip = errorColor.Sprint("expired")
	case token.StatePending:
		chip = warnColor.Sprint("pending")
	default:
		chip = dimColor.Sprint("no expiry")
	}
	printField(w, "Validity", chip)
	if tl.ExpLabel != "" {
		printField(w, "Expires", fmt.Sprintf("%s (%s)", tl.ExpLabel, tl.ExpRelative))
	}
	if tl.NbfLabel != "" {
		printField(w, "Not before", fmt.Sprintf("%s (%s)", tl.NbfLabel, tl.NbfRelative))
	}
}

func printSignature(w io.Writer, sig did.Signature) {
	var chip string
	switch sig.Status {
	case did.StatusVerified:
		chip = successColor.Sprint("verified")
	case did.StatusFailed:
		chip = errorColor.Sprint("failed")
	case did.StatusUnsupported:
		chip = warnColor.Sprint("unsupported")
	default:
		chip = dimColor.Sprint("skipped")
	}
	if sig.Reason != "" {
		chip += dimColor.Sprintf(" (%s)", sig.Reason)
	}
	printField(w, "Signature", chip)
}

func printDiagnostics(w io.Writer, diags []diag.Diagnostic) {
	for _, d := range diags {
		var level string
		switch d.Level {
		case diag.Error:
			level = errorColor.Sprint("error")
		case diag.Warn:
			level = warnColor.Sprint("warn")
		default:
			level = dimColor.Sprint("notice")
		}
		fmt.Fprintf(w, "  %s %s: %s\n", level, d.Code, d.Message)
	}
}

func printField(w io.Writer, label, value string) {
	labelColor.Fprintf(w, "  %-11s", label+":")
	fmt.Fprintf(w, " %s\n", value)
}

// Summary returns a one-line description of a report, used by the serve
// command's startup banner and tests.
func Summary(r *report.Report) string {
	kinds := make([]string, len(r.Tokens))
	for i := range r.Tokens {
		kinds[i] = string(r.Tokens[i].Type)
	}
	return fmt.Sprintf("%s: %d token(s) [%s]", r.Source, len(r.Tokens), strings.Join(kinds, ", "))
}
