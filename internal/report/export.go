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

package report

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ipfs/go-cid"

	"github.com/cwaring/ucan-inspector/internal/diag"
	"github.com/cwaring/ucan-inspector/internal/token"
)

// Format selects the export serialization.
type Format string

const (
	FormatJSON    Format = "json"
	FormatDAGJSON Format = "dag-json"
)

// Options controls export behavior. Raw byte fields are withheld unless
// IncludeBytes is set.
type Options struct {
	Format       Format
	IncludeBytes bool
}

// Export serializes a report. Both formats share one ordered writer, so
// key order is deterministic regardless of map iteration order; they
// differ only in how bytes and CIDs are rendered.
func Export(r *Report, opts Options) (string, error) {
	if opts.Format == "" {
		opts.Format = FormatJSON
	}

	var b strings.Builder
	if err := writeValue(&b, buildTree(r, opts), opts, 0); err != nil {
		return "", err
	}
	b.WriteByte('\n')
	return b.String(), nil
}

// obj is a JSON object with explicit key order. nil values are never
// stored: absent fields are omitted entirely.
type obj struct {
	keys []string
	vals map[string]any
}

func newObj() *obj {
	return &obj{vals: make(map[string]any)}
}

func (o *obj) set(key string, v any) {
	if v == nil {
		return
	}
	if _, exists := o.vals[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = v
}

func buildTree(r *Report, opts Options) *obj {
	root := newObj()
	root.set("source", string(r.Source))
	root.set("rawInput", r.RawInput)

	if r.Container != nil {
		root.set("container", containerTree(r.Container, opts))
	}

	tokens := make([]any, len(r.Tokens))
	for i := range r.Tokens {
		tokens[i] = tokenTree(&r.Tokens[i], opts)
	}
	root.set("tokens", tokens)
	root.set("issues", diagnosticsTree(r.Issues))
	root.set("createdAt", r.CreatedAt)
	return root
}

func containerTree(c *ContainerInfo, opts Options) *obj {
	o := newObj()
	o.set("headerByte", string(c.Header.Byte))
	o.set("encoding", string(c.Header.Encoding))
	o.set("compression", string(c.Header.Compression))
	o.set("tokenCount", c.TokenCount)
	o.set("diagnostics", diagnosticsTree(c.Diagnostics))
	if opts.IncludeBytes {
		o.set("payloadBytes", c.PayloadBytes)
		o.set("cbor", c.CBOR)
		o.set("tokenBytes", c.TokenBytes)
	}
	return o
}

func tokenTree(t *token.Analysis, opts Options) *obj {
	o := newObj()
	o.set("id", t.ID)
	o.set("index", t.Index)
	o.set("type", string(t.Type))
	o.set("tokenBase64", t.TokenBase64)
	if t.CID.Defined() {
		o.set("cid", t.CID)
	}

	switch t.Type {
	case token.TypeDelegation:
		o.set("header", headerTree(t.Header))
		o.set("payload", delegationMap(t.Delegation))
		o.set("timeline", timelineTree(t.Timeline))
		o.set("json", delegationMap(t.Delegation))
	case token.TypeInvocation:
		o.set("header", headerTree(t.Header))
		o.set("payload", invocationSummaryMap(t.Invocation))
		o.set("timeline", timelineTree(t.Timeline))
		o.set("json", invocationExportMap(t.Invocation))
	case token.TypeUnknown:
		o.set("reason", t.Reason)
	}

	o.set("signature", signatureTree(t))
	o.set("issues", diagnosticsTree(t.Issues))
	if opts.IncludeBytes {
		o.set("bytes", t.Bytes)
	}
	return o
}

func headerTree(h token.Header) *obj {
	o := newObj()
	o.set("spec", h.Spec)
	o.set("version", h.Version)
	o.set("algorithm", h.Algorithm)
	return o
}

func timelineTree(tl token.Timeline) *obj {
	o := newObj()
	o.set("state", string(tl.State))
	if tl.ExpLabel != "" {
		o.set("expLabel", tl.ExpLabel)
		o.set("expRelative", tl.ExpRelative)
	}
	if tl.NbfLabel != "" {
		o.set("nbfLabel", tl.NbfLabel)
		o.set("nbfRelative", tl.NbfRelative)
	}
	return o
}

func signatureTree(t *token.Analysis) *obj {
	o := newObj()
	o.set("status", string(t.Signature.Status))
	if t.Signature.Reason != "" {
		o.set("reason", t.Signature.Reason)
	}
	return o
}

func diagnosticsTree(diags []diag.Diagnostic) []any {
	out := make([]any, len(diags))
	for i, d := range diags {
		o := newObj()
		o.set("level", string(d.Level))
		o.set("code", d.Code)
		o.set("message", d.Message)
		out[i] = o
	}
	return out
}

// delegationMap produces the payload as a plain map; the writer applies
// the delegation key template.
func delegationMap(p *token.DelegationPayload) map[string]any {
	m := map[string]any{
		"iss": p.Iss,
		"aud": p.Aud,
		"cmd": p.Cmd,
	}
	if p.Sub != "" {
		m["sub"] = p.Sub
	}
	if p.Pol != nil {
		m["pol"] = p.Pol
	}
	if p.Nonce != nil {
		m["nonce"] = p.Nonce
	}
	if p.Meta != nil {
		m["meta"] = p.Meta
	}
	if p.Nbf != nil {
		m["nbf"] = *p.Nbf
	}
	if p.Exp != nil {
		m["exp"] = *p.Exp
	}
	return m
}

// invocationSummaryMap is the report-facing invocation payload ("proofs").
func invocationSummaryMap(p *token.InvocationPayload) map[string]any {
	m := invocationBaseMap(p)
	m["proofs"] = cidList(p.Proofs)
	if p.Nbf != nil {
		m["nbf"] = *p.Nbf
	}
	return m
}

// invocationExportMap is the UCAN-shaped invocation payload ("prf").
func invocationExportMap(p *token.InvocationPayload) map[string]any {
	m := invocationBaseMap(p)
	m["prf"] = cidList(p.Proofs)
	return m
}

func invocationBaseMap(p *token.InvocationPayload) map[string]any {
	m := map[string]any{
		"iss": p.Iss,
		"sub": p.Sub,
		"cmd": p.Cmd,
	}
	if p.Aud != "" {
		m["aud"] = p.Aud
	}
	if p.Args != nil {
		m["args"] = p.Args
	}
	if p.Meta != nil {
		m["meta"] = p.Meta
	}
	if p.Nonce != nil {
		m["nonce"] = p.Nonce
	}
	if p.Exp != nil {
		m["exp"] = *p.Exp
	}
	if p.Iat != nil {
		m["iat"] = *p.Iat
	}
	if p.Cause != nil {
		m["cause"] = *p.Cause
	}
	return m
}

func cidList(cids []cid.Cid) []any {
	out := make([]any, len(cids))
	for i, c := range cids {
		out[i] = c
	}
	return out
}

// Payload key templates. A template applies when its marker key is present;
// template keys come first (in template order, when present), any other
// keys follow in ascending lexical order. Objects matching no template are
// ordered fully lexically.
var payloadTemplates = []struct {
	marker string
	order  []string
}{
	{"pol", []string{"iss", "aud", "sub", "cmd", "pol", "nonce", "meta", "nbf", "exp"}},
	{"prf", []string{"iss", "sub", "aud", "cmd", "args", "prf", "meta", "nonce", "exp", "iat", "cause"}},
	{"proofs", []string{"iss", "sub", "aud", "cmd", "args", "proofs", "meta", "nonce", "nbf", "exp", "iat", "cause"}},
}

func orderKeys(m map[string]any) []string {
	for _, t := range payloadTemplates {
		if _, ok := m[t.marker]; ok {
			return templateOrder(m, t.order)
		}
	}
	return lexicalOrder(m)
}

func templateOrder(m map[string]any, template []string) []string {
	ordered := make([]string, 0, len(m))
	used := make(map[string]bool, len(m))
	for _, k := range template {
		if _, ok := m[k]; ok {
			ordered = append(ordered, k)
			used[k] = true
		}
	}
	var rest []string
	for k := range m {
		if !used[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(ordered, rest...)
}

func lexicalOrder(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// writeValue renders any tree value with 2-space indentation. Byte and CID
// rendering depends on the format; everything else is shared.
func writeValue(b *strings.Builder, v any, opts Options, indent int) error {
	switch val := v.(type) {
	case nil:
		b.WriteString("null")

	case *obj:
		return writeObject(b, val.keys, func(k string) any { return val.vals[k] }, opts, indent)

	case map[string]any:
		return writeObject(b, orderKeys(val), func(k string) any { return val[k] }, opts, indent)

	case map[any]any:
		converted := make(map[string]any, len(val))
		for k, item := range val {
			converted[fmt.Sprintf("%v", k)] = item
		}
		return writeValue(b, converted, opts, indent)

	case []any:
		return writeArray(b, val, opts, indent)

	case [][]byte:
		arr := make([]any, len(val))
		for i, item := range val {
			arr[i] = item
		}
		return writeArray(b, arr, opts, indent)

	case []byte:
		writeBytes(b, val, opts)

	case cid.Cid:
		writeCID(b, val, opts)

	case time.Time:
		b.WriteString(fmt.Sprintf("%q", val.UTC().Format(time.RFC3339)))

	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return fmt.Errorf("marshaling %T: %w", val, err)
		}
		b.Write(raw)
	}
	return nil
}

func writeObject(b *strings.Builder, keys []string, get func(string) any, opts Options, indent int) error {
	// Drop keys whose value is nil so optional fields vanish entirely.
	present := make([]string, 0, len(keys))
	for _, k := range keys {
		if get(k) != nil {
			present = append(present, k)
		}
	}

	if len(present) == 0 {
		b.WriteString("{}")
		return nil
	}

	b.WriteString("{\n")
	for i, k := range present {
		writeIndent(b, indent+1)
		b.WriteString(fmt.Sprintf("%q: ", k))
		if err := writeValue(b, get(k), opts, indent+1); err != nil {
			return err
		}
		if i < len(present)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	writeIndent(b, indent)
	b.WriteByte('}')
	return nil
}

func writeArray(b *strings.Builder, arr []any, opts Options, indent int) error {
	if len(arr) == 0 {
		b.WriteString("[]")
		return nil
	}

	b.WriteString("[\n")
	for i, item := range arr {
		writeIndent(b, indent+1)
		if err := writeValue(b, item, opts, indent+1); err != nil {
			return err
		}
		if i < len(arr)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	writeIndent(b, indent)
	b.WriteByte(']')
	return nil
}

// writeBytes renders a byte value: plain JSON uses a standard base64
// string, DAG-JSON uses the IPLD tagged form with unpadded base64.
func writeBytes(b *strings.Builder, data []byte, opts Options) {
	if opts.Format == FormatDAGJSON {
		b.WriteString(fmt.Sprintf(`{"/": {"bytes": %q}}`, base64.RawStdEncoding.EncodeToString(data)))
		return
	}
	b.WriteString(fmt.Sprintf("%q", base64.StdEncoding.EncodeToString(data)))
}

// writeCID renders a CID: plain JSON as its string form, DAG-JSON as an
// IPLD link.
func writeCID(b *strings.Builder, c cid.Cid, opts Options) {
	if opts.Format == FormatDAGJSON {
		b.WriteString(fmt.Sprintf(`{"/": %q}`, c.String()))
		return
	}
	b.WriteString(fmt.Sprintf("%q", c.String()))
}

func writeIndent(b *strings.Builder, indent int) {
	for i := 0; i < indent; i++ {
		b.WriteString("  ")
	}
}
