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
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/cwaring/ucan-inspector/internal/container"
	"github.com/cwaring/ucan-inspector/internal/mock"
	"github.com/cwaring/ucan-inspector/internal/token"
)

func delegationReport(t *testing.T) *Report {
	t.Helper()
	data, _, err := mock.Delegation(mock.DelegationOpts{})
	if err != nil {
		t.Fatal(err)
	}
	results := token.NewAnalyzer().AnalyzeAll(context.Background(), [][]byte{data})
	info := &ContainerInfo{
		Header:       container.Header{Byte: 'C', Encoding: container.EncodingBase64URL, Compression: container.CompressionNone},
		TokenCount:   1,
		PayloadBytes: []byte{0xa1, 0x01},
		TokenBytes:   [][]byte{data},
	}
	return Build(SourceContainer, "gqFo...", info, results, nil)
}

func TestExport_SuppressesByteFieldsByDefault(t *testing.T) {
	out, err := Export(delegationReport(t), Options{})
	if err != nil {
		t.Fatal(err)
	}

	for _, key := range []string{`"bytes"`, `"payloadBytes"`, `"cbor"`, `"tokenBytes"`} {
		if strings.Contains(out, key) {
			t.Errorf("default export contains %s", key)
		}
	}
	for _, key := range []string{`"source"`, `"container"`, `"tokens"`, `"tokenBase64"`, `"createdAt"`} {
		if !strings.Contains(out, key) {
			t.Errorf("default export missing %s", key)
		}
	}
	if !json.Valid([]byte(out)) {
		t.Fatalf("export is not valid JSON:\n%s", out)
	}
}

func TestExport_IncludeBytes(t *testing.T) {
	out, err := Export(delegationReport(t), Options{IncludeBytes: true})
	if err != nil {
		t.Fatal(err)
	}

	for _, key := range []string{`"bytes"`, `"payloadBytes"`, `"tokenBytes"`} {
		if !strings.Contains(out, key) {
			t.Errorf("export with IncludeBytes missing %s", key)
		}
	}
	if !json.Valid([]byte(out)) {
		t.Fatalf("export is not valid JSON:\n%s", out)
	}
}

func TestExport_DelegationKeyOrder(t *testing.T) {
	out, err := Export(delegationReport(t), Options{})
	if err != nil {
		t.Fatal(err)
	}

	// The first payload object is the first place these keys appear, and
	// they must follow the delegation template order.
	keys := []string{`"iss"`, `"aud"`, `"sub"`, `"cmd"`, `"pol"`, `"nonce"`, `"exp"`}
	last := -1
	for _, key := range keys {
		idx := strings.Index(out, key)
		if idx < 0 {
			t.Fatalf("export missing key %s", key)
		}
		if idx < last {
			t.Errorf("key %s appears out of template order", key)
		}
		last = idx
	}
}

func TestExport_Deterministic(t *testing.T) {
	r := delegationReport(t)
	first, err := Export(r, Options{})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := Export(r, Options{})
		if err != nil {
			t.Fatal(err)
		}
		if again != first {
			t.Fatalf("export %d differs from the first", i)
		}
	}
}

func TestExport_DAGJSON(t *testing.T) {
	out, err := Export(delegationReport(t), Options{Format: FormatDAGJSON, IncludeBytes: true})
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out, `{"/": {"bytes": "`) {
		t.Error("DAG-JSON export lacks the IPLD bytes form")
	}
	if !strings.Contains(out, `"cid": {"/": "`) {
		t.Error("DAG-JSON export lacks the IPLD link form")
	}
	if !json.Valid([]byte(out)) {
		t.Fatalf("export is not valid JSON:\n%s", out)
	}

	// IPLD bytes use unpadded base64.
	start := strings.Index(out, `{"/": {"bytes": "`)
	rest := out[start+len(`{"/": {"bytes": "`):]
	encoded := rest[:strings.IndexByte(rest, '"')]
	if strings.Contains(encoded, "=") {
		t.Errorf("IPLD bytes are padded: %q", encoded)
	}
}

func TestExport_InvocationPayloadShapes(t *testing.T) {
	_, inv, err := mock.DelegationChain()
	if err != nil {
		t.Fatal(err)
	}
	results := token.NewAnalyzer().AnalyzeAll(context.Background(), [][]byte{inv})
	r := Build(SourceRaw, "uqJh...", nil, results, nil)

	out, err := Export(r, Options{})
	if err != nil {
		t.Fatal(err)
	}

	// The summary payload names proofs; the UCAN-shaped json block keeps prf.
	if !strings.Contains(out, `"proofs"`) {
		t.Error("export missing the proofs summary field")
	}
	if !strings.Contains(out, `"prf"`) {
		t.Error("export missing the prf field")
	}
	if strings.Contains(out, `"container"`) {
		t.Error("raw report must not carry a container section")
	}
}

func TestExport_UnknownToken(t *testing.T) {
	results := token.NewAnalyzer().AnalyzeAll(context.Background(), [][]byte{{1, 2, 3}})
	r := Build(SourceRaw, "AQID", nil, results, nil)

	out, err := Export(r, Options{})
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out, `"type": "unknown"`) {
		t.Errorf("export missing unknown type:\n%s", out)
	}
	if !strings.Contains(out, `"reason"`) {
		t.Error("unknown token export missing its reason")
	}
	if strings.Contains(out, `"payload"`) {
		t.Error("unknown token export must not carry a payload")
	}
	if !strings.Contains(out, `"status": "skipped"`) {
		t.Error("unknown token export missing the skipped signature status")
	}
}
