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

package container

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/gzip"

	"github.com/cwaring/ucan-inspector/internal/diag"
)

// encodeContainer builds container bytes for a header byte, compressing and
// encoding per the header table.
func encodeContainer(t *testing.T, headerByte byte, tokens [][]byte) []byte {
	t.Helper()

	payload, err := cbor.Marshal(map[string][][]byte{"ctn-v1": tokens})
	if err != nil {
		t.Fatalf("encoding container CBOR: %v", err)
	}

	hdr, ok := HeaderFor(headerByte)
	if !ok {
		t.Fatalf("unknown header byte %q", string(headerByte))
	}

	if hdr.Compression == CompressionGzip {
		var buf bytes.Buffer
		w := gzip.NewWriter(&buf)
		if _, err := w.Write(payload); err != nil {
			t.Fatalf("gzip write: %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("gzip close: %v", err)
		}
		payload = buf.Bytes()
	}

	switch hdr.Encoding {
	case EncodingBase64:
		payload = []byte(base64.StdEncoding.EncodeToString(payload))
	case EncodingBase64URL:
		payload = []byte(base64.RawURLEncoding.EncodeToString(payload))
	}

	return append([]byte{headerByte}, payload...)
}

func TestParse_HeaderRoundTrip(t *testing.T) {
	tok := []byte{9, 9, 9}

	tests := []struct {
		headerByte  byte
		encoding    Encoding
		compression Compression
	}{
		{'@', EncodingRaw, CompressionNone},
		{'B', EncodingBase64, CompressionNone},
		{'C', EncodingBase64URL, CompressionNone},
		{'M', EncodingRaw, CompressionGzip},
		{'O', EncodingBase64, CompressionGzip},
		{'P', EncodingBase64URL, CompressionGzip},
	}
	for _, tt := range tests {
		t.Run(string(tt.headerByte), func(t *testing.T) {
			res, err := Parse(encodeContainer(t, tt.headerByte, [][]byte{tok}))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if res.Header.Encoding != tt.encoding || res.Header.Compression != tt.compression {
				t.Errorf("header = (%s, %s), want (%s, %s)", res.Header.Encoding, res.Header.Compression, tt.encoding, tt.compression)
			}
			if len(res.Tokens) != 1 || !bytes.Equal(res.Tokens[0], tok) {
				t.Errorf("tokens = %x, want [%x]", res.Tokens, tok)
			}
		})
	}
}

func TestParseString_GzipVariants(t *testing.T) {
	tok := []byte{7, 8, 9}
	for _, headerByte := range []byte{'O', 'P'} {
		t.Run(string(headerByte), func(t *testing.T) {
			res, err := ParseString(string(encodeContainer(t, headerByte, [][]byte{tok})))
			if err != nil {
				t.Fatalf("ParseString: %v", err)
			}
			if len(res.Tokens) != 1 || !bytes.Equal(res.Tokens[0], tok) {
				t.Errorf("tokens = %x, want [%x]", res.Tokens, tok)
			}
		})
	}
}

func TestParseString_RejectsRawEncodings(t *testing.T) {
	for _, headerByte := range []byte{'@', 'M'} {
		t.Run(string(headerByte), func(t *testing.T) {
			_, err := ParseString(string(headerByte) + "anything")
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected ParseError, got %v", err)
			}
			if perr.Code != "raw_encoding_in_text" {
				t.Errorf("code = %q, want raw_encoding_in_text", perr.Code)
			}
		})
	}
}

func TestParseString_UnknownHeader(t *testing.T) {
	_, err := ParseString("not-container")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if perr.Code != "unknown_header_byte" {
		t.Errorf("code = %q, want unknown_header_byte", perr.Code)
	}
	if !strings.Contains(err.Error(), "Unknown header byte") {
		t.Errorf("error %q missing 'Unknown header byte'", err.Error())
	}
}

func TestParseString_EmptyInput(t *testing.T) {
	_, err := ParseString("   ")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if perr.Stage != StageHeader || perr.Code != "empty_input" {
		t.Errorf("got (%s, %s), want (header, empty_input)", perr.Stage, perr.Code)
	}
}

func TestParse_StrictShape(t *testing.T) {
	tests := []struct {
		name     string
		payload  any
		code     string
		errMatch string
	}{
		{
			"extra key",
			map[string]any{"ctn-v1": [][]byte{{1}}, "extra": 1},
			"invalid_container_map_keys",
			"exactly one key",
		},
		{
			"wrong key",
			map[string]any{"ctn-v2": [][]byte{{1}}},
			"invalid_container_map_keys",
			"exactly one key",
		},
		{
			"not a map",
			[]any{"ctn-v1"},
			"cbor_not_map",
			"not a map",
		},
		{
			"value not array",
			map[string]any{"ctn-v1": "nope"},
			"tokens_not_array",
			"not an array",
		},
		{
			"token not byte string",
			map[string]any{"ctn-v1": []any{[]any{1, 2, 3}}},
			"token_not_byte_string",
			"CBOR byte string",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := cbor.Marshal(tt.payload)
			if err != nil {
				t.Fatalf("cbor.Marshal: %v", err)
			}
			input := "B" + base64.StdEncoding.EncodeToString(encoded)

			_, err = ParseString(input)
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected ParseError, got %v", err)
			}
			if perr.Code != tt.code {
				t.Errorf("code = %q, want %q", perr.Code, tt.code)
			}
			if !strings.Contains(err.Error(), tt.errMatch) {
				t.Errorf("error %q missing %q", err.Error(), tt.errMatch)
			}
		})
	}
}

func TestParse_EmptyContainer(t *testing.T) {
	res, err := Parse(encodeContainer(t, 'B', [][]byte{}))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(res.Tokens) != 0 {
		t.Fatalf("expected no tokens, got %d", len(res.Tokens))
	}
	if !hasDiagnostic(res.Diagnostics, diag.Notice, "empty_container") {
		t.Errorf("missing empty_container notice, got %+v", res.Diagnostics)
	}
}

func TestParse_CanonicalOrdering(t *testing.T) {
	a := []byte{1, 1}
	b := []byte{2}
	c := []byte{1, 2}

	unsorted := encodeContainer(t, 'C', [][]byte{b, c, a})
	sorted := encodeContainer(t, 'C', [][]byte{a, c, b})

	res1, err := Parse(unsorted)
	if err != nil {
		t.Fatalf("Parse(unsorted): %v", err)
	}
	res2, err := Parse(sorted)
	if err != nil {
		t.Fatalf("Parse(sorted): %v", err)
	}

	want := [][]byte{a, c, b} // bytewise: [1,1] < [1,2] < [2]
	for i, tok := range want {
		if !bytes.Equal(res1.Tokens[i], tok) {
			t.Errorf("unsorted parse token %d = %x, want %x", i, res1.Tokens[i], tok)
		}
		if !bytes.Equal(res2.Tokens[i], tok) {
			t.Errorf("sorted parse token %d = %x, want %x", i, res2.Tokens[i], tok)
		}
	}

	if !hasDiagnostic(res1.Diagnostics, diag.Warn, "tokens_not_sorted") {
		t.Errorf("unsorted input missing tokens_not_sorted, got %+v", res1.Diagnostics)
	}
	if hasDiagnostic(res2.Diagnostics, diag.Warn, "tokens_not_sorted") {
		t.Errorf("sorted input should not warn, got %+v", res2.Diagnostics)
	}
}

func TestParse_DuplicateAndUnsortedDiagnostics(t *testing.T) {
	a := []byte{5}
	b := []byte{3}

	res, err := Parse(encodeContainer(t, 'B', [][]byte{a, b, a}))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !hasDiagnostic(res.Diagnostics, diag.Warn, "duplicate_tokens") {
		t.Errorf("missing duplicate_tokens, got %+v", res.Diagnostics)
	}
	if !hasDiagnostic(res.Diagnostics, diag.Warn, "tokens_not_sorted") {
		t.Errorf("missing tokens_not_sorted, got %+v", res.Diagnostics)
	}
	if len(res.Tokens) != 3 {
		t.Errorf("duplicates must be preserved in output, got %d tokens", len(res.Tokens))
	}
}

func TestParseString_PaddingDiagnostics(t *testing.T) {
	tok := []byte{1}
	payload, err := cbor.Marshal(map[string][][]byte{"ctn-v1": {tok}})
	if err != nil {
		t.Fatalf("cbor.Marshal: %v", err)
	}

	t.Run("base64 missing padding", func(t *testing.T) {
		encoded := base64.StdEncoding.EncodeToString(payload)
		stripped := strings.TrimRight(encoded, "=")
		if stripped == encoded {
			t.Skip("payload length needs no padding")
		}
		res, err := ParseString("B" + stripped)
		if err != nil {
			t.Fatalf("ParseString: %v", err)
		}
		if !hasDiagnostic(res.Diagnostics, diag.Notice, "base64_padding_missing") {
			t.Errorf("missing base64_padding_missing, got %+v", res.Diagnostics)
		}
	})

	t.Run("base64url stray padding", func(t *testing.T) {
		encoded := base64.URLEncoding.EncodeToString(payload)
		if !strings.HasSuffix(encoded, "=") {
			t.Skip("payload length needs no padding")
		}
		res, err := ParseString("C" + encoded)
		if err != nil {
			t.Fatalf("ParseString: %v", err)
		}
		if !hasDiagnostic(res.Diagnostics, diag.Notice, "base64_padding_present") {
			t.Errorf("missing base64_padding_present, got %+v", res.Diagnostics)
		}
	})
}

func TestHeaderByte_RoundTrip(t *testing.T) {
	for b, h := range headerTable {
		got, err := HeaderByte(h.Encoding, h.Compression)
		if err != nil {
			t.Fatalf("HeaderByte(%s, %s): %v", h.Encoding, h.Compression, err)
		}
		if got != b {
			t.Errorf("HeaderByte(%s, %s) = %q, want %q", h.Encoding, h.Compression, string(got), string(b))
		}
	}
}

func hasDiagnostic(diags []diag.Diagnostic, level diag.Level, code string) bool {
	for _, d := range diags {
		if d.Level == level && d.Code == code {
			return true
		}
	}
	return false
}
