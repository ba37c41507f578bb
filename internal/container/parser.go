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
	"fmt"
	"io"
	"sort"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/gzip"

	"github.com/cwaring/ucan-inspector/internal/diag"
	"github.com/cwaring/ucan-inspector/internal/format"
)

// containerKey is the single map key a ctn-v1 container payload MUST carry.
const containerKey = "ctn-v1"

// Stage identifies where in the pipeline a container parse failed.
type Stage string

const (
	StageHeader     Stage = "header"
	StageDecode     Stage = "decode"
	StageDecompress Stage = "decompress"
	StageCBOR       Stage = "cbor"
)

// ParseError is the fatal error type for container parsing. It is distinct
// so callers can detect specifically-container failures and fall back to
// treating the input as a bare token.
type ParseError struct {
	Stage Stage
	Code  string
	msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("container parse failed at %s: %s", e.Stage, e.msg)
}

// Message returns the human-readable detail without the stage prefix.
func (e *ParseError) Message() string { return e.msg }

func parseErr(stage Stage, code, msg string, args ...any) *ParseError {
	return &ParseError{Stage: stage, Code: code, msg: fmt.Sprintf(msg, args...)}
}

// Result is an immutable container parse result. Tokens are always in
// canonical (bytewise ascending) order regardless of input order;
// Diagnostics report on the original ordering.
type Result struct {
	Header       Header
	PayloadBytes []byte // post-decompression CBOR bytes
	CBOR         any    // generically decoded container structure
	Tokens       [][]byte
	Diagnostics  []diag.Diagnostic
}

var decMode cbor.DecMode

func init() {
	var err error
	decMode, err = cbor.DecOptions{
		IntDec: cbor.IntDecConvertSigned,
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

// ParseString parses container input arriving as text. Headers selecting a
// raw encoding ('@', 'M') are rejected: raw bytes do not survive a text
// round-trip.
func ParseString(input string) (*Result, error) {
	input = format.StripWhitespace(input)
	if input == "" {
		return nil, parseErr(StageHeader, "empty_input", "empty container input")
	}

	hdr, ok := HeaderFor(input[0])
	if !ok {
		return nil, parseErr(StageHeader, "unknown_header_byte", "Unknown header byte 0x%02x (%q)", input[0], string(input[0]))
	}
	if hdr.Encoding == EncodingRaw {
		return nil, parseErr(StageHeader, "raw_encoding_in_text", "header %q selects a raw encoding, which cannot be carried as text", string(hdr.Byte))
	}

	return parsePayload(hdr, []byte(input[1:]))
}

// Parse parses container input arriving as bytes. All six header bytes are
// accepted, including the raw encodings.
func Parse(input []byte) (*Result, error) {
	if len(input) == 0 {
		return nil, parseErr(StageHeader, "empty_input", "empty container input")
	}

	hdr, ok := HeaderFor(input[0])
	if !ok {
		return nil, parseErr(StageHeader, "unknown_header_byte", "Unknown header byte 0x%02x", input[0])
	}

	return parsePayload(hdr, input[1:])
}

func parsePayload(hdr Header, payload []byte) (*Result, error) {
	var diags []diag.Diagnostic

	decoded, decodeDiags, err := decodePayload(hdr.Encoding, payload)
	if err != nil {
		return nil, err
	}
	diags = append(diags, decodeDiags...)

	if hdr.Compression == CompressionGzip {
		decoded, err = gunzip(decoded)
		if err != nil {
			return nil, parseErr(StageDecompress, "gzip_decompress_failed", "decompressing container payload: %v", err)
		}
	}

	tokens, shapeDiags, err := extractTokens(decoded)
	if err != nil {
		return nil, err
	}
	diags = append(diags, shapeDiags...)
	diags = append(diags, canonicalityDiagnostics(tokens)...)

	// Generic decode for callers that want to see the raw structure.
	// Shape was already strictly validated, so this cannot fail.
	var generic any
	_ = decMode.Unmarshal(decoded, &generic)

	sorted := make([][]byte, len(tokens))
	copy(sorted, tokens)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i], sorted[j]) < 0
	})

	return &Result{
		Header:       hdr,
		PayloadBytes: decoded,
		CBOR:         generic,
		Tokens:       sorted,
		Diagnostics:  diags,
	}, nil
}

// decodePayload applies the header's transport encoding. Padding problems
// are tolerated and reported as notices, never as hard failures.
func decodePayload(enc Encoding, payload []byte) ([]byte, []diag.Diagnostic, error) {
	switch enc {
	case EncodingRaw:
		return payload, nil, nil

	case EncodingBase64:
		var diags []diag.Diagnostic
		s, padded := format.PadBase64(string(payload))
		if padded {
			diags = append(diags, diag.Noticef("base64_padding_missing", "base64 payload length is not a multiple of 4; padding added"))
		}
		b, err := format.DecodeBase64Std(s)
		if err != nil {
			return nil, nil, parseErr(StageDecode, "base64_decode_failed", "decoding base64 payload: %v", err)
		}
		return b, diags, nil

	case EncodingBase64URL:
		var diags []diag.Diagnostic
		s, stripped := format.StripPadding(string(payload))
		if stripped {
			diags = append(diags, diag.Noticef("base64_padding_present", "base64url payload carries padding; stripped"))
		}
		b, err := format.DecodeBase64URL(s)
		if err != nil {
			return nil, nil, parseErr(StageDecode, "base64url_decode_failed", "decoding base64url payload: %v", err)
		}
		return b, diags, nil

	default:
		return nil, nil, parseErr(StageDecode, "unknown_encoding", "unhandled encoding %q", enc)
	}
}

func gunzip(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// extractTokens strictly validates the container CBOR shape: a map with
// exactly one key, "ctn-v1", holding an array of byte strings.
func extractTokens(data []byte) ([][]byte, []diag.Diagnostic, error) {
	var m map[string]cbor.RawMessage
	if err := decMode.Unmarshal(data, &m); err != nil {
		return nil, nil, parseErr(StageCBOR, "cbor_not_map", "container CBOR is not a map: %v", err)
	}

	raw, ok := m[containerKey]
	if !ok || len(m) != 1 {
		return nil, nil, parseErr(StageCBOR, "invalid_container_map_keys", "container map must have exactly one key %q", containerKey)
	}

	var elems []cbor.RawMessage
	if err := decMode.Unmarshal(raw, &elems); err != nil {
		return nil, nil, parseErr(StageCBOR, "tokens_not_array", "value at %q is not an array: %v", containerKey, err)
	}

	tokens := make([][]byte, 0, len(elems))
	for i, elem := range elems {
		if len(elem) == 0 || elem[0]>>5 != 2 { // CBOR major type 2 = byte string
			return nil, nil, parseErr(StageCBOR, "token_not_byte_string", "token %d is not a CBOR byte string", i)
		}
		var tok []byte
		if err := decMode.Unmarshal(elem, &tok); err != nil {
			return nil, nil, parseErr(StageCBOR, "token_not_byte_string", "token %d is not a CBOR byte string: %v", i, err)
		}
		tokens = append(tokens, tok)
	}

	var diags []diag.Diagnostic
	if len(tokens) == 0 {
		diags = append(diags, diag.Noticef("empty_container", "container holds no tokens"))
	}
	return tokens, diags, nil
}

// canonicalityDiagnostics checks the ORIGINAL token order against the
// wire format's SHOULDs: bytewise-sorted, no duplicates. Both findings are
// warnings; the parser still canonicalizes the returned list.
func canonicalityDiagnostics(tokens [][]byte) []diag.Diagnostic {
	var diags []diag.Diagnostic

	seen := make(map[string]int, len(tokens))
	duplicates := 0
	for _, tok := range tokens {
		seen[string(tok)]++
		if seen[string(tok)] == 2 {
			duplicates++
		}
	}
	if duplicates > 0 {
		diags = append(diags, diag.Warnf("duplicate_tokens", "container holds %d duplicated token(s)", duplicates))
	}

	for i := 1; i < len(tokens); i++ {
		if bytes.Compare(tokens[i-1], tokens[i]) > 0 {
			diags = append(diags, diag.Warnf("tokens_not_sorted", "container tokens are not in canonical bytewise order"))
			break
		}
	}

	return diags
}
