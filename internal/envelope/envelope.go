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

// Package envelope decodes UCAN 1.0 token envelopes: a two-element CBOR
// array of [signature, sigPayload] where sigPayload carries a varsig header
// under "h" and the token payload under a "ucan/<spec>@<version>" key.
package envelope

import (
	"fmt"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/ipfs/go-cid"
)

// Spec tags dispatched by the analyzer. Any other tag is reported but not
// interpreted.
const (
	SpecDelegation = "dlg"
	SpecInvocation = "inv"
)

const tagPrefix = "ucan/"

// varsigEdDSADagCBOR is the varsig header for Ed25519 signatures over
// DAG-CBOR payloads: varsig prefix, ed25519 multicodec, dag-cbor multicodec.
var varsigEdDSADagCBOR = []byte{0x34, 0xed, 0x01, 0x71}

// Envelope is a decoded UCAN envelope. Read-only once produced.
type Envelope struct {
	Spec      string // "dlg", "inv", or the raw tag suffix
	Tag       string // full payload tag key, e.g. "ucan/dlg@1.0.0"
	Version   string
	Algorithm string
	Signature []byte

	// VarsigHeader is the raw "h" field.
	VarsigHeader []byte

	// Payload is the spec-specific record with string keys and CBOR tag 42
	// values converted to CIDs.
	Payload map[string]any

	// SigPayloadBytes is the exact wire encoding of the second array
	// element. Signatures are verified over these bytes, never over a
	// re-encoding.
	SigPayloadBytes []byte

	// Raw is the full envelope encoding.
	Raw []byte
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

// Decode parses envelope bytes. It fails only when the outer structure is
// not a two-element CBOR array; missing header fields inside the signature
// payload are reported via MissingHeaderFields, not as errors.
func Decode(data []byte) (*Envelope, error) {
	var outer []cbor.RawMessage
	if err := decMode.Unmarshal(data, &outer); err != nil {
		return nil, fmt.Errorf("envelope is not a CBOR array: %w", err)
	}
	if len(outer) != 2 {
		return nil, fmt.Errorf("envelope array has %d elements, expected 2", len(outer))
	}

	env := &Envelope{Raw: data, SigPayloadBytes: []byte(outer[1])}

	if err := decMode.Unmarshal(outer[0], &env.Signature); err != nil {
		return nil, fmt.Errorf("envelope signature is not a byte string: %w", err)
	}

	var sigPayload map[string]cbor.RawMessage
	if err := decMode.Unmarshal(outer[1], &sigPayload); err != nil {
		return nil, fmt.Errorf("envelope signature payload is not a map: %w", err)
	}

	if h, ok := sigPayload["h"]; ok {
		if err := decMode.Unmarshal(h, &env.VarsigHeader); err != nil {
			return nil, fmt.Errorf("varsig header is not a byte string: %w", err)
		}
		env.Algorithm = algorithmFor(env.VarsigHeader)
	}

	for key, raw := range sigPayload {
		if !strings.HasPrefix(key, tagPrefix) {
			continue
		}
		env.Tag = key
		env.Spec, env.Version = splitTag(key)

		var payload map[string]any
		if err := decMode.Unmarshal(raw, &payload); err != nil {
			return nil, fmt.Errorf("decoding %q payload: %w", key, err)
		}
		env.Payload = convertValues(payload)
		break
	}

	return env, nil
}

// MissingHeaderFields lists required envelope header fields that were
// absent from the signature payload. The envelope is still usable; the
// analyzer surfaces the gap as a notice.
func (e *Envelope) MissingHeaderFields() []string {
	var missing []string
	if len(e.VarsigHeader) == 0 {
		missing = append(missing, "h")
	}
	if e.Tag == "" {
		missing = append(missing, "payload tag")
	} else if e.Version == "" {
		missing = append(missing, "version")
	}
	return missing
}

// splitTag parses "ucan/dlg@1.0.0" into ("dlg", "1.0.0").
func splitTag(tag string) (spec, version string) {
	rest := strings.TrimPrefix(tag, tagPrefix)
	if at := strings.IndexByte(rest, '@'); at >= 0 {
		return rest[:at], rest[at+1:]
	}
	return rest, ""
}

func algorithmFor(varsig []byte) string {
	if string(varsig) == string(varsigEdDSADagCBOR) {
		return "EdDSA"
	}
	return fmt.Sprintf("0x%x", varsig)
}

// convertValues normalizes a decoded CBOR payload: nested maps get string
// keys, tag 42 values become CIDs, other tags are unwrapped.
func convertValues(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = convertValue(v)
	}
	return out
}

func convertValue(v any) any {
	switch val := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprintf("%v", k)] = convertValue(item)
		}
		return out
	case map[string]any:
		return convertValues(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = convertValue(item)
		}
		return out
	case cbor.Tag:
		if val.Number == 42 {
			if c, err := cidFromTagContent(val.Content); err == nil {
				return c
			}
		}
		return convertValue(val.Content)
	default:
		return v
	}
}

// cidFromTagContent decodes CBOR tag 42 content: a byte string holding the
// CID bytes behind a 0x00 multibase identity prefix.
func cidFromTagContent(content any) (cid.Cid, error) {
	b, ok := content.([]byte)
	if !ok {
		return cid.Undef, fmt.Errorf("tag 42 content is not a byte string")
	}
	if len(b) < 2 || b[0] != 0x00 {
		return cid.Undef, fmt.Errorf("tag 42 content lacks the identity multibase prefix")
	}
	return cid.Cast(b[1:])
}
