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

package mock

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/gzip"

	"github.com/cwaring/ucan-inspector/internal/container"
	"github.com/cwaring/ucan-inspector/internal/format"
)

// Container wraps tokens into a ctn-v1 container under the given header
// byte. Tokens are written in canonical bytewise order.
func Container(headerByte byte, tokens [][]byte) ([]byte, error) {
	hdr, ok := container.HeaderFor(headerByte)
	if !ok {
		return nil, fmt.Errorf("unknown container header byte 0x%02x", headerByte)
	}

	sorted := make([][]byte, len(tokens))
	copy(sorted, tokens)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i], sorted[j]) < 0
	})

	payload, err := cbor.Marshal(map[string][][]byte{"ctn-v1": sorted})
	if err != nil {
		return nil, fmt.Errorf("encoding container CBOR: %w", err)
	}

	if hdr.Compression == container.CompressionGzip {
		var buf bytes.Buffer
		w := gzip.NewWriter(&buf)
		if _, err := w.Write(payload); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		payload = buf.Bytes()
	}

	switch hdr.Encoding {
	case container.EncodingRaw:
		return append([]byte{headerByte}, payload...), nil
	case container.EncodingBase64:
		return append([]byte{headerByte}, format.EncodeBase64Std(payload)...), nil
	case container.EncodingBase64URL:
		return append([]byte{headerByte}, format.EncodeBase64URL(payload)...), nil
	}
	return nil, fmt.Errorf("unhandled encoding %q", hdr.Encoding)
}

// SampleContainer generates a container holding a delegation and an
// invocation that proves against it.
func SampleContainer(headerByte byte) ([]byte, error) {
	dlg, inv, err := DelegationChain()
	if err != nil {
		return nil, err
	}
	return Container(headerByte, [][]byte{dlg, inv})
}
