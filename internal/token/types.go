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

// Package token analyses UCAN token bytes into tagged, immutable results:
// delegation, invocation, or unknown. Analysis never fails; every problem
// becomes an issue attached to the result.
package token

import (
	"github.com/ipfs/go-cid"

	"github.com/cwaring/ucan-inspector/internal/diag"
	"github.com/cwaring/ucan-inspector/internal/did"
)

// Type discriminates the three analysis shapes. Exactly one payload field
// of Analysis is set per type.
type Type string

const (
	TypeDelegation Type = "delegation"
	TypeInvocation Type = "invocation"
	TypeUnknown    Type = "unknown"
)

// Header is the decoded envelope header summary.
type Header struct {
	Spec      string `json:"spec"`
	Version   string `json:"version"`
	Algorithm string `json:"algorithm"`
}

// DelegationPayload is the decoded payload of a ucan/dlg token.
type DelegationPayload struct {
	Iss   string
	Aud   string
	Sub   string // empty when the delegation is powerline (sub: null)
	Cmd   string
	Pol   []any
	Nonce []byte
	Meta  map[string]any
	Nbf   *int64
	Exp   *int64
}

// InvocationPayload is the decoded payload of a ucan/inv token.
type InvocationPayload struct {
	Iss    string
	Sub    string
	Aud    string // optional; defaults to the subject
	Cmd    string
	Args   map[string]any
	Proofs []cid.Cid
	Cause  *cid.Cid
	Meta   map[string]any
	Nonce  []byte
	Exp    *int64
	Nbf    *int64
	Iat    *int64
}

// Analysis is the immutable result of analysing one token. The zero-value
// payload pointers not matching Type are nil; consumers switch on Type.
type Analysis struct {
	Type        Type
	ID          string // "token-<index>"
	Index       int
	TokenBase64 string
	Bytes       []byte
	CID         cid.Cid
	Header      Header

	Delegation *DelegationPayload
	Invocation *InvocationPayload

	Timeline  Timeline
	Signature did.Signature
	Issues    []diag.Diagnostic

	// Reason explains why a token is unknown; empty otherwise.
	Reason string
}
