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

package did

import (
	"context"
	"crypto/ed25519"
	"fmt"

	"github.com/cwaring/ucan-inspector/internal/envelope"
)

// Status is the outcome of a signature verification attempt.
type Status string

const (
	StatusVerified Status = "verified"
	StatusFailed   Status = "failed"
	// StatusUnsupported means the verifier could not assess the signature
	// (unknown DID method, unknown algorithm) — distinct from a
	// cryptographic mismatch.
	StatusUnsupported Status = "unsupported"
	// StatusSkipped is used for tokens that never reached verification.
	StatusSkipped Status = "skipped"
)

// Signature is the verification insight attached to a token analysis.
type Signature struct {
	Status Status `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// Verifier checks an envelope signature against the issuer DID. The context
// is honored by implementations that resolve DIDs over the network.
type Verifier interface {
	Verify(ctx context.Context, env *envelope.Envelope, issuer string) Signature
}

// KeyVerifier verifies Ed25519 signatures for did:key issuers. Anything it
// cannot assess is reported as unsupported, never as an error.
type KeyVerifier struct{}

func (KeyVerifier) Verify(_ context.Context, env *envelope.Envelope, issuer string) Signature {
	if env.Algorithm != "EdDSA" {
		return Signature{
			Status: StatusUnsupported,
			Reason: fmt.Sprintf("unsupported signature algorithm %q", env.Algorithm),
		}
	}

	pub, err := Resolve(issuer)
	if err != nil {
		return Signature{Status: StatusUnsupported, Reason: err.Error()}
	}

	if len(env.Signature) != ed25519.SignatureSize {
		return Signature{
			Status: StatusFailed,
			Reason: fmt.Sprintf("signature has %d bytes, expected %d", len(env.Signature), ed25519.SignatureSize),
		}
	}

	if !ed25519.Verify(pub, env.SigPayloadBytes, env.Signature) {
		return Signature{Status: StatusFailed, Reason: "signature does not match the issuer key"}
	}
	return Signature{Status: StatusVerified}
}
