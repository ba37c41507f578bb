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

package token

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cwaring/ucan-inspector/internal/diag"
	"github.com/cwaring/ucan-inspector/internal/did"
	"github.com/cwaring/ucan-inspector/internal/envelope"
	"github.com/cwaring/ucan-inspector/internal/format"
)

// Analyzer turns token bytes into Analysis values. The verifier and clock
// are injectable for tests and alternate crypto backends.
type Analyzer struct {
	Verifier did.Verifier
	Now      func() time.Time
}

// NewAnalyzer returns an analyzer with the offline did:key verifier and
// the system clock.
func NewAnalyzer() *Analyzer {
	return &Analyzer{Verifier: did.KeyVerifier{}, Now: time.Now}
}

// Analyze inspects one token. It never returns an error: decode failures,
// unsupported specs, and failed signatures all resolve to a tagged result
// with issues attached.
func (a *Analyzer) Analyze(ctx context.Context, data []byte, index int) Analysis {
	result := Analysis{
		ID:          fmt.Sprintf("token-%d", index),
		Index:       index,
		TokenBase64: format.EncodeBase64Std(data),
		Bytes:       data,
		Signature:   did.Signature{Status: did.StatusSkipped},
	}

	env, err := envelope.Decode(data)
	if err != nil {
		issue := diag.Errorf("envelope_decode_failed", "decoding envelope: %v", err)
		result.Type = TypeUnknown
		result.Reason = issue.Message
		result.Issues = append(result.Issues, issue)
		return result
	}

	if missing := env.MissingHeaderFields(); len(missing) > 0 {
		result.Issues = append(result.Issues, diag.Noticef("missing_header_fields",
			"envelope header is missing: %s", strings.Join(missing, ", ")))
	}

	result.Header = Header{Spec: env.Spec, Version: env.Version, Algorithm: env.Algorithm}

	// The spec tag is definitive once the header decodes: each token is
	// dispatched exactly once, with no retry across specs.
	switch env.Spec {
	case envelope.SpecDelegation:
		a.analyzeDelegation(ctx, env, &result)
	case envelope.SpecInvocation:
		a.analyzeInvocation(ctx, env, &result)
	default:
		tag := env.Spec
		if tag == "" {
			tag = "(none)"
		}
		result.Type = TypeUnknown
		result.Reason = fmt.Sprintf("Unsupported payload spec: %s", tag)
		result.Issues = append(result.Issues, diag.Warnf("unsupported_payload_spec", "%s", result.Reason))
	}

	return result
}

func (a *Analyzer) analyzeDelegation(ctx context.Context, env *envelope.Envelope, result *Analysis) {
	result.Type = TypeDelegation
	payload := delegationPayload(env.Payload)
	result.Delegation = payload

	a.finishEnvelope(ctx, env, payload.Iss, payload.Exp, payload.Nbf, result)
}

func (a *Analyzer) analyzeInvocation(ctx context.Context, env *envelope.Envelope, result *Analysis) {
	result.Type = TypeInvocation
	payload := invocationPayload(env.Payload)
	result.Invocation = payload

	a.finishEnvelope(ctx, env, payload.Iss, payload.Exp, payload.Nbf, result)
}

// finishEnvelope runs the steps shared by both recognized specs: CID,
// signature verification, and the expiry timeline.
func (a *Analyzer) finishEnvelope(ctx context.Context, env *envelope.Envelope, issuer string, exp, nbf *int64, result *Analysis) {
	if c, err := envelope.CID(env.Raw); err == nil {
		result.CID = c
	} else {
		result.Issues = append(result.Issues, diag.Warnf("cid_compute_failed", "computing envelope CID: %v", err))
	}

	result.Signature = a.Verifier.Verify(ctx, env, issuer)
	if result.Signature.Status == did.StatusFailed {
		result.Issues = append(result.Issues, diag.Warnf("signature_invalid",
			"signature verification failed: %s", result.Signature.Reason))
	}

	result.Timeline = ComputeTimeline(exp, nbf, a.Now())
}

// AnalyzeAll fans out per-token analyses and collects them in input order.
// Analyses are independent: each goroutine gets its own byte slice and
// writes only its own slot.
func (a *Analyzer) AnalyzeAll(ctx context.Context, tokens [][]byte) []Analysis {
	results := make([]Analysis, len(tokens))

	var wg sync.WaitGroup
	for i, tok := range tokens {
		wg.Add(1)
		go func(i int, tok []byte) {
			defer wg.Done()
			results[i] = a.Analyze(ctx, tok, i)
		}(i, tok)
	}
	wg.Wait()

	return results
}
