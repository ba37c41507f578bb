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

package envelope

import (
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// dagCBORCodec is the multicodec code for dag-cbor, the codec UCAN
// envelopes address themselves under.
const dagCBORCodec = 0x71

// CID computes the content identifier of an encoded envelope: CIDv1,
// dag-cbor codec, sha2-256 multihash.
func CID(envelopeBytes []byte) (cid.Cid, error) {
	mh, err := multihash.Sum(envelopeBytes, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, fmt.Errorf("hashing envelope: %w", err)
	}
	return cid.NewCidV1(dagCBORCodec, mh), nil
}
