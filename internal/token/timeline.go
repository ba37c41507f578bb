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
	"time"

	"github.com/cwaring/ucan-inspector/internal/timefmt"
)

// State is the validity window state of a token at analysis time.
type State string

const (
	StateNone    State = "none" // no exp set
	StateValid   State = "valid"
	StatePending State = "pending" // nbf in the future
	StateExpired State = "expired"
)

// Timeline is the expiry insight computed once at analysis time.
type Timeline struct {
	State       State  `json:"state"`
	ExpLabel    string `json:"expLabel,omitempty"`
	ExpRelative string `json:"expRelative,omitempty"`
	NbfLabel    string `json:"nbfLabel,omitempty"`
	NbfRelative string `json:"nbfRelative,omitempty"`
}

// ComputeTimeline evaluates exp/nbf against now in whole Unix seconds.
// Expired always wins; pending requires nbf in the future and not yet
// expired; without exp the state is none regardless of nbf.
func ComputeTimeline(exp, nbf *int64, now time.Time) Timeline {
	nowUnix := now.Unix()

	tl := Timeline{State: StateNone}
	if exp != nil {
		if *exp < nowUnix {
			tl.State = StateExpired
		} else {
			tl.State = StateValid
		}
		expTime := time.Unix(*exp, 0)
		tl.ExpLabel = timefmt.Absolute(expTime)
		tl.ExpRelative = timefmt.Relative(expTime, now)
	}

	if nbf != nil {
		nbfTime := time.Unix(*nbf, 0)
		tl.NbfLabel = timefmt.Absolute(nbfTime)
		tl.NbfRelative = timefmt.Relative(nbfTime, now)
		if *nbf > nowUnix && tl.State == StateValid {
			tl.State = StatePending
		}
	}

	return tl
}
