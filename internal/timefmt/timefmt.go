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

// Package timefmt formats timestamps for humans: absolute UTC labels and
// relative phrases bucketed at minute/hour/day/month/year granularity.
package timefmt

import (
	"fmt"
	"time"
)

// Absolute renders t as a UTC label.
func Absolute(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05 MST")
}

// Relative renders the distance between now and t. Future times return
// "in X", past times return "X ago"; the minimum non-zero bucket is
// "<1 minute".
func Relative(t time.Time, now time.Time) string {
	d := t.Sub(now)
	if d < 0 {
		return bucket(-d) + " ago"
	}
	return "in " + bucket(d)
}

func bucket(d time.Duration) string {
	const day = 24 * time.Hour
	const month = 30 * day
	const year = 365 * day

	switch {
	case d >= 2*year:
		return fmt.Sprintf("%d years", int(d/year))
	case d >= year:
		return "1 year"
	case d >= 2*month:
		return fmt.Sprintf("%d months", int(d/month))
	case d >= month:
		return "1 month"
	case d >= 2*day:
		return fmt.Sprintf("%d days", int(d/day))
	case d >= day:
		return "1 day"
	case d >= 2*time.Hour:
		return fmt.Sprintf("%d hours", int(d.Hours()))
	case d >= time.Hour:
		return "1 hour"
	case d >= 2*time.Minute:
		return fmt.Sprintf("%d minutes", int(d.Minutes()))
	case d >= time.Minute:
		return "1 minute"
	default:
		return "<1 minute"
	}
}
