// SPDX-License-Identifier: MIT

package mediarss

import (
	"math"
	"regexp"
	"strconv"
	"time"
)

// Grammars for "normal play time" values, per RFC 2326 section 3.6.
// Either hours:minutes:seconds or bare seconds, both with an optional
// fractional-seconds suffix.
var (
	nptHHMMSS = regexp.MustCompile(`(\d+):(\d{2}):(\d{2})(?:\.(\d+))?`)
	nptSec    = regexp.MustCompile(`(\d+)(?:\.(\d+))?`)
)

const maxNPTSeconds = uint64(math.MaxInt64 / int64(time.Second))

// ParseNPT decodes a normal-play-time value into a duration. ok is false when
// the text matches neither grammar; callers treat that as "attribute ignored".
func ParseNPT(text string) (d time.Duration, ok bool) {
	if m := nptHHMMSS.FindStringSubmatch(text); m != nil {
		h, errH := strconv.ParseUint(m[1], 10, 32)
		mm, errM := strconv.ParseUint(m[2], 10, 32)
		s, errS := strconv.ParseUint(m[3], 10, 32)
		if errH == nil && errM == nil && errS == nil {
			if d, ok := nptDuration(h*3600+mm*60+s, m[4]); ok {
				return d, true
			}
		}
	}

	if m := nptSec.FindStringSubmatch(text); m != nil {
		if s, err := strconv.ParseUint(m[1], 10, 64); err == nil {
			return nptDuration(s, m[2])
		}
	}

	return 0, false
}

// nptDuration combines whole seconds with a fractional digit string. Values
// outside the Duration range yield no value; the fractional part counts
// toward the range check, so a result can never wrap negative.
func nptDuration(seconds uint64, frac string) (time.Duration, bool) {
	if seconds > maxNPTSeconds {
		return 0, false
	}
	d := time.Duration(seconds) * time.Second
	f := fracMillis(frac)
	if d > math.MaxInt64-f {
		return 0, false
	}
	return d + f, true
}

// fracMillis converts a fractional-seconds digit string of length n to
// floor(1000 * frac / 10^n) milliseconds. Digits beyond millisecond
// resolution cannot affect the floor and are dropped.
func fracMillis(frac string) time.Duration {
	if frac == "" {
		return 0
	}
	if len(frac) > 3 {
		frac = frac[:3]
	}
	for len(frac) < 3 {
		frac += "0"
	}
	ms, err := strconv.ParseUint(frac, 10, 64)
	if err != nil {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}
