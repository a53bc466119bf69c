/*
Copyright © 2020 Marvin

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package alertlog

import (
	"bufio"
	"io"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/thinkeridea/go-extend/exbytes"
)

var oraCodeRe = regexp.MustCompile(`\b(ORA-\d{5})\b[: ]?(.*)`)

// timestamp line layouts seen across alert log generations; zoned layouts
// first so offsets are not dropped
var tsLayouts = []struct {
	layout string
	zoned  bool
}{
	{layout: "2006-01-02T15:04:05.999999999Z07:00", zoned: true},
	{layout: "2006-01-02T15:04:05Z07:00", zoned: true},
	{layout: "Mon Jan _2 15:04:05 2006 -0700", zoned: true},
	{layout: "2006-01-02T15:04:05", zoned: false},
	{layout: "2006-01-02 15:04:05", zoned: false},
	{layout: "Mon Jan _2 15:04:05 2006", zoned: false},
}

// Entry is one aggregated alert code.
type Entry struct {
	Code      string
	Info      string
	First     string // timestamp line exactly as it appeared, "" if none
	FirstTime time.Time
	HasFirst  bool
	Count     int
	Cause     string
	Action    string
}

// Options controls aggregation. A zero Since keeps untimestamped entries
// and applies no window; a non-zero Since drops entries without a current
// timestamp or older than the window start.
type Options struct {
	Since    time.Time
	Location *time.Location
}

// ParseTimestamp parses one timestamp line. Naive timestamps are placed in
// loc; offset-bearing ones are converted into it.
func ParseTimestamp(line string, loc *time.Location) (time.Time, bool) {
	s := strings.TrimSpace(line)
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range tsLayouts {
		if l.zoned {
			if ts, err := time.Parse(l.layout, s); err == nil {
				return ts.In(loc), true
			}
			continue
		}
		if ts, err := time.ParseInLocation(l.layout, s, loc); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// Aggregate scans an alert log line by line, keeping a current-timestamp
// state and rolling every ORA-code line up by code. The first-occurrence
// timestamp is the earliest chronological one; a timestamped occurrence
// always beats an untimestamped one.
func Aggregate(r io.Reader, opts Options) ([]*Entry, error) {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	windowed := !opts.Since.IsZero()

	agg := map[string]*Entry{}
	var currentRaw string
	var currentTS time.Time
	var hasCurrent bool

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := exbytes.ToString(scanner.Bytes())

		if ts, ok := ParseTimestamp(line, loc); ok {
			currentTS = ts
			currentRaw = strings.Clone(strings.TrimSpace(line))
			hasCurrent = true
			continue
		}

		m := oraCodeRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if windowed && (!hasCurrent || currentTS.Before(opts.Since)) {
			continue
		}

		code := strings.Clone(m[1])
		info := strings.Clone(strings.TrimSpace(m[2]))

		e, ok := agg[code]
		if !ok {
			e = &Entry{Code: code, Info: info, Count: 1}
			if hasCurrent {
				e.First, e.FirstTime, e.HasFirst = currentRaw, currentTS, true
			}
			agg[code] = e
			continue
		}
		e.Count++
		switch {
		case hasCurrent && e.HasFirst && currentTS.Before(e.FirstTime):
			e.First, e.FirstTime = currentRaw, currentTS
			if info != "" {
				e.Info = info
			}
		case hasCurrent && !e.HasFirst:
			e.First, e.FirstTime, e.HasFirst = currentRaw, currentTS, true
			if info != "" {
				e.Info = info
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scan alert log")
	}

	entries := make([]*Entry, 0, len(agg))
	for _, e := range agg {
		entries = append(entries, e)
	}
	// chronological, untimestamped last, code as tiebreaker
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.HasFirst != b.HasFirst {
			return a.HasFirst
		}
		if a.HasFirst && !a.FirstTime.Equal(b.FirstTime) {
			return a.FirstTime.Before(b.FirstTime)
		}
		return a.Code < b.Code
	})
	return entries, nil
}

// ApplyMapping fills cause/action advisory text onto matching entries.
func ApplyMapping(entries []*Entry, mapping map[string]Advisory) {
	for _, e := range entries {
		if adv, ok := mapping[e.Code]; ok {
			e.Cause = adv.Cause
			e.Action = adv.Action
		}
	}
}
