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
package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// KnownLogNames are the RMAN log files one collection is expected to
// carry, in report order.
var KnownLogNames = []string{"backup_arch.log", "backup_con.log", "backup_db.log"}

var (
	bannerRe = regexp.MustCompile(`Production on ([A-Za-z]{3}\s+[A-Za-z]{3}\s+\d{1,2}\s+\d{2}:\d{2}:\d{2}\s+\d{4})`)
	stampRe  = regexp.MustCompile(`\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}:\d{2}`)
)

const bannerLayout = "Mon Jan _2 15:04:05 2006"

// Result is the freshness verdict for one RMAN log.
type Result struct {
	Name       string
	Latest     time.Time
	HasLatest  bool
	Collection time.Time
	Age        time.Duration
	MaxAge     time.Duration
	Stale      bool
	fromBanner bool
}

// OK reports whether the log has a timestamp inside the allowed age.
func (r *Result) OK() bool {
	return r.HasLatest && !r.Stale
}

// CheckFile evaluates one RMAN log against maxAge. The collection time
// anchoring the age comes from the client banner line; when no banner is
// present the file modification time stands in.
func CheckFile(path string, maxAge time.Duration, loc *time.Location) (*Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read backup log [%s]", path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "stat backup log [%s]", path)
	}
	return Check(filepath.Base(path), string(raw), info.ModTime(), maxAge, loc), nil
}

// Check evaluates RMAN log content. The latest backup timestamp is the
// maximum completion stamp found in the log body.
func Check(name, content string, mtime time.Time, maxAge time.Duration, loc *time.Location) *Result {
	if loc == nil {
		loc = time.Local
	}
	res := &Result{Name: name, MaxAge: maxAge}

	res.Collection = mtime
	if m := bannerRe.FindStringSubmatch(content); m != nil {
		if ts, err := time.ParseInLocation(bannerLayout, m[1], loc); err == nil {
			res.Collection = ts
			res.fromBanner = true
		}
	}

	for _, s := range stampRe.FindAllString(content, -1) {
		ts, err := time.ParseInLocation("2006-01-02 15:04:05", s, loc)
		if err != nil {
			continue
		}
		if !res.HasLatest || ts.After(res.Latest) {
			res.Latest = ts
			res.HasLatest = true
		}
	}

	if res.HasLatest {
		res.Age = res.Collection.Sub(res.Latest)
		if res.Age < 0 {
			res.Age = 0
		}
		res.Stale = res.Age > maxAge
	}
	return res
}

// Format renders the single line verdict for one log.
func (r *Result) Format() string {
	weeks := int(r.MaxAge.Hours() / (24 * 7))
	if weeks < 1 {
		weeks = 1
	}
	collection := r.Collection.Format("2006-01-02 15:04:05")
	switch {
	case !r.HasLatest:
		return fmt.Sprintf("❌ %s No backup timestamps found | Latest: N/A | Collection: %s (%s)",
			r.Name, collection, collectionSource(r))
	case r.Stale:
		return fmt.Sprintf("❌ %s Backup is older than %d weeks | Latest: %s | Collection: %s (%s)",
			r.Name, weeks, r.Latest.Format("2006-01-02 15:04:05"), collection, collectionSource(r))
	default:
		return fmt.Sprintf("✅ %s  Backup newer than %d weeks | Latest: %s | Collection: %s (%s)",
			r.Name, weeks, r.Latest.Format("2006-01-02 15:04:05"), collection, collectionSource(r))
	}
}

func collectionSource(r *Result) string {
	if r.fromBanner {
		return "client banner"
	}
	return "file mtime"
}

// CheckDir evaluates every known RMAN log under dir. Missing files are
// skipped; the returned names record which logs were actually present.
func CheckDir(dir string, maxAge time.Duration, loc *time.Location) ([]*Result, error) {
	var results []*Result
	for _, name := range KnownLogNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.Wrapf(err, "stat backup log [%s]", path)
		}
		res, err := CheckFile(path, maxAge, loc)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// FormatReport renders the per-log verdict block for one collection.
func FormatReport(results []*Result) string {
	var b strings.Builder
	for _, r := range results {
		b.WriteString(r.Format())
		b.WriteString("\n")
	}
	return b.String()
}
