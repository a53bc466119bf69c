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
package awr

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/mfec/orapm/common"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var dbTimeRe = regexp.MustCompile(`(?i)DB\s*Time[:\s]*([\d,\.]+)\s*(hours?|hrs?|h|minutes?|mins?|m|seconds?|secs?|s)?`)

// Scored is one candidate AWR report with its workload score in seconds
// of DB time.
type Scored struct {
	Path    string
	Seconds float64
}

// DBTimeSeconds extracts the "DB Time: <n> <unit>" token and normalizes
// it to seconds. A missing unit means minutes.
func DBTimeSeconds(text string) (float64, bool) {
	m := dbTimeRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	val, ok := common.CoerceNumeric(m[1])
	if !ok {
		return 0, false
	}
	unit := strings.ToLower(m[2])
	switch {
	case strings.HasPrefix(unit, "h"):
		return val * 3600.0, true
	case strings.HasPrefix(unit, "s"):
		return val, true
	default:
		return val * 60.0, true
	}
}

// ScoreFile scores one report: the DB Time token, falling back to the
// summed total wait time of the top wait events, falling back to the file
// mtime as an arbitrary-but-stable tiebreaker.
func ScoreFile(path string) float64 {
	raw, err := os.ReadFile(path)
	if err == nil {
		if seconds, ok := DBTimeSeconds(string(raw)); ok {
			return seconds
		}
		if doc, perr := Parse(strings.NewReader(string(raw))); perr == nil {
			var total float64
			for _, ev := range extractTopEvents(doc) {
				total += ev.TotalWaitSec
			}
			if total > 0 {
				return total
			}
		}
	}
	info, serr := os.Stat(path)
	if serr != nil {
		return 0
	}
	// scaled far below any real workload so mtime only orders files that
	// carry no DB Time at all
	return float64(info.ModTime().Unix()) / 1e12
}

// Rank scores every *.html report under dir, highest first. The sort is
// stable so tied scores keep enumeration order.
func Rank(dir string) ([]Scored, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, errors.Wrapf(err, "glob awr reports under [%s]", dir)
	}
	sort.Strings(matches)

	scored := make([]Scored, 0, len(matches))
	for _, m := range matches {
		scored = append(scored, Scored{Path: m, Seconds: ScoreFile(m)})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Seconds > scored[j].Seconds })
	return scored, nil
}

// CopyTop copies up to n ranked reports into destDir with rank and score
// (in whole minutes) encoded into the file name for provenance.
func CopyTop(scored []Scored, destDir string, n int) ([]string, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, errors.Wrapf(err, "create awr copy dir [%s]", destDir)
	}
	var copied []string
	for i, s := range scored {
		if i == n {
			break
		}
		name := fmt.Sprintf("(top%d_%d)%s", i+1, int(s.Seconds/60.0), filepath.Base(s.Path))
		dest := filepath.Join(destDir, name)
		if err := copyFile(s.Path, dest); err != nil {
			return copied, err
		}
		zap.L().Info("copied awr report",
			zap.Int("rank", i+1),
			zap.Float64("score-seconds", s.Seconds),
			zap.String("dest", dest))
		copied = append(copied, dest)
	}
	return copied, nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "open awr report [%s]", src)
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrapf(err, "create awr copy [%s]", dest)
	}
	defer out.Close()

	if _, err = io.Copy(out, in); err != nil {
		return errors.Wrapf(err, "copy awr report to [%s]", dest)
	}
	return nil
}
