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
	"strings"
	"testing"
	"time"
)

const freshLog = `Recovery Manager: Release 19.0.0.0.0 - Production on Fri Mar  8 03:15:22 2024

connected to target database: ORCL (DBID=123456789)

Starting backup at 2024-03-07 22:00:01
channel ORA_DISK_1: backup set complete, elapsed time: 00:05:12
Finished backup at 2024-03-07 22:05:13
`

func TestCheckFreshBackup(t *testing.T) {
	loc := time.UTC
	mtime := time.Date(2024, 3, 10, 0, 0, 0, 0, loc)
	res := Check("backup_db.log", freshLog, mtime, 7*24*time.Hour, loc)

	if !res.fromBanner {
		t.Error("banner timestamp not picked up as collection time")
	}
	want := time.Date(2024, 3, 8, 3, 15, 22, 0, loc)
	if !res.Collection.Equal(want) {
		t.Errorf("collection = %v, want %v", res.Collection, want)
	}
	wantLatest := time.Date(2024, 3, 7, 22, 5, 13, 0, loc)
	if !res.HasLatest || !res.Latest.Equal(wantLatest) {
		t.Errorf("latest = %v hasLatest=%v, want %v", res.Latest, res.HasLatest, wantLatest)
	}
	if res.Stale || !res.OK() {
		t.Errorf("fresh backup flagged stale: age=%v", res.Age)
	}
	if !strings.HasPrefix(res.Format(), "✅ backup_db.log") {
		t.Errorf("format = %q", res.Format())
	}
}

func TestCheckStaleBackup(t *testing.T) {
	loc := time.UTC
	log := "Production on Fri Mar 22 10:00:00 2024\nFinished backup at 2024-03-01 08:00:00\n"
	res := Check("backup_arch.log", log, time.Now(), 7*24*time.Hour, loc)
	if !res.Stale {
		t.Fatalf("21-day-old backup not flagged stale, age=%v", res.Age)
	}
	if !strings.Contains(res.Format(), "older than 1 weeks") {
		t.Errorf("format = %q", res.Format())
	}
}

func TestCheckNoTimestamps(t *testing.T) {
	loc := time.UTC
	mtime := time.Date(2024, 3, 10, 0, 0, 0, 0, loc)
	res := Check("backup_con.log", "RMAN-00571: nothing here\n", mtime, 7*24*time.Hour, loc)
	if res.HasLatest || res.OK() {
		t.Fatalf("result = %+v, want no latest", res)
	}
	if res.fromBanner {
		t.Error("collection marked as banner with no banner line")
	}
	out := res.Format()
	if !strings.Contains(out, "No backup timestamps found") || !strings.Contains(out, "file mtime") {
		t.Errorf("format = %q", out)
	}
}

func TestAgeFlooredAtZero(t *testing.T) {
	loc := time.UTC
	// completion stamp after the collection banner: clock skew, age floors to 0
	log := "Production on Fri Mar  8 03:15:22 2024\nFinished backup at 2024-03-08 04:00:00\n"
	res := Check("backup_db.log", log, time.Time{}, 7*24*time.Hour, loc)
	if res.Age != 0 {
		t.Errorf("age = %v, want 0", res.Age)
	}
	if res.Stale {
		t.Error("skewed backup flagged stale")
	}
}
