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
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/encoding/unicode"
)

const sampleLog = `2024-03-01T10:00:00.000+07:00
ORA-01555: snapshot too old: rollback segment number 9
2024-02-20T08:30:00.000+07:00
ORA-00600: internal error code, arguments: [kcbgtcr_5]
ORA-01555: snapshot too old: rollback segment number 4
Some unrelated noise line
ORA-04031 unable to allocate 4096 bytes of shared memory
`

func TestAggregateByCode(t *testing.T) {
	loc := time.FixedZone("ICT", 7*3600)
	entries, err := Aggregate(strings.NewReader(sampleLog), Options{Location: loc})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}

	byCode := map[string]*Entry{}
	for _, e := range entries {
		byCode[e.Code] = e
	}

	e1555 := byCode["ORA-01555"]
	if e1555 == nil || e1555.Count != 2 {
		t.Fatalf("ORA-01555 = %+v, want count 2", e1555)
	}
	// later-in-file but earlier-in-time occurrence wins first place
	if !strings.HasPrefix(e1555.First, "2024-02-20") {
		t.Errorf("ORA-01555 first = %q, want 2024-02-20 timestamp", e1555.First)
	}
	if !strings.Contains(e1555.Info, "rollback segment number 4") {
		t.Errorf("ORA-01555 info = %q, want info of earliest occurrence", e1555.Info)
	}

	if e := byCode["ORA-04031"]; e == nil || e.Count != 1 {
		t.Fatalf("ORA-04031 = %+v, want count 1", byCode["ORA-04031"])
	}

	// chronological output order
	if entries[0].Code != "ORA-00600" && entries[0].Code != "ORA-01555" {
		t.Errorf("first entry = %s, want one of the 2024-02-20 codes", entries[0].Code)
	}
	if entries[len(entries)-1].Code != "ORA-04031" &&
		entries[len(entries)-1].FirstTime.Before(entries[0].FirstTime) {
		t.Error("entries not sorted by first occurrence")
	}
}

func TestAggregateEarlierBareCodeKeepsInfo(t *testing.T) {
	loc := time.FixedZone("ICT", 7*3600)
	log := `2024-03-01T10:00:00.000+07:00
ORA-01555: snapshot too old: rollback segment number 9
2024-02-20T08:30:00.000+07:00
ORA-01555
`
	entries, err := Aggregate(strings.NewReader(log), Options{Location: loc})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Count != 2 {
		t.Fatalf("entries = %+v, want one ORA-01555 with count 2", entries)
	}
	// earliest occurrence wins first place, but a bare code line must not
	// blank the stored message
	if !strings.HasPrefix(entries[0].First, "2024-02-20") {
		t.Errorf("first = %q, want 2024-02-20 timestamp", entries[0].First)
	}
	if !strings.Contains(entries[0].Info, "rollback segment number 9") {
		t.Errorf("info = %q, want message retained", entries[0].Info)
	}
}

func TestAggregateWindow(t *testing.T) {
	loc := time.FixedZone("ICT", 7*3600)
	log := `ORA-12345: orphan error before any timestamp
2024-02-20T08:30:00.000+07:00
ORA-00600: too old
2024-03-01T10:00:00.000+07:00
ORA-01555: on the boundary
2024-03-05 09:00:00
ORA-04031: inside the window
`
	since := time.Date(2024, 3, 1, 10, 0, 0, 0, loc)
	entries, err := Aggregate(strings.NewReader(log), Options{Since: since, Location: loc})
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]bool{}
	for _, e := range entries {
		got[e.Code] = true
	}
	if got["ORA-12345"] {
		t.Error("untimestamped entry kept in windowed scan")
	}
	if got["ORA-00600"] {
		t.Error("entry older than the window kept")
	}
	if !got["ORA-01555"] {
		t.Error("entry exactly on the window start dropped")
	}
	if !got["ORA-04031"] {
		t.Error("entry inside the window dropped")
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	entries := []*Entry{
		{Code: "ORA-00600", Info: "internal error", First: "2024-02-20T08:30:00.000+07:00", Count: 3, Cause: "bug", Action: "raise an SR"},
		{Code: "ORA-01555", Info: "snapshot too old", Count: 1},
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, entries); err != nil {
		t.Fatal(err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[0][0] != "Alert code" || rows[0][2] != "first occur" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "ORA-00600" || rows[1][2] != "2024-02-20T08:30:00.000+07:00" || rows[1][3] != "3" {
		t.Errorf("row 1 = %v", rows[1])
	}
	if rows[2][2] != "" {
		t.Errorf("untimestamped first occur = %q, want empty", rows[2][2])
	}
}

func TestLoadMappingUTF16(t *testing.T) {
	plain := "Code,Cause,Action\nORA-00600,Internal error,Contact support\nORA-01555,Undo too small,Grow undo\n"
	enc := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewEncoder()
	encoded, err := enc.Bytes([]byte(plain))
	if err != nil {
		t.Fatal(err)
	}
	mapping, err := readMapping(bytes.NewReader(encoded))
	if err != nil {
		t.Fatal(err)
	}
	adv, ok := mapping["ORA-00600"]
	if !ok || adv.Cause != "Internal error" || adv.Action != "Contact support" {
		t.Fatalf("ORA-00600 = %+v ok=%v", adv, ok)
	}
	if len(mapping) != 2 {
		t.Errorf("mapping size = %d, want 2", len(mapping))
	}
}

func TestLoadMappingMissingCodeColumn(t *testing.T) {
	if _, err := readMapping(strings.NewReader("cause,action\nx,y\n")); err == nil {
		t.Fatal("expected error for a mapping file without a code column")
	}
}

func TestApplyMapping(t *testing.T) {
	entries := []*Entry{{Code: "ORA-00600"}, {Code: "ORA-99999"}}
	ApplyMapping(entries, map[string]Advisory{
		"ORA-00600": {Cause: "bug", Action: "SR"},
	})
	if entries[0].Cause != "bug" || entries[0].Action != "SR" {
		t.Errorf("mapped entry = %+v", entries[0])
	}
	if entries[1].Cause != "" {
		t.Errorf("unmapped entry got cause %q", entries[1].Cause)
	}
}
