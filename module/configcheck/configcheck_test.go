package configcheck

import (
	"strings"
	"testing"
)

const redundantDump = `
Oracle Database 19c Enterprise Edition Release 19.0.0.0.0 - Production
Version 19.27.0.0.0

^o^----Controlfile----^o^
+DATA/ORCL/CONTROLFILE/current.261.1111111111
+RECO/ORCL/CONTROLFILE/current.262.1111111111
*8* next section

^o^----Amount of log group----^o^
COUNT(DISTINCTGROUP#)
---------------------
		    3
*8* next section
`

const thinDump = `
Version 19.19.0.0.0

^o^----Controlfile----^o^
+DATA/ORCL/CONTROLFILE/current.261.1111111111
*8* next section

^o^----Redo log file----^o^
	 1  +DATA/ORCL/ONLINELOG/group_1.262.1
*8* next section
`

func TestCheckVersionComparison(t *testing.T) {
	tests := []struct {
		name          string
		content       string
		targetVersion string
		wantUpToDate  bool
		wantKnown     bool
	}{
		{name: "equal major minor", content: redundantDump, targetVersion: "19.27 (APR 2025)", wantUpToDate: true, wantKnown: true},
		{name: "behind target", content: thinDump, targetVersion: "19.27", wantUpToDate: false, wantKnown: true},
		{name: "no version in file", content: "nothing here", targetVersion: "19.27", wantKnown: false},
		{name: "unparseable target", content: redundantDump, targetVersion: "latest", wantKnown: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Check(tt.content, tt.targetVersion)
			if r.VersionKnown != tt.wantKnown || r.UpToDate != tt.wantUpToDate {
				t.Errorf("Check() known=%v upToDate=%v, want %v, %v", r.VersionKnown, r.UpToDate, tt.wantKnown, tt.wantUpToDate)
			}
		})
	}
}

func TestCheckRedundancy(t *testing.T) {
	r := Check(redundantDump, "19.27")
	if !r.ControlfileRedundant {
		t.Errorf("controlfile redundant = false, want true (paths %v)", r.ControlfilePaths)
	}
	if r.RedoGroupCount != 3 || !r.RedoRedundant {
		t.Errorf("redo groups = %d redundant=%v, want 3 redundant", r.RedoGroupCount, r.RedoRedundant)
	}

	r = Check(thinDump, "19.27")
	if r.ControlfileRedundant || !r.ControlfileFound {
		t.Errorf("thin dump controlfile: redundant=%v found=%v", r.ControlfileRedundant, r.ControlfileFound)
	}
	if r.RedoGroupCount != 1 || r.RedoRedundant {
		t.Errorf("thin dump redo groups = %d redundant=%v", r.RedoGroupCount, r.RedoRedundant)
	}
}

func TestCheckWrappedControlfilePaths(t *testing.T) {
	// no Controlfile section; a path wrapped onto the next line inside the
	// parameter listing must be reconstructed
	content := "control_files   +DATA/ORCL/CONTROLFILE/cur\n" +
		"rent.261.1 , +RECO/ORCL/CONTROLFILE/current.262.1\n"
	r := Check(content, "19.27")
	if !r.ControlfileRedundant {
		t.Fatalf("controlfile redundant = false, want true (paths %v)", r.ControlfilePaths)
	}
}

func TestFormatMarkers(t *testing.T) {
	text := Check(thinDump, "19.27").Format()
	for _, want := range []string{
		"❌ Patches: Recommend applying the Database Release Update (DBRU) to version 19.27",
		"❌ Control file: non Redundancy",
		"❌ Redo Logs: non Redundancy",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Format() missing %q in:\n%s", want, text)
		}
	}
}
