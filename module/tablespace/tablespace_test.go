package tablespace

import (
	"strings"
	"testing"
)

const sampleReport = `db_name ORCLPDB1
TABLESPACE_NAME   ALLOC_MB   FREE_MB  PCT_FREE_OF_MAX
----------------- ---------- -------- ---------------
SYSTEM                  900      200           22.10
USERS                  4096      610           14.99
SYSAUX                 2048     1024           15.00
UNDOTBS1               1024       40
   3.90
BADROW                  100       50             N/A

4 rows selected
`

func TestCheckThresholdBoundary(t *testing.T) {
	r := Check(sampleReport, 15.0)
	if !r.HeaderFound {
		t.Fatal("header not found")
	}
	if len(r.Flagged) != 2 {
		t.Fatalf("flagged = %+v, want USERS and UNDOTBS1", r.Flagged)
	}
	if r.Flagged[0].Name != "USERS" || r.Flagged[0].PctFree != 14.99 {
		t.Errorf("flagged[0] = %+v, want USERS at 14.99", r.Flagged[0])
	}
	// wrapped continuation line is rejoined before parsing
	if r.Flagged[1].Name != "UNDOTBS1" || r.Flagged[1].PctFree != 3.90 {
		t.Errorf("flagged[1] = %+v, want UNDOTBS1 at 3.90", r.Flagged[1])
	}
}

func TestCheckAllHealthy(t *testing.T) {
	content := `TABLESPACE_NAME  PCT_FREE_OF_MAX
SYSTEM  80.0
`
	r := Check(content, 15.0)
	if len(r.Flagged) != 0 {
		t.Errorf("flagged = %+v, want none", r.Flagged)
	}
	if got := r.Format(); !strings.Contains(got, "✅ All tablespaces have more than 15% free space.") {
		t.Errorf("Format() = %q", got)
	}
}

func TestFormatFlagged(t *testing.T) {
	r := Check(sampleReport, 15.0)
	got := r.Format()
	if !strings.Contains(got, "❌ USERS(14.99%),UNDOTBS1(3.90%) have less than 15% space left") {
		t.Errorf("Format() = %q", got)
	}
}

func TestCheckMissingHeader(t *testing.T) {
	r := Check("no header here\njust noise\n", 15.0)
	if r.HeaderFound || len(r.Flagged) != 0 {
		t.Errorf("result = %+v, want empty", r)
	}
}
