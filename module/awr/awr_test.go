package awr

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleHTML = `<html><body>
<h2>WORKLOAD REPOSITORY report</h2>
<p>DB Time: 120.5 minutes</p>

<table summary="This table displays instance efficiency percentages">
<tr><td>Buffer Hit %:</td><td>65.20</td><td>Library Hit %:</td><td>99.10</td></tr>
<tr><td>Latch Hit %:</td><td>99.90</td><td>Flash Cache Hit %:</td><td>0.00</td></tr>
</table>

<table summary="This table displays top 10 wait events by total wait time">
<tr><th>Event</th><th>Waits</th><th>Total Wait Time (sec)</th><th>% DB time</th><th>Wait Class</th></tr>
<tr><td>DB CPU</td><td></td><td>3000</td><td>41.2</td><td></td></tr>
<tr><td>db file sequential read</td><td>120000</td><td>4100</td><td>56.3</td><td>User I/O</td></tr>
</table>

<h3>SQL ordered by Elapsed Time</h3>
<table>
<tr><th>Elapsed Time (s)</th><th>Executions</th><th>Elapsed Time per Exec (s)</th><th>SQL Id</th></tr>
<tr><td>120,034.5</td><td>12</td><td>10,002.9</td><td>abc123xyz</td></tr>
<tr><td>90.5</td><td>1000</td><td>0.1</td><td>def456uvw</td></tr>
</table>

<h3>SGA Target Advisory</h3>
<table>
<tr><th>SGA Target Size (M)</th><th>SGA Size Factor</th><th>Est DB Time (s)</th><th>Est Physical Reads</th></tr>
<tr><td>4096</td><td>1.00</td><td>900</td><td>50,000,000</td></tr>
<tr><td>4608</td><td>1.13</td><td>880</td><td>30,000,000</td></tr>
</table>

<table summary="This table displays thread activity stats">
<tr><th>Statistic</th><th>Total</th><th>per Hour</th></tr>
<tr><td>log switches (derived)</td><td>48</td><td>6.00</td></tr>
</table>
</body></html>`

func TestExtractTargetedTables(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleHTML))
	if err != nil {
		t.Fatal(err)
	}
	rep := Extract(doc)

	if rep.DBTimeMinutes != 120.5 {
		t.Errorf("DB time minutes = %v, want 120.5", rep.DBTimeMinutes)
	}
	if len(rep.Efficiency) != 4 {
		t.Fatalf("efficiency metrics = %d, want 4", len(rep.Efficiency))
	}
	if len(rep.TopEvents) != 2 || rep.TopEvents[1].Event != "db file sequential read" {
		t.Fatalf("top events = %+v", rep.TopEvents)
	}
	if !rep.TopEvents[1].HasPctDBTime || rep.TopEvents[1].PctDBTime != 56.3 {
		t.Errorf("pct db time = %+v", rep.TopEvents[1])
	}
	// title-then-next-table fallback, no summary attribute on the SQL table
	if len(rep.TopSQL) != 2 || rep.TopSQL[0].SQLID != "abc123xyz" {
		t.Fatalf("top sql = %+v", rep.TopSQL)
	}
	if rep.TopSQL[0].ElapsedSec != 120034.5 {
		t.Errorf("elapsed = %v", rep.TopSQL[0].ElapsedSec)
	}
	if len(rep.SGAAdvisory) != 2 {
		t.Fatalf("sga advisory rows = %d", len(rep.SGAAdvisory))
	}
	if len(rep.ThreadActivity) != 1 {
		t.Fatalf("thread activity rows = %d", len(rep.ThreadActivity))
	}
}

func TestAnalyzeRules(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleHTML))
	if err != nil {
		t.Fatal(err)
	}
	rep := Extract(doc)
	a := Analyze(rep)

	if len(a.HitRatioWarnings) != 1 || a.HitRatioWarnings[0].Name != "Buffer Hit %" {
		t.Errorf("hit ratio warnings = %+v", a.HitRatioWarnings)
	}
	if len(a.EventWarnings) != 1 || a.EventWarnings[0].Event != "db file sequential read" {
		t.Errorf("event warnings = %+v", a.EventWarnings)
	}
	if len(a.ConcerningSQL) != 1 || a.ConcerningSQL[0] != "abc123xyz" {
		t.Errorf("concerning sql = %v", a.ConcerningSQL)
	}
	// 512 MB increase dropping reads by 20M triggers the advisory
	if a.SGAAdvice == "" {
		t.Errorf("sga advice empty, want recommendation")
	}
	if !a.RedoSwitchHigh {
		t.Errorf("redo switch high = false, want true")
	}
}

func TestAnalyzeQuietDBTimePasses(t *testing.T) {
	rep := &Report{
		DBTimeMinutes: 10,
		TopEvents: []WaitEvent{
			{Event: "DB CPU", PctDBTime: 10, HasPctDBTime: true},
			{Event: "log file sync", PctDBTime: 80, HasPctDBTime: true},
		},
	}
	if warnings := Analyze(rep).EventWarnings; len(warnings) != 0 {
		t.Errorf("event warnings = %+v, want none under 50 DB time minutes", warnings)
	}
}

func TestDBTimeSeconds(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{in: "DB Time: 2 hours", want: 7200, ok: true},
		{in: "DB Time: 90 minutes", want: 5400, ok: true},
		{in: "DB Time: 45", want: 2700, ok: true},
		{in: "DB Time: 30 secs", want: 30, ok: true},
		{in: "DB Time: 1,200 mins", want: 72000, ok: true},
		{in: "Elapsed: 60 mins", ok: false},
	}
	for _, tt := range tests {
		got, ok := DBTimeSeconds(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("DBTimeSeconds(%q) = %v, %v, want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRankOrdersByScoreDescending(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write("a.html", "<html>DB Time: 90 minutes</html>")
	write("b.html", "<html>DB Time: 2 hours</html>")
	write("c.html", "<html>no workload token</html>")

	scored, err := Rank(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(scored) != 3 {
		t.Fatalf("ranked = %d, want 3", len(scored))
	}
	if filepath.Base(scored[0].Path) != "b.html" || scored[0].Seconds != 7200 {
		t.Errorf("top = %+v, want b.html at 7200", scored[0])
	}
	if filepath.Base(scored[1].Path) != "a.html" || scored[1].Seconds != 5400 {
		t.Errorf("second = %+v, want a.html at 5400", scored[1])
	}
}

func TestCopyTopEncodesRankAndScore(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "awr1.html")
	if err := os.WriteFile(src, []byte("DB Time: 2 hours"), 0644); err != nil {
		t.Fatal(err)
	}
	dest := filepath.Join(dir, "out")
	copied, err := CopyTop([]Scored{{Path: src, Seconds: 7200}}, dest, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(copied) != 1 || filepath.Base(copied[0]) != "(top1_120)awr1.html" {
		t.Errorf("copied = %v", copied)
	}
}
