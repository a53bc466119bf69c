package common

import "testing"

func TestCoerceNumeric(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
		ok   bool
	}{
		{name: "plain", in: "42", want: 42, ok: true},
		{name: "thousands", in: "1,234.5", want: 1234.5, ok: true},
		{name: "percent", in: "99.98%", want: 99.98, ok: true},
		{name: "embedded", in: "  12.5 G", want: 12.5, ok: true},
		{name: "nbsp", in: "1 024", want: 1024, ok: true},
		{name: "empty", in: "", ok: false},
		{name: "letters", in: "N/A", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CoerceNumeric(tt.in)
			if ok != tt.ok || (ok && got != tt.want) {
				t.Errorf("CoerceNumeric(%q) = %v, %v, want %v, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestMajorMinor(t *testing.T) {
	tests := []struct {
		in          string
		major, minor int
		ok          bool
	}{
		{in: "19.19.0.0.0", major: 19, minor: 19, ok: true},
		{in: "19.27", major: 19, minor: 27, ok: true},
		{in: "21", major: 21, minor: 0, ok: true},
		{in: "", ok: false},
	}
	for _, tt := range tests {
		major, minor, ok := MajorMinor(tt.in)
		if major != tt.major || minor != tt.minor || ok != tt.ok {
			t.Errorf("MajorMinor(%q) = %d, %d, %v, want %d, %d, %v", tt.in, major, minor, ok, tt.major, tt.minor, tt.ok)
		}
	}
}

func TestCollapseWhitespace(t *testing.T) {
	got := CollapseWhitespace(" Elapsed Time \n (s) ")
	if got != "Elapsed Time (s)" {
		t.Errorf("CollapseWhitespace() = %q", got)
	}
}

func TestLeadingVersionToken(t *testing.T) {
	if got := LeadingVersionToken("19.27 (APR 2025)"); got != "19.27" {
		t.Errorf("LeadingVersionToken() = %q", got)
	}
	if got := LeadingVersionToken("no digits"); got != "" {
		t.Errorf("LeadingVersionToken() = %q, want empty", got)
	}
}
