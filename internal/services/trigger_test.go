package services

import "testing"

func TestNeedsThinking(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"delete this file", true},
		{"what's taking up space on my disk", true},
		{"show me the largest file", true},
		{"Analyze the logs in /var/log", true},
		{"FIND my ssh key", true},
		{"list running processes", true},
		{"git push origin main", false},
		{"uptime", false},
		{"restart nginx", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := needsThinking(tc.input); got != tc.want {
			t.Errorf("needsThinking(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}
