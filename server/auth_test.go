package main

import "testing"

func TestValidTeamName(t *testing.T) {
	cases := []struct {
		name  string
		valid bool
	}{
		{"Psi Beta Rho", true},
		{"x", true},
		{"", false},
		{"team\nname", false},
		{"café", false},
		{string(make([]byte, 65)), false},
	}
	for _, tc := range cases {
		if got := validTeamName(tc.name); got != tc.valid {
			t.Errorf("validTeamName(%q) = %v, want %v", tc.name, got, tc.valid)
		}
	}
}

func TestDiscordHandlePattern(t *testing.T) {
	cases := []struct {
		handle string
		valid  bool
	}{
		{"cyber#1234", true},
		{"ab#0000", true},
		{"cyber", false},
		{"cyber#12", false},
		{"#1234", false},
	}
	for _, tc := range cases {
		if got := discordRe.MatchString(tc.handle); got != tc.valid {
			t.Errorf("discordRe.MatchString(%q) = %v, want %v", tc.handle, got, tc.valid)
		}
	}
}
