package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidUsername(t *testing.T) {
	valid := []string{"alice", "bob.smith", "user_1", "a-b", "A1"}
	invalid := []string{"", "a b", "a/b", "../alice", "user@host", "名前"}
	for _, username := range valid {
		if !IsValidUsername(username) {
			t.Errorf("IsValidUsername(%q) = false, want true", username)
		}
	}
	for _, username := range invalid {
		if IsValidUsername(username) {
			t.Errorf("IsValidUsername(%q) = true, want false", username)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	if _, ok := IsValidDate("2026-03-02"); !ok {
		t.Error("IsValidDate(2026-03-02) = false, want true")
	}
	for _, input := range []string{"", "02-03-2026", "2026-13-01", "2026-03-02T09:00:00Z"} {
		if _, ok := IsValidDate(input); ok {
			t.Errorf("IsValidDate(%q) = true, want false", input)
		}
	}
}

func TestIsValidDateTime(t *testing.T) {
	valid := []string{"2026-03-02T09:00:00Z", "2026-03-02T09:00:00+07:00", "2026-03-02T09:00:00.123Z"}
	invalid := []string{"", "2026-03-02", "09:00:00", "2026-03-02 09:00:00"}
	for _, input := range valid {
		if _, ok := IsValidDateTime(input); !ok {
			t.Errorf("IsValidDateTime(%q) = false, want true", input)
		}
	}
	for _, input := range invalid {
		if _, ok := IsValidDateTime(input); ok {
			t.Errorf("IsValidDateTime(%q) = true, want false", input)
		}
	}
}

func TestValidationErrorsToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "username", Message: "username is required"},
		{Field: "operation", Message: "unknown operation"},
	}

	m := errs.ToMap()
	if len(m) != 2 {
		t.Fatalf("ToMap() returned %d entries, want 2", len(m))
	}
	if m["username"] != "username is required" {
		t.Errorf("ToMap()[username] = %q", m["username"])
	}
	if errs.Error() == "" {
		t.Error("Error() returned empty string")
	}
}
