package util

import (
	"reflect"
	"testing"
)

func TestGetEnvFirst(t *testing.T) {
	t.Setenv("FIRST_KEY", "")
	t.Setenv("SECOND_KEY", " second ")

	if got := GetEnvFirst("FIRST_KEY", "SECOND_KEY"); got != "second" {
		t.Fatalf("expected second, got %q", got)
	}
	if got := GetEnvFirst("MISSING_KEY_FOR_TEST"); got != "" {
		t.Fatalf("expected empty value, got %q", got)
	}
}

func TestGetEnvList(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{name: "splits and trims", value: "a, b ,c", want: []string{"a", "b", "c"}},
		{name: "drops blanks", value: "a,,b,", want: []string{"a", "b"}},
		{name: "falls back when empty", value: " , ", want: []string{"default"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LIST_KEY", tt.value)
			got := GetEnvList("LIST_KEY", []string{"default"})
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("unexpected list: got %v want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("BOOL_KEY", "yes")
	if !GetEnvBool("BOOL_KEY", true) {
		t.Fatal("expected default for unparsable value")
	}
	t.Setenv("BOOL_KEY", "false")
	if GetEnvBool("BOOL_KEY", true) {
		t.Fatal("expected false")
	}
}
