package utils

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

func TestParseArguments(t *testing.T) {
	tests := []struct {
		name      string
		argv      []string
		wantArgs  map[string]string
		wantExtra []string
	}{
		{
			name:     "equals and space forms",
			argv:     []string{"--input=in", "--output", "out", "--benchmark"},
			wantArgs: map[string]string{"input": "in", "output": "out", "benchmark": "true"},
		},
		{
			name:     "explicit command",
			argv:     []string{"report", "--run", "abc"},
			wantArgs: map[string]string{"command": "report", "run": "abc"},
		},
		{
			name:     "boolean followed by flag",
			argv:     []string{"run", "--exif", "--width=10"},
			wantArgs: map[string]string{"command": "run", "exif": "true", "width": "10"},
		},
		{
			name:      "stray word",
			argv:      []string{"--input=in", "oops"},
			wantArgs:  map[string]string{"input": "in"},
			wantExtra: []string{"oops"},
		},
		{
			name:      "unknown first word is not a command",
			argv:      []string{"scan", "--input=in"},
			wantArgs:  map[string]string{"input": "in"},
			wantExtra: []string{"scan"},
		},
		{
			name:     "short help",
			argv:     []string{"-h"},
			wantArgs: map[string]string{"help": "true"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, extra := ParseArguments(tt.argv)
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("args = %v, want %v", args, tt.wantArgs)
			}
			if !reflect.DeepEqual(extra, tt.wantExtra) {
				t.Errorf("extra = %v, want %v", extra, tt.wantExtra)
			}
		})
	}
}

func TestPrintUsage(t *testing.T) {
	var buf bytes.Buffer
	PrintUsage(&buf)
	for _, want := range []string{"--input", "--format", "report"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("usage missing %q", want)
		}
	}
}
