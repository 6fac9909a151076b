package cli

import (
	"testing"

	"github.com/ardnew/quux/log"
)

func resetLog(t *testing.T) {
	t.Helper()

	t.Cleanup(func() {
		log.Config(
			log.WithLevel(log.DefaultLevel),
			log.WithFormat(log.DefaultFormat),
			log.WithTimeLayout(log.DefaultTimeLayout),
			log.WithCaller(false),
			log.WithPretty(log.DefaultPretty),
		)
	})
}

func TestLogConfig_Scan(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want logConfig
	}{
		{
			name: "none",
			args: []string{"fmt", "json"},
			want: logConfig{Pretty: true},
		},
		{
			name: "separate values",
			args: []string{"--log-level", "debug", "--log-format", "json", "read"},
			want: logConfig{Level: "debug", Format: "json", Pretty: true},
		},
		{
			name: "assigned values",
			args: []string{"--log-level=warn", "--log-time-layout=Kitchen"},
			want: logConfig{Level: "warn", TimeLayout: "Kitchen", Pretty: true},
		},
		{
			name: "flag as next argument",
			args: []string{"--log-level", "--log-caller"},
			want: logConfig{Caller: true, Pretty: true},
		},
		{
			name: "negated",
			args: []string{"--no-log-pretty", "--log-caller"},
			want: logConfig{Caller: true},
		},
		{
			name: "boolean values",
			args: []string{"--log-pretty=false", "--no-log-caller=false", "--log-caller=bogus"},
			want: logConfig{Caller: true},
		},
		{
			name: "stops at terminator",
			args: []string{"--log-level=error", "--", "--log-level=trace"},
			want: logConfig{Level: "error", Pretty: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetLog(t)

			got := logConfig{Pretty: true}
			got.scan(tt.args)

			if got != tt.want {
				t.Errorf("scan(%q) = %+v, want %+v", tt.args, got, tt.want)
			}
		})
	}
}

func TestLogConfig_Vars(t *testing.T) {
	vars := (*logConfig)(nil).vars()

	for _, key := range []string{"logLevelDefault", "logLevelEnum", "logFormatDefault", "logFormatEnum"} {
		if vars[key] == "" {
			t.Errorf("vars()[%q] is empty", key)
		}
	}

	if vars["logLevelDefault"] != log.DefaultLevel.String() {
		t.Errorf("logLevelDefault = %q, want %q", vars["logLevelDefault"], log.DefaultLevel)
	}
}
