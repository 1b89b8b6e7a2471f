package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Commands(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		secret    string
		wantError bool
	}{
		{name: "help", args: []string{"help"}},
		{name: "unknown command", args: []string{"frobnicate"}, wantError: true},
		{name: "token without subject", args: []string{"token"}, secret: "0123456789abcdef", wantError: true},
		{name: "token without secret", args: []string{"token", "-subject", "me"}, wantError: true},
		{name: "token", args: []string{"token", "-subject", "me"}, secret: "0123456789abcdef"},
		{name: "token bad flag", args: []string{"token", "-nope"}, secret: "0123456789abcdef", wantError: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GO_ENV", "production")
			t.Setenv("TAGTIME_AUTH_SECRET", tt.secret)
			err := run(tt.args)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRun_CheckSchema(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("TAGTIME_DB_DSN", filepath.Join(t.TempDir(), "data", "tagtime.db"))

	require.NoError(t, run([]string{"check-schema"}))
}
