package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_deployGuild(t *testing.T) {
	testCases := []struct {
		name    string
		scope   string
		guild   string
		expect  string
		wantErr bool
	}{
		{name: "guild", scope: "guild", guild: "123", expect: "123"},
		{name: "guild upper case", scope: "GUILD", guild: "123", expect: "123"},
		{name: "guild missing id", scope: "guild", wantErr: true},
		{name: "global", scope: "global"},
		{name: "global with id", scope: "global", guild: "123", wantErr: true},
		{name: "unknown", scope: "everywhere", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := deployGuild(tc.scope, tc.guild)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expect, got)
		})
	}
}

func Test_versionCmd(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.True(t, strings.HasPrefix(out.String(), "support-bot dev"))
}

func Test_rootCmd_subcommands(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"run", "deploy", "version"})
}
