package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{{"run"}, {"check"}, {"wallet", "new"}, {"flags"}, {"version"}} {
		cmd, _, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestRunFlags(t *testing.T) {
	for _, name := range []string{"yes", "blackhole", "currency", "amount", "set-flag", "clear-flag", "metrics-addr", "redis-addr", "log-level"} {
		assert.NotNil(t, runCmd.Flags().Lookup(name), name)
		assert.NotNil(t, rootCmd.Flags().Lookup(name), name)
	}
	for _, name := range []string{"config", "url", "simulate", "debug"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
}
