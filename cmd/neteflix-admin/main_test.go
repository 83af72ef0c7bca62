package main

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommandsAreRegistered(t *testing.T) {
	cmds := commands()
	for _, name := range []string{"migrate", "db-reset", "docs-ls", "seed", "cache-flush"} {
		cmd, ok := cmds[name]
		require.True(t, ok, "command %q missing", name)
		require.Equal(t, name, cmd.name)
		require.NotNil(t, cmd.run)
		require.NotEmpty(t, cmd.description)
	}
}

func TestPrintUsageListsEveryCommand(t *testing.T) {
	oldStderr := os.Stderr
	r, w, err := os.Pipe()
	require.NoError(t, err)

	defer func() {
		os.Stderr = oldStderr
	}()

	os.Stderr = w

	require.NoError(t, printUsage())

	require.NoError(t, w.Close())
	os.Stderr = oldStderr

	output, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())

	outStr := string(output)
	for name := range commands() {
		require.Contains(t, outStr, name)
	}
}

func TestSeedRequiresDevMode(t *testing.T) {
	ctx := &commandContext{Ctx: t.Context()}
	err := runSeed(ctx, nil)
	require.ErrorContains(t, err, "dev mode")
}

func TestDBResetRequiresForce(t *testing.T) {
	ctx := &commandContext{Ctx: t.Context()}
	err := runDBReset(ctx, nil)
	require.ErrorContains(t, err, "-force")
}
