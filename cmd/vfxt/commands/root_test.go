package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot(t *testing.T) {
	cmd := Root()

	require.NotNil(t, cmd)
	assert.Equal(t, "vfxt", cmd.Use)
	assert.Equal(t, "Create and manage Avere vFXT clusters on Hetzner Cloud", cmd.Short)
}

func TestRoot_HasSubcommands(t *testing.T) {
	cmd := Root()

	expectedSubcommands := []string{
		"init",
		"create",
		"add-nodes",
		"destroy",
		"start",
		"stop",
		"shelve",
		"unshelve",
		"status",
		"health",
		"attach-bucket",
		"attach-corefiler",
		"add-vserver",
		"add-junction",
		"upgrade",
		"rebalance",
		"export",
		"version",
		"completion",
	}

	subcommands := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		subcommands[sub.Name()] = true
	}

	for _, expected := range expectedSubcommands {
		assert.True(t, subcommands[expected], "Expected subcommand %s not found", expected)
	}
}

func TestRoot_SubcommandCount(t *testing.T) {
	cmd := Root()
	assert.Len(t, cmd.Commands(), 19, "Expected 19 subcommands")
}

func TestRoot_GlobalFlags(t *testing.T) {
	cmd := Root()

	pf := cmd.PersistentFlags()

	config := pf.Lookup("config")
	require.NotNil(t, config, "config flag should exist")
	assert.Equal(t, "c", config.Shorthand)

	clusterFile := pf.Lookup("cluster-file")
	require.NotNil(t, clusterFile, "cluster-file flag should exist")
	assert.Equal(t, "f", clusterFile.Shorthand)

	for _, name := range []string{"log-json", "trace", "metrics-listen"} {
		assert.NotNil(t, pf.Lookup(name), "%s flag should exist", name)
	}
}
