package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandRegistration(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	assert.True(t, names["harvest"], "harvest command not registered")
	assert.True(t, names["runs"], "runs command not registered")
}

func TestHarvestRequiresTopic(t *testing.T) {
	err := harvestCmd.Args(harvestCmd, []string{})
	require.Error(t, err)

	assert.NoError(t, harvestCmd.Args(harvestCmd, []string{"art"}))
	assert.NoError(t, harvestCmd.Args(harvestCmd, []string{"art", "dance"}))
}
