package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/jobcore/internal/config"
)

func TestRootCommandRegistersEverySubcommand(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{"run", "slot", "sweep", "status", "sources"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestSlotCommandRequiresHourFlag(t *testing.T) {
	flag := slotCmd.Flags().Lookup("hour")
	assert.NotNil(t, flag)
	assert.Equal(t, "-1", flag.DefValue)
}

func TestPrintConfiguredSourcesHandlesEmptyConfig(t *testing.T) {
	assert.NotPanics(t, func() {
		printConfiguredSources(&config.Config{})
	})
}

func TestPrintDisabledRegistryAlwaysIncludesBuiltins(t *testing.T) {
	assert.NotPanics(t, func() {
		printDisabledRegistry(&config.Config{DisabledSources: []string{"custom-board"}})
	})
}
