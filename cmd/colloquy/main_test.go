package main

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func stringFlag(t *testing.T, flags []cli.Flag, name string) *cli.StringFlag {
	t.Helper()
	for _, f := range flags {
		if sf, ok := f.(*cli.StringFlag); ok && sf.Name == name {
			return sf
		}
	}
	t.Fatalf("flag %q not found", name)
	return nil
}

func TestCommonFlags(t *testing.T) {
	flags := commonFlags()

	t.Run("db is required", func(t *testing.T) {
		f := stringFlag(t, flags, "db")
		assert.True(t, f.Required)
		assert.Empty(t, f.Value)
	})

	t.Run("ai-host has default value", func(t *testing.T) {
		f := stringFlag(t, flags, "ai-host")
		assert.Equal(t, "http://localhost:11434/v1", f.Value)
	})

	t.Run("models have defaults", func(t *testing.T) {
		assert.Equal(t, "embeddinggemma", stringFlag(t, flags, "embedding-model").Value)
		assert.Equal(t, "qwen2.5:3b", stringFlag(t, flags, "generator-model").Value)
	})
}

func TestSetupLogger(t *testing.T) {
	newContext := func(level string) *cli.Context {
		set := flag.NewFlagSet("test", flag.ContinueOnError)
		set.String("log-level", level, "")
		return cli.NewContext(cli.NewApp(), set, nil)
	}

	t.Run("accepts known levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "INFO"} {
			require.NoError(t, setupLogger(newContext(level)), level)
		}
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		err := setupLogger(newContext("loud"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestIngestCommand_ArgValidation(t *testing.T) {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	c := cli.NewContext(cli.NewApp(), set, nil)

	err := ingestCommand(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transcript file")
}

func TestAskCommand_ArgValidation(t *testing.T) {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	require.NoError(t, set.Parse([]string{"only-one-arg"}))
	c := cli.NewContext(cli.NewApp(), set, nil)

	err := askCommand(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transcript id")
}
