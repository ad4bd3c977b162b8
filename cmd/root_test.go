package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/campaign-cli/internal/config"
)

// withConfig installs a default configuration for the duration of a test.
func withConfig(t *testing.T) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.Log.Level = "info"
	c.Log.Format = "json"
	c.Report.Format = "markdown"
	c.Server.Port = 8080
	c.Server.RateLimitRPS = 20
	c.Server.RateLimitBurst = 40
	c.Server.AllowedOrigins = []string{"*"}
	c.Server.MaxBodyBytes = 1 << 20

	prev := cfg
	cfg = c
	t.Cleanup(func() { cfg = prev })
	return c
}

// captureOutput routes the command's output to a buffer.
func captureOutput(t *testing.T, cmd *cobra.Command) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	t.Cleanup(func() { cmd.SetOut(nil) })
	return &buf
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"score", "validate", "sample", "rules", "serve"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "campaign-cli", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.True(t, rootCmd.SilenceUsage)
}

func TestScoreCommand_Flags(t *testing.T) {
	for _, name := range []string{"input", "format", "schema", "sample", "report", "output"} {
		assert.NotNil(t, scoreCmd.Flags().Lookup(name), "score should have --%s flag", name)
	}
}

func TestValidateCommand_Flags(t *testing.T) {
	for _, name := range []string{"input", "format", "schema", "sample"} {
		assert.NotNil(t, validateCmd.Flags().Lookup(name), "validate should have --%s flag", name)
	}
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
	assert.NotNil(t, serveCmd.Flags().Lookup("schema"))
}

func TestSampleCommand(t *testing.T) {
	out := captureOutput(t, sampleCmd)

	require.NoError(t, sampleCmd.RunE(sampleCmd, nil))
	assert.Contains(t, out.String(), `"campaigns"`)
	assert.Contains(t, out.String(), "ChannelKappa")
}

func TestRulesCommand(t *testing.T) {
	out := captureOutput(t, rulesCmd)

	require.NoError(t, rulesCmd.RunE(rulesCmd, nil))
	s := out.String()
	assert.Contains(t, s, "- sales_conversion: 0.4")
	assert.Contains(t, s, "- High: score >= 0.50")
	assert.Contains(t, s, "- Low: score < 0.30")
	assert.Contains(t, s, "| Tier | Condition | Recommendation |")
}
