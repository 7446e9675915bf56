package linkres

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRulesMissingFileYieldsDefaults(t *testing.T) {
	rules, err := LoadRules(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultRules(), rules)
}

func TestLoadRulesPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "link_rules.yaml")
	content := "trusted_hosts:\n  - meet.internal.corp\n  - zoom.us\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	rules, err := LoadRules(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"meet.internal.corp", "zoom.us"}, rules.TrustedHosts)
	// Untouched sections keep the defaults.
	assert.Equal(t, DefaultRules().AllowedSchemes, rules.AllowedSchemes)
	assert.Equal(t, DefaultRules().TrackingParams, rules.TrackingParams)
}

func TestLoadRulesMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "link_rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("trusted_hosts: [unclosed"), 0o644))

	_, err := LoadRules(path)
	assert.Error(t, err)
}
