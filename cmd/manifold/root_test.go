package main

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd_Commands(t *testing.T) {
	cmd := newRootCmd()

	names := make([]string, 0, 2)
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "publish")
	assert.Contains(t, names, "get")
}

func TestEndpoint_ComposesGraphQLURL(t *testing.T) {
	newRootCmd() // bind flags and env

	viper.Set("url", "https://manifold.omni.dev/")
	t.Cleanup(func() { viper.Set("url", nil) })

	assert.Equal(t, "https://manifold.omni.dev/graphql", endpoint())
}

func TestTokenFlagOverridesEnv(t *testing.T) {
	t.Setenv("MANIFOLD_TOKEN", "from-env")

	cmd := newRootCmd()
	assert.Equal(t, "from-env", viper.GetString("token"))

	require.NoError(t, cmd.PersistentFlags().Set("token", "from-flag"))
	assert.Equal(t, "from-flag", viper.GetString("token"))
}
