package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/reactive/core/config"
)

type cachedConfig struct {
	Name    string        `env:"REACTIVE_CONFIG_TEST_NAME" envDefault:"feed"`
	Timeout time.Duration `env:"REACTIVE_CONFIG_TEST_TIMEOUT" envDefault:"2s"`
}

type requiredConfig struct {
	Value string `env:"REACTIVE_CONFIG_TEST_REQUIRED,required"`
}

// t.Setenv forbids t.Parallel, and the cache is process-wide.
func TestLoad(t *testing.T) {
	t.Run("defaults_and_cache", func(t *testing.T) {
		t.Setenv("REACTIVE_CONFIG_TEST_NAME", "movies")

		var first cachedConfig
		require.NoError(t, config.Load(&first))
		assert.Equal(t, "movies", first.Name)
		assert.Equal(t, 2*time.Second, first.Timeout)

		t.Setenv("REACTIVE_CONFIG_TEST_NAME", "changed")

		var second cachedConfig
		require.NoError(t, config.Load(&second))
		assert.Equal(t, first, second)
	})

	t.Run("missing_required", func(t *testing.T) {
		var cfg requiredConfig
		err := config.Load(&cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("must_load_panics", func(t *testing.T) {
		assert.Panics(t, func() {
			var cfg requiredConfig
			config.MustLoad(&cfg)
		})
	})
}
