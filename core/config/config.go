package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrParsingConfig is returned when environment variables cannot be parsed
// into the target struct.
var ErrParsingConfig = errors.New("failed to parse config")

var (
	loadEnvOnce sync.Once
	cacheMu     sync.Mutex
	cache       = map[reflect.Type]any{}
)

// Load populates cfg from the environment. The first call for a type parses
// the environment; later calls for the same type copy the cached value.
// A .env file in the working directory is loaded once, if present, without
// overriding variables already set.
func Load[T any](cfg *T) error {
	loadEnvOnce.Do(func() {
		_ = godotenv.Load()
	})

	key := reflect.TypeFor[T]()

	cacheMu.Lock()
	defer cacheMu.Unlock()

	if cached, ok := cache[key]; ok {
		*cfg = cached.(T)
		return nil
	}

	var loaded T
	if err := env.Parse(&loaded); err != nil {
		return fmt.Errorf("%w %s: %w", ErrParsingConfig, key, err)
	}

	cache[key] = loaded
	*cfg = loaded
	return nil
}

// MustLoad is like Load but panics on failure. Intended for startup code.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
