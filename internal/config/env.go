// Package config provides shared configuration utilities and the tunable
// parameters of the sandbox.
package config

import (
	"os"
	"strconv"
)

// GetEnv returns the value of the environment variable named by the key,
// or fallback if the variable is not set.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// GetEnvFloat parses the environment variable named by the key as a float.
// It returns fallback if the variable is not set and an error if it is set
// but not a number.
func GetEnvFloat(key string, fallback float64) (float64, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback, &EnvError{Key: key, Value: value, Err: err}
	}
	return f, nil
}

// GetEnvInt parses the environment variable named by the key as an int.
func GetEnvInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback, &EnvError{Key: key, Value: value, Err: err}
	}
	return i, nil
}

// GetEnvBool parses the environment variable named by the key as a bool.
func GetEnvBool(key string, fallback bool) (bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback, &EnvError{Key: key, Value: value, Err: err}
	}
	return b, nil
}

// EnvError reports an environment variable that could not be parsed.
type EnvError struct {
	Key   string
	Value string
	Err   error
}

func (e *EnvError) Error() string {
	return "invalid value " + strconv.Quote(e.Value) + " for " + e.Key + ": " + e.Err.Error()
}

func (e *EnvError) Unwrap() error { return e.Err }
