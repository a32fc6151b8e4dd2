package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultEnvFile là file được đọc khi ENV_FILE không được set
const DefaultEnvFile = ".env"

// LoadEnvFile đọc KEY=VALUE từ file env.
// File không tồn tại không phải là lỗi → trả về map rỗng.
// godotenv lo phần parse: bỏ comment, inline comment sau khoảng trắng
// (trừ khi nằm trong quotes), trim whitespace và một lớp quotes.
func LoadEnvFile(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to stat env file %s: %w", path, err)
	}

	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse env file %s: %w", path, err)
	}
	return values, nil
}

// Environment resolves configuration keys. A key present in the process
// environment always wins over the same key from the env file; the file never
// writes back into the process environment.
type Environment struct {
	lookup func(string) (string, bool)
	file   map[string]string
}

// NewEnvironment layers os.LookupEnv over the given file values.
func NewEnvironment(file map[string]string) *Environment {
	return newEnvironment(os.LookupEnv, file)
}

func newEnvironment(lookup func(string) (string, bool), file map[string]string) *Environment {
	if file == nil {
		file = map[string]string{}
	}
	return &Environment{lookup: lookup, file: file}
}

// Lookup returns the raw value and whether any layer defines the key.
func (e *Environment) Lookup(key string) (string, bool) {
	if v, ok := e.lookup(key); ok {
		return v, true
	}
	v, ok := e.file[key]
	return v, ok
}

// Get trả về value của key, hoặc defaultValue nếu rỗng
func (e *Environment) Get(key, defaultValue string) string {
	v, _ := e.Lookup(key)
	v = strings.TrimSpace(v)
	if v == "" {
		return defaultValue
	}
	return v
}

// First returns the first non-empty value among keys (e.g. SUPABASE_URL,
// then VITE_SUPABASE_URL).
func (e *Environment) First(keys ...string) string {
	for _, k := range keys {
		if v := e.Get(k, ""); v != "" {
			return v
		}
	}
	return ""
}

func (e *Environment) Int(key string, defaultValue int) (int, error) {
	raw := e.Get(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func (e *Environment) Bool(key string, defaultValue bool) (bool, error) {
	raw := e.Get(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func (e *Environment) Duration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := e.Get(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

// List splits a comma separated value, dropping blanks.
func (e *Environment) List(key string) []string {
	return SplitList(e.Get(key, ""))
}

// SplitList tách "a, b,,c" → [a b c]
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
