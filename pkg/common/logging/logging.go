// Package logging configures the process-wide hlog logger and provides
// helpers for logging request data safely.
package logging

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	"music-hub/pkg/common/config"
)

const redacted = "REDACTED"

var levels = map[string]hlog.Level{
	"trace":  hlog.LevelTrace,
	"debug":  hlog.LevelDebug,
	"info":   hlog.LevelInfo,
	"notice": hlog.LevelNotice,
	"warn":   hlog.LevelWarn,
	"error":  hlog.LevelError,
	"fatal":  hlog.LevelFatal,
}

// Setup applies the configured level and output. The returned close func
// releases the log file, if one was opened.
func Setup(cfg config.LogConfig) (func() error, error) {
	level, ok := levels[strings.ToLower(cfg.Level)]
	if !ok {
		level = hlog.LevelInfo
	}
	hlog.SetLevel(level)

	if cfg.File == "" {
		return func() error { return nil }, nil
	}

	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	hlog.SetOutput(f)
	return f.Close, nil
}

var sensitiveKeys = []string{"contraseña", "contrasena", "password", "secret", "token"}

func isSensitive(key string) bool {
	key = strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(key, s) {
			return true
		}
	}
	return false
}

// Redact returns a copy of fields with sensitive values masked.
func Redact(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		if isSensitive(k) {
			out[k] = redacted
			continue
		}
		out[k] = v
	}
	return out
}

// KV renders key/value pairs as "k=v k=v" with sensitive keys masked.
// An odd trailing key is rendered with an empty value.
func KV(pairs ...interface{}) string {
	var b strings.Builder
	for i := 0; i < len(pairs); i += 2 {
		if i > 0 {
			b.WriteByte(' ')
		}
		key := fmt.Sprint(pairs[i])
		var val interface{} = ""
		if i+1 < len(pairs) {
			val = pairs[i+1]
		}
		if isSensitive(key) {
			val = redacted
		}
		fmt.Fprintf(&b, "%s=%v", key, val)
	}
	return b.String()
}

// Fields renders a field map in stable key order.
func Fields(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]interface{}, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, k, fields[k])
	}
	return KV(pairs...)
}
