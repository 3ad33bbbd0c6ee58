package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"github.com/yungbote/keywordiq-backend/internal/platform/envutil"
)

const redacted = "[REDACTED]"

// Any key containing one of these fragments is dropped.
var secretFragments = []string{
	"token", "authorization", "password", "secret", "cookie",
	"api_key", "apikey", "email", "refresh",
}

// Keys containing one of these are hashed so lines stay joinable per user.
var hashFragments = []string{"user_id", "user_ip", "client_ip", "remote_addr"}

type redactor struct {
	enabled bool
	salt    string
}

var (
	redactorOnce sync.Once
	shared       redactor
)

func defaultRedactor() redactor {
	redactorOnce.Do(func() {
		shared = redactor{
			enabled: envutil.Bool("LOG_REDACTION_ENABLED", true),
			salt:    envutil.String("LOG_HASH_SALT", ""),
		}
	})
	return shared
}

func (r redactor) kvs(kv []interface{}) []interface{} {
	if !r.enabled || len(kv) == 0 {
		return kv
	}
	out := make([]interface{}, 0, len(kv))
	for i := 0; i < len(kv); i += 2 {
		if i+1 == len(kv) {
			out = append(out, kv[i])
			break
		}
		name := stringify(kv[i])
		out = append(out, name, r.value(normalizeKey(name), kv[i+1]))
	}
	return out
}

func (r redactor) value(key string, v interface{}) interface{} {
	if key != "" {
		if containsAny(key, secretFragments) {
			return redacted
		}
		if containsAny(key, hashFragments) {
			return r.hash(v)
		}
	}
	switch t := v.(type) {
	case map[string]interface{}:
		if t == nil {
			return t
		}
		m := make(map[string]interface{}, len(t))
		for k, inner := range t {
			m[k] = r.value(normalizeKey(k), inner)
		}
		return m
	case []interface{}:
		if t == nil {
			return t
		}
		s := make([]interface{}, len(t))
		for i, inner := range t {
			s[i] = r.value("", inner)
		}
		return s
	case string:
		if isJWTShaped(t) {
			return redacted
		}
	}
	return v
}

func (r redactor) hash(v interface{}) string {
	raw := stringify(v)
	if raw == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(r.salt + raw))
	return "hash:" + hex.EncodeToString(sum[:])[:12]
}

func isJWTShaped(s string) bool {
	parts := strings.Split(s, ".")
	return len(parts) == 3 && len(parts[0]) > 10 && len(parts[1]) > 10
}

func containsAny(key string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(key, f) {
			return true
		}
	}
	return false
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
