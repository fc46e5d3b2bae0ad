// Package config reads service settings from prefixed environment variables
package config

import (
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"weightwise/internal/platform/logger"
)

// Conf is a namespaced view over environment variables, e.g. CORE_API_ or CORE_ARTIFACT_
type Conf struct{ prefix string }

// New creates a root Conf with no prefix
func New() Conf { return Conf{} }

// Prefix creates a child Conf with an additional prefix
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

// key composes the fully qualified env var name
func (c Conf) key(k string) string { return c.prefix + k }

// Lookup returns the trimmed value and whether it is set and non-empty
func (c Conf) Lookup(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(c.key(key)))
	return v, v != ""
}

// must parses a required value, panicking through the logger when absent or malformed
func must[T any](c Conf, key, kind string, parse func(string) (T, error)) T {
	s, ok := c.Lookup(key)
	if !ok {
		logger.Get().Panic().Str("key", c.key(key)).Msg("missing required env")
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Panic().Str("key", c.key(key)).Str("value", s).Msgf("invalid %s value", kind)
	}
	return v
}

// may parses an optional value, warning and falling back to def when malformed
func may[T any](c Conf, key, kind string, def T, parse func(string) (T, error)) T {
	s, ok := c.Lookup(key)
	if !ok {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Interface("default", def).
			Msgf("invalid %s; using default", kind)
		return def
	}
	return v
}

func identity(s string) (string, error) { return s, nil }

// MustString panics if the key is missing or empty
func (c Conf) MustString(key string) string { return must(c, key, "string", identity) }

// MustInt panics if the key is missing or not an int
func (c Conf) MustInt(key string) int { return must(c, key, "int", strconv.Atoi) }

// MustBool panics if the key is missing or not a bool
func (c Conf) MustBool(key string) bool { return must(c, key, "bool", strconv.ParseBool) }

// MustDuration panics if the key is missing or not a duration such as 250ms or 2s
func (c Conf) MustDuration(key string) time.Duration {
	return must(c, key, "duration", time.ParseDuration)
}

// MayString returns the value or def
func (c Conf) MayString(key, def string) string { return may(c, key, "string", def, identity) }

// MayInt returns the value or def
func (c Conf) MayInt(key string, def int) int { return may(c, key, "int", def, strconv.Atoi) }

// MayBool returns the value or def
func (c Conf) MayBool(key string, def bool) bool {
	return may(c, key, "bool", def, strconv.ParseBool)
}

// MayDuration returns the value or def
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return may(c, key, "duration", def, time.ParseDuration)
}

// MayAddr returns a listen address; a bare port such as 4000 becomes :4000
func (c Conf) MayAddr(key, def string) string {
	return may(c, key, "listen address", def, parseAddr)
}

func parseAddr(s string) (string, error) {
	if !strings.Contains(s, ":") {
		s = ":" + s
	}
	_, port, err := net.SplitHostPort(s)
	if err != nil {
		return "", err
	}
	p, err := strconv.Atoi(port)
	if err != nil || p < 0 || p > 65535 {
		return "", strconv.ErrRange
	}
	return s, nil
}

// MayCSV splits a comma separated value, dropping blanks; def when nothing remains
func (c Conf) MayCSV(key string, def []string) []string {
	s, ok := c.Lookup(key)
	if !ok {
		return def
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayEnum returns the value, lower cased, when it is one of allowed; def when empty; panics otherwise
func (c Conf) MayEnum(key, def string, allowed ...string) string {
	v := c.MayString(key, def)
	if v == "" {
		return v
	}
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return strings.ToLower(v)
		}
	}
	logger.Get().Panic().Str("key", c.key(key)).Str("value", v).Strs("allowed", allowed).Msg("invalid enum value")
	return ""
}
