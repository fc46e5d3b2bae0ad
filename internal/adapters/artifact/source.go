// Package artifact reads frozen pipeline artifacts from their configured location and builds them
package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"weightwise/internal/core/pipeline"
	"weightwise/internal/platform/config"
	"weightwise/internal/platform/logger"
)

// DefaultPath is where the file source looks when no path is configured
const DefaultPath = "obesity_model.yaml"

// ErrNotFound means the source has no artifact at its location
var ErrNotFound = errors.New("artifact not found")

// Source yields the raw artifact bytes and a location string for logs
type Source interface {
	Read(ctx context.Context) (data []byte, location string, err error)
}

// FromConfig builds a source from SOURCE (file|redis), PATH and REDIS_* keys
func FromConfig(cfg config.Conf) (Source, error) {
	switch kind := cfg.MayEnum("SOURCE", "file", "file", "redis"); kind {
	case "file":
		return File(cfg.MayString("PATH", DefaultPath)), nil
	case "redis":
		return NewRedis(RedisOptions{
			Addr:        cfg.MayString("REDIS_ADDR", "127.0.0.1:6379"),
			DB:          cfg.MayInt("REDIS_DB", 0),
			Key:         cfg.MayString("REDIS_KEY", "weightwise:artifact"),
			DialTimeout: cfg.MayDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		}), nil
	default:
		return nil, fmt.Errorf("unknown artifact source %q", kind)
	}
}

// Load reads the artifact from src and builds the pipeline
// sha may be empty; when set the artifact bytes must hash to it
func Load(ctx context.Context, src Source, sha string, opts ...pipeline.Option) (*pipeline.Pipeline, error) {
	log := logger.C(ctx)

	data, where, err := src.Read(ctx)
	if err != nil {
		return nil, &pipeline.LoadError{Source: where, Err: err}
	}

	opts = append([]pipeline.Option{pipeline.WithSource(where)}, opts...)
	if sha = strings.ToLower(strings.TrimSpace(sha)); sha != "" {
		opts = append(opts, pipeline.ExpectSHA256(sha))
	}
	p, err := pipeline.Load(data, opts...)
	if err != nil {
		return nil, err
	}

	m := p.Meta()
	log.Info().
		Str("source", where).
		Str("sha256", m.SHA256).
		Str("artifact", m.Name).
		Str("version", m.Version).
		Int("stages", p.Len()).
		Str("pipeline_id", p.ID()).
		Msg("pipeline loaded")
	return p, nil
}

// Release closes src when it holds a connection; the artifact is read once at startup
func Release(src Source) error {
	if c, ok := src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
