package modkit

import (
	"time"

	"weightwise/internal/core/pipeline"
	"weightwise/internal/platform/config"
	"weightwise/internal/platform/logger"
)

// Deps holds core dependencies passed to modules
// Pipeline may be nil when the artifact failed to load; modules report that through readiness
type Deps struct {
	Log      *logger.Logger
	Cfg      config.Conf
	Pipeline *pipeline.Pipeline
	Started  time.Time
}
