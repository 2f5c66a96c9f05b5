package logging

import (
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// StartupLogger collects the server's identity, configuration and feature
// flags, then emits a single structured zerolog event describing how the
// process was started.
type StartupLogger struct {
	name       string
	commitHash string
	buildTime  string
	startedAt  time.Time

	config   map[string]string
	features map[string]bool
}

// NewStartupLogger creates a StartupLogger for the named binary.
func NewStartupLogger(name string) *StartupLogger {
	return &StartupLogger{
		name:     name,
		config:   make(map[string]string),
		features: make(map[string]bool),
	}
}

// CommitHash sets the git commit hash baked into the binary at build time.
func (s *StartupLogger) CommitHash(hash string) *StartupLogger {
	s.commitHash = hash
	return s
}

// BuildTime sets the UTC build timestamp baked into the binary at build time.
func (s *StartupLogger) BuildTime(t string) *StartupLogger {
	s.buildTime = t
	return s
}

// StartedAt records when the server began accepting connections.
func (s *StartupLogger) StartedAt(t time.Time) *StartupLogger {
	s.startedAt = t
	return s
}

// Feature registers a boolean feature flag (e.g. "metrics").
func (s *StartupLogger) Feature(name string, enabled bool) *StartupLogger {
	s.features[name] = enabled
	return s
}

// Config registers a non-sensitive configuration key-value pair.
func (s *StartupLogger) Config(key, value string) *StartupLogger {
	s.config[key] = value
	return s
}

// Log emits the startup event at info level.
func (s *StartupLogger) Log() {
	s.Event(log.Info())
}

// Event fills evt with the collected fields and sends it.
func (s *StartupLogger) Event(evt *zerolog.Event) {
	server := zerolog.Dict().
		Str("name", s.name).
		Str("goVersion", runtime.Version()).
		Str("os", runtime.GOOS).
		Str("arch", runtime.GOARCH)
	if s.commitHash != "" {
		server = server.Str("commitHash", s.commitHash)
	}
	if s.buildTime != "" {
		server = server.Str("buildTime", s.buildTime)
	}
	evt = evt.Dict("server", server)

	if len(s.config) > 0 {
		d := zerolog.Dict()
		for k, v := range s.config {
			d = d.Str(k, v)
		}
		evt = evt.Dict("config", d)
	}

	if len(s.features) > 0 {
		d := zerolog.Dict()
		for k, v := range s.features {
			d = d.Bool(k, v)
		}
		evt = evt.Dict("features", d)
	}

	if !s.startedAt.IsZero() {
		evt = evt.Time("startedAt", s.startedAt)
	}

	evt.Msg("Server started")
}
