package main

import "time"

type Config struct {
	Host                      string        `env:"HOST,default=localhost"`
	Port                      int           `env:"PORT,default=8080"`
	LogLevel                  string        `env:"LOG_LEVEL,default=info"`
	KeepAliveInterval         time.Duration `env:"KEEP_ALIVE_INTERVAL,default=30s"`
	InvitationTTL             time.Duration `env:"INVITATION_TTL,default=24h"`
	SweepInterval             time.Duration `env:"SWEEP_INTERVAL,default=60s"`
	TelemetryInterval         time.Duration `env:"TELEMETRY_INTERVAL,default=30s"`
	RestartInterval           time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	SinkTimeout               time.Duration `env:"SINK_TIMEOUT,default=2s"`
	ArchiveBufferSize         int           `env:"ARCHIVE_BUFFER_SIZE,default=1024"`
	ConnectionBufferSize      int           `env:"CONNECTION_BUFFER_SIZE,default=64"`
	LimitMessages             *int          `env:"LIMIT_MESSAGES"`
	EnableModeration          bool          `env:"ENABLE_MODERATION,default=true"`
	ModerationCharReplacement string        `env:"MODERATION_CHARACTER_REPLACEMENT,default=*"`
}
