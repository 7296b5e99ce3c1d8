package internal

import "time"

// Config is populated from the environment by Netflix/go-env.
// The three ports are distinct endpoints of the relay: request/response
// logins, fan-in ingestion and fan-out broadcast.
type Config struct {
	LoginPort     int `env:"LOGIN_PORT,required=true"`
	BroadcastPort int `env:"BROADCAST_PORT,required=true"`
	IngestPort    int `env:"INGEST_PORT,required=true"`

	UsersFilepath    string `env:"USERS_FILEPATH,required=true"`
	MessagesFilepath string `env:"MESSAGES_FILEPATH,required=true"`

	LogLevel string `env:"LOG_LEVEL,required=true"`

	// IngestBufferSize bounds the fan-in queue feeding the ingest worker,
	// SubscriberBufferSize the per-subscriber delivery queue.
	IngestBufferSize     int `env:"INGEST_BUFFER_SIZE,required=true"`
	SubscriberBufferSize int `env:"SUBSCRIBER_BUFFER_SIZE,required=true"`

	// SnapshotSize is how many recent messages a successful login returns.
	SnapshotSize int `env:"SNAPSHOT_SIZE,required=true"`

	StatsInterval   time.Duration `env:"STATS_INTERVAL,required=true"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,required=true"`
}
