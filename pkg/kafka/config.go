package kafka

import "time"

// Config covers the writer and reader tuning knobs the service exposes.
type Config struct {
	Brokers []string

	ProducerMaxAttempts  int
	ProducerBatchTimeout time.Duration

	ConsumerMinBytes       int
	ConsumerMaxBytes       int
	ConsumerMaxWait        time.Duration
	ConsumerCommitInterval time.Duration
	ConsumerMaxRetries     int
}

func DefaultConfig(brokers []string) *Config {
	return &Config{
		Brokers: brokers,

		ProducerMaxAttempts:  3,
		ProducerBatchTimeout: 10 * time.Millisecond,

		ConsumerMinBytes:       1,
		ConsumerMaxBytes:       10e6,
		ConsumerMaxWait:        500 * time.Millisecond,
		ConsumerCommitInterval: time.Second,
		ConsumerMaxRetries:     3,
	}
}
