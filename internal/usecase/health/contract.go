package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// GenAIChecker checks GenAI provider availability.
type GenAIChecker interface {
	HealthCheck(ctx context.Context) error
}
