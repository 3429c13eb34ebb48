package health

import "context"

// StorePinger checks catalog store availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// PlatformChecker checks that the platform Web API accepts the bot token.
type PlatformChecker interface {
	HealthCheck(ctx context.Context) error
}
