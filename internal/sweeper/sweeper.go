// Package sweeper runs background loops that keep provider health current between requests.
package sweeper

import (
	"context"
)

// Sweeper is a long-running background loop. The API and the reconciler both run
// the provider health sweeper so that routing decisions do not wait for traffic.
//
//go:generate mockgen -source=sweeper.go -destination=../mocks/sweeper.go -package=mocks -mock_names=Sweeper=MockSweeper
type Sweeper interface {
	// Start blocks and runs the loop until ctx is canceled or Stop is called
	Start(ctx context.Context) error

	// Stop ends the loop and waits for an in-progress probe round, bounded by ctx
	Stop(ctx context.Context) error

	// Name identifies the sweeper in logs
	Name() string
}
