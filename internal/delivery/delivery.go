// Package delivery defines the outer shells that drive the use cases.
package delivery

import "context"

// Delivery is a long-running front end started by the application.
type Delivery interface {
	// Serve blocks until the front end stops or fails.
	Serve(ctx context.Context) error
}
