package core

import "context"

// Generator is the stateless single-turn inference boundary. Both native
// calling conventions are covered: a structured message sequence with a
// separately supplied system directive, and a single pre-rendered prompt for
// engines that accept only plain text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	GenerateMessages(ctx context.Context, history []Message, directive string) (string, error)
}

// Availability probes whether the underlying engine can serve requests on
// this device.
type Availability interface {
	Check(ctx context.Context) error
}
