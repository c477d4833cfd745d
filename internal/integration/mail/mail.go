// Package mail sends onboarding email to freshly exported volunteers.
package mail

import "context"

// OnboardingMessage carries the credentials a volunteer needs for their
// first Workspace login.
type OnboardingMessage struct {
	RecipientEmail    string
	FirstName         string
	WorkspaceEmail    string
	TemporaryPassword string
}

// Sender delivers onboarding messages.
type Sender interface {
	SendOnboarding(ctx context.Context, msg OnboardingMessage) error
}

// Noop drops messages, for environments without a mail provider.
type Noop struct{}

func (Noop) SendOnboarding(context.Context, OnboardingMessage) error { return nil }
