// Package workspace provisions Google Workspace accounts for exported
// volunteers through the Admin SDK Directory API.
package workspace

import (
	"context"
)

// User is the account payload a directory implementation provisions.
type User struct {
	PrimaryEmail              string
	FirstName                 string
	LastName                  string
	Password                  string
	OrgUnitPath               string
	RecoveryEmail             string
	ChangePasswordAtNextLogin bool
}

// Directory creates and removes Workspace accounts. The principal is the
// email of the authenticated operator the service account impersonates;
// it must come from the verified request token, never from request input.
type Directory interface {
	CreateUser(ctx context.Context, principal string, user User) error
	DeleteUser(ctx context.Context, principal, email string) error
}

// Noop satisfies Directory without calling Google, for environments
// without service-account credentials.
type Noop struct{}

func (Noop) CreateUser(context.Context, string, User) error   { return nil }
func (Noop) DeleteUser(context.Context, string, string) error { return nil }
