package workspace

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/jwt"
	admin "google.golang.org/api/admin/directory/v1"
	"google.golang.org/api/option"
)

// ServiceAccount implements Directory with a Google service account that
// has domain-wide delegation. Each call impersonates the principal, so the
// Directory API audit trail shows the real operator.
type ServiceAccount struct {
	email      string
	privateKey []byte
	keyID      string
	tokenURL   string
}

// Credentials carries the service-account key material.
type Credentials struct {
	Email        string
	PrivateKey   []byte
	PrivateKeyID string
	TokenURL     string
}

func NewServiceAccount(creds Credentials) (*ServiceAccount, error) {
	if creds.Email == "" || len(creds.PrivateKey) == 0 {
		return nil, fmt.Errorf("service account email and private key are required")
	}
	return &ServiceAccount{
		email:      creds.Email,
		privateKey: creds.PrivateKey,
		keyID:      creds.PrivateKeyID,
		tokenURL:   creds.TokenURL,
	}, nil
}

func (s *ServiceAccount) directoryFor(ctx context.Context, principal string) (*admin.Service, error) {
	cfg := &jwt.Config{
		Email:        s.email,
		PrivateKey:   s.privateKey,
		PrivateKeyID: s.keyID,
		TokenURL:     s.tokenURL,
		Subject:      principal,
		Scopes: []string{
			admin.AdminDirectoryUserScope,
		},
	}
	svc, err := admin.NewService(ctx, option.WithTokenSource(cfg.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("build directory service: %w", err)
	}
	return svc, nil
}

func (s *ServiceAccount) CreateUser(ctx context.Context, principal string, user User) error {
	svc, err := s.directoryFor(ctx, principal)
	if err != nil {
		return err
	}
	payload := &admin.User{
		PrimaryEmail: user.PrimaryEmail,
		Name: &admin.UserName{
			GivenName:  user.FirstName,
			FamilyName: user.LastName,
		},
		Password:                  user.Password,
		OrgUnitPath:               user.OrgUnitPath,
		RecoveryEmail:             user.RecoveryEmail,
		ChangePasswordAtNextLogin: user.ChangePasswordAtNextLogin,
	}
	if _, err := svc.Users.Insert(payload).Context(ctx).Do(); err != nil {
		return fmt.Errorf("create workspace user %s: %w", user.PrimaryEmail, err)
	}
	return nil
}

func (s *ServiceAccount) DeleteUser(ctx context.Context, principal, email string) error {
	svc, err := s.directoryFor(ctx, principal)
	if err != nil {
		return err
	}
	if err := svc.Users.Delete(email).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete workspace user %s: %w", email, err)
	}
	return nil
}
