package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/braindumpster/braindumpster-go/internal/client/api"
	"github.com/braindumpster/braindumpster-go/internal/logging"
)

// AuthService wraps account and session operations for the CLI.
type AuthService struct {
	client api.Client
	log    logging.Logger
}

func NewAuthService(client api.Client, log logging.Logger) *AuthService {
	if log == nil {
		log = logging.New()
	}
	return &AuthService{client: client, log: log}
}

func (s *AuthService) Register(ctx context.Context, email, password, displayName string) error {
	if err := validateCredentials(email, password); err != nil {
		return err
	}
	if err := s.client.Register(ctx, email, password, displayName); err != nil {
		return err
	}
	s.log.Info(ctx, "account registered", "email", email)
	return nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*api.Session, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}
	sess, err := s.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "logged in", "userId", sess.UserID)
	return sess, nil
}

func (s *AuthService) Logout(ctx context.Context) {
	s.client.Logout()
	s.log.Info(ctx, "logged out")
}

// LoggedIn reports whether a session is held.
func (s *AuthService) LoggedIn() bool {
	return s.client.Session() != nil
}

func validateCredentials(email, password string) error {
	if !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email %q", email)
	}
	if password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}
