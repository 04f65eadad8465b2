package userservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/haguru/jiraiya/internal/apperrors"
	"github.com/haguru/jiraiya/internal/interfaces"
	"github.com/haguru/jiraiya/internal/models"
	"github.com/haguru/jiraiya/pkg/helper"
)

type UserService struct {
	UserRepo  interfaces.UserRepository
	Hasher    interfaces.PasswordHasher
	Logger    interfaces.Logger
	dummyHash string
}

// NewUserService creates a new UserService instance.
func NewUserService(repo interfaces.UserRepository, hasher interfaces.PasswordHasher, logger interfaces.Logger) (*UserService, error) {
	dummyHash, err := hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrFailedToHashPassword, err)
	}
	return &UserService{
		UserRepo:  repo,
		Hasher:    hasher,
		Logger:    logger,
		dummyHash: dummyHash,
	}, nil
}

// RegisterUser hashes the password and adds the user via the repository.
// It returns apperrors.ErrUsernameTaken when the username already exists.
func (s *UserService) RegisterUser(ctx context.Context, username, password string) error {
	funcName := helper.GetFuncName()
	s.Logger.Debug("Entering function", "func", funcName, "user", username)
	defer s.Logger.Debug("Exiting function", "func", funcName, "user", username)

	_, err := s.UserRepo.GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		s.Logger.Warn(ErrUsernameTaken, "func", funcName, "user", username)
		return apperrors.ErrUsernameTaken
	case !errors.Is(err, apperrors.ErrUserNotFound):
		s.Logger.Error(ErrRetrievingUser, "func", funcName, "user", username, "error", err)
		return fmt.Errorf("%s: %w", ErrRetrievingUser, err)
	}

	hashedPassword, err := s.Hasher.Hash(password)
	if err != nil {
		s.Logger.Error(ErrFailedToHashPassword, "func", funcName, "user", username, "error", err)
		return fmt.Errorf("%s: %w", ErrFailedToHashPassword, err)
	}

	// the store enforces uniqueness again for concurrent signups
	if err := s.UserRepo.AddUser(ctx, *models.NewUser(username, hashedPassword)); err != nil {
		if errors.Is(err, apperrors.ErrUsernameTaken) {
			s.Logger.Warn(ErrUsernameTaken, "func", funcName, "user", username)
			return apperrors.ErrUsernameTaken
		}
		s.Logger.Error(ErrFailedToRegisterUser, "func", funcName, "user", username, "error", err)
		return fmt.Errorf("%s: %w", ErrFailedToRegisterUser, err)
	}

	s.Logger.Info("User registered successfully", "func", funcName, "user", username)
	return nil
}

// AuthenticateUser verifies a user's credentials. Unknown usernames and wrong
// passwords both yield apperrors.ErrInvalidCredentials.
func (s *UserService) AuthenticateUser(ctx context.Context, username, password string) (*models.User, error) {
	funcName := helper.GetFuncName()
	s.Logger.Debug("Entering function", "func", funcName, "user", username)
	defer s.Logger.Debug("Exiting function", "func", funcName, "user", username)

	user, err := s.UserRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			s.Hasher.Verify(password, s.dummyHash)
			s.Logger.Warn(ErrUserNotFound, "func", funcName, "user", username)
			return nil, apperrors.ErrInvalidCredentials
		}
		s.Logger.Error(ErrRetrievingUser, "func", funcName, "user", username, "error", err)
		return nil, fmt.Errorf("%s: %w", ErrRetrievingUser, err)
	}

	if !s.Hasher.Verify(password, user.HashedPassword) {
		s.Logger.Warn(ErrInvalidPassword, "func", funcName, "user", username)
		return nil, apperrors.ErrInvalidCredentials
	}

	s.Logger.Info("User authenticated successfully", "func", funcName, "user", username)
	return user, nil
}

var _ interfaces.UserService = (*UserService)(nil)
