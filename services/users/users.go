package users

import (
	"context"
	"fmt"
	"log"

	"github.com/samber/mo"

	"scribebackend/core"
	"scribebackend/db"
	"scribebackend/models"
	"scribebackend/services"
)

type UsersService struct {
	usersRepo *db.PostgresUsersRepository
	txManager services.TransactionManager
}

func NewUsersService(repo *db.PostgresUsersRepository, txManager services.TransactionManager) *UsersService {
	return &UsersService{usersRepo: repo, txManager: txManager}
}

func (s *UsersService) GetUserByID(ctx context.Context, id string) (mo.Option[*models.User], error) {
	log.Printf("📋 Starting to get user by ID: %s", id)

	if !core.IsValidID(id) {
		return mo.None[*models.User](), fmt.Errorf("user ID must be a valid prefixed ULID")
	}

	user, err := s.usersRepo.GetUserByID(ctx, id)
	if err != nil {
		return mo.None[*models.User](), fmt.Errorf("failed to get user by id: %w", err)
	}
	if user == nil {
		log.Printf("📋 Completed successfully - user not found: %s", id)
		return mo.None[*models.User](), nil
	}

	log.Printf("📋 Completed successfully - retrieved user with ID: %s", user.ID)
	return mo.Some(user), nil
}

func (s *UsersService) GetOrCreateUser(
	ctx context.Context,
	authProvider, authProviderID, email string,
) (*models.User, error) {
	log.Printf("📋 Starting to get or create user for authProvider: %s, authProviderID: %s", authProvider, authProviderID)

	if authProvider == "" {
		return nil, fmt.Errorf("auth_provider cannot be empty")
	}
	if authProviderID == "" {
		return nil, fmt.Errorf("auth_provider_id cannot be empty")
	}

	// Fast path without locking; most requests hit an existing user
	user, err := s.usersRepo.GetUserByAuthProvider(ctx, authProvider, authProviderID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by auth provider: %w", err)
	}
	if user != nil {
		log.Printf("📋 Completed successfully - retrieved user with ID: %s", user.ID)
		return user, nil
	}

	err = s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		// Re-check under lock so concurrent first requests do not double-insert
		existing, err := s.usersRepo.GetUserByAuthProvider(ctx, authProvider, authProviderID, true)
		if err != nil {
			return fmt.Errorf("failed to get user by auth provider: %w", err)
		}
		if existing != nil {
			user = existing
			return nil
		}

		created, err := s.usersRepo.CreateUser(ctx, authProvider, authProviderID, email)
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		user = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("📋 Completed successfully - retrieved/created user with ID: %s", user.ID)
	return user, nil
}
