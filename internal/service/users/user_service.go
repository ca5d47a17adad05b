package users

import (
	"context"
	"errors"

	"github.com/evgall/ticketline/internal/domain"
	"github.com/evgall/ticketline/internal/repository"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type UserUseCase interface {
	Create(ctx context.Context, username, password string) (*domain.User, error)
	Authenticate(ctx context.Context, username, password string) (string, error)
}

type UserService struct {
	repo       repository.UserRepository
	bcryptCost int
	log        *logrus.Logger
}

func NewUserService(repo repository.UserRepository, bcryptCost int, log *logrus.Logger) *UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{repo: repo, bcryptCost: bcryptCost, log: log}
}

func (s *UserService) Create(ctx context.Context, username, password string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.Create(ctx, username, string(hash))
	if err != nil {
		return nil, err
	}
	s.log.WithField("user_id", user.ID).Info("user created")
	return user, nil
}

// Authenticate resolves Basic-auth credentials to a user id. Unknown users
// and wrong passwords collapse into the same error so callers cannot probe
// for usernames.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (string, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}
	return user.ID, nil
}

var _ UserUseCase = (*UserService)(nil)
