package auth

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"learnify/internal/models"
)

const tokenLifetime = 24 * time.Hour

// Users is the persistence surface the auth service needs.
type Users interface {
	GetUserByUsername(username string) (*models.User, error)
	CreateUser(user *models.User) error
}

type Service struct {
	repo      Users
	jwtSecret []byte
}

func NewService(repo Users, jwtSecret string) *Service {
	return &Service{
		repo:      repo,
		jwtSecret: []byte(jwtSecret),
	}
}

func (s *Service) Login(username, password string) (string, error) {
	user, err := s.repo.GetUserByUsername(username)
	if err != nil {
		return "", errors.New("user not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", errors.New("invalid password")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     string(user.Role),
		"exp":      time.Now().Add(tokenLifetime).Unix(),
	})

	return token.SignedString(s.jwtSecret)
}

func (s *Service) Register(user *models.User) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if user.Role == "" {
		user.Role = models.RoleStudent
	}
	user.Password = string(hashedPassword)
	return s.repo.CreateUser(user)
}
