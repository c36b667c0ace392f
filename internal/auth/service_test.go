package auth

import (
	"errors"
	"testing"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"learnify/internal/models"
)

type fakeUsers struct {
	byUsername map[string]*models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byUsername: make(map[string]*models.User)}
}

func (f *fakeUsers) GetUserByUsername(username string) (*models.User, error) {
	if u, ok := f.byUsername[username]; ok {
		return u, nil
	}
	return nil, errors.New("record not found")
}

func (f *fakeUsers) CreateUser(user *models.User) error {
	if _, ok := f.byUsername[user.Username]; ok {
		return models.ErrUserExists
	}
	user.ID = uint(len(f.byUsername) + 1)
	f.byUsername[user.Username] = user
	return nil
}

func TestRegisterHashesPasswordAndDefaultsRole(t *testing.T) {
	repo := newFakeUsers()
	svc := NewService(repo, "secret")

	user := &models.User{Username: "alice", Email: "a@example.com", Password: "hunter2hunter2"}
	if err := svc.Register(user); err != nil {
		t.Fatalf("register: %v", err)
	}

	if user.Password == "hunter2hunter2" {
		t.Fatalf("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("hunter2hunter2")); err != nil {
		t.Fatalf("hash does not verify: %v", err)
	}
	if user.Role != models.RoleStudent {
		t.Fatalf("role = %s, want student", user.Role)
	}
}

func TestLoginIssuesTokenWithRole(t *testing.T) {
	repo := newFakeUsers()
	svc := NewService(repo, "secret")

	user := &models.User{Username: "bob", Email: "b@example.com", Password: "hunter2hunter2", Role: models.RoleInstructor}
	if err := svc.Register(user); err != nil {
		t.Fatalf("register: %v", err)
	}

	tokenString, err := svc.Login("bob", "hunter2hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	token, err := jwt.Parse(tokenString, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("parse token: %v", err)
	}

	claims := token.Claims.(jwt.MapClaims)
	if claims["username"] != "bob" {
		t.Fatalf("username claim = %v", claims["username"])
	}
	if claims["role"] != string(models.RoleInstructor) {
		t.Fatalf("role claim = %v", claims["role"])
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	repo := newFakeUsers()
	svc := NewService(repo, "secret")

	user := &models.User{Username: "carol", Email: "c@example.com", Password: "hunter2hunter2"}
	if err := svc.Register(user); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Login("carol", "wrong-password"); err == nil {
		t.Fatalf("expected login to fail")
	}
	if _, err := svc.Login("nobody", "hunter2hunter2"); err == nil {
		t.Fatalf("expected unknown user to fail")
	}
}
