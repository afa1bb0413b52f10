package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ayazfazlani/rent-ghar-sub000/internal/auth"
	"github.com/ayazfazlani/rent-ghar-sub000/internal/db"
	"github.com/ayazfazlani/rent-ghar-sub000/internal/models"
)

// IUserService defines the interface for account operations.
type IUserService interface {
	Register(ctx context.Context, email, password, name string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}

const usersCollection = "users"

type userService struct {
	db *mongo.Database
}

// NewUserService creates a new UserService.
func NewUserService(database *mongo.Database) IUserService {
	return &userService{db: database}
}

// Register creates an account with a bcrypt-hashed password.
func (s *userService) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           primitive.NewObjectID(),
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(name),
		IsAdmin:      false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = s.db.Collection(usersCollection).InsertOne(ctx, user)
	if err != nil {
		if db.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("account %q %w", email, ErrConflict)
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return user, nil
}

// Authenticate verifies an email/password pair. A missing account and a
// wrong password are indistinguishable to the caller.
func (s *userService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	err := s.db.Collection(usersCollection).FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("account %w", ErrNotFound)
		}
		return nil, fmt.Errorf("error finding user %q: %w", email, err)
	}

	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return nil, fmt.Errorf("account %w", ErrNotFound)
	}
	return &user, nil
}

// FindByID returns the account with the given hex id.
func (s *userService) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed user id %q", ErrInvalidInput, id)
	}

	var user models.User
	err = s.db.Collection(usersCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user %s %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("error finding user %s: %w", id, err)
	}
	return &user, nil
}
