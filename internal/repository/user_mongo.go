package repository

import (
	"context"

	"github.com/pullstory/api/internal/apperr"
	"github.com/pullstory/api/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserMongo reads stored credentials from the "users" collection. Writing
// users (signup, token storage, encryption at rest) belongs to the auth
// service; this API only resolves tokens.
type UserMongo struct {
	col *mongo.Collection
}

// NewUserRepository returns a UserMongo over the "users" collection.
func NewUserRepository(db *mongo.Database) *UserMongo {
	return &UserMongo{col: db.Collection("users")}
}

// GitHubToken returns the stored token for userID. NotFound when the user
// does not exist or has no token on file.
func (r *UserMongo) GitHubToken(ctx context.Context, userID string) (string, error) {
	var u models.User
	err := r.col.FindOne(ctx, bson.M{"_id": userID}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return "", apperr.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if u.GitHubToken == "" {
		return "", apperr.ErrNotFound
	}
	return u.GitHubToken, nil
}
