// Copyright (c) 2026 ShopIt. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taibuivan/shopit/internal/platform/apperr"
	"github.com/taibuivan/shopit/internal/platform/dberr"
	"github.com/taibuivan/shopit/internal/platform/sec"
)

// UsersCollection is the MongoDB collection holding user documents.
const UsersCollection = "users"

// Document field names.
const (
	docID          = "_id"
	docName        = "name"
	docEmail       = "email"
	docPassword    = "password"
	docRole        = "role"
	docAvatar      = "avatar"
	docResetToken  = "resetPasswordToken"
	docResetExpire = "resetPasswordExpire"
	docCreatedAt   = "createdAt"
	docUpdatedAt   = "updatedAt"
	emailIndexName = "email_unique"
	resetIndexName = "reset_token_sparse"
)

// secretFields is excluded from every public lookup.
var secretFields = bson.D{
	{Key: docPassword, Value: 0},
	{Key: docResetToken, Value: 0},
	{Key: docResetExpire, Value: 0},
}

type avatarDocument struct {
	PublicID string `bson:"public_id"`
	URL      string `bson:"url"`
}

// userDocument is the stored shape of an account.
type userDocument struct {
	ID                  string         `bson:"_id"`
	Name                string         `bson:"name"`
	Email               string         `bson:"email"`
	PasswordHash        string         `bson:"password,omitempty"`
	Role                string         `bson:"role"`
	Avatar              avatarDocument `bson:"avatar"`
	ResetPasswordToken  string         `bson:"resetPasswordToken,omitempty"`
	ResetPasswordExpire *time.Time     `bson:"resetPasswordExpire,omitempty"`
	CreatedAt           time.Time      `bson:"createdAt"`
	UpdatedAt           time.Time      `bson:"updatedAt"`
}

func (document *userDocument) user() *User {
	return &User{
		ID:        document.ID,
		Name:      document.Name,
		Email:     document.Email,
		Role:      sec.UserRole(document.Role),
		Avatar:    Avatar{PublicID: document.Avatar.PublicID, URL: document.Avatar.URL},
		CreatedAt: document.CreatedAt,
		UpdatedAt: document.UpdatedAt,
	}
}

func (document *userDocument) credentials() *Credentials {
	credentials := &Credentials{User: *document.user(), PasswordHash: document.PasswordHash}
	if document.ResetPasswordToken != "" && document.ResetPasswordExpire != nil {
		credentials.Reset = &PasswordReset{
			TokenHash: document.ResetPasswordToken,
			ExpiresAt: *document.ResetPasswordExpire,
		}
	}
	return credentials
}

// # User Repository

// MongoUserRepository implements the UserRepository interface on a MongoDB collection.
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a MongoDB implementation of the UserRepository.
func NewMongoUserRepository(database *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: database.Collection(UsersCollection)}
}

/*
EnsureIndexes creates the indexes the repository relies on.

Description: The unique email index enforces account uniqueness; the sparse
reset index only covers documents with a pending reset. Creating an existing
index is a no-op.

Parameters:
  - context: context.Context

Returns:
  - error: Index creation failures
*/
func (repository *MongoUserRepository) EnsureIndexes(context context.Context) error {
	_, err := repository.collection.Indexes().CreateMany(context, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: docEmail, Value: 1}},
			Options: options.Index().SetName(emailIndexName).SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: docResetToken, Value: 1}},
			Options: options.Index().SetName(resetIndexName).SetSparse(true),
		},
	})
	if err != nil {
		return fmt.Errorf("mongo_user_repo_ensure_indexes_failed: %w", err)
	}
	return nil
}

// Create inserts a new user document.
func (repository *MongoUserRepository) Create(context context.Context, credentials *Credentials) error {
	document := userDocument{
		ID:           credentials.ID,
		Name:         credentials.Name,
		Email:        credentials.Email,
		PasswordHash: credentials.PasswordHash,
		Role:         string(credentials.Role),
		Avatar:       avatarDocument{PublicID: credentials.Avatar.PublicID, URL: credentials.Avatar.URL},
		CreatedAt:    credentials.CreatedAt,
		UpdatedAt:    credentials.UpdatedAt,
	}

	if _, err := repository.collection.InsertOne(context, document); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict(MsgEmailTaken, err)
		}
		return fmt.Errorf("mongo_user_repo_create_failed: %w", dberr.Wrap(err, nil))
	}
	return nil
}

// FindByID retrieves the public projection of a user by _id.
func (repository *MongoUserRepository) FindByID(context context.Context, id string) (*User, error) {
	return repository.findPublic(context, bson.D{{Key: docID, Value: id}}, "find_by_id")
}

// FindByEmail retrieves the public projection of a user by email.
func (repository *MongoUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.findPublic(context, bson.D{{Key: docEmail, Value: email}}, "find_by_email")
}

// FindCredentialsByID retrieves a user with its secrets by _id.
func (repository *MongoUserRepository) FindCredentialsByID(context context.Context, id string) (*Credentials, error) {
	return repository.findCredentials(context, bson.D{{Key: docID, Value: id}}, "find_credentials_by_id")
}

// FindCredentialsByEmail retrieves a user with its secrets by email.
func (repository *MongoUserRepository) FindCredentialsByEmail(context context.Context, email string) (*Credentials, error) {
	return repository.findCredentials(context, bson.D{{Key: docEmail, Value: email}}, "find_credentials_by_email")
}

// FindByResetToken resolves a pending reset whose expiry is after now.
func (repository *MongoUserRepository) FindByResetToken(context context.Context, tokenHash string, now time.Time) (*Credentials, error) {
	filter := bson.D{
		{Key: docResetToken, Value: tokenHash},
		{Key: docResetExpire, Value: bson.D{{Key: "$gt", Value: now}}},
	}
	return repository.findCredentials(context, filter, "find_by_reset_token")
}

// List returns every account, newest first.
func (repository *MongoUserRepository) List(context context.Context) ([]User, error) {
	findOptions := options.Find().
		SetProjection(secretFields).
		SetSort(bson.D{{Key: docCreatedAt, Value: -1}})

	cursor, err := repository.collection.Find(context, bson.D{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("mongo_user_repo_list_failed: %w", dberr.Wrap(err, nil))
	}

	var documents []userDocument
	if err := cursor.All(context, &documents); err != nil {
		return nil, fmt.Errorf("mongo_user_repo_list_decode_failed: %w", dberr.Wrap(err, nil))
	}

	users := make([]User, 0, len(documents))
	for index := range documents {
		users = append(users, *documents[index].user())
	}
	return users, nil
}

// Update sets the profile fields and returns the document after the update.
func (repository *MongoUserRepository) Update(context context.Context, user *User) (*User, error) {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: docName, Value: user.Name},
		{Key: docEmail, Value: user.Email},
		{Key: docRole, Value: string(user.Role)},
		{Key: docAvatar, Value: avatarDocument{PublicID: user.Avatar.PublicID, URL: user.Avatar.URL}},
		{Key: docUpdatedAt, Value: time.Now().UTC()},
	}}}

	updateOptions := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(secretFields)

	var document userDocument
	err := repository.collection.FindOneAndUpdate(context, bson.D{{Key: docID, Value: user.ID}}, update, updateOptions).Decode(&document)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Conflict(MsgEmailTaken, err)
		}
		return nil, wrapMongoFind(err, "update")
	}
	return document.user(), nil
}

// UpdatePassword sets the hash and unsets the reset pair in one update.
func (repository *MongoUserRepository) UpdatePassword(context context.Context, id, passwordHash string) error {
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: docPassword, Value: passwordHash},
			{Key: docUpdatedAt, Value: time.Now().UTC()},
		}},
		{Key: "$unset", Value: bson.D{
			{Key: docResetToken, Value: ""},
			{Key: docResetExpire, Value: ""},
		}},
	}
	return repository.updateOne(context, id, update, "update_password")
}

// SetPasswordReset writes only the reset pair.
func (repository *MongoUserRepository) SetPasswordReset(context context.Context, id string, reset PasswordReset) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: docResetToken, Value: reset.TokenHash},
		{Key: docResetExpire, Value: reset.ExpiresAt},
	}}}
	return repository.updateOne(context, id, update, "set_password_reset")
}

// ClearPasswordReset unsets only the reset pair.
func (repository *MongoUserRepository) ClearPasswordReset(context context.Context, id string) error {
	update := bson.D{{Key: "$unset", Value: bson.D{
		{Key: docResetToken, Value: ""},
		{Key: docResetExpire, Value: ""},
	}}}
	return repository.updateOne(context, id, update, "clear_password_reset")
}

// Delete removes the document permanently.
func (repository *MongoUserRepository) Delete(context context.Context, id string) error {
	result, err := repository.collection.DeleteOne(context, bson.D{{Key: docID, Value: id}})
	if err != nil {
		return fmt.Errorf("mongo_user_repo_delete_failed: %w", dberr.Wrap(err, nil))
	}
	if result.DeletedCount == 0 {
		return errUserNotFound
	}
	return nil
}

// # Helpers

func (repository *MongoUserRepository) findPublic(context context.Context, filter bson.D, operation string) (*User, error) {
	var document userDocument
	err := repository.collection.FindOne(context, filter, options.FindOne().SetProjection(secretFields)).Decode(&document)
	if err != nil {
		return nil, wrapMongoFind(err, operation)
	}
	return document.user(), nil
}

func (repository *MongoUserRepository) findCredentials(context context.Context, filter bson.D, operation string) (*Credentials, error) {
	var document userDocument
	if err := repository.collection.FindOne(context, filter).Decode(&document); err != nil {
		return nil, wrapMongoFind(err, operation)
	}
	return document.credentials(), nil
}

func (repository *MongoUserRepository) updateOne(context context.Context, id string, update bson.D, operation string) error {
	result, err := repository.collection.UpdateOne(context, bson.D{{Key: docID, Value: id}}, update)
	if err != nil {
		return fmt.Errorf("mongo_user_repo_%s_failed: %w", operation, dberr.Wrap(err, nil))
	}
	if result.MatchedCount == 0 {
		return errUserNotFound
	}
	return nil
}

func wrapMongoFind(err error, operation string) error {
	wrapped := dberr.Wrap(err, errUserNotFound)
	if apperr.IsNotFound(wrapped) {
		return wrapped
	}
	return fmt.Errorf("mongo_user_repo_%s_failed: %w", operation, wrapped)
}
