package account

import (
	"context"
	"errors"
	"time"

	domain "github.com/bkluczynski-zz/node-todo-app/domain/account"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const accountsCollection = "accounts"

// MongoRepository stores accounts as documents with embedded tokens.
type MongoRepository struct {
	coll *mongo.Collection
}

var _ Repository = (*MongoRepository)(nil)

// NewMongoRepository creates a new MongoRepository on the accounts collection.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(accountsCollection)}
}

// Migrate ensures the unique email index exists.
func (r *MongoRepository) Migrate(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Create inserts an account document.
func (r *MongoRepository) Create(ctx context.Context, account *domain.Account) error {
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	if account.Tokens == nil {
		account.Tokens = []domain.Token{}
	}
	now := time.Now()
	account.CreatedAt, account.UpdatedAt = now, now

	if _, err := r.coll.InsertOne(ctx, account); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

// FindByID finds an account by id.
func (r *MongoRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

// FindByEmail finds an account by email.
func (r *MongoRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

// FindByToken finds the account with the given id that holds token for access.
func (r *MongoRepository) FindByToken(ctx context.Context, id, access, token string) (*domain.Account, error) {
	return r.findOne(ctx, bson.D{
		{Key: "_id", Value: id},
		{Key: "tokens", Value: bson.D{{Key: "$elemMatch", Value: bson.D{
			{Key: "access", Value: access},
			{Key: "token", Value: token},
		}}}},
	})
}

// EmailExists checks if an account with the given email exists.
func (r *MongoRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	count, err := r.coll.CountDocuments(ctx, bson.D{{Key: "email", Value: email}}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AddToken pushes a token onto the account's token list.
func (r *MongoRepository) AddToken(ctx context.Context, id string, token domain.Token) error {
	return r.updateOne(ctx, id, bson.D{
		{Key: "$push", Value: bson.D{{Key: "tokens", Value: token}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: time.Now()}}},
	})
}

// RemoveToken pulls a token from the account's token list.
func (r *MongoRepository) RemoveToken(ctx context.Context, id, token string) error {
	return r.updateOne(ctx, id, bson.D{
		{Key: "$pull", Value: bson.D{{Key: "tokens", Value: bson.D{{Key: "token", Value: token}}}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: time.Now()}}},
	})
}

func (r *MongoRepository) updateOne(ctx context.Context, id string, update bson.D) error {
	result, err := r.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: id}}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.D) (*domain.Account, error) {
	var account domain.Account
	if err := r.coll.FindOne(ctx, filter).Decode(&account); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}
