package account

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/bkluczynski-zz/node-todo-app/domain/account"
	"github.com/bkluczynski-zz/node-todo-app/modules/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrAccountNotFound is returned when no account matches.
	ErrAccountNotFound = errors.New("account not found")
	// ErrEmailTaken is returned when an account with the email already exists.
	ErrEmailTaken = errors.New("email already registered")
)

// Repository persists accounts and their session tokens.
type Repository interface {
	Migrate(ctx context.Context) error
	Create(ctx context.Context, account *domain.Account) error
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByToken(ctx context.Context, id, access, token string) (*domain.Account, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	AddToken(ctx context.Context, id string, token domain.Token) error
	RemoveToken(ctx context.Context, id, token string) error
}

// NewRepository returns the repository matching the store backend.
func NewRepository(store *database.Store) (Repository, error) {
	switch store.Driver() {
	case database.DriverMongo:
		return NewMongoRepository(store.Mongo()), nil
	case database.DriverSQLite, database.DriverPostgres:
		return NewGormRepository(store.Gorm()), nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", store.Driver())
	}
}

// GormRepository stores accounts in a relational database through GORM.
// Tokens live in their own table.
type GormRepository struct {
	db *gorm.DB
}

var _ Repository = (*GormRepository)(nil)

// NewGormRepository creates a new GormRepository.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// Migrate creates or updates the accounts and account_tokens tables.
func (r *GormRepository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&domain.Account{}, &domain.Token{})
}

// Create inserts an account together with its initial tokens.
func (r *GormRepository) Create(ctx context.Context, account *domain.Account) error {
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

// FindByID finds an account by id.
func (r *GormRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.first(ctx, "id = ?", id)
}

// FindByEmail finds an account by email.
func (r *GormRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.first(ctx, "email = ?", email)
}

// FindByToken finds the account with the given id that holds token for access.
func (r *GormRepository) FindByToken(ctx context.Context, id, access, token string) (*domain.Account, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Token{}).
		Where("account_id = ? AND access = ? AND token = ?", id, access, token).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrAccountNotFound
	}
	return r.FindByID(ctx, id)
}

// EmailExists checks if an account with the given email exists.
func (r *GormRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Account{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AddToken appends a token to the account.
func (r *GormRepository) AddToken(ctx context.Context, id string, token domain.Token) error {
	token.ID = 0
	token.AccountID = id
	return r.db.WithContext(ctx).Create(&token).Error
}

// RemoveToken deletes a token from the account.
func (r *GormRepository) RemoveToken(ctx context.Context, id, token string) error {
	return r.db.WithContext(ctx).
		Where("account_id = ? AND token = ?", id, token).
		Delete(&domain.Token{}).Error
}

func (r *GormRepository) first(ctx context.Context, query string, arg any) (*domain.Account, error) {
	var account domain.Account
	err := r.db.WithContext(ctx).
		Preload("Tokens", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&account, query, arg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}
