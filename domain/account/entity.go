package account

import (
	"time"
)

// AccessAuth is the only token purpose accepted by the auth middleware.
const AccessAuth = "auth"

// Account represents a registered user and the session tokens issued to it.
type Account struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id" bson:"_id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email" bson:"email"`
	PasswordHash string    `gorm:"not null" json:"-" bson:"password"`
	Tokens       []Token   `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE" json:"-" bson:"tokens"`
	CreatedAt    time.Time `json:"-" bson:"createdAt"`
	UpdatedAt    time.Time `json:"-" bson:"updatedAt"`
}

// TableName returns the table name for the Account entity.
func (Account) TableName() string {
	return "accounts"
}

// HasToken reports whether the account holds token for the given purpose.
func (a *Account) HasToken(access, token string) bool {
	for _, t := range a.Tokens {
		if t.Access == access && t.Token == token {
			return true
		}
	}
	return false
}

// Public returns the externally visible view of the account.
func (a *Account) Public() Profile {
	return Profile{ID: a.ID, Email: a.Email}
}

// Token is a session token issued to an account. ID and AccountID only exist
// in relational stores; document stores embed tokens in the account.
type Token struct {
	ID        uint   `gorm:"primaryKey" json:"-" bson:"-"`
	AccountID string `gorm:"size:36;index;not null" json:"-" bson:"-"`
	Access    string `gorm:"not null" json:"access" bson:"access"`
	Token     string `gorm:"not null;index" json:"token" bson:"token"`
}

// TableName returns the table name for the Token entity.
func (Token) TableName() string {
	return "account_tokens"
}

// Profile is the public view of an account.
type Profile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Claims is the payload carried by a session token.
type Claims struct {
	AccountID string `json:"_id"`
	Access    string `json:"access"`
}
