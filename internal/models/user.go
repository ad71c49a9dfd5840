package models

import (
	"time"
)

// Auth providers. 하나의 유저가 provider별로 AuthAccount를 하나씩 가진다.
const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
	ProviderKakao  = "kakao"
)

// AuthAccount types
const (
	AccountTypeCredentials = "credentials"
	AccountTypeOAuth       = "oauth"
)

// User represents the users table
// DB: users
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"column:email;size:255;not null;uniqueIndex:users_email_key" json:"email"`
	Username     string    `gorm:"column:username;size:100;not null" json:"username"`
	PasswordHash *string   `gorm:"column:password_hash;size:255" json:"-"` // NULL for OAuth-only accounts
	CreatedAt    time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;not null" json:"updated_at"`

	// Relations
	AuthAccounts []AuthAccount `gorm:"foreignKey:UserID" json:"auth_accounts,omitempty"`
	Tasks        []Task        `gorm:"foreignKey:UserID" json:"tasks,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// AuthAccount links a User to one authentication provider.
// At most one row per (user_id, provider), enforced by the composite unique
// index and by find-or-create semantics in the auth service.
// DB: auth_accounts
type AuthAccount struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	UserID            uint      `gorm:"column:user_id;not null;uniqueIndex:auth_accounts_user_id_provider_key,priority:1" json:"user_id"`
	Provider          string    `gorm:"column:provider;size:20;not null;uniqueIndex:auth_accounts_user_id_provider_key,priority:2" json:"provider"`
	Type              string    `gorm:"column:type;size:20;not null" json:"type"`
	ProviderAccountID string    `gorm:"column:provider_account_id;size:255;not null" json:"provider_account_id"`
	RefreshToken      *string   `gorm:"column:refresh_token;type:text" json:"-"`
	CreatedAt         time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at;not null" json:"updated_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (AuthAccount) TableName() string {
	return "auth_accounts"
}
