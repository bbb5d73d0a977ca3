package domain

import (
	"context"
	"time"
)

const (
	RoleCustomer = "Customer"
	RoleAdmin    = "Admin"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;size:191;not null" json:"email"`
	PasswordHash string    `gorm:"size:191;not null" json:"-"`
	FullName     string    `gorm:"size:100" json:"fullName"`
	PhoneNumber  string    `gorm:"size:20" json:"phoneNumber"`
	Role         string    `gorm:"size:16;not null;default:Customer" json:"role"` // "Customer"/"Admin"
	CreatedAt    time.Time `json:"createdAt"`
}

func (User) TableName() string { return "users" }

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	// FindByLogin matches username or email, the single login field.
	FindByLogin(ctx context.Context, login string) (*User, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*User, error)
	List(ctx context.Context, search, role string, offset, limit int) ([]User, int64, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id uint) (bool, error)
	Count(ctx context.Context) (int64, error)
}
