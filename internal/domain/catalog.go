package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:50;not null" json:"name"`
	Description string `gorm:"size:500" json:"description"`
}

func (Category) TableName() string { return "categories" }

type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:100;not null" json:"name"`
	CategoryID  uint            `gorm:"index;not null" json:"categoryId"`
	Category    *Category       `json:"category,omitempty"`
	Breed       string          `gorm:"size:50;not null" json:"breed"`
	AgeInMonths int             `gorm:"not null" json:"ageInMonths"`
	WeightInKg  decimal.Decimal `gorm:"type:decimal(6,2)" json:"weightInKg"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Gender      string          `gorm:"size:10" json:"gender"` // Male / Female
	Color       string          `gorm:"size:30" json:"color"`
	HealthInfo  string          `gorm:"size:200;not null" json:"healthInfo"` // vaccinated, dewormed, etc.
	Description string          `gorm:"size:1000" json:"description"`
	ImageURL    string          `gorm:"size:500" json:"imageUrl"`
	Stock       int             `gorm:"not null;default:1" json:"stock"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func (Product) TableName() string { return "products" }

// ProductFilter narrows admin/catalog listings. Zero values mean "no filter".
type ProductFilter struct {
	Search     string
	CategoryID uint
}

type ProductRepository interface {
	Create(ctx context.Context, p *Product) error
	FindByID(ctx context.Context, id uint) (*Product, error)
	List(ctx context.Context, f ProductFilter, offset, limit int) ([]Product, int64, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id uint) (bool, error)
	Count(ctx context.Context) (int64, error)
	CountLowStock(ctx context.Context, threshold int) (int64, error)
	Recent(ctx context.Context, limit int) ([]Product, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, c *Category) error
	FindByID(ctx context.Context, id uint) (*Category, error)
	List(ctx context.Context) ([]Category, error)
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id uint) (bool, error)
	HasProducts(ctx context.Context, id uint) (bool, error)
	Count(ctx context.Context) (int64, error)
}
