package database

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"petstore/internal/domain"
	"petstore/pkg/utils"
)

// Seed populates an empty store with the default admin account and a starter
// catalog. Safe to run on every boot: each block is skipped once rows exist.
func Seed(db *gorm.DB, l *zap.Logger) error {
	var admins int64
	if err := db.Model(&domain.User{}).Where("role = ?", domain.RoleAdmin).Count(&admins).Error; err != nil {
		return err
	}
	if admins == 0 {
		admin := domain.User{
			Username:     "admin",
			Email:        "adminpetstore@gmail.com",
			PasswordHash: utils.HashPassword("AdminPetStore123"),
			FullName:     "Pet Store Administrator",
			PhoneNumber:  "555-ADMIN",
			Role:         domain.RoleAdmin,
		}
		if err := db.Create(&admin).Error; err != nil {
			return err
		}
		l.Info("seeded admin user", zap.String("email", admin.Email))
	}

	var categories int64
	if err := db.Model(&domain.Category{}).Count(&categories).Error; err != nil {
		return err
	}
	if categories == 0 {
		cats := []domain.Category{
			{Name: "Dogs", Description: "Puppies and adult dogs of popular breeds"},
			{Name: "Cats", Description: "Kittens and adult cats"},
			{Name: "Birds", Description: "Parrots, canaries and other companion birds"},
			{Name: "Fish", Description: "Freshwater aquarium fish"},
		}
		if err := db.Create(&cats).Error; err != nil {
			return err
		}

		products := []domain.Product{
			{
				Name: "Golden Retriever Puppy", CategoryID: cats[0].ID, Breed: "Golden Retriever",
				AgeInMonths: 3, WeightInKg: decimal.NewFromFloat(4.5), Price: decimal.NewFromFloat(850.00),
				Gender: "Male", Color: "Golden", HealthInfo: "Vaccinated, Dewormed",
				Description: "Friendly and playful family puppy", Stock: 3,
			},
			{
				Name: "Siamese Kitten", CategoryID: cats[1].ID, Breed: "Siamese",
				AgeInMonths: 2, WeightInKg: decimal.NewFromFloat(1.2), Price: decimal.NewFromFloat(350.00),
				Gender: "Female", Color: "Cream", HealthInfo: "Vaccinated",
				Description: "Curious and vocal kitten", Stock: 2,
			},
			{
				Name: "Cockatiel", CategoryID: cats[2].ID, Breed: "Cockatiel",
				AgeInMonths: 6, WeightInKg: decimal.NewFromFloat(0.1), Price: decimal.NewFromFloat(120.00),
				Gender: "Male", Color: "Grey", HealthInfo: "Health checked",
				Description: "Hand-tamed and whistles back", Stock: 5,
			},
			{
				Name: "Betta Fish", CategoryID: cats[3].ID, Breed: "Betta",
				AgeInMonths: 4, WeightInKg: decimal.NewFromFloat(0.01), Price: decimal.NewFromFloat(25.00),
				Gender: "Male", Color: "Blue", HealthInfo: "Quarantined on arrival",
				Description: "Vivid halfmoon betta", Stock: 10,
			},
		}
		if err := db.Create(&products).Error; err != nil {
			return err
		}
		l.Info("seeded starter catalog",
			zap.Int("categories", len(cats)),
			zap.Int("products", len(products)),
		)
	}
	return nil
}
