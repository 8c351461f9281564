package main

import (
	"log"

	"freshmart/internal/domain/model"
	"freshmart/internal/infra/db"
	auth "freshmart/internal/usecase/auth"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 開発用の初期データ投入。
// 既にデータがある場合は何もしない（再実行しても安全）。
func main() {
	_ = godotenv.Load()

	gormDB, err := db.Connect()
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	if err := seedAdmin(gormDB); err != nil {
		log.Fatalf("seed admin: %v", err)
	}
	if err := seedProducts(gormDB); err != nil {
		log.Fatalf("seed products: %v", err)
	}

	log.Println("seed done")
}

func seedAdmin(gormDB *gorm.DB) error {
	var count int64
	if err := gormDB.Model(&model.User{}).Where("email = ?", "admin@example.com").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hasher := auth.NewBcryptPasswordHasher(12)
	hash, err := hasher.Hash("admin123")
	if err != nil {
		return err
	}

	admin := model.User{
		FirstName:    "Admin",
		LastName:     "User",
		Email:        "admin@example.com",
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}
	if err := gormDB.Create(&admin).Error; err != nil {
		return err
	}

	log.Println("created admin@example.com")
	return nil
}

func seedProducts(gormDB *gorm.DB) error {
	var count int64
	if err := gormDB.Model(&model.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	samples := []model.Product{
		{
			Name:        "Bananas (1kg)",
			Price:       decimal.RequireFromString("1.49"),
			Stock:       30,
			Category:    "Fruit",
			Description: "Fresh bananas by the kilogram",
			ImageURL:    "https://images.unsplash.com/photo-1571771894821-ce9b6c11b08e",
		},
		{
			Name:        "Milk 1L",
			Price:       decimal.RequireFromString("0.99"),
			Stock:       50,
			Category:    "Dairy",
			Description: "Whole milk 1 liter",
			ImageURL:    "https://images.unsplash.com/photo-1582719478250-c89cae4dc85b",
		},
		{
			Name:        "Whole grain bread",
			Price:       decimal.RequireFromString("1.79"),
			Stock:       20,
			Category:    "Bakery",
			Description: "Baked this morning",
			ImageURL:    "https://images.unsplash.com/photo-1542838132-92c53300491e",
		},
	}

	if err := gormDB.Create(&samples).Error; err != nil {
		return err
	}

	log.Printf("created %d sample products", len(samples))
	return nil
}
