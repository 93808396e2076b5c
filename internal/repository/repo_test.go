package repository

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/skdm/shopkart/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every session on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, AutoMigrate(db))
	return db
}

type fixtures struct {
	User    models.User
	Address models.Address
	Product models.Product
	Size    models.Size
}

func seedCatalog(t *testing.T, db *gorm.DB) fixtures {
	t.Helper()

	f := fixtures{
		User: models.User{Name: "Asha Verma", Email: "asha@example.com", Mobile: "9876543210", PasswordHash: "x", Role: "user"},
	}
	require.NoError(t, db.Create(&f.User).Error)

	f.Address = models.Address{
		UserID:   f.User.ID,
		Address1: "14 MG Road",
		City:     "Bengaluru",
		State:    "Karnataka",
		Pincode:  "560001",
	}
	require.NoError(t, db.Create(&f.Address).Error)

	cat := models.Category{Name: "Apparel", Slug: "apparel"}
	require.NoError(t, db.Create(&cat).Error)

	f.Product = models.Product{Name: "Linen Kurta", CategoryID: cat.ID, Slug: "linen-kurta", HSN: "6204", TaxRate: 12}
	require.NoError(t, db.Create(&f.Product).Error)

	f.Size = models.Size{
		ProductID:     f.Product.ID,
		Name:          "M",
		Price:         1699,
		DiscountPrice: 1499.50,
		Stock:         10,
		Length:        30,
		Width:         25,
		Height:        4,
		Weight:        0.5,
	}
	require.NoError(t, db.Create(&f.Size).Error)

	return f
}

func seedOrder(t *testing.T, db *gorm.DB, f fixtures, qty uint) *models.Order {
	t.Helper()

	repo := NewOrderRepo(db)
	order := models.Order{
		UserID:        f.User.ID,
		AddressID:     f.Address.ID,
		Subtotal:      1499.50,
		Tax:           180,
		Shipping:      49,
		Total:         1499.50,
		GrandTotal:    1728.50,
		PaymentMode:   "phonepe",
		PaymentStatus: models.PaymentStatusUnpaid,
		Status:        models.OrderStatusPending,
		Items: []models.OrderProduct{
			{ProductID: f.Product.ID, SizeID: f.Size.ID, Quantity: qty},
		},
	}
	require.NoError(t, repo.CreateOrder(context.Background(), &order))
	return &order
}

func strPtr(s string) *string { return &s }
