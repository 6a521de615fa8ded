package fakers

import (
	"math"
	"math/rand"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"github.com/teleshop-app/teleshop/app/models"
	"gorm.io/gorm"
)

func ProductFaker(db *gorm.DB, shop *models.Shop) (*models.Product, error) {
	name := faker.Word() + " " + faker.Word()

	productID := uuid.New().String()
	slugText := slug.Make(name + "-" + uuid.NewString()[:6])

	imagePaths := []string{
		"/images/products/demo1.jpg",
		"/images/products/demo2.jpg",
		"/images/products/demo3.jpg",
	}

	numImages := rand.Intn(3) + 1
	productImages := make([]models.ProductImage, numImages)

	for i := 0; i < numImages; i++ {
		productImages[i] = models.ProductImage{
			ID:        uuid.New().String(),
			ProductID: productID,
			Path:      imagePaths[rand.Intn(len(imagePaths))],
			Position:  i,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
	}

	product := &models.Product{
		ID:            productID,
		ShopID:        shop.ID,
		Name:          name,
		Slug:          slugText,
		Description:   faker.Paragraph(),
		Price:         decimal.NewFromFloat(fakePrice()),
		Stock:         rand.Intn(20) + 1,
		Active:        true,
		ProductImages: productImages,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := db.Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func fakePrice() float64 {
	return precision(rand.Float64()*math.Pow10(rand.Intn(5)+2), 2)
}

func precision(val float64, pre int) float64 {
	a := math.Pow10(pre)
	return float64(int(val*a)) / a
}
