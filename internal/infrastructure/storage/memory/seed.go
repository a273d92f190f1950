package memory

import (
	"time"

	"github.com/EthanNaitwe/KampalaGrocery/domain"
)

// Sample catalog served while no admin has populated the store.

func seedCategories() []domain.Category {
	now := time.Now()
	return []domain.Category{
		{ID: 1, Name: "Fresh Produce", Icon: "🥬", CreatedAt: now},
		{ID: 2, Name: "Dairy & Eggs", Icon: "🥛", CreatedAt: now},
		{ID: 3, Name: "Meat & Poultry", Icon: "🥩", CreatedAt: now},
		{ID: 4, Name: "Bakery", Icon: "🍞", CreatedAt: now},
	}
}

func seedProducts() []domain.Product {
	now := time.Now()
	return []domain.Product{
		{
			ID:          1,
			Name:        "Fresh Tomatoes",
			Description: "Locally grown fresh tomatoes",
			Price:       "2500",
			Image:       "https://images.unsplash.com/photo-1546470427-e13b5da90cc4?w=400",
			CategoryID:  1,
			InStock:     true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          2,
			Name:        "Organic Bananas",
			Description: "Sweet organic bananas",
			Price:       "3000",
			Image:       "https://images.unsplash.com/photo-1543218024-57a70143c369?w=400",
			CategoryID:  1,
			InStock:     true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          3,
			Name:        "Fresh Milk",
			Description: "Farm fresh milk",
			Price:       "4500",
			Image:       "https://images.unsplash.com/photo-1550583724-b2692b85b150?w=400",
			CategoryID:  2,
			InStock:     true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          4,
			Name:        "Free Range Eggs",
			Description: "Free range chicken eggs",
			Price:       "8000",
			Image:       "https://images.unsplash.com/photo-1582722872445-44dc5f7e3c8f?w=400",
			CategoryID:  2,
			InStock:     true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          5,
			Name:        "Chicken Breast",
			Description: "Fresh chicken breast",
			Price:       "15000",
			Image:       "https://images.unsplash.com/photo-1604503468506-a8da13d82791?w=400",
			CategoryID:  3,
			InStock:     true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          6,
			Name:        "White Bread",
			Description: "Fresh baked white bread",
			Price:       "2000",
			Image:       "https://images.unsplash.com/photo-1509440159596-0249088772ff?w=400",
			CategoryID:  4,
			InStock:     true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}
