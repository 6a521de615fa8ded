package seeders

import (
	"github.com/teleshop-app/teleshop/app/services"
)

// DefaultCategoryTree is the authoritative source tree the synchronization
// runs against. Sibling order here becomes the persisted position.
var DefaultCategoryTree = []services.SyncSourceNode{
	{
		Slug: "electronics", Name: "Electronics", Icon: "📱",
		Children: []services.SyncSourceNode{
			{Slug: "phones", Name: "Phones & Tablets", Icon: "📞",
				Children: []services.SyncSourceNode{
					{Slug: "smartphones", Name: "Smartphones"},
					{Slug: "tablets", Name: "Tablets"},
					{Slug: "phone-accessories", Name: "Phone Accessories"},
				},
			},
			{Slug: "computers", Name: "Computers", Icon: "💻",
				Children: []services.SyncSourceNode{
					{Slug: "laptops", Name: "Laptops"},
					{Slug: "desktops", Name: "Desktops"},
					{Slug: "computer-parts", Name: "Components"},
				},
			},
			{Slug: "audio", Name: "Audio", Icon: "🎧"},
		},
	},
	{
		Slug: "fashion", Name: "Fashion", Icon: "👗",
		Children: []services.SyncSourceNode{
			{Slug: "womens-clothing", Name: "Women's Clothing"},
			{Slug: "mens-clothing", Name: "Men's Clothing"},
			{Slug: "shoes", Name: "Shoes", Icon: "👟"},
			{Slug: "accessories", Name: "Accessories"},
		},
	},
	{
		Slug: "home-garden", Name: "Home & Garden", Icon: "🏠",
		Children: []services.SyncSourceNode{
			{Slug: "furniture", Name: "Furniture"},
			{Slug: "kitchen", Name: "Kitchen"},
			{Slug: "garden", Name: "Garden"},
		},
	},
	{
		Slug: "beauty-health", Name: "Beauty & Health", Icon: "💄",
		Children: []services.SyncSourceNode{
			{Slug: "cosmetics", Name: "Cosmetics"},
			{Slug: "skincare", Name: "Skincare"},
		},
	},
	{Slug: "food", Name: "Food & Drinks", Icon: "🍎"},
	{Slug: "handmade", Name: "Handmade", Icon: "🧶"},
	{Slug: "other", Name: "Other"},
}
