package models

// Category is one of the fixed business-topic tags assigned to an article.
// The raw database values use the full display strings, ampersands included.
type Category string

const (
	CategoryAI         Category = "AI"
	CategoryFinance    Category = "Finance & Accounting"
	CategoryMarketing  Category = "Content Creation & Marketing"
	CategoryBranding   Category = "Personal Branding & Thought Leadership"
	CategoryOperations Category = "Operations & Productivity"
	CategorySales      Category = "Sales & Customer Relations"
	CategoryEcommerce  Category = "E-commerce & Retail"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryAI,
	CategoryFinance,
	CategoryMarketing,
	CategoryBranding,
	CategoryOperations,
	CategorySales,
	CategoryEcommerce,
}

// ValidCategories allows O(1) membership checks during validation.
var ValidCategories = func() map[Category]bool {
	m := make(map[Category]bool, len(Categories))
	for _, c := range Categories {
		m[c] = true
	}
	return m
}()

var defaultImages = map[Category]string{
	CategoryAI:         "https://images.pexels.com/photos/8386440/pexels-photo-8386440.jpeg?auto=compress&cs=tinysrgb&w=800",
	CategoryFinance:    "https://images.pexels.com/photos/6801648/pexels-photo-6801648.jpeg?auto=compress&cs=tinysrgb&w=800",
	CategoryMarketing:  "https://images.pexels.com/photos/7688336/pexels-photo-7688336.jpeg?auto=compress&cs=tinysrgb&w=800",
	CategoryBranding:   "https://images.pexels.com/photos/3184360/pexels-photo-3184360.jpeg?auto=compress&cs=tinysrgb&w=800",
	CategoryOperations: "https://images.pexels.com/photos/3184465/pexels-photo-3184465.jpeg?auto=compress&cs=tinysrgb&w=800",
	CategorySales:      "https://images.pexels.com/photos/3184292/pexels-photo-3184292.jpeg?auto=compress&cs=tinysrgb&w=800",
	CategoryEcommerce:  "https://images.pexels.com/photos/230544/pexels-photo-230544.jpeg?auto=compress&cs=tinysrgb&w=800",
}

// DefaultImageForCategory returns the stock image used when an article is
// created without an explicit image_url. Unknown categories fall back to the
// AI image.
func DefaultImageForCategory(c Category) string {
	if url, ok := defaultImages[c]; ok {
		return url
	}
	return defaultImages[CategoryAI]
}
