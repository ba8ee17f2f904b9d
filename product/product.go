// Package product contains the product record returned by the catalog
// lookup and the recipe that accumulates resolved products.
package product

import "unicode/utf8"

const (
	// DefaultString is substituted for absent string fields.
	DefaultString = "Unknown"

	// DefaultNutritionGrade is substituted for an absent nutrition grade.
	DefaultNutritionGrade = "z"

	// ConsolePlaceholder is printed for absent headline fields.
	ConsolePlaceholder = "N/A"

	// RecipePlaceholder is printed for recipe entries without a name.
	RecipePlaceholder = "Unknown Product"

	// MinBarcodeLength is the shortest input treated as a barcode.
	MinBarcodeLength = 8
)

// Product is a catalog record. Every field is optional; nil means the
// catalog did not return it.
type Product struct {
	Code            string
	ProductName     *string
	Categories      *string
	IngredientsText *string
	NutritionGrades *string
	Nutriments      *Nutriments
}

// Nutriments holds the per 100g nutrient values used by the relay.
type Nutriments struct {
	Sugars        *float64
	Fiber         *float64
	EnergyKcal    *float64
	Carbohydrates *float64
	Fat           *float64
	SaturatedFat  *float64
	Proteins      *float64
}

// Fields is a Product with every default applied.
type Fields struct {
	Name           string
	Categories     string
	Ingredients    string
	NutritionGrade string
	Sugars         float64
	Fiber          float64
	EnergyKcal     float64
	Carbohydrates  float64
	Fat            float64
	SaturatedFat   float64
	Proteins       float64
}

// Extract returns the defaulted view of p. It is the only place defaults
// for outgoing data are decided.
func Extract(p *Product) Fields {
	f := Fields{
		Name:           DefaultString,
		Categories:     DefaultString,
		Ingredients:    DefaultString,
		NutritionGrade: DefaultNutritionGrade,
	}
	if p == nil {
		return f
	}

	f.Name = stringOr(p.ProductName, DefaultString)
	f.Categories = stringOr(p.Categories, DefaultString)
	f.Ingredients = stringOr(p.IngredientsText, DefaultString)
	f.NutritionGrade = stringOr(p.NutritionGrades, DefaultNutritionGrade)

	if n := p.Nutriments; n != nil {
		f.Sugars = floatOr(n.Sugars)
		f.Fiber = floatOr(n.Fiber)
		f.EnergyKcal = floatOr(n.EnergyKcal)
		f.Carbohydrates = floatOr(n.Carbohydrates)
		f.Fat = floatOr(n.Fat)
		f.SaturatedFat = floatOr(n.SaturatedFat)
		f.Proteins = floatOr(n.Proteins)
	}

	return f
}

// Headline is the console view of a product.
type Headline struct {
	Name           string
	Categories     string
	Ingredients    string
	NutritionGrade string
}

// HeadlineOf returns the console view of p with ConsolePlaceholder for
// absent fields.
func HeadlineOf(p *Product) Headline {
	if p == nil {
		p = &Product{}
	}
	return Headline{
		Name:           stringOr(p.ProductName, ConsolePlaceholder),
		Categories:     stringOr(p.Categories, ConsolePlaceholder),
		Ingredients:    stringOr(p.IngredientsText, ConsolePlaceholder),
		NutritionGrade: stringOr(p.NutritionGrades, ConsolePlaceholder),
	}
}

// IsBarcode reports whether code is long enough to be looked up.
// Length is counted in characters, not bytes. No checksum is verified.
func IsBarcode(code string) bool {
	return utf8.RuneCountInString(code) >= MinBarcodeLength
}

func stringOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}

func floatOr(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
