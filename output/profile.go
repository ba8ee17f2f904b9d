package output

import (
	"fmt"
	"strings"

	"github.com/hypebeast/go-osc/osc"
	"github.com/observiq/barcode-relay/product"
)

// OSC addresses used for product notifications.
const (
	AddressName           = "/product/name"
	AddressCategories     = "/product/categories"
	AddressIngredients    = "/product/ingredients"
	AddressNutritionGrade = "/product/nutrition_grade"
	AddressSugars         = "/product/nutriments/sugars"
	AddressFibers         = "/product/nutriments/fibers"
	AddressEnergy         = "/product/nutriments/energy"
	AddressCarbohydrates  = "/product/nutriments/carbohydrates"
	AddressFat            = "/product/nutriments/fat"
	AddressSaturatedFat   = "/product/nutriments/saturated_fat"
	AddressProteins       = "/product/nutriments/proteins"
)

// Profile selects which product fields are sent.
type Profile string

const (
	// ProfileFull sends the name, nutrition grade and seven nutriments.
	ProfileFull Profile = "full"
	// ProfileMinimal sends the name, categories, nutrition grade and ingredients.
	ProfileMinimal Profile = "minimal"
)

// ParseProfile parses a profile name, case-insensitively.
func ParseProfile(s string) (Profile, error) {
	switch p := Profile(strings.ToLower(strings.TrimSpace(s))); p {
	case ProfileFull, ProfileMinimal:
		return p, nil
	default:
		return "", fmt.Errorf("invalid profile: %q, must be one of: full, minimal", s)
	}
}

// Addresses returns the OSC addresses of the profile in send order.
func (p Profile) Addresses() []string {
	switch p {
	case ProfileFull:
		return []string{
			AddressName,
			AddressNutritionGrade,
			AddressSugars,
			AddressFibers,
			AddressEnergy,
			AddressCarbohydrates,
			AddressFat,
			AddressSaturatedFat,
			AddressProteins,
		}
	case ProfileMinimal:
		return []string{
			AddressName,
			AddressCategories,
			AddressNutritionGrade,
			AddressIngredients,
		}
	default:
		return nil
	}
}

// Messages builds one single-argument message per address of the profile.
// Strings are sent as OSC strings and nutriments as float32.
func (p Profile) Messages(f product.Fields) ([]*osc.Message, error) {
	addresses := p.Addresses()
	if addresses == nil {
		return nil, fmt.Errorf("invalid profile: %q", string(p))
	}

	messages := make([]*osc.Message, 0, len(addresses))
	for _, address := range addresses {
		messages = append(messages, osc.NewMessage(address, fieldValue(address, f)))
	}
	return messages, nil
}

func fieldValue(address string, f product.Fields) any {
	switch address {
	case AddressName:
		return f.Name
	case AddressCategories:
		return f.Categories
	case AddressIngredients:
		return f.Ingredients
	case AddressNutritionGrade:
		return f.NutritionGrade
	case AddressSugars:
		return float32(f.Sugars)
	case AddressFibers:
		return float32(f.Fiber)
	case AddressEnergy:
		return float32(f.EnergyKcal)
	case AddressCarbohydrates:
		return float32(f.Carbohydrates)
	case AddressFat:
		return float32(f.Fat)
	case AddressSaturatedFat:
		return float32(f.SaturatedFat)
	case AddressProteins:
		return float32(f.Proteins)
	default:
		return nil
	}
}
