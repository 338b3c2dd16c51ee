package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type AidCategory string

const (
	AidFood      AidCategory = "FOOD"
	AidMedicine  AidCategory = "MEDICINE"
	AidClothing  AidCategory = "CLOTHING"
	AidFinancial AidCategory = "FINANCIAL"
	AidHygiene   AidCategory = "HYGIENE"
	AidSchool    AidCategory = "SCHOOL"
	AidOther     AidCategory = "OTHER"
)

var AidCategories = []AidCategory{AidFood, AidMedicine, AidClothing, AidFinancial, AidHygiene, AidSchool, AidOther}

func ParseAidCategory(s string) (AidCategory, error) {
	for _, c := range AidCategories {
		if strings.EqualFold(strings.TrimSpace(s), string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown aid category %q", s)
}

type AidType struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Category        AidCategory      `json:"category,omitempty"`
	Description     string           `json:"description,omitempty"`
	Unit            string           `json:"unit,omitempty"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	Active          bool             `json:"active"`
	DefaultQuantity int              `json:"defaultQuantity,omitempty"`
	Icon            string           `json:"icon,omitempty"`
	CreatedAt       *time.Time       `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time       `json:"updatedAt,omitempty"`
}

type AidTypeRequest struct {
	Name            string           `json:"name"`
	Category        AidCategory      `json:"category,omitempty"`
	Description     string           `json:"description,omitempty"`
	Unit            string           `json:"unit,omitempty"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	Active          *bool            `json:"active,omitempty"`
	DefaultQuantity int              `json:"defaultQuantity,omitempty"`
	Icon            string           `json:"icon,omitempty"`
}

// DefaultAidTypes is the catalogue installed on an empty database.
func DefaultAidTypes() []AidTypeRequest {
	return []AidTypeRequest{
		{Name: "Colis alimentaire", Category: AidFood, Description: "Panier de denrées alimentaires de base", Unit: "kg", DefaultQuantity: 1, Icon: "food"},
		{Name: "Médicaments génériques", Category: AidMedicine, Description: "Médicaments de première nécessité", Unit: "boîte", DefaultQuantity: 1, Icon: "medicine"},
		{Name: "Vêtements", Category: AidClothing, Description: "Vêtements pour adultes et enfants", Unit: "pièce", DefaultQuantity: 5, Icon: "clothing"},
		{Name: "Aide financière", Category: AidFinancial, Description: "Aide monétaire ponctuelle", Unit: "DT", DefaultQuantity: 100, Icon: "money"},
		{Name: "Kit hygiène", Category: AidHygiene, Description: "Produits d'hygiène personnelle", Unit: "kit", DefaultQuantity: 1, Icon: "hygiene"},
		{Name: "Fournitures scolaires", Category: AidSchool, Description: "Cahiers, stylos, cartables", Unit: "kit", DefaultQuantity: 1, Icon: "school"},
	}
}
