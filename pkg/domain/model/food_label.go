package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Document is one retrievable text chunk of the food label knowledge base
type Document struct {
	ID         string
	Content    string
	Metadata   map[string]string
	Similarity float32
}

// GuaranteedAnalysis holds the nutrient percentages printed on a label
type GuaranteedAnalysis struct {
	CrudeProtein string `json:"crude_protein,omitempty"`
	CrudeFat     string `json:"crude_fat,omitempty"`
	Moisture     string `json:"moisture,omitempty"`
}

// String renders the analysis in a compact key: value form
func (g GuaranteedAnalysis) String() string {
	var parts []string
	if g.CrudeProtein != "" {
		parts = append(parts, "crude_protein: "+g.CrudeProtein)
	}
	if g.CrudeFat != "" {
		parts = append(parts, "crude_fat: "+g.CrudeFat)
	}
	if g.Moisture != "" {
		parts = append(parts, "moisture: "+g.Moisture)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// FoodLabel is the structured record extracted from a scanned pet food label
type FoodLabel struct {
	ProductName string             `json:"product_name,omitempty"`
	Analysis    GuaranteedAnalysis `json:"guaranteed_analysis"`
	Ingredients []string           `json:"ingredients,omitempty"`
	KcalPerKg   *float64           `json:"kcal_per_kg,omitempty"`
	KcalPerUnit string             `json:"kcal_per_unit,omitempty"`
}

// HasIngredients reports whether the label is rich enough to be indexed
func (l *FoodLabel) HasIngredients() bool {
	return len(l.Ingredients) > 0
}

// ToDocument converts the label into a retrievable document
func (l *FoodLabel) ToDocument() Document {
	content := fmt.Sprintf("Product Name: %s\nIngredients: %s\nAnalysis: %s",
		l.ProductName,
		strings.Join(l.Ingredients, ", "),
		l.Analysis.String(),
	)
	return Document{
		ID:      uuid.Must(uuid.NewV7()).String(),
		Content: content,
		Metadata: map[string]string{
			"product_name": l.ProductName,
		},
	}
}
