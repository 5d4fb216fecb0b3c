package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/petpal/pkg/domain/model"
)

func TestFoodLabel_ToDocument(t *testing.T) {
	label := &model.FoodLabel{
		ProductName: "Chicken Feast",
		Analysis:    model.GuaranteedAnalysis{CrudeProtein: "10%", Moisture: "78%"},
		Ingredients: []string{"Chicken", "Water", "Liver"},
	}
	gt.B(t, label.HasIngredients()).True()

	doc := label.ToDocument()
	gt.B(t, doc.ID != "").True()
	gt.Value(t, doc.Content).Equal("Product Name: Chicken Feast\nIngredients: Chicken, Water, Liver\nAnalysis: {crude_protein: 10%, moisture: 78%}")
	gt.Value(t, doc.Metadata["product_name"]).Equal("Chicken Feast")
}

func TestFoodLabel_HasIngredients(t *testing.T) {
	gt.B(t, (&model.FoodLabel{ProductName: "x"}).HasIngredients()).False()
}
