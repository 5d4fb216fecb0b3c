package foodlabel_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/petpal/pkg/service/foodlabel"
)

const sampleLabel = `SALMON PATE
Ingredients: Salmon, Water Sufficient For Processing, Liver,
Guar Gum; Minerals, Vitamin E Supplement.
Guaranteed Analysis: Crude Protein, Min. 10.0% Crude Fat, Min. 5.5% Crude Fiber, Max. 1.0% Moisture, Max. 78.0%
Calorie Content (calculated): 1,050 kcal ME/kg; 90 kcal ME/can
AAFCO Statement: Animal feeding tests using AAFCO procedures substantiate that Ocean Salmon
Pate provides complete and balanced nutrition for adult maintenance.`

func TestParseLabel(t *testing.T) {
	t.Run("extracts every known field", func(t *testing.T) {
		label := foodlabel.ParseLabel(sampleLabel)

		gt.Value(t, label.ProductName).Equal("Ocean Salmon Pate")
		gt.Value(t, label.Analysis.CrudeProtein).Equal("10.0%")
		gt.Value(t, label.Analysis.CrudeFat).Equal("5.5%")
		gt.Value(t, label.Analysis.Moisture).Equal("78.0%")
		gt.Value(t, label.KcalPerKg).NotNil().Required()
		gt.Value(t, *label.KcalPerKg).Equal(1050.0)
		gt.Value(t, label.KcalPerUnit).Equal("90 kcal ME/can")
		gt.Array(t, label.Ingredients).Length(6).Required()
		gt.Value(t, label.Ingredients[0]).Equal("Salmon")
		gt.Value(t, label.Ingredients[2]).Equal("Liver")
		gt.Value(t, label.Ingredients[5]).Equal("Vitamin E Supplement")
		gt.Bool(t, label.HasIngredients()).True()
	})

	t.Run("missing sections stay empty", func(t *testing.T) {
		label := foodlabel.ParseLabel("Crude Protein, Min. 30%")

		gt.Value(t, label.ProductName).Equal("")
		gt.Value(t, label.Analysis.CrudeProtein).Equal("30%")
		gt.Value(t, label.KcalPerKg).Nil()
		gt.Bool(t, label.HasIngredients()).False()
	})

	t.Run("kcal per unit is optional", func(t *testing.T) {
		label := foodlabel.ParseLabel("Calorie Content (calculated): 3500 kcal ME/kg")

		gt.Value(t, *label.KcalPerKg).Equal(3500.0)
		gt.Value(t, label.KcalPerUnit).Equal("")
	})
}
