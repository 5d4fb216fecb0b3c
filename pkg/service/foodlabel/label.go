package foodlabel

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/secmon-lab/petpal/pkg/domain/model"
)

var (
	productNamePattern = regexp.MustCompile(`(?is)Animal feeding tests using AAFCO procedures substantiate that (.*?) provides complete and balanced nutrition for`)
	proteinPattern     = regexp.MustCompile(`(?i)Crude Protein,\s*Min\.?\s*([\d.]+%)`)
	fatPattern         = regexp.MustCompile(`(?i)Crude Fat,\s*Min\.?\s*([\d.]+%)`)
	moisturePattern    = regexp.MustCompile(`(?i)Moisture,\s*Max\.?\s*([\d.]+%)`)
	caloriePattern     = regexp.MustCompile(`(?i)Calorie Content \(calculated\):\s*([\d.,]+)\s*kcal ME/kg(?:;\s*([\d.,]+)\s*kcal ME/(can|cup|treat))?`)
	ingredientsPattern = regexp.MustCompile(`(?is)(?:Ingredients|Inaredients):\s*(.*?)(?:Guaranteed Analysis:|Calorie Content|DAILY FEEDING GUIDE:|AAFCO Statement:|$)`)
	ingredientSplit    = regexp.MustCompile(`[,;]`)
)

// ParseLabel extracts structured data from OCR text of a pet food label.
// Fields that cannot be found are left empty.
func ParseLabel(raw string) model.FoodLabel {
	var label model.FoodLabel

	if m := productNamePattern.FindStringSubmatch(raw); m != nil {
		label.ProductName = strings.Join(strings.Fields(m[1]), " ")
	}
	if m := proteinPattern.FindStringSubmatch(raw); m != nil {
		label.Analysis.CrudeProtein = m[1]
	}
	if m := fatPattern.FindStringSubmatch(raw); m != nil {
		label.Analysis.CrudeFat = m[1]
	}
	if m := moisturePattern.FindStringSubmatch(raw); m != nil {
		label.Analysis.Moisture = m[1]
	}

	if m := caloriePattern.FindStringSubmatch(raw); m != nil {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil {
			label.KcalPerKg = &v
		}
		if m[2] != "" {
			label.KcalPerUnit = m[2] + " kcal ME/" + strings.ToLower(m[3])
		}
	}

	if m := ingredientsPattern.FindStringSubmatch(raw); m != nil {
		body := strings.ReplaceAll(m[1], ":", "")
		for _, item := range ingredientSplit.Split(body, -1) {
			item = strings.Join(strings.Fields(item), " ")
			item = strings.TrimSuffix(item, ".")
			if item != "" {
				label.Ingredients = append(label.Ingredients, item)
			}
		}
	}

	return label
}
