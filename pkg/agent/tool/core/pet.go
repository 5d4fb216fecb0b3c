package core

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/petpal/pkg/agent/tool"
	"github.com/secmon-lab/petpal/pkg/domain/interfaces"
	"github.com/secmon-lab/petpal/pkg/domain/model"
	"github.com/secmon-lab/petpal/pkg/domain/types"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// BirthDateLayout is the accepted birth_date format (MM/DD/YYYY)
const BirthDateLayout = "01/02/2006"

// createPetTool adds a pet to the caller's account
type createPetTool struct {
	repo interfaces.Repository
}

func (t *createPetTool) Spec() tool.Spec {
	params := make([]string, 0, len(types.AllPetSlots()))
	for _, f := range types.AllPetSlots() {
		params = append(params, f.String())
	}
	return tool.Spec{
		Name:             types.IntentCreatePet,
		Description:      "Add a pet to the user's account",
		Params:           params,
		RequiresIdentity: true,
	}
}

func (t *createPetTool) Run(ctx context.Context, caller model.UserID, req model.IntentRequest) (*model.ActionResult, error) {
	p, ok := req.Params.(model.CreatePetParams)
	if !ok {
		return nil, goerr.New("unexpected params for create_pet", goerr.V("params", req.Params))
	}
	slots := p.Slots

	var missing []string
	for _, f := range types.RequiredPetSlots() {
		if strings.TrimSpace(slots.Get(f)) == "" {
			missing = append(missing, f.String())
		}
	}
	if len(missing) > 0 {
		return model.Declined("⚠️ Missing required pet fields: " + strings.Join(missing, ", ")), nil
	}

	var birthDate *time.Time
	if raw := strings.TrimSpace(slots.BirthDate); raw != "" {
		d, err := time.Parse(BirthDateLayout, raw)
		if err != nil {
			return model.Declined(fmt.Sprintf("⚠️ Invalid date format for birth date: %s. Please use MM/DD/YYYY.", raw)), nil
		}
		birthDate = &d
	}

	var weight *float64
	if raw := strings.TrimSpace(slots.WeightLbs); raw != "" {
		w, err := parseWeight(raw)
		if err != nil {
			return model.Declined(fmt.Sprintf("⚠️ Invalid weight: %s. Please provide the weight in pounds.", raw)), nil
		}
		weight = &w
	}

	owner, err := t.repo.User().Get(ctx, caller)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get pet owner", goerr.V("caller", caller))
	}

	gender := strings.ToLower(strings.TrimSpace(slots.Gender))
	if gender == "" {
		gender = "unknown"
	}

	tool.Update(ctx, "Adding pet...")

	pet, err := t.repo.Pet().Create(ctx, &model.Pet{
		Owner:     owner.ID,
		Name:      cases.Title(language.English).String(strings.TrimSpace(slots.Name)),
		Species:   strings.ToLower(strings.TrimSpace(slots.Species)),
		Breed:     strings.TrimSpace(slots.Breed),
		Gender:    gender,
		WeightLbs: weight,
		BirthDate: birthDate,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create pet", goerr.V("owner", owner.ID))
	}

	return model.Succeeded(fmt.Sprintf("🦴 Added pet %s (%s) for %s.", pet.Name, pet.Species, owner.Username)).
		WithExtra(ExtraPetID, pet.ID), nil
}

// parseWeight accepts a plain number with an optional lb/lbs suffix
func parseWeight(raw string) (float64, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimSuffix(s, "lbs")
	s = strings.TrimSuffix(s, "lb")
	w, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, goerr.Wrap(err, "invalid weight", goerr.V("raw", raw))
	}
	if w <= 0 {
		return 0, goerr.New("weight must be positive", goerr.V("raw", raw))
	}
	return w, nil
}
