package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/petpal/pkg/domain/model"
)

type petRepository struct {
	mu   sync.RWMutex
	pets map[model.PetID]*model.Pet
}

func newPetRepository() *petRepository {
	return &petRepository{
		pets: make(map[model.PetID]*model.Pet),
	}
}

func copyPet(p *model.Pet) *model.Pet {
	copied := *p
	if p.WeightLbs != nil {
		w := *p.WeightLbs
		copied.WeightLbs = &w
	}
	if p.BirthDate != nil {
		d := *p.BirthDate
		copied.BirthDate = &d
	}
	return &copied
}

func (r *petRepository) Create(ctx context.Context, p *model.Pet) (*model.Pet, error) {
	if p.Owner == "" {
		return nil, goerr.New("pet owner is required", goerr.V("name", p.Name))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyPet(p)
	if created.ID == "" {
		created.ID = model.NewPetID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	r.pets[created.ID] = created
	return copyPet(created), nil
}

func (r *petRepository) ListByOwner(ctx context.Context, owner model.UserID) ([]*model.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var pets []*model.Pet
	for _, p := range r.pets {
		if p.Owner == owner {
			pets = append(pets, copyPet(p))
		}
	}

	sort.Slice(pets, func(i, j int) bool {
		return pets[i].CreatedAt.Before(pets[j].CreatedAt)
	})
	return pets, nil
}
