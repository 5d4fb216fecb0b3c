package firestore

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/petpal/pkg/domain/model"
	"google.golang.org/api/iterator"
)

type petDoc struct {
	ID        string     `firestore:"ID"`
	Owner     string     `firestore:"Owner"`
	Name      string     `firestore:"Name"`
	Species   string     `firestore:"Species"`
	Breed     string     `firestore:"Breed"`
	Gender    string     `firestore:"Gender"`
	WeightLbs *float64   `firestore:"WeightLbs"`
	BirthDate *time.Time `firestore:"BirthDate"`
	CreatedAt time.Time  `firestore:"CreatedAt"`
}

type petRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newPetRepository(client *firestore.Client) *petRepository {
	return &petRepository{
		client: client,
	}
}

func (r *petRepository) petsCollection() *firestore.CollectionRef {
	return r.client.Collection(collectionName(r.collectionPrefix, "pets"))
}

func (r *petRepository) Create(ctx context.Context, p *model.Pet) (*model.Pet, error) {
	if p.Owner == "" {
		return nil, goerr.New("pet owner is required", goerr.V("name", p.Name))
	}

	created := *p
	if created.ID == "" {
		created.ID = model.NewPetID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	doc := &petDoc{
		ID:        string(created.ID),
		Owner:     string(created.Owner),
		Name:      created.Name,
		Species:   created.Species,
		Breed:     created.Breed,
		Gender:    created.Gender,
		WeightLbs: created.WeightLbs,
		BirthDate: created.BirthDate,
		CreatedAt: created.CreatedAt,
	}
	if _, err := r.petsCollection().Doc(doc.ID).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create pet", goerr.V("id", created.ID))
	}

	return &created, nil
}

func (r *petRepository) ListByOwner(ctx context.Context, owner model.UserID) ([]*model.Pet, error) {
	iter := r.petsCollection().Where("Owner", "==", string(owner)).Documents(ctx)
	defer iter.Stop()

	var pets []*model.Pet
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate pets", goerr.V("owner", owner))
		}

		var d petDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to decode pet", goerr.V("doc_id", snap.Ref.ID))
		}
		pets = append(pets, &model.Pet{
			ID:        model.PetID(d.ID),
			Owner:     model.UserID(d.Owner),
			Name:      d.Name,
			Species:   d.Species,
			Breed:     d.Breed,
			Gender:    d.Gender,
			WeightLbs: d.WeightLbs,
			BirthDate: d.BirthDate,
			CreatedAt: d.CreatedAt,
		})
	}

	sort.Slice(pets, func(i, j int) bool {
		return pets[i].CreatedAt.Before(pets[j].CreatedAt)
	})
	return pets, nil
}
