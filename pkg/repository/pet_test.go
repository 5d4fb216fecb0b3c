package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/petpal/pkg/domain/interfaces"
	"github.com/secmon-lab/petpal/pkg/domain/model"
)

func runPetRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("ListByOwner returns only the owner's pets in creation order", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		owner := model.NewUserID()
		weight := 32.5
		birth := time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC)
		base := time.Now().UTC().Truncate(time.Millisecond)

		_, err := repo.Pet().Create(ctx, &model.Pet{
			Owner:     owner,
			Name:      "Rex",
			Species:   "dog",
			Breed:     "Labrador",
			WeightLbs: &weight,
			BirthDate: &birth,
			CreatedAt: base,
		})
		gt.NoError(t, err).Required()

		_, err = repo.Pet().Create(ctx, &model.Pet{
			Owner:     owner,
			Name:      "Tama",
			Species:   "cat",
			Breed:     "Siamese",
			CreatedAt: base.Add(time.Second),
		})
		gt.NoError(t, err).Required()

		_, err = repo.Pet().Create(ctx, &model.Pet{
			Owner:   model.NewUserID(),
			Name:    "Other",
			Species: "bird",
			Breed:   "Parrot",
		})
		gt.NoError(t, err).Required()

		pets, err := repo.Pet().ListByOwner(ctx, owner)
		gt.NoError(t, err).Required()
		gt.Array(t, pets).Length(2).Required()
		gt.Value(t, pets[0].Name).Equal("Rex")
		gt.Value(t, pets[1].Name).Equal("Tama")
		gt.Value(t, pets[0].WeightLbs).NotNil().Required()
		gt.Value(t, *pets[0].WeightLbs).Equal(32.5)
		gt.Value(t, pets[0].BirthDate).NotNil().Required()
		gt.Bool(t, pets[0].BirthDate.Equal(birth)).True()
		gt.Value(t, pets[1].WeightLbs).Nil()
	})

	t.Run("Create requires an owner", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Pet().Create(context.Background(), &model.Pet{Name: "Stray"})
		gt.Error(t, err)
	})
}

func TestPetRepository_Memory(t *testing.T) {
	runPetRepositoryTest(t, newMemoryRepo)
}

func TestPetRepository_Firestore(t *testing.T) {
	runPetRepositoryTest(t, newFirestoreRepo)
}
