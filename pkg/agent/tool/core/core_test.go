package core_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/petpal/pkg/agent/tool"
	"github.com/secmon-lab/petpal/pkg/agent/tool/core"
	"github.com/secmon-lab/petpal/pkg/domain/model"
	"github.com/secmon-lab/petpal/pkg/domain/types"
	"github.com/secmon-lab/petpal/pkg/repository/memory"
)

type mockSearcher struct {
	searchFn func(ctx context.Context, query string, limit int) ([]model.Document, error)
}

func (m *mockSearcher) Search(ctx context.Context, query string, limit int) ([]model.Document, error) {
	return m.searchFn(ctx, query, limit)
}

type mockGenerator struct {
	generateFn func(ctx context.Context, prompt string) (string, error)
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return m.generateFn(ctx, prompt)
}

func TestRegistryResolvesCoreHandlers(t *testing.T) {
	registry, err := core.NewRegistry(memory.New(), nil, nil)
	gt.NoError(t, err).Required()

	for _, name := range []types.IntentName{
		types.IntentRegisterUser,
		types.IntentCreatePet,
		types.IntentAnalyzeFood,
		types.IntentFoodQuery,
	} {
		gt.Value(t, registry.Resolve(name).Spec().Name).Equal(name)
	}

	h := registry.Resolve("order_pizza")
	gt.Value(t, h.Spec().Name).Equal(types.IntentUnknown)
	gt.Bool(t, h.Spec().RequiresIdentity).False()

	result, err := h.Run(context.Background(), "", model.UnknownIntent("order pizza"))
	gt.NoError(t, err).Required()
	gt.Bool(t, result.Success).False()
	gt.Value(t, result.Message).Equal(core.UnknownMessage)

	gt.Bool(t, registry.Resolve(types.IntentRegisterUser).Spec().RequiresIdentity).False()
	gt.Bool(t, registry.Resolve(types.IntentCreatePet).Spec().RequiresIdentity).True()
}

func TestRegisterUser(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a user with a username from the email", func(t *testing.T) {
		repo := memory.New()
		registry, err := core.NewRegistry(repo, nil, nil)
		gt.NoError(t, err).Required()

		var updates []string
		ctx := tool.WithUpdate(ctx, func(_ context.Context, msg string) {
			updates = append(updates, msg)
		})

		result, err := registry.Resolve(types.IntentRegisterUser).
			Run(ctx, "", model.RegisterUserIntent("Alice", "Alice.Smith@example.com"))
		gt.NoError(t, err).Required()
		gt.Bool(t, result.Success).True()
		gt.Value(t, result.Message).Equal("🎉 Registered *Alice* with email *Alice.Smith@example.com*.")
		gt.Value(t, result.Extra[core.ExtraUsername]).Equal(any("alice.smith"))
		gt.Array(t, updates).Length(1)

		u, err := repo.User().GetByEmail(ctx, "alice.smith@example.com")
		gt.NoError(t, err).Required()
		gt.Value(t, u).NotNil().Required()
		gt.Value(t, any(u.ID)).Equal(result.Extra[core.ExtraUserID])
	})

	t.Run("declines a duplicate email", func(t *testing.T) {
		repo := memory.New()
		registry, err := core.NewRegistry(repo, nil, nil)
		gt.NoError(t, err).Required()
		h := registry.Resolve(types.IntentRegisterUser)

		_, err = h.Run(ctx, "", model.RegisterUserIntent("Bob", "bob@example.com"))
		gt.NoError(t, err).Required()

		result, err := h.Run(ctx, "", model.RegisterUserIntent("Bobby", "bob@example.com"))
		gt.NoError(t, err).Required()
		gt.Bool(t, result.Success).False()
		gt.Value(t, result.Message).Equal("🔁 A user with email *bob@example.com* already exists.")
	})

	t.Run("declines missing or malformed input", func(t *testing.T) {
		registry, err := core.NewRegistry(memory.New(), nil, nil)
		gt.NoError(t, err).Required()
		h := registry.Resolve(types.IntentRegisterUser)

		result, err := h.Run(ctx, "", model.RegisterUserIntent("", "x@example.com"))
		gt.NoError(t, err).Required()
		gt.Bool(t, result.Success).False()

		result, err = h.Run(ctx, "", model.RegisterUserIntent("Carol", "carol.example.com"))
		gt.NoError(t, err).Required()
		gt.Bool(t, result.Success).False()
	})

	t.Run("fails on mismatched params", func(t *testing.T) {
		registry, err := core.NewRegistry(memory.New(), nil, nil)
		gt.NoError(t, err).Required()

		_, err = registry.Resolve(types.IntentRegisterUser).Run(ctx, "", model.AnalyzeFoodIntent())
		gt.Error(t, err)
	})
}

func TestCreatePet(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*memory.Memory, tool.Handler, *model.User) {
		repo := memory.New()
		registry, err := core.NewRegistry(repo, nil, nil)
		gt.NoError(t, err).Required()
		owner, err := repo.User().Create(ctx, &model.User{Username: "alice", Name: "Alice", Email: "alice@example.com"})
		gt.NoError(t, err).Required()
		return repo, registry.Resolve(types.IntentCreatePet), owner
	}

	t.Run("adds a pet with normalized fields", func(t *testing.T) {
		repo, h, owner := setup(t)

		result, err := h.Run(ctx, owner.ID, model.CreatePetIntent(model.PetSlots{
			Name:      "rex",
			Species:   "Dog",
			Breed:     "Labrador",
			WeightLbs: "42 lbs",
			BirthDate: "03/15/2021",
		}))
		gt.NoError(t, err).Required()
		gt.Bool(t, result.Success).True()
		gt.Value(t, result.Message).Equal("🦴 Added pet Rex (dog) for alice.")

		pets, err := repo.Pet().ListByOwner(ctx, owner.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, pets).Length(1).Required()
		gt.Value(t, pets[0].Gender).Equal("unknown")
		gt.Value(t, *pets[0].WeightLbs).Equal(42.0)
		gt.Value(t, pets[0].BirthDate.Month().String()).Equal("March")
	})

	t.Run("declines missing required fields", func(t *testing.T) {
		_, h, owner := setup(t)

		result, err := h.Run(ctx, owner.ID, model.CreatePetIntent(model.PetSlots{Name: "Rex"}))
		gt.NoError(t, err).Required()
		gt.Bool(t, result.Success).False()
		gt.Value(t, result.Message).Equal("⚠️ Missing required pet fields: species, breed")
	})

	t.Run("declines a malformed birth date", func(t *testing.T) {
		_, h, owner := setup(t)

		result, err := h.Run(ctx, owner.ID, model.CreatePetIntent(model.PetSlots{
			Name: "Rex", Species: "dog", Breed: "Poodle", BirthDate: "2021-03-15",
		}))
		gt.NoError(t, err).Required()
		gt.Bool(t, result.Success).False()
		gt.Bool(t, strings.Contains(result.Message, "MM/DD/YYYY")).True()
	})

	t.Run("declines a malformed weight", func(t *testing.T) {
		_, h, owner := setup(t)

		result, err := h.Run(ctx, owner.ID, model.CreatePetIntent(model.PetSlots{
			Name: "Rex", Species: "dog", Breed: "Poodle", WeightLbs: "heavy",
		}))
		gt.NoError(t, err).Required()
		gt.Bool(t, result.Success).False()
	})

	t.Run("fails when the caller does not exist", func(t *testing.T) {
		_, h, _ := setup(t)

		_, err := h.Run(ctx, model.NewUserID(), model.CreatePetIntent(model.PetSlots{
			Name: "Rex", Species: "dog", Breed: "Poodle",
		}))
		gt.Error(t, err)
	})
}

func TestFoodQuery(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the generated answer for matching labels", func(t *testing.T) {
		var gotLimit int
		var gotPrompt string
		searcher := &mockSearcher{searchFn: func(_ context.Context, query string, limit int) ([]model.Document, error) {
			gotLimit = limit
			return []model.Document{
				{ID: "1", Content: "Product Name: Salmon Pate"},
				{ID: "2", Content: "Product Name: Chicken Stew"},
			}, nil
		}}
		generator := &mockGenerator{generateFn: func(_ context.Context, prompt string) (string, error) {
			gotPrompt = prompt
			return " Salmon Pate is grain free. ", nil
		}}

		registry, err := core.NewRegistry(memory.New(), searcher, generator)
		gt.NoError(t, err).Required()

		result, err := registry.Resolve(types.IntentFoodQuery).
			Run(ctx, model.NewUserID(), model.FoodQueryIntent("which food is grain free?"))
		gt.NoError(t, err).Required()
		gt.Bool(t, result.Success).True()
		gt.Value(t, result.Message).Equal("Salmon Pate is grain free.")
		gt.Value(t, gotLimit).Equal(core.FoodQueryLimit)
		gt.Bool(t, strings.Contains(gotPrompt, "Salmon Pate\n---\nProduct Name: Chicken Stew")).True()
		gt.Bool(t, strings.Contains(gotPrompt, "which food is grain free?")).True()
	})

	t.Run("empty retrieval is a successful nothing-found reply", func(t *testing.T) {
		searcher := &mockSearcher{searchFn: func(context.Context, string, int) ([]model.Document, error) {
			return nil, nil
		}}
		generator := &mockGenerator{generateFn: func(context.Context, string) (string, error) {
			t.Error("generator must not be called")
			return "", nil
		}}

		registry, err := core.NewRegistry(memory.New(), searcher, generator)
		gt.NoError(t, err).Required()

		result, err := registry.Resolve(types.IntentFoodQuery).
			Run(ctx, model.NewUserID(), model.FoodQueryIntent("anything with duck?"))
		gt.NoError(t, err).Required()
		gt.Bool(t, result.Success).True()
		gt.Value(t, result.Message).Equal("I couldn't find any food labels matching that query.")
	})

	t.Run("search failure is returned as an error", func(t *testing.T) {
		searcher := &mockSearcher{searchFn: func(context.Context, string, int) ([]model.Document, error) {
			return nil, errors.New("vector store down")
		}}
		registry, err := core.NewRegistry(memory.New(), searcher, &mockGenerator{})
		gt.NoError(t, err).Required()

		_, err = registry.Resolve(types.IntentFoodQuery).
			Run(ctx, model.NewUserID(), model.FoodQueryIntent("protein?"))
		gt.Error(t, err)
	})

	t.Run("empty query is declined", func(t *testing.T) {
		registry, err := core.NewRegistry(memory.New(), &mockSearcher{}, &mockGenerator{})
		gt.NoError(t, err).Required()

		result, err := registry.Resolve(types.IntentFoodQuery).
			Run(ctx, model.NewUserID(), model.FoodQueryIntent("  "))
		gt.NoError(t, err).Required()
		gt.Bool(t, result.Success).False()
	})
}

func TestAnalyzeFood(t *testing.T) {
	registry, err := core.NewRegistry(memory.New(), nil, nil)
	gt.NoError(t, err).Required()

	result, err := registry.Resolve(types.IntentAnalyzeFood).
		Run(context.Background(), model.NewUserID(), model.AnalyzeFoodIntent())
	gt.NoError(t, err).Required()
	gt.Bool(t, result.Success).True()
	gt.Value(t, result.Message).Equal("📸 Please upload the food label on the main page.")
}
