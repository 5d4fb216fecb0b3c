package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/petpal/pkg/domain/interfaces"
)

type Firestore struct {
	client *firestore.Client
	cases  *caseRepository
	users  *userRepository
	pets   *petRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix prefixes every collection name, e.g. "test" gives "test_cases"
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.cases.collectionPrefix = prefix
		f.users.collectionPrefix = prefix
		f.pets.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client: client,
		cases:  newCaseRepository(client),
		users:  newUserRepository(client),
		pets:   newPetRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func collectionName(prefix, name string) string {
	if prefix != "" {
		return prefix + "_" + name
	}
	return name
}

func (f *Firestore) Case() interfaces.CaseRepository {
	return f.cases
}

func (f *Firestore) User() interfaces.UserRepository {
	return f.users
}

func (f *Firestore) Pet() interfaces.PetRepository {
	return f.pets
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
