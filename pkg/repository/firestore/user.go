package firestore

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/petpal/pkg/domain/interfaces"
	"github.com/secmon-lab/petpal/pkg/domain/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type userDoc struct {
	ID        string    `firestore:"ID"`
	Username  string    `firestore:"Username"`
	Name      string    `firestore:"Name"`
	Email     string    `firestore:"Email"`
	EmailKey  string    `firestore:"EmailKey"`
	CreatedAt time.Time `firestore:"CreatedAt"`
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserDoc(u *model.User) *userDoc {
	return &userDoc{
		ID:        string(u.ID),
		Username:  u.Username,
		Name:      u.Name,
		Email:     u.Email,
		EmailKey:  emailKey(u.Email),
		CreatedAt: u.CreatedAt,
	}
}

func docToUser(snap *firestore.DocumentSnapshot) (*model.User, error) {
	var d userDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, err
	}
	return &model.User{
		ID:        model.UserID(d.ID),
		Username:  d.Username,
		Name:      d.Name,
		Email:     d.Email,
		CreatedAt: d.CreatedAt,
	}, nil
}

type userRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newUserRepository(client *firestore.Client) *userRepository {
	return &userRepository{
		client: client,
	}
}

func (r *userRepository) usersCollection() *firestore.CollectionRef {
	return r.client.Collection(collectionName(r.collectionPrefix, "users"))
}

func (r *userRepository) Create(ctx context.Context, u *model.User) (*model.User, error) {
	created := *u
	if created.ID == "" {
		created.ID = model.NewUserID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	docRef := r.usersCollection().Doc(string(created.ID))
	q := r.usersCollection().Where("EmailKey", "==", emailKey(u.Email)).Limit(1)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := tx.Documents(q).GetAll()
		if err != nil {
			return goerr.Wrap(err, "failed to query user by email")
		}
		if len(existing) > 0 {
			return goerr.Wrap(interfaces.ErrAlreadyExists, "email already registered", goerr.V("email", u.Email))
		}
		return tx.Create(docRef, toUserDoc(&created))
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create user", goerr.V("id", created.ID))
	}

	return &created, nil
}

func (r *userRepository) Get(ctx context.Context, id model.UserID) (*model.User, error) {
	snap, err := r.usersCollection().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "user not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get user", goerr.V("id", id))
	}

	u, err := docToUser(snap)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode user", goerr.V("id", id))
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	iter := r.usersCollection().Where("EmailKey", "==", emailKey(email)).Limit(1).Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query user by email")
	}

	u, err := docToUser(snap)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode user", goerr.V("doc_id", snap.Ref.ID))
	}
	return u, nil
}
