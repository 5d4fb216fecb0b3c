package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/petpal/pkg/domain/interfaces"
	"github.com/secmon-lab/petpal/pkg/repository/firestore"
	"github.com/secmon-lab/petpal/pkg/repository/memory"
)

func newMemoryRepo(t *testing.T) interfaces.Repository {
	return memory.New()
}

func newFirestoreRepo(t *testing.T) interfaces.Repository {
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if projectID == "" || databaseID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID or TEST_FIRESTORE_DATABASE_ID not set")
	}

	prefix := "test_" + uuid.NewString()[:8]
	repo, err := firestore.New(context.Background(), projectID, databaseID, firestore.WithCollectionPrefix(prefix))
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		_ = repo.Close()
	})
	return repo
}
