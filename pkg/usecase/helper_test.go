package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/petpal/pkg/agent/tool"
	"github.com/secmon-lab/petpal/pkg/agent/tool/core"
	"github.com/secmon-lab/petpal/pkg/domain/interfaces"
	"github.com/secmon-lab/petpal/pkg/domain/model"
	"github.com/secmon-lab/petpal/pkg/domain/types"
	"github.com/secmon-lab/petpal/pkg/service/parser"
)

type mockParser struct {
	mu      sync.Mutex
	calls   int
	parseFn func(ctx context.Context, text string) ([]model.IntentRequest, error)
}

func (m *mockParser) Parse(ctx context.Context, text string) ([]model.IntentRequest, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return m.parseFn(ctx, text)
}

func returning(intents ...model.IntentRequest) *mockParser {
	return &mockParser{parseFn: func(ctx context.Context, text string) ([]model.IntentRequest, error) {
		return intents, nil
	}}
}

// countingFallback wraps the rule parser and counts calls
type countingFallback struct {
	mu    sync.Mutex
	calls int
	inner parser.Rule
}

func (f *countingFallback) Parse(text string) model.IntentRequest {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.inner.Parse(text)
}

func (f *countingFallback) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type recordingHandler struct {
	spec  tool.Spec
	runFn func(ctx context.Context, caller model.UserID, req model.IntentRequest) (*model.ActionResult, error)

	mu    sync.Mutex
	calls []model.IntentRequest
}

func (h *recordingHandler) Spec() tool.Spec {
	return h.spec
}

func (h *recordingHandler) Run(ctx context.Context, caller model.UserID, req model.IntentRequest) (*model.ActionResult, error) {
	h.mu.Lock()
	h.calls = append(h.calls, req)
	h.mu.Unlock()
	if h.runFn != nil {
		return h.runFn(ctx, caller, req)
	}
	return model.Succeeded("done: " + req.Name.String()), nil
}

func (h *recordingHandler) Calls() []model.IntentRequest {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]model.IntentRequest, len(h.calls))
	copy(out, h.calls)
	return out
}

func newRecorder(name types.IntentName, requiresIdentity bool) *recordingHandler {
	return &recordingHandler{spec: tool.Spec{Name: name, RequiresIdentity: requiresIdentity}}
}

type mockNotifier struct {
	mu    sync.Mutex
	texts []string
}

func (n *mockNotifier) Notify(ctx context.Context, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.texts = append(n.texts, text)
	return nil
}

// waitTexts polls until at least n notifications arrived or a second passed
func (n *mockNotifier) waitTexts(t *testing.T, count int) []string {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for {
		n.mu.Lock()
		texts := append([]string(nil), n.texts...)
		n.mu.Unlock()
		if len(texts) >= count || time.Now().After(deadline) {
			return texts
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// conflictRepo fails every case save with a version conflict
type conflictRepo struct {
	interfaces.Repository
}

func (r *conflictRepo) Case() interfaces.CaseRepository {
	return &conflictCaseRepo{CaseRepository: r.Repository.Case()}
}

type conflictCaseRepo struct {
	interfaces.CaseRepository
}

func (r *conflictCaseRepo) Save(ctx context.Context, c *model.ConversationCase) (*model.ConversationCase, error) {
	return nil, interfaces.ErrConflict
}

func newRegistry(t *testing.T, repo interfaces.Repository, overrides ...tool.Handler) *tool.Registry {
	t.Helper()
	registry, err := core.NewRegistry(repo, nil, nil)
	gt.NoError(t, err).Required()
	for _, h := range overrides {
		gt.NoError(t, registry.Register(h.Spec().Name, h)).Required()
	}
	return registry
}

func createUser(t *testing.T, repo interfaces.Repository, username string) *model.User {
	t.Helper()
	u, err := repo.User().Create(context.Background(), &model.User{
		Username: username,
		Name:     username,
		Email:    username + "@example.com",
	})
	gt.NoError(t, err).Required()
	return u
}

func getCase(t *testing.T, repo interfaces.Repository, id model.CaseID) *model.ConversationCase {
	t.Helper()
	c, err := repo.Case().Get(context.Background(), id)
	gt.NoError(t, err).Required()
	return c
}
