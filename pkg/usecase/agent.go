package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/petpal/pkg/agent/tool"
	"github.com/secmon-lab/petpal/pkg/agent/tool/core"
	"github.com/secmon-lab/petpal/pkg/domain/interfaces"
	"github.com/secmon-lab/petpal/pkg/domain/model"
	"github.com/secmon-lab/petpal/pkg/domain/types"
	"github.com/secmon-lab/petpal/pkg/service/parser"
	"github.com/secmon-lab/petpal/pkg/utils/async"
	"github.com/secmon-lab/petpal/pkg/utils/errutil"
	"github.com/secmon-lab/petpal/pkg/utils/logging"
)

// Session identifies who is talking and in which conversation.
// Caller is empty for anonymous requests.
type Session struct {
	Key    string
	Caller model.UserID
}

// Reply is the result of one synchronous turn
type Reply struct {
	Text   string
	CaseID model.CaseID
	Status types.CaseStatus
}

// ResumeReply is the result of resuming deferred intents. History holds the
// conversation as it was before the resume.
type ResumeReply struct {
	Text    string
	CaseID  model.CaseID
	History []model.Message
}

// AgentUseCase routes user messages through parsing, slot filling, tool
// execution and deferral, and persists the case once per turn.
type AgentUseCase struct {
	repo     interfaces.Repository
	registry *tool.Registry
	primary  interfaces.IntentParser
	fallback interfaces.FallbackParser
	species  *model.SpeciesRegistry
	notifier interfaces.Notifier
}

type AgentOption func(*AgentUseCase)

func WithAgentIntentParser(p interfaces.IntentParser) AgentOption {
	return func(uc *AgentUseCase) {
		uc.primary = p
	}
}

func WithAgentFallbackParser(p interfaces.FallbackParser) AgentOption {
	return func(uc *AgentUseCase) {
		uc.fallback = p
	}
}

func WithAgentSpeciesRegistry(r *model.SpeciesRegistry) AgentOption {
	return func(uc *AgentUseCase) {
		uc.species = r
	}
}

func WithAgentNotifier(n interfaces.Notifier) AgentOption {
	return func(uc *AgentUseCase) {
		uc.notifier = n
	}
}

// NewAgentUseCase creates the orchestrator. Without options it uses only the
// rule-based parser and the built-in species registry.
func NewAgentUseCase(repo interfaces.Repository, registry *tool.Registry, opts ...AgentOption) *AgentUseCase {
	uc := &AgentUseCase{
		repo:     repo,
		registry: registry,
		fallback: parser.NewRule(),
		species:  model.DefaultSpeciesRegistry(),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// turn accumulates the effects of one message on a case before it is saved
type turn struct {
	c         *model.ConversationCase
	caller    model.UserID
	logPrefix string

	replies    []string
	deferred   int
	needsLogin bool
	failures   []string
}

func (t *turn) log(entry string) {
	t.c.LogInternal(t.logPrefix + entry)
}

func (t *turn) deferIntent(req model.IntentRequest, status types.OutcomeStatus, detail string) {
	t.c.PendingIntents = append(t.c.PendingIntents, req)
	t.c.RecordOutcome(req.Name, status, detail)
	t.deferred++
}

// HandleMessage runs one synchronous turn for text. Only a failure to load or
// persist the case is returned as an error; everything else becomes a reply.
func (uc *AgentUseCase) HandleMessage(ctx context.Context, sess Session, text string) (*Reply, error) {
	if sess.Key == "" {
		return nil, goerr.Wrap(ErrSessionKeyRequired, "cannot handle message")
	}
	if strings.TrimSpace(text) == "" {
		return nil, goerr.Wrap(ErrEmptyMessage, "cannot handle message", goerr.V(SessionKeyKey, sess.Key))
	}

	c, err := uc.loadOrCreate(ctx, sess)
	if err != nil {
		return nil, err
	}
	logger := logging.From(ctx).With(CaseIDKey, c.ID)
	ctx = logging.With(ctx, logger)

	t := &turn{c: c, caller: sess.Caller}
	c.AppendHistory(types.RoleUser, text)

	if c.SlotFill != nil {
		uc.answerSlot(ctx, t, text)
	} else {
		tool.Update(ctx, "Understanding your message...")
		intents := uc.parse(ctx, text)
		c.ParsedIntents = intents
		logger.Debug("intents parsed", "count", len(intents))
		uc.dispatch(ctx, t, intents)
	}

	uc.finish(t)

	saved, err := uc.persist(ctx, c)
	if err != nil {
		return nil, err
	}
	uc.notifyFailures(ctx, saved, t.failures)

	return &Reply{
		Text:   lastAgentMessage(saved),
		CaseID: saved.ID,
		Status: saved.Status,
	}, nil
}

// ResumePendingTasks re-runs the deferred intents of the caller. With nothing
// to resume it returns the greeting and leaves every case untouched.
func (uc *AgentUseCase) ResumePendingTasks(ctx context.Context, sess Session) (*ResumeReply, error) {
	c, err := uc.findResumable(ctx, sess)
	if err != nil {
		return nil, err
	}
	if c == nil || !c.HasPending() {
		return &ResumeReply{Text: GreetingMessage}, nil
	}
	if sess.Caller == "" {
		return &ResumeReply{Text: LoginPromptMessage, CaseID: c.ID}, nil
	}

	ctx = logging.With(ctx, logging.From(ctx).With(CaseIDKey, c.ID))

	history := make([]model.Message, len(c.History))
	copy(history, c.History)

	if c.IsGuest() {
		uc.adopt(ctx, c, sess.Caller)
	}

	t := &turn{c: c, caller: sess.Caller, logPrefix: logResumedPrefix}
	c.AppendHistory(types.RoleAgent, ResumingMessage)

	pending := c.PendingIntents
	c.PendingIntents = nil
	uc.dispatch(ctx, t, pending)

	uc.finish(t)

	saved, err := uc.persist(ctx, c)
	if err != nil {
		return nil, err
	}
	uc.notifyFailures(ctx, saved, t.failures)

	return &ResumeReply{
		Text:    lastAgentMessage(saved),
		CaseID:  saved.ID,
		History: history,
	}, nil
}

// findResumable prefers the session's own case and falls back to the latest
// case of the caller that still has pending intents.
func (uc *AgentUseCase) findResumable(ctx context.Context, sess Session) (*model.ConversationCase, error) {
	if sess.Key != "" {
		c, err := uc.repo.Case().LoadActive(ctx, sess.Key)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to load active case", goerr.V(SessionKeyKey, sess.Key))
		}
		if c != nil && c.HasPending() && (c.IsGuest() || c.Owner == sess.Caller) {
			return c, nil
		}
	}

	if sess.Caller == "" {
		return nil, nil
	}
	c, err := uc.repo.Case().FindPending(ctx, sess.Caller)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to find pending case", goerr.V("owner", sess.Caller))
	}
	return c, nil
}

// loadOrCreate returns the session's active case, re-owning a guest case for a
// known caller. A new case is only built in memory; persist creates it.
func (uc *AgentUseCase) loadOrCreate(ctx context.Context, sess Session) (*model.ConversationCase, error) {
	c, err := uc.repo.Case().LoadActive(ctx, sess.Key)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load active case", goerr.V(SessionKeyKey, sess.Key))
	}

	if c == nil {
		name := ""
		if sess.Caller != "" {
			name = uc.ownerName(ctx, sess.Caller)
		}
		return model.NewConversationCase(sess.Key, sess.Caller, name), nil
	}

	if c.IsGuest() && sess.Caller != "" {
		uc.adopt(ctx, c, sess.Caller)
	}
	return c, nil
}

func (uc *AgentUseCase) adopt(ctx context.Context, c *model.ConversationCase, caller model.UserID) {
	name := uc.ownerName(ctx, caller)
	c.AssignOwner(caller, name)
	c.LogInternal(fmt.Sprintf("👤 Case assigned to %s.", name))
	logging.From(ctx).Info("guest case re-owned", "owner", caller)
}

// ownerName returns the username of id, or "user" if it cannot be resolved
func (uc *AgentUseCase) ownerName(ctx context.Context, id model.UserID) string {
	u, err := uc.repo.User().Get(ctx, id)
	if err != nil {
		if !errors.Is(err, interfaces.ErrNotFound) {
			_ = errutil.Handle(ctx, err, "failed to look up case owner")
		}
		return "user"
	}
	return u.Username
}

// persist writes the case once for the whole turn
func (uc *AgentUseCase) persist(ctx context.Context, c *model.ConversationCase) (*model.ConversationCase, error) {
	if c.Version == 0 {
		created, err := uc.repo.Case().Create(ctx, c)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create case", goerr.V(CaseIDKey, c.ID))
		}
		return created, nil
	}

	saved, err := uc.repo.Case().Save(ctx, c)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to save case", goerr.V(CaseIDKey, c.ID))
	}
	return saved, nil
}

// parse runs the primary parser and falls back to the rule parser when it
// fails or finds nothing. The result always holds at least one intent.
func (uc *AgentUseCase) parse(ctx context.Context, text string) []model.IntentRequest {
	if uc.primary != nil {
		intents, err := uc.primary.Parse(ctx, text)
		switch {
		case err != nil:
			logging.From(ctx).Warn("primary intent parser failed, using fallback", "error", err)
		case len(intents) > 0:
			return intents
		}
	}
	return []model.IntentRequest{uc.fallback.Parse(text)}
}

// answerSlot assigns text to the field tagged on the open question
func (uc *AgentUseCase) answerSlot(ctx context.Context, t *turn, text string) {
	state := t.c.SlotFill

	if isHelpPhrase(text) {
		t.replies = append(t.replies, clarification(state.Question, state.Slots, uc.species))
		return
	}

	slots := state.Slots
	if err := slots.Fill(state.Question, text); err != nil {
		// stored tag is not a pet field
		_ = errutil.Handle(ctx, err, "invalid slot question tag")
		t.c.SlotFill = nil
		t.log(fmt.Sprintf("❌ Dropped slot dialog with invalid field `%s`.", state.Question))
		t.replies = append(t.replies, FailureMessage)
		return
	}

	t.c.SlotFill = nil
	if field, missing := slots.FirstMissing(); missing {
		uc.ask(t, state.Intent, slots, field)
		return
	}

	uc.dispatch(ctx, t, []model.IntentRequest{model.CreatePetIntent(slots)})
}

func (uc *AgentUseCase) ask(t *turn, intent types.IntentName, slots model.PetSlots, field types.SlotField) {
	question := followUpQuestion(field, slots)
	t.c.SlotFill = &model.SlotFillState{
		Intent:   intent,
		Slots:    slots,
		Question: field,
		Prompt:   question,
	}
	t.replies = append(t.replies, question)
}

// dispatch executes intents in order and stops at the first unexpected failure.
// Intents after a failure are deferred without being attempted.
func (uc *AgentUseCase) dispatch(ctx context.Context, t *turn, intents []model.IntentRequest) {
	for i, req := range intents {
		handler := uc.registry.Resolve(req.Name)

		if handler.Spec().RequiresIdentity && t.caller == "" {
			t.deferIntent(req, types.OutcomeDeferred, "awaiting login")
			t.log(fmt.Sprintf("🔒 Deferred `%s` until login.", req.Name))
			t.needsLogin = true
			continue
		}

		if p, ok := req.Params.(model.CreatePetParams); ok {
			if field, missing := p.Slots.FirstMissing(); missing {
				if t.c.SlotFill != nil {
					t.deferIntent(req, types.OutcomeDeferred, "another slot dialog is open")
					t.log(fmt.Sprintf("⏸️ Deferred `%s` while another dialog is open.", req.Name))
					continue
				}
				t.c.RecordOutcome(req.Name, types.OutcomeAwaitingSlots, field.String())
				uc.ask(t, req.Name, p.Slots, field)
				continue
			}
		}

		if !uc.execute(ctx, t, handler, req) {
			for _, rest := range intents[i+1:] {
				t.deferIntent(rest, types.OutcomeDeferred, "not attempted after failure")
			}
			return
		}
	}
}

// execute runs one handler and records its outcome. It returns false when the
// handler failed unexpectedly.
func (uc *AgentUseCase) execute(ctx context.Context, t *turn, handler tool.Handler, req model.IntentRequest) bool {
	tool.Updatef(ctx, "Running %s...", req.Name)

	result, err := runHandler(ctx, handler, t.caller, req)
	if err != nil {
		_ = errutil.Handle(ctx, err, "intent execution failed")
		t.deferIntent(req, types.OutcomeFailed, err.Error())
		t.log(fmt.Sprintf("❌ Transaction failed due to an unhandled error: %v", err))
		t.replies = append(t.replies, FailureMessage)
		t.failures = append(t.failures, fmt.Sprintf("%s: %v", req.Name, err))
		return false
	}

	t.replies = append(t.replies, result.Message)
	t.c.NoteCustomer(result.Message)

	params := req.Values()
	if result.Success {
		t.log(fmt.Sprintf("✅ Executed `%s` with `%v` successfully.", req.Name, params))
		t.c.RecordOutcome(req.Name, types.OutcomeExecuted, result.Message)
	} else {
		t.log(fmt.Sprintf("⚠️ Unable to process `%s` with `%v`.", req.Name, params))
		t.c.RecordOutcome(req.Name, types.OutcomeRejected, result.Message)
	}

	if req.Name == types.IntentRegisterUser && result.Success && t.c.IsGuest() {
		if id, ok := result.Extra[core.ExtraUserID].(model.UserID); ok && id != "" {
			name, _ := result.Extra[core.ExtraUsername].(string)
			t.c.AssignOwner(id, name)
			t.log(fmt.Sprintf("👤 Case assigned to %s.", name))
		}
	}
	return true
}

// runHandler converts a handler panic or a missing result into an error
func runHandler(ctx context.Context, h tool.Handler, caller model.UserID, req model.IntentRequest) (result *model.ActionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = goerr.New("intent handler panicked", goerr.V("intent", req.Name), goerr.V("panic", r))
		}
	}()

	result, err = h.Run(ctx, caller, req)
	if err != nil {
		return nil, goerr.Wrap(err, "intent handler failed", goerr.V("intent", req.Name))
	}
	if result == nil {
		return nil, goerr.New("intent handler returned no result", goerr.V("intent", req.Name))
	}
	return result, nil
}

// finish derives the case status and appends the agent reply to history
func (uc *AgentUseCase) finish(t *turn) {
	if t.deferred > 0 {
		t.c.LogInternal(logDeferredSaved)
	}
	if t.needsLogin {
		t.replies = append(t.replies, LoginPromptMessage)
	}

	if t.c.SlotFill != nil || t.c.HasPending() {
		t.c.Status = types.CaseStatusInProgress
	} else {
		t.c.Status = types.CaseStatusResolved
	}

	text := strings.Join(t.replies, "\n")
	if text == "" {
		text = NotedMessage
	}
	t.c.AppendHistory(types.RoleAgent, text)
}

func (uc *AgentUseCase) notifyFailures(ctx context.Context, c *model.ConversationCase, failures []string) {
	if uc.notifier == nil || len(failures) == 0 {
		return
	}
	text := fmt.Sprintf("❌ Case %s deferred a failed intent:\n%s", c.ID, strings.Join(failures, "\n"))
	notifier := uc.notifier
	async.Dispatch(ctx, func(ctx context.Context) error {
		if err := notifier.Notify(ctx, text); err != nil {
			_ = errutil.Handle(ctx, err, "failed to send failure notification")
		}
		return nil
	})
}

func lastAgentMessage(c *model.ConversationCase) string {
	for i := len(c.History) - 1; i >= 0; i-- {
		if c.History[i].Role == types.RoleAgent {
			return c.History[i].Content
		}
	}
	return ""
}
