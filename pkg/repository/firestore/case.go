package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/petpal/pkg/domain/interfaces"
	"github.com/secmon-lab/petpal/pkg/domain/model"
	"github.com/secmon-lab/petpal/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// intentDoc stores an IntentRequest as its name and flat values.
// The typed params are rebuilt by model.NewIntentRequest on read.
type intentDoc struct {
	Name   string            `firestore:"Name"`
	Values map[string]string `firestore:"Values"`
}

type slotFillDoc struct {
	Intent   string            `firestore:"Intent"`
	Slots    map[string]string `firestore:"Slots"`
	Question string            `firestore:"Question"`
	Prompt   string            `firestore:"Prompt"`
}

type messageDoc struct {
	Role      string    `firestore:"Role"`
	Content   string    `firestore:"Content"`
	CreatedAt time.Time `firestore:"CreatedAt"`
}

type outcomeDoc struct {
	Intent    string    `firestore:"Intent"`
	Status    string    `firestore:"Status"`
	Detail    string    `firestore:"Detail"`
	CreatedAt time.Time `firestore:"CreatedAt"`
}

// caseDoc is the Firestore document representation of model.ConversationCase.
// HasPending is denormalized so that FindPending can filter on it.
type caseDoc struct {
	ID             string       `firestore:"ID"`
	Owner          string       `firestore:"Owner"`
	OwnerName      string       `firestore:"OwnerName"`
	SessionKey     string       `firestore:"SessionKey"`
	Status         string       `firestore:"Status"`
	History        []messageDoc `firestore:"History"`
	ParsedIntents  []intentDoc  `firestore:"ParsedIntents"`
	PendingIntents []intentDoc  `firestore:"PendingIntents"`
	HasPending     bool         `firestore:"HasPending"`
	SlotFill       *slotFillDoc `firestore:"SlotFill"`
	InternalLog    []string     `firestore:"InternalLog"`
	CustomerNotes  []string     `firestore:"CustomerNotes"`
	Outcomes       []outcomeDoc `firestore:"Outcomes"`
	Version        int64        `firestore:"Version"`
	CreatedAt      time.Time    `firestore:"CreatedAt"`
	UpdatedAt      time.Time    `firestore:"UpdatedAt"`
}

func toIntentDocs(reqs []model.IntentRequest) []intentDoc {
	if reqs == nil {
		return nil
	}
	docs := make([]intentDoc, len(reqs))
	for i, req := range reqs {
		docs[i] = intentDoc{Name: string(req.Name), Values: req.Values()}
	}
	return docs
}

func fromIntentDocs(docs []intentDoc) []model.IntentRequest {
	if docs == nil {
		return nil
	}
	reqs := make([]model.IntentRequest, len(docs))
	for i, d := range docs {
		reqs[i] = model.NewIntentRequest(types.IntentName(d.Name), d.Values)
	}
	return reqs
}

func toCaseDoc(c *model.ConversationCase) *caseDoc {
	doc := &caseDoc{
		ID:             string(c.ID),
		Owner:          string(c.Owner),
		OwnerName:      c.OwnerName,
		SessionKey:     c.SessionKey,
		Status:         c.Status.String(),
		ParsedIntents:  toIntentDocs(c.ParsedIntents),
		PendingIntents: toIntentDocs(c.PendingIntents),
		HasPending:     c.HasPending(),
		InternalLog:    c.InternalLog,
		CustomerNotes:  c.CustomerNotes,
		Version:        c.Version,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
	for _, m := range c.History {
		doc.History = append(doc.History, messageDoc{
			Role:      string(m.Role),
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}
	for _, o := range c.Outcomes {
		doc.Outcomes = append(doc.Outcomes, outcomeDoc{
			Intent:    string(o.Intent),
			Status:    string(o.Status),
			Detail:    o.Detail,
			CreatedAt: o.CreatedAt,
		})
	}
	if c.SlotFill != nil {
		doc.SlotFill = &slotFillDoc{
			Intent:   string(c.SlotFill.Intent),
			Slots:    c.SlotFill.Slots.ToMapping(),
			Question: c.SlotFill.Question.String(),
			Prompt:   c.SlotFill.Prompt,
		}
	}
	return doc
}

func fromCaseDoc(d *caseDoc) *model.ConversationCase {
	c := &model.ConversationCase{
		ID:             model.CaseID(d.ID),
		Owner:          model.UserID(d.Owner),
		OwnerName:      d.OwnerName,
		SessionKey:     d.SessionKey,
		Status:         types.CaseStatus(d.Status).Normalize(),
		ParsedIntents:  fromIntentDocs(d.ParsedIntents),
		PendingIntents: fromIntentDocs(d.PendingIntents),
		InternalLog:    d.InternalLog,
		CustomerNotes:  d.CustomerNotes,
		Version:        d.Version,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
	for _, m := range d.History {
		c.History = append(c.History, model.Message{
			Role:      types.Role(m.Role),
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}
	for _, o := range d.Outcomes {
		c.Outcomes = append(c.Outcomes, model.IntentOutcome{
			Intent:    types.IntentName(o.Intent),
			Status:    types.OutcomeStatus(o.Status),
			Detail:    o.Detail,
			CreatedAt: o.CreatedAt,
		})
	}
	if d.SlotFill != nil {
		c.SlotFill = &model.SlotFillState{
			Intent:   types.IntentName(d.SlotFill.Intent),
			Slots:    model.PetSlotsFromMapping(d.SlotFill.Slots),
			Question: types.SlotField(d.SlotFill.Question),
			Prompt:   d.SlotFill.Prompt,
		}
	}
	return c
}

func docToCase(snap *firestore.DocumentSnapshot) (*model.ConversationCase, error) {
	var d caseDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, err
	}
	return fromCaseDoc(&d), nil
}

type caseRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newCaseRepository(client *firestore.Client) *caseRepository {
	return &caseRepository{
		client: client,
	}
}

func (r *caseRepository) casesCollection() *firestore.CollectionRef {
	return r.client.Collection(collectionName(r.collectionPrefix, "cases"))
}

func (r *caseRepository) Create(ctx context.Context, c *model.ConversationCase) (*model.ConversationCase, error) {
	if c.ID == "" {
		return nil, goerr.New("case ID is required")
	}

	now := time.Now().UTC()
	created := *c
	created.Version = 1
	if created.CreatedAt.IsZero() {
		created.CreatedAt = now
	}
	created.UpdatedAt = now

	if _, err := r.casesCollection().Doc(string(c.ID)).Create(ctx, toCaseDoc(&created)); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil, goerr.Wrap(interfaces.ErrAlreadyExists, "case already exists", goerr.V("id", c.ID))
		}
		return nil, goerr.Wrap(err, "failed to create case", goerr.V("id", c.ID))
	}

	return &created, nil
}

func (r *caseRepository) Get(ctx context.Context, id model.CaseID) (*model.ConversationCase, error) {
	snap, err := r.casesCollection().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "case not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get case", goerr.V("id", id))
	}

	c, err := docToCase(snap)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode case", goerr.V("id", id))
	}
	return c, nil
}

func (r *caseRepository) Save(ctx context.Context, c *model.ConversationCase) (*model.ConversationCase, error) {
	docRef := r.casesCollection().Doc(string(c.ID))

	var saved *model.ConversationCase
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(interfaces.ErrNotFound, "case not found", goerr.V("id", c.ID))
			}
			return goerr.Wrap(err, "failed to get case", goerr.V("id", c.ID))
		}

		stored, err := docToCase(snap)
		if err != nil {
			return goerr.Wrap(err, "failed to decode case", goerr.V("id", c.ID))
		}
		if stored.Version != c.Version {
			return goerr.Wrap(interfaces.ErrConflict, "case was modified concurrently",
				goerr.V("id", c.ID),
				goerr.V("expected", c.Version),
				goerr.V("actual", stored.Version))
		}

		next := *c
		next.Version = stored.Version + 1
		next.CreatedAt = stored.CreatedAt
		next.UpdatedAt = time.Now().UTC()

		if err := tx.Set(docRef, toCaseDoc(&next)); err != nil {
			return goerr.Wrap(err, "failed to save case", goerr.V("id", c.ID))
		}
		saved = &next
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to run case transaction", goerr.V("id", c.ID))
	}

	return saved, nil
}

// firstActive returns the first non-terminal case of a query ordered by UpdatedAt desc
func (r *caseRepository) firstActive(ctx context.Context, q firestore.Query) (*model.ConversationCase, error) {
	iter := q.OrderBy("UpdatedAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			return nil, nil
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate cases")
		}

		c, err := docToCase(snap)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to decode case", goerr.V("doc_id", snap.Ref.ID))
		}
		if !c.Status.IsTerminal() {
			return c, nil
		}
	}
}

func (r *caseRepository) LoadActive(ctx context.Context, sessionKey string) (*model.ConversationCase, error) {
	c, err := r.firstActive(ctx, r.casesCollection().Where("SessionKey", "==", sessionKey))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load active case", goerr.V("session_key", sessionKey))
	}
	return c, nil
}

func (r *caseRepository) FindPending(ctx context.Context, owner model.UserID) (*model.ConversationCase, error) {
	if owner == "" {
		return nil, nil
	}

	q := r.casesCollection().
		Where("Owner", "==", string(owner)).
		Where("HasPending", "==", true)

	c, err := r.firstActive(ctx, q)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to find pending case", goerr.V("owner", owner))
	}
	return c, nil
}
