package model

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/secmon-lab/petpal/pkg/domain/types"
)

// GuestName is the owner label used for cases created by anonymous callers
const GuestName = "guest"

// CaseID is the opaque identifier of a conversation case, formatted as
// <OWNER-NAME>-<6 hex digits>, e.g. GUEST-1A2B3C.
type CaseID string

// NewCaseID generates a CaseID for the given owner name. An empty name is treated as guest.
func NewCaseID(ownerName string) CaseID {
	name := strings.TrimSpace(ownerName)
	if name == "" {
		name = GuestName
	}
	var b [3]byte
	_, _ = rand.Read(b[:])
	return CaseID(strings.ToUpper(name) + "-" + strings.ToUpper(hex.EncodeToString(b[:])))
}

func (id CaseID) String() string {
	return string(id)
}

// Message is a single entry of a case history
type Message struct {
	Role      types.Role
	Content   string
	CreatedAt time.Time
}

// SlotFillState holds an open slot-filling dialog. Question is the tag of the
// field the next user reply fills.
type SlotFillState struct {
	Intent   types.IntentName
	Slots    PetSlots
	Question types.SlotField
	Prompt   string
}

// IntentOutcome is the durable record of what one intent did in one turn.
// Tool side effects are not compensated, so this log is the only trace of them.
type IntentOutcome struct {
	Intent    types.IntentName
	Status    types.OutcomeStatus
	Detail    string
	CreatedAt time.Time
}

// ConversationCase is the durable state of one conversation session
type ConversationCase struct {
	ID             CaseID
	Owner          UserID // empty while the session is anonymous
	OwnerName      string
	SessionKey     string
	Status         types.CaseStatus
	History        []Message
	ParsedIntents  []IntentRequest
	PendingIntents []IntentRequest
	SlotFill       *SlotFillState
	InternalLog    []string
	CustomerNotes  []string
	Outcomes       []IntentOutcome
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewConversationCase creates an open case for a session. An empty owner makes a guest case.
func NewConversationCase(sessionKey string, owner UserID, ownerName string) *ConversationCase {
	now := time.Now().UTC()
	return &ConversationCase{
		ID:         NewCaseID(ownerName),
		Owner:      owner,
		OwnerName:  ownerName,
		SessionKey: sessionKey,
		Status:     types.CaseStatusOpen,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// IsGuest reports whether the case has not been bound to a user yet
func (c *ConversationCase) IsGuest() bool {
	return c.Owner == ""
}

// HasPending reports whether deferred intents are waiting
func (c *ConversationCase) HasPending() bool {
	return len(c.PendingIntents) > 0
}

// AppendHistory adds one history entry
func (c *ConversationCase) AppendHistory(role types.Role, content string) {
	c.History = append(c.History, Message{
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	})
}

// LogInternal appends to the system-facing audit trail
func (c *ConversationCase) LogInternal(entry string) {
	c.InternalLog = append(c.InternalLog, entry)
}

// NoteCustomer appends to the user-facing audit trail
func (c *ConversationCase) NoteCustomer(entry string) {
	c.CustomerNotes = append(c.CustomerNotes, entry)
}

// RecordOutcome appends a per-intent outcome entry
func (c *ConversationCase) RecordOutcome(intent types.IntentName, status types.OutcomeStatus, detail string) {
	c.Outcomes = append(c.Outcomes, IntentOutcome{
		Intent:    intent,
		Status:    status,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	})
}

// AssignOwner binds a guest case to a known user
func (c *ConversationCase) AssignOwner(id UserID, name string) {
	c.Owner = id
	c.OwnerName = name
}
