package dialog

import "cherdak-bot/internal/catalog"

// State is the dialogue step a chat is in.
type State string

const (
	StateIdle                   State = "idle"
	StateAwaitingCategoryChoice State = "awaiting_category_choice"
	StateAwaitingName           State = "awaiting_name"
	StateAwaitingDescription    State = "awaiting_description"
	StateAwaitingAvailability   State = "awaiting_availability"
	StateAwaitingItemSelection  State = "awaiting_item_selection"
	StateAwaitingEditAction     State = "awaiting_edit_action"
	StateAwaitingEditDetail     State = "awaiting_edit_detail"
	StateAwaitingNewName        State = "awaiting_new_name"
	StateAwaitingNewDescription State = "awaiting_new_description"
	StateAwaitingNewAvailable   State = "awaiting_new_availability"

	// StateAny binds a route to every state. Wildcard routes are matched first.
	StateAny State = "*"
)

// Session is the per-chat dialogue record. A chat without a stored session is idle.
type Session struct {
	ChatID  int64   `json:"chat_id"`
	State   State   `json:"state"`
	Pending Pending `json:"pending"`
}

// Pending holds the fields collected so far in the current dialogue.
type Pending struct {
	Category catalog.Category `json:"category,omitempty"`
	Name     string           `json:"name,omitempty"`
	Detail   string           `json:"detail,omitempty"`
	ItemID   int64            `json:"item_id,omitempty"`
	ItemName string           `json:"item_name,omitempty"`
}

func NewSession(chatID int64) Session {
	return Session{ChatID: chatID, State: StateIdle}
}

// Active reports whether an admin dialogue is in progress.
func (s Session) Active() bool {
	return s.State != "" && s.State != StateIdle
}

// Selected returns the item picked for edit or delete.
func (s Session) Selected() (catalog.ItemRef, bool) {
	if !s.Pending.Category.Valid() || s.Pending.ItemID == 0 {
		return catalog.ItemRef{}, false
	}
	return catalog.ItemRef{Category: s.Pending.Category, ID: s.Pending.ItemID}, true
}

// toMenu resets the collected fields and parks the chat on the admin menu.
func (s *Session) toMenu() {
	s.State = StateAwaitingCategoryChoice
	s.Pending = Pending{}
}

func (s *Session) reset() {
	s.State = StateIdle
	s.Pending = Pending{}
}
