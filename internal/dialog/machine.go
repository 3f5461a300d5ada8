package dialog

import (
	"context"
	"errors"

	"cherdak-bot/internal/catalog"
	"cherdak-bot/internal/keyboard"

	"go.uber.org/zap"
)

// Machine is the dialogue state machine. It holds no per-chat data: every call
// to Step receives the session and returns the next one.
type Machine struct {
	store       catalog.Store
	logger      *zap.Logger
	router      *Router
	locationURL string
}

func NewMachine(store catalog.Store, logger *zap.Logger, locationURL string) *Machine {
	m := &Machine{
		store:       store,
		logger:      logger,
		locationURL: locationURL,
	}
	m.router = m.routes()
	return m
}

func (m *Machine) routes() *Router {
	r := NewRouter()

	r.Handle(StateAny, Exact(cmdStart), m.start)
	r.Handle(StateAny, Exact(cmdExport), m.export)
	r.Handle(StateAny, Exact(keyboard.Cancel), m.cancel)
	r.Handle(StateAny, Exact(keyboard.Exit), m.exit)

	r.Handle(StateIdle, Exact(keyboard.Tobacco), m.showCatalog(catalog.Tobacco))
	r.Handle(StateIdle, Exact(keyboard.Tea), m.showCatalog(catalog.Tea))
	r.Handle(StateIdle, Exact(keyboard.Location), m.showLocation)
	r.Handle(StateIdle, Exact(keyboard.AdminPanel), m.enterAdminPanel)

	r.Handle(StateAwaitingCategoryChoice, Exact(keyboard.AddTobacco), m.startAdding(catalog.Tobacco))
	r.Handle(StateAwaitingCategoryChoice, Exact(keyboard.AddTea), m.startAdding(catalog.Tea))
	r.Handle(StateAwaitingCategoryChoice, Exact(keyboard.EditItems), m.listForSelection)
	r.Handle(StateAwaitingCategoryChoice, AnyText, m.rejectMenuChoice)

	r.Handle(StateAwaitingName, AnyText, m.collectName)
	r.Handle(StateAwaitingDescription, AnyText, m.collectDetail)
	r.Handle(StateAwaitingAvailability, AnyText, m.createItem)

	r.Handle(StateAwaitingItemSelection, AnyText, m.selectItem)

	r.Handle(StateAwaitingEditAction, Fold(keyboard.Edit), m.chooseEdit)
	r.Handle(StateAwaitingEditAction, Fold(keyboard.Delete), m.deleteItem)
	r.Handle(StateAwaitingEditAction, AnyText, m.rejectEditAction)

	r.Handle(StateAwaitingEditDetail, Fold(keyboard.DetailName), m.askNew(StateAwaitingNewName))
	r.Handle(StateAwaitingEditDetail, Fold(keyboard.DetailText), m.askNew(StateAwaitingNewDescription))
	r.Handle(StateAwaitingEditDetail, Fold(keyboard.DetailAvailable), m.askNew(StateAwaitingNewAvailable))
	r.Handle(StateAwaitingEditDetail, AnyText, m.rejectEditDetail)

	r.Handle(StateAwaitingNewName, AnyText, m.updateField(catalog.FieldName))
	r.Handle(StateAwaitingNewDescription, AnyText, m.updateField(catalog.FieldDetail))
	r.Handle(StateAwaitingNewAvailable, AnyText, m.updateField(catalog.FieldAvailable))

	return r
}

// Step handles one message. Failures never escape: each one is turned into
// exactly one reply and a session that can still make progress.
func (m *Machine) Step(ctx context.Context, sess Session, msg Message) Result {
	sess.ChatID = msg.ChatID
	if sess.State == "" {
		sess.State = StateIdle
	}

	handler, ok := m.router.Match(sess.State, msg.Text)
	if !ok {
		return m.fail(ctx, sess, msg, errUnrecognized)
	}

	next := sess
	replies, err := handler(ctx, &next, msg)
	if err != nil {
		return m.fail(ctx, sess, msg, err)
	}

	return Result{Session: next, Replies: replies, Outcome: OutcomeOK}
}

func (m *Machine) fail(ctx context.Context, sess Session, msg Message, err error) Result {
	var verr *ValidationError

	switch {
	case errors.As(err, &verr):
		return Result{Session: sess, Replies: []Reply{verr.Prompt}, Outcome: OutcomeInvalid}

	case errors.Is(err, catalog.ErrValidation):
		return Result{Session: sess, Replies: []Reply{m.repromptFor(ctx, sess)}, Outcome: OutcomeInvalid}

	case errors.Is(err, errUnrecognized):
		return Result{
			Session: sess,
			Replies: []Reply{{Text: textUnknown, Keyboard: KeyboardFor(sess.State, nil)}},
			Outcome: OutcomeUnrecognized,
		}

	case errors.Is(err, catalog.ErrAccessDenied):
		m.logger.Warn("Admin panel access denied",
			zap.Int64("chat_id", msg.ChatID),
			zap.Int64("user_id", msg.UserID))
		return Result{Session: sess, Replies: []Reply{{Text: textNoAccess}}, Outcome: OutcomeDenied}

	case errors.Is(err, catalog.ErrNotFound):
		m.logger.Info("Selected item vanished",
			zap.Int64("chat_id", msg.ChatID),
			zap.String("state", string(sess.State)),
			zap.Error(err))
		return m.reselect(ctx, sess, msg)

	default:
		return m.abort(sess, msg, err)
	}
}

// abort drops the dialogue after a store failure so the chat is never left
// waiting for a field it cannot supply.
func (m *Machine) abort(sess Session, msg Message, err error) Result {
	m.logger.Error("Dialogue aborted",
		zap.Int64("chat_id", msg.ChatID),
		zap.String("state", string(sess.State)),
		zap.Error(err))

	sess.reset()
	return Result{
		Session: sess,
		Replies: []Reply{{Text: textFailure, Keyboard: keyboard.Main()}},
		Outcome: OutcomeStoreError,
	}
}

// reselect sends the user back to item selection with a fresh list.
func (m *Machine) reselect(ctx context.Context, sess Session, msg Message) Result {
	items, err := m.store.ListAll(ctx)
	if err != nil {
		return m.abort(sess, msg, err)
	}

	if len(items) == 0 {
		sess.toMenu()
		return Result{
			Session: sess,
			Replies: []Reply{{Text: textNoItems, Markdown: true, Keyboard: keyboard.AdminMenu()}},
			Outcome: OutcomeNotFound,
		}
	}

	sess.State = StateAwaitingItemSelection
	sess.Pending = Pending{}
	return Result{
		Session: sess,
		Replies: []Reply{{Text: textItemGone, Keyboard: keyboard.Items(items)}},
		Outcome: OutcomeNotFound,
	}
}

func (m *Machine) repromptFor(ctx context.Context, sess Session) Reply {
	if sess.State != StateAwaitingItemSelection {
		return promptFor(sess)
	}

	items, err := m.store.ListAll(ctx)
	if err != nil {
		m.logger.Warn("Failed to refresh item list for reprompt", zap.Error(err))
	}
	return Reply{Text: textInvalidChoice, Keyboard: KeyboardFor(sess.State, items)}
}
