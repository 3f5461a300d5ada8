package dialog

import (
	"context"
	"fmt"

	"cherdak-bot/internal/catalog"
	"cherdak-bot/internal/keyboard"
	"cherdak-bot/internal/storage"

	"go.uber.org/zap"
)

func (m *Machine) requireAdmin(ctx context.Context, userID int64) error {
	ok, err := m.store.IsAdmin(ctx, userID)
	if err != nil {
		return fmt.Errorf("check admin %d: %w", userID, err)
	}
	if !ok {
		return fmt.Errorf("user %d: %w", userID, catalog.ErrAccessDenied)
	}
	return nil
}

func (m *Machine) enterAdminPanel(ctx context.Context, s *Session, msg Message) ([]Reply, error) {
	if err := m.requireAdmin(ctx, msg.UserID); err != nil {
		return nil, err
	}

	s.toMenu()
	return []Reply{{Text: textAdminWelcome, Keyboard: keyboard.AdminMenu()}}, nil
}

// cancel abandons the current step and returns to the admin menu.
func (m *Machine) cancel(ctx context.Context, s *Session, msg Message) ([]Reply, error) {
	if !s.Active() {
		return nil, errUnrecognized
	}

	s.toMenu()
	return []Reply{{Text: textCancelled, Keyboard: keyboard.AdminMenu()}}, nil
}

func (m *Machine) exit(ctx context.Context, s *Session, msg Message) ([]Reply, error) {
	if !s.Active() {
		return nil, errUnrecognized
	}

	s.reset()
	return []Reply{{Text: textAdminExit, Keyboard: keyboard.Main()}}, nil
}

func (m *Machine) rejectMenuChoice(ctx context.Context, s *Session, msg Message) ([]Reply, error) {
	return nil, invalid(textChooseAction, keyboard.AdminMenu(), false)
}

func (m *Machine) startAdding(category catalog.Category) HandlerFunc {
	return func(ctx context.Context, s *Session, msg Message) ([]Reply, error) {
		s.State = StateAwaitingName
		s.Pending = Pending{Category: category}
		return []Reply{promptFor(*s)}, nil
	}
}

func (m *Machine) collectName(ctx context.Context, s *Session, msg Message) ([]Reply, error) {
	name, err := freeText(*s, msg.Text)
	if err != nil {
		return nil, err
	}
	if !s.Pending.Category.Valid() {
		return nil, errBrokenSession
	}

	s.Pending.Name = name
	s.State = StateAwaitingDescription
	return []Reply{promptFor(*s)}, nil
}

func (m *Machine) collectDetail(ctx context.Context, s *Session, msg Message) ([]Reply, error) {
	detail, err := freeText(*s, msg.Text)
	if err != nil {
		return nil, err
	}

	s.Pending.Detail = detail
	s.State = StateAwaitingAvailability
	return []Reply{promptFor(*s)}, nil
}

func (m *Machine) createItem(ctx context.Context, s *Session, msg Message) ([]Reply, error) {
	if _, err := freeText(*s, msg.Text); err != nil {
		return nil, err
	}
	p := s.Pending
	if !p.Category.Valid() || p.Name == "" {
		return nil, errBrokenSession
	}

	// only the exact "In stock" label means available
	available := msg.Text == keyboard.InStock

	id, err := m.store.Insert(ctx, p.Category, p.Name, p.Detail, available)
	if err != nil {
		return nil, fmt.Errorf("add %s %q: %w", p.Category, p.Name, err)
	}

	m.logger.Info("Catalog item added",
		zap.Int64("chat_id", msg.ChatID),
		zap.String("category", string(p.Category)),
		zap.Int64("id", id),
		zap.String("name", p.Name))

	s.toMenu()
	return backToMenu(textItemAdded, false), nil
}

func (m *Machine) listForSelection(ctx context.Context, s *Session, msg Message) ([]Reply, error) {
	items, err := m.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	if len(items) == 0 {
		return []Reply{{Text: textNoItems, Markdown: true, Keyboard: keyboard.AdminMenu()}}, nil
	}

	s.State = StateAwaitingItemSelection
	s.Pending = Pending{}
	return []Reply{{Text: textChooseItem, Keyboard: KeyboardFor(s.State, items)}}, nil
}

// selectItem resolves the pressed label against a fresh listing. Names are not
// unique, so the first match in listing order (tobacco before tea) wins.
func (m *Machine) selectItem(ctx context.Context, s *Session, msg Message) ([]Reply, error) {
	items, err := m.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	for _, item := range items {
		if item.Name != msg.Text {
			continue
		}

		s.State = StateAwaitingEditAction
		s.Pending = Pending{Category: item.Category, ItemID: item.ID, ItemName: item.Name}
		return []Reply{{
			Text:     fmt.Sprintf(textItemChosen, item.Name),
			Keyboard: keyboard.EditOrDelete(),
		}}, nil
	}

	return nil, invalid(textInvalidChoice, keyboard.Items(items), false)
}

func (m *Machine) rejectEditAction(ctx context.Context, s *Session, msg Message) ([]Reply, error) {
	return nil, invalid(textInvalidAction, keyboard.EditOrDelete(), true)
}

func (m *Machine) chooseEdit(ctx context.Context, s *Session, msg Message) ([]Reply, error) {
	if _, ok := s.Selected(); !ok {
		return nil, errBrokenSession
	}

	s.State = StateAwaitingEditDetail
	return []Reply{promptFor(*s)}, nil
}

func (m *Machine) deleteItem(ctx context.Context, s *Session, msg Message) ([]Reply, error) {
	ref, ok := s.Selected()
	if !ok {
		return nil, errBrokenSession
	}

	if err := m.store.Delete(ctx, ref); err != nil {
		return nil, fmt.Errorf("delete %s: %w", ref, err)
	}

	m.logger.Info("Catalog item deleted",
		zap.Int64("chat_id", msg.ChatID),
		zap.Stringer("item", ref))

	s.toMenu()
	return backToMenu(textItemDeleted, true), nil
}

func (m *Machine) rejectEditDetail(ctx context.Context, s *Session, msg Message) ([]Reply, error) {
	return nil, invalid(textInvalidDetail, keyboard.EditDetail(), true)
}

func (m *Machine) askNew(next State) HandlerFunc {
	return func(ctx context.Context, s *Session, msg Message) ([]Reply, error) {
		if _, ok := s.Selected(); !ok {
			return nil, errBrokenSession
		}

		s.State = next
		return []Reply{promptFor(*s)}, nil
	}
}

func (m *Machine) updateField(field catalog.Field) HandlerFunc {
	return func(ctx context.Context, s *Session, msg Message) ([]Reply, error) {
		text, err := freeText(*s, msg.Text)
		if err != nil {
			return nil, err
		}
		ref, ok := s.Selected()
		if !ok {
			return nil, errBrokenSession
		}

		var value any = text
		if field == catalog.FieldAvailable {
			value = msg.Text == keyboard.InStock
		}

		if err := m.store.UpdateField(ctx, ref, field, value); err != nil {
			return nil, fmt.Errorf("update %s of %s: %w", field, ref, err)
		}

		m.logger.Info("Catalog item updated",
			zap.Int64("chat_id", msg.ChatID),
			zap.Stringer("item", ref),
			zap.String("field", string(field)))

		s.toMenu()
		return backToMenu(updatedText[field], true), nil
	}
}

// export sends the whole catalog as a workbook without touching the dialogue state.
func (m *Machine) export(ctx context.Context, s *Session, msg Message) ([]Reply, error) {
	if err := m.requireAdmin(ctx, msg.UserID); err != nil {
		return nil, err
	}

	data, err := storage.ExportCatalog(ctx, m.store)
	if err != nil {
		return nil, fmt.Errorf("export catalog: %w", err)
	}

	return []Reply{{
		Text:     textExportCaption,
		Document: &Document{Name: textExportName, Data: data},
	}}, nil
}
