package dialog

import (
	"context"
	"fmt"
	"strings"

	"cherdak-bot/internal/catalog"
	"cherdak-bot/internal/keyboard"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const catalogSeparator = "----------------------\n"

// start greets the user and drops any dialogue in progress.
func (m *Machine) start(ctx context.Context, s *Session, msg Message) ([]Reply, error) {
	s.reset()
	return []Reply{{Text: textWelcome, Keyboard: keyboard.Main()}}, nil
}

func (m *Machine) showCatalog(category catalog.Category) HandlerFunc {
	return func(ctx context.Context, s *Session, msg Message) ([]Reply, error) {
		items, err := m.store.List(ctx, category)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", category, err)
		}
		return []Reply{{Text: FormatCatalog(category, items), Markdown: true}}, nil
	}
}

func (m *Machine) showLocation(ctx context.Context, s *Session, msg Message) ([]Reply, error) {
	return []Reply{{Text: fmt.Sprintf(textLocation, m.locationURL), Markdown: true}}, nil
}

// FormatCatalog renders a customer-facing Markdown listing of one category.
func FormatCatalog(category catalog.Category, items []catalog.Item) string {
	if len(items) == 0 {
		return catalogEmpty[category]
	}

	var sb strings.Builder
	sb.WriteString(catalogHeader[category])
	for _, item := range items {
		available := "❌ *Нет в наличии*"
		if item.Available {
			available = "✅ *В наличии*"
		}
		fmt.Fprintf(&sb, "*Название:* %s\n*%s:* %s\n%s\n\n",
			escape(item.Name), category.DetailTitle(), escape(item.Detail), available)
		sb.WriteString(catalogSeparator)
	}
	return sb.String()
}

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}
