// Package keyboard builds the reply keyboards shown to users. Every builder
// returns a fresh Layout, so callers may modify the result freely.
package keyboard

import "cherdak-bot/internal/catalog"

// Button labels. These are also the exact triggers the dialogue matches on.
const (
	Tobacco    = "🍂 Табак"
	Tea        = "🍵 Чай"
	Location   = "📍 Как нас найти?"
	AdminPanel = "⚙️ Админ панель"

	AddTobacco = "Добавить табак"
	AddTea     = "Добавить чай"
	EditItems  = "Редактировать позиции"
	Exit       = "Выйти"

	InStock    = "В наличии"
	OutOfStock = "Нет в наличии"
	Cancel     = "Отмена"

	Edit   = "Редактировать"
	Delete = "Удалить"

	DetailName      = "Название"
	DetailText      = "Описание"
	DetailAvailable = "Статус наличия"
)

// rowWidth is the number of buttons per menu row.
const rowWidth = 3

// Layout is an ordered set of button rows.
type Layout [][]string

// Labels flattens the layout row by row.
func (l Layout) Labels() []string {
	var out []string
	for _, row := range l {
		out = append(out, row...)
	}
	return out
}

func Main() Layout {
	return grid(Tobacco, Tea, Location, AdminPanel)
}

func AdminMenu() Layout {
	return grid(AddTobacco, AddTea, EditItems, Exit)
}

func CancelOnly() Layout {
	return Layout{{Cancel}}
}

func Availability() Layout {
	return grid(InStock, OutOfStock, Cancel)
}

func EditOrDelete() Layout {
	return grid(Edit, Delete, Cancel)
}

func EditDetail() Layout {
	return grid(DetailName, DetailText, DetailAvailable, Cancel)
}

// Items puts every item name on its own row, followed by Cancel.
// Callers pass a freshly queried list so the keyboard reflects the current catalog.
func Items(items []catalog.Item) Layout {
	l := make(Layout, 0, len(items)+1)
	for _, item := range items {
		l = append(l, []string{item.Name})
	}
	return append(l, []string{Cancel})
}

func grid(labels ...string) Layout {
	var l Layout
	for len(labels) > 0 {
		n := min(rowWidth, len(labels))
		l = append(l, append([]string(nil), labels[:n]...))
		labels = labels[n:]
	}
	return l
}
