package catalog

import (
	"context"
	"fmt"
)

// Category names one of the two item collections. The value doubles as the
// table name in Postgres.
type Category string

const (
	Tobacco Category = "tobacco"
	Tea     Category = "tea"
)

// Categories lists every category in the order combined listings use.
var Categories = []Category{Tobacco, Tea}

func (c Category) Valid() bool {
	return c == Tobacco || c == Tea
}

// DetailTitle is the display name of the secondary text field:
// flavor for tobacco, description for tea.
func (c Category) DetailTitle() string {
	if c == Tobacco {
		return "Вкус"
	}
	return "Описание"
}

type Item struct {
	ID        int64    `db:"id"`
	Category  Category `db:"category"`
	Name      string   `db:"name"`
	Detail    string   `db:"detail"`
	Available bool     `db:"available"`
}

// ItemRef is the true primary key of an item: ids are unique only within a category.
type ItemRef struct {
	Category Category
	ID       int64
}

func (r ItemRef) String() string {
	return fmt.Sprintf("%s#%d", r.Category, r.ID)
}

// Field is an editable item attribute.
type Field string

const (
	FieldName      Field = "name"
	FieldDetail    Field = "detail"
	FieldAvailable Field = "available"
)

// CheckValue reports whether value has the type the field stores.
func (f Field) CheckValue(value any) error {
	switch f {
	case FieldName, FieldDetail:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("%w: field %s wants a string, got %T", ErrValidation, f, value)
		}
	case FieldAvailable:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("%w: field %s wants a bool, got %T", ErrValidation, f, value)
		}
	default:
		return fmt.Errorf("%w: unknown field %q", ErrValidation, f)
	}
	return nil
}

// Store is the persistence boundary of the catalog. Every call commits on its own.
type Store interface {
	// List returns the items of one category in insertion order.
	List(ctx context.Context, category Category) ([]Item, error)
	// ListAll returns tobacco items followed by tea items, each in insertion order.
	ListAll(ctx context.Context) ([]Item, error)
	Insert(ctx context.Context, category Category, name, detail string, available bool) (int64, error)
	// UpdateField fails with ErrNotFound when the item is absent.
	UpdateField(ctx context.Context, ref ItemRef, field Field, value any) error
	// Delete fails with ErrNotFound when the item is absent, including a repeated delete.
	Delete(ctx context.Context, ref ItemRef) error
	IsAdmin(ctx context.Context, userID int64) (bool, error)
}
