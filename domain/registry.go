package domain

import (
	"fmt"
	"sort"

	"github.com/poiesic/quire/core"
)

// Storage tables for the persistent entities.
const (
	TableNotebook    = "notebook"
	TableSource      = "source"
	TableNote        = "note"
	TableChatSession = "chat_session"
)

// factories maps each table to its entity constructor. A new entity
// type must be added here to be reachable through Catalog.Get.
var factories = map[string]func() Model{
	TableNotebook:    func() Model { return &Notebook{} },
	TableSource:      func() Model { return &Source{} },
	TableNote:        func() Model { return &Note{} },
	TableChatSession: func() Model { return &ChatSession{} },
}

var (
	_ Embeddable = (*Source)(nil)
	_ Embeddable = (*Note)(nil)
	_ Singleton  = (*Settings)(nil)
	_ Singleton  = (*IndexState)(nil)
)

// newForTable returns a zero-valued entity for table.
func newForTable(table string) (Model, error) {
	factory, ok := factories[table]
	if !ok {
		return nil, fmt.Errorf("%w: no entity registered for table %q", core.ErrInvalidInput, table)
	}
	return factory(), nil
}

// Tables returns the registered table names in sorted order.
func Tables() []string {
	out := make([]string, 0, len(factories))
	for table := range factories {
		out = append(out, table)
	}
	sort.Strings(out)
	return out
}
