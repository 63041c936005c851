package repository

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/faqplusplus/faqplusplus/internal/shared/errors"
)

// tableInit creates a backing table on first use. Concurrent first callers
// wait for the same attempt; the outcome is remembered for the process
// lifetime.
type tableInit struct {
	once  sync.Once
	db    *gorm.DB
	model interface{}
	err   error
}

func newTableInit(db *gorm.DB, model interface{}) *tableInit {
	return &tableInit{db: db, model: model}
}

func (t *tableInit) ensure(ctx context.Context) error {
	t.once.Do(func() {
		// The first caller's cancellation must not poison every later caller.
		if err := t.db.WithContext(context.WithoutCancel(ctx)).AutoMigrate(t.model); err != nil {
			t.err = errors.NewUnavailableError("storage is unavailable", fmt.Errorf("ensure table: %w", err))
		}
	})
	return t.err
}

func unavailable(op string, err error) error {
	return errors.NewUnavailableError("storage is unavailable", fmt.Errorf("%s: %w", op, err))
}
