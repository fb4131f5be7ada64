package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, q *Quote) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Quote, error)
	FindBySessionID(ctx context.Context, db *gorm.DB, sessionID string) (*Quote, error)
	UpdateInputs(ctx context.Context, db *gorm.DB, q *Quote) error

	// FreezeSelection writes the frozen pricing columns with an optimistic
	// status guard: the UPDATE only applies while status is still draft.
	// It returns false when the guard misses, meaning another request froze
	// the quote first.
	FreezeSelection(ctx context.Context, db *gorm.DB, q *Quote) (bool, error)

	// UpdateStatus applies a post-selection transition with an optimistic
	// guard on the expected current status.
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, from, to Status) (bool, error)
}
