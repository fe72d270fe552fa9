package types

import (
	"time"

	"github.com/socialfolio/folio/internal/database/types/enum"
	"github.com/uptrace/bun"
)

// Notification is a best-effort message for a user. It is written after the
// state change that caused it has committed.
type Notification struct {
	bun.BaseModel `bun:"table:notifications,alias:n"`

	ID        int64                 `bun:",pk,autoincrement" json:"id"`
	UserID    int64                 `bun:",notnull"          json:"userId"`
	ActorID   int64                 `bun:",notnull"          json:"actorId"`
	Kind      enum.NotificationKind `bun:",notnull"          json:"kind"`
	Message   string                `bun:",notnull"          json:"message"`
	IsRead    bool                  `bun:",notnull"          json:"read"`
	CreatedAt time.Time             `bun:",notnull"          json:"createdAt"`
}
