package notify

import (
	"context"

	"github.com/socialfolio/folio/internal/database/models"
	"github.com/socialfolio/folio/internal/database/types"
)

// StoreEmitter persists notifications so they can be listed later.
type StoreEmitter struct {
	model *models.NotificationModel
}

// NewStoreEmitter creates an emitter writing to the notifications table.
func NewStoreEmitter(model *models.NotificationModel) *StoreEmitter {
	return &StoreEmitter{model: model}
}

// Emit stores a copy of the notification.
func (e *StoreEmitter) Emit(ctx context.Context, n *types.Notification) error {
	row := *n
	return e.model.Create(ctx, &row)
}
