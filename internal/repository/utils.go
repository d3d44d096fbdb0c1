package repository

import (
	"context"

	"github.com/strayline/casevault/internal/domain"
	"github.com/strayline/casevault/internal/logger"
)

// SafeRollback rolls back a transaction for use in defer. Rolling back an
// already-committed tx reports "closed", which is the normal success path
// and stays out of the logs.
func SafeRollback(ctx context.Context, tx Tx) {
	err := tx.Rollback(ctx)
	if err == nil || err.Error() == domain.ErrMsgTxClosed {
		return
	}
	logger.FromContext(ctx).Error("Failed to rollback transaction", "error", err)
}
