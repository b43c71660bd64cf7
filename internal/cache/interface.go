package cache

import (
	"context"
	"time"

	"github.com/Gsweya/hweibo-prototype/internal/models"
)

// ReceiptCache keeps order receipts for later lookup. Receipts are scoped to
// the session that placed the order.
type ReceiptCache interface {
	Put(ctx context.Context, sessionID string, receipt *models.OrderReceipt) error
	// Get reports found=false, with no error, for unknown or expired receipts.
	Get(ctx context.Context, sessionID, orderID string) (*models.OrderReceipt, bool, error)
	Close() error
}

func Key(prefix string, parts ...string) string {
	k := prefix
	for _, p := range parts {
		k += ":" + p
	}
	return k
}

const (
	ReceiptKeyPrefix = "receipt"

	DefaultReceiptTTL = 30 * time.Minute
)
