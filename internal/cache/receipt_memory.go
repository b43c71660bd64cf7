package cache

import (
	"context"
	"time"

	"github.com/Gsweya/hweibo-prototype/internal/models"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const defaultMemoryReceipts = 10_000

type memoryReceiptCache struct {
	lru *expirable.LRU[string, *models.OrderReceipt]
}

// NewMemoryReceiptCache keeps at most size receipts in process, each for ttl.
func NewMemoryReceiptCache(size int, ttl time.Duration) ReceiptCache {
	if size <= 0 {
		size = defaultMemoryReceipts
	}
	if ttl <= 0 {
		ttl = DefaultReceiptTTL
	}
	return &memoryReceiptCache{lru: expirable.NewLRU[string, *models.OrderReceipt](size, nil, ttl)}
}

func (m *memoryReceiptCache) Put(_ context.Context, sessionID string, receipt *models.OrderReceipt) error {
	m.lru.Add(Key(ReceiptKeyPrefix, sessionID, receipt.OrderID), receipt.Clone())
	return nil
}

func (m *memoryReceiptCache) Get(_ context.Context, sessionID, orderID string) (*models.OrderReceipt, bool, error) {
	receipt, ok := m.lru.Get(Key(ReceiptKeyPrefix, sessionID, orderID))
	if !ok {
		return nil, false, nil
	}
	return receipt.Clone(), true, nil
}

func (m *memoryReceiptCache) Close() error {
	m.lru.Purge()
	return nil
}
