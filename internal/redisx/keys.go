package redisx

import "time"

const (
	// Cache status order: order_status:{order_id} -> {"status": "...", "updated_at": "..."}
	KeyOrderStatus = "order_status:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Refund lock per order: lock:refund:{order_id}
	KeyRefundLock = "lock:refund:%s"

	// Loyalty redemption replay: idem:redeem:{user_id}:{idempotency_key} -> redemption json
	KeyIdemRedeem = "idem:redeem:%s:%s"

	// Autocomplete cache: search:ac:{normalized_query}:{limit}
	KeyAutocomplete = "search:ac:%s:%d"
)

var (
	TTLStatusCache  = 5 * time.Minute
	TTLDedup        = 48 * time.Hour
	TTLRefundLock   = 30 * time.Second
	TTLIdempotency  = 24 * time.Hour
	TTLAutocomplete = 5 * time.Minute
)
