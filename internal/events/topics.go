package events

const (
	TopicOrderStatus   = "storefront.order.status"
	TopicRefunds       = "storefront.refunds"
	TopicNotifications = "storefront.notifications"
	TopicLoyalty       = "storefront.loyalty"
)

// Partition key = order_id (atau user_id), supaya urutan event per entitas terjaga.
func PartitionKey(id string) []byte { return []byte(id) }
