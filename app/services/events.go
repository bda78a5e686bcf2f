package services

// Domain events fired after a mutation commits. The payload is always a Change.
const (
	EventStoreCreated        = "store.created"
	EventStoreUpdated        = "store.updated"
	EventStoreDeleted        = "store.deleted"
	EventProductCreated      = "product.created"
	EventProductUpdated      = "product.updated"
	EventProductStockUpdated = "product.stock_updated"
	EventProductDeleted      = "product.deleted"
)

// AllEvents lists every event name, for listeners that react to any change.
var AllEvents = []string{
	EventStoreCreated,
	EventStoreUpdated,
	EventStoreDeleted,
	EventProductCreated,
	EventProductUpdated,
	EventProductStockUpdated,
	EventProductDeleted,
}

// Change identifies what a mutation touched. ProductID is zero for store events.
type Change struct {
	StoreID   uint
	ProductID uint
}
