// Package models contains GORM persistence models that map to database tables.
// Domain entities carry no ORM tags; repositories convert with ToDomain and
// FromDomain at the boundary.
//
// Files:
//   - base.go: shared columns (BaseModel, AggregateModel, OwnedAggregateModel)
//   - order.go: orders and ordered_items
//   - catalog.go: shops, categories, products, product_infos, product_parameters
//   - contact.go: contacts
//   - outbox.go: outbox_events for post-commit event delivery
package models
