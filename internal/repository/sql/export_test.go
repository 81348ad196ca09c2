package sql

import "database/sql"

// BoundTx returns the transactions the product and event repositories handed to a
// WithinTransaction callback are bound to.
func BoundTx(products *ProductRepository, events *EventRepository) (*sql.Tx, *sql.Tx) {
	return products.txn, events.txn
}
