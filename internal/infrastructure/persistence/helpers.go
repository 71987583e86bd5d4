package persistence

import (
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/storeops/backoffice/internal/domain/shared"
)

// allowed sort columns per table; anything else falls back to created_at
var sortableColumns = map[string]bool{
	"created_at":    true,
	"updated_at":    true,
	"order_number":  true,
	"batch_number":  true,
	"status":        true,
	"total_amount":  true,
	"received_date": true,
	"amount":        true,
}

// applyFilter adds pagination and ordering to a query
func applyFilter(db *gorm.DB, filter shared.Filter) *gorm.DB {
	orderBy := filter.OrderBy
	if !sortableColumns[orderBy] {
		orderBy = "created_at"
	}
	dir := "DESC"
	if filter.OrderDir == "asc" {
		dir = "ASC"
	}
	return db.Order(orderBy + " " + dir).Offset(filter.Offset()).Limit(filter.Limit())
}

// translateError converts driver-level errors to domain errors where a stable
// mapping exists, and passes everything else through.
func translateError(err error, resource string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NewNotFoundError(resource)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return shared.NewDomainError(shared.ErrCodeAlreadyExists, resource+" already exists")
	}
	return err
}
