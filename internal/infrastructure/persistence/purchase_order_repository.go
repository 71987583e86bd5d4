package persistence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/storeops/backoffice/internal/domain/purchasing"
	"github.com/storeops/backoffice/internal/domain/shared"
)

// GormPurchaseOrderRepository is the GORM implementation of
// purchasing.PurchaseOrderRepository.
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID loads an order with its lines
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	var order purchasing.PurchaseOrder
	err := r.db.WithContext(ctx).Preload("Lines").First(&order, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err, "purchase order")
	}
	return &order, nil
}

// FindByOrderNumber loads an order by its business key
func (r *GormPurchaseOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*purchasing.PurchaseOrder, error) {
	var order purchasing.PurchaseOrder
	err := r.db.WithContext(ctx).Preload("Lines").First(&order, "order_number = ?", orderNumber).Error
	if err != nil {
		return nil, translateError(err, "purchase order")
	}
	return &order, nil
}

// FindAll returns a page of orders
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]purchasing.PurchaseOrder, error) {
	var orders []purchasing.PurchaseOrder
	query := r.db.WithContext(ctx).Model(&purchasing.PurchaseOrder{}).Preload("Lines")
	if filter.Search != "" {
		query = query.Where("order_number ILIKE ? OR supplier_name ILIKE ?",
			"%"+filter.Search+"%", "%"+filter.Search+"%")
	}
	if err := applyFilter(query, filter).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByStatus returns a page of orders in the given status
func (r *GormPurchaseOrderRepository) FindByStatus(ctx context.Context, status purchasing.PurchaseOrderStatus, filter shared.Filter) ([]purchasing.PurchaseOrder, error) {
	var orders []purchasing.PurchaseOrder
	query := r.db.WithContext(ctx).Model(&purchasing.PurchaseOrder{}).
		Preload("Lines").Where("status = ?", status)
	if err := applyFilter(query, filter).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindBySupplier returns a page of orders for one supplier
func (r *GormPurchaseOrderRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]purchasing.PurchaseOrder, error) {
	var orders []purchasing.PurchaseOrder
	query := r.db.WithContext(ctx).Model(&purchasing.PurchaseOrder{}).
		Preload("Lines").Where("supplier_id = ?", supplierID)
	if err := applyFilter(query, filter).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save persists a new order or overwrites an existing one without a version check
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *purchasing.PurchaseOrder) error {
	err := r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(order).Error
	return translateError(err, "purchase order")
}

// SaveWithLock persists the order only if the stored version is older than the
// in-memory one. The stored row is locked for the duration of the check.
func (r *GormPurchaseOrderRepository) SaveWithLock(ctx context.Context, order *purchasing.PurchaseOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current struct{ Version int }
		err := tx.Model(&purchasing.PurchaseOrder{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("version").
			Where("id = ?", order.ID).
			Take(&current).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.NewNotFoundError("purchase order")
		}
		if err != nil {
			return err
		}
		if current.Version >= order.Version {
			return shared.NewConcurrentModificationError("purchase order")
		}

		if err := tx.Omit(clause.Associations).Save(order).Error; err != nil {
			return translateError(err, "purchase order")
		}
		for i := range order.Lines {
			if err := tx.Save(&order.Lines[i]).Error; err != nil {
				return translateError(err, "purchase order line")
			}
		}
		return nil
	})
}

// Delete removes an order and its lines
func (r *GormPurchaseOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("purchase_order_id = ?", id).Delete(&purchasing.PurchaseOrderLine{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&purchasing.PurchaseOrder{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewNotFoundError("purchase order")
		}
		return nil
	})
}

// Count returns the number of orders matching the filter
func (r *GormPurchaseOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&purchasing.PurchaseOrder{})
	if filter.Search != "" {
		query = query.Where("order_number ILIKE ? OR supplier_name ILIKE ?",
			"%"+filter.Search+"%", "%"+filter.Search+"%")
	}
	err := query.Count(&count).Error
	return count, err
}

// CountByStatus returns the number of orders in a status
func (r *GormPurchaseOrderRepository) CountByStatus(ctx context.Context, status purchasing.PurchaseOrderStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&purchasing.PurchaseOrder{}).
		Where("status = ?", status).Count(&count).Error
	return count, err
}

// ExistsByOrderNumber reports whether an order number is taken
func (r *GormPurchaseOrderRepository) ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&purchasing.PurchaseOrder{}).
		Where("order_number = ?", orderNumber).Count(&count).Error
	return count > 0, err
}

// GenerateOrderNumber produces the next PO-YYYY-NNNNN number for the current year
func (r *GormPurchaseOrderRepository) GenerateOrderNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("PO-%d-", year)

	var last string
	err := r.db.WithContext(ctx).Model(&purchasing.PurchaseOrder{}).
		Select("order_number").
		Where("order_number LIKE ?", prefix+"%").
		Order("order_number DESC").
		Limit(1).
		Scan(&last).Error
	if err != nil {
		return "", err
	}

	seq := 1
	if last != "" {
		if n, err := strconv.Atoi(strings.TrimPrefix(last, prefix)); err == nil {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s%05d", prefix, seq), nil
}

var _ purchasing.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
