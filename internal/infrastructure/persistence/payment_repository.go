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

	"github.com/storeops/backoffice/internal/domain/payment"
	"github.com/storeops/backoffice/internal/domain/shared"
)

// GormPaymentRepository is the GORM implementation of payment.PaymentRepository
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID loads a payment
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	var p payment.Payment
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err, "payment")
	}
	return &p, nil
}

// FindByPaymentNumber loads a payment by its business key
func (r *GormPaymentRepository) FindByPaymentNumber(ctx context.Context, paymentNumber string) (*payment.Payment, error) {
	var p payment.Payment
	err := r.db.WithContext(ctx).First(&p, "payment_number = ?", paymentNumber).Error
	if err != nil {
		return nil, translateError(err, "payment")
	}
	return &p, nil
}

// FindByDocument returns all payments against one document
func (r *GormPaymentRepository) FindByDocument(ctx context.Context, doc payment.DocumentRef) ([]payment.Payment, error) {
	var payments []payment.Payment
	err := r.db.WithContext(ctx).
		Where("document_type = ? AND document_id = ?", doc.Type, doc.ID).
		Order("created_at ASC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// FindAll returns a page of payments
func (r *GormPaymentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]payment.Payment, error) {
	var payments []payment.Payment
	query := r.db.WithContext(ctx).Model(&payment.Payment{})
	if filter.Search != "" {
		query = query.Where("payment_number ILIKE ?", "%"+filter.Search+"%")
	}
	if err := applyFilter(query, filter).Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// Save persists a payment without a version check
func (r *GormPaymentRepository) Save(ctx context.Context, p *payment.Payment) error {
	return translateError(r.db.WithContext(ctx).Save(p).Error, "payment")
}

// SaveWithLock persists the payment only if the stored version is older than
// the in-memory one
func (r *GormPaymentRepository) SaveWithLock(ctx context.Context, p *payment.Payment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current struct{ Version int }
		err := tx.Model(&payment.Payment{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("version").
			Where("id = ?", p.ID).
			Take(&current).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.NewNotFoundError("payment")
		}
		if err != nil {
			return err
		}
		if current.Version >= p.Version {
			return shared.NewConcurrentModificationError("payment")
		}
		return translateError(tx.Save(p).Error, "payment")
	})
}

// Delete removes a payment row
func (r *GormPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&payment.Payment{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error, "payment")
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("payment")
	}
	return nil
}

// Count returns the number of payments matching the filter
func (r *GormPaymentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&payment.Payment{})
	if filter.Search != "" {
		query = query.Where("payment_number ILIKE ?", "%"+filter.Search+"%")
	}
	err := query.Count(&count).Error
	return count, err
}

// GeneratePaymentNumber produces the next PAY-YYYY-NNNNN number for the current year
func (r *GormPaymentRepository) GeneratePaymentNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("PAY-%d-", year)

	var last string
	err := r.db.WithContext(ctx).Model(&payment.Payment{}).
		Select("payment_number").
		Where("payment_number LIKE ?", prefix+"%").
		Order("payment_number DESC").
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

var _ payment.PaymentRepository = (*GormPaymentRepository)(nil)
