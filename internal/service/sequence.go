package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"tailor-service/internal/model"
)

// NextSequence allocates the next number for a (tenant, key) pair inside
// the caller's transaction. The counter row is advanced with a
// compare-and-swap update, never by counting existing rows, so two
// transactions can never read the same value and both commit: the loser
// sees zero affected rows and gets ErrConcurrencyConflict.
func NextSequence(tx *gorm.DB, tenantID uint, key string) (int64, error) {
	var seq model.TenantSequence
	err := tx.Where("tenant_id = ? AND key = ?", tenantID, key).First(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		seq = model.TenantSequence{TenantID: tenantID, Key: key, Value: 1}
		if err := tx.Create(&seq).Error; err != nil {
			// Unique index on (tenant_id, key): a concurrent
			// transaction created the row first.
			return 0, ErrConcurrencyConflict
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}

	next := seq.Value + 1
	res := tx.Model(&model.TenantSequence{}).
		Where("id = ? AND value = ?", seq.ID, seq.Value).
		Update("value", next)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrConcurrencyConflict
	}
	return next, nil
}

// FormatSequence renders a tenant-scoped document number as
// {prefix}-{zero-padded sequence}.
func FormatSequence(prefix string, n int64) string {
	return fmt.Sprintf("%s-%04d", prefix, n)
}
