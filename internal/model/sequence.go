package model

import "time"

// Sequence keys. Invoice numbering is split by invoice type so GST and
// non-GST invoices run independent sequences.
const (
	SequenceKeyOrder         = "order"
	SequenceKeyGSTInvoice    = "invoice_gst"
	SequenceKeyNonGSTInvoice = "invoice_non_gst"
)

// TenantSequence is a dedicated counter row per (tenant, key). Numbers
// are allocated by a compare-and-swap increment, never by counting
// existing rows.
type TenantSequence struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TenantID  uint      `json:"tenant_id" gorm:"uniqueIndex:idx_sequence_tenant_key;not null"`
	Key       string    `json:"key" gorm:"type:varchar(30);uniqueIndex:idx_sequence_tenant_key;not null"`
	Value     int64     `json:"value" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
