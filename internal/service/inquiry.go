package service

import (
	"gorm.io/gorm"

	"tailor-service/internal/model"
)

// Non-terminal statuses an inquiry may be moved to by hand. `converted`
// is only ever set by the conversion workflow, never by a status update.
var inquiryTransitions = map[string]bool{
	model.InquiryStatusContacted:     true,
	model.InquiryStatusFollowUp:      true,
	model.InquiryStatusInterested:    true,
	model.InquiryStatusNotInterested: true,
	model.InquiryStatusClosed:        true,
}

// ValidateInquiryTransition enforces the inquiry state machine: terminal
// inquiries never move again, and `converted` cannot be assigned
// directly.
func ValidateInquiryTransition(from, to string) error {
	if from == model.InquiryStatusConverted {
		return ErrAlreadyConverted
	}
	if from == model.InquiryStatusClosed {
		return ErrInquiryClosed
	}
	if !inquiryTransitions[to] {
		return ErrInvalidTransition
	}
	return nil
}

// UpdateInquiryStatus applies a validated status change.
func UpdateInquiryStatus(db *gorm.DB, tenantID, inquiryID uint, to string) (*model.Inquiry, error) {
	var inquiry model.Inquiry
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND tenant_id = ?", inquiryID, tenantID).First(&inquiry).Error; err != nil {
			return err
		}
		if err := ValidateInquiryTransition(inquiry.Status, to); err != nil {
			return err
		}
		inquiry.Status = to
		return tx.Save(&inquiry).Error
	})
	if err != nil {
		return nil, err
	}
	return &inquiry, nil
}
