package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tailor-service/internal/model"
)

func TestValidateInquiryTransition(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want error
	}{
		{"new to contacted", model.InquiryStatusNew, model.InquiryStatusContacted, nil},
		{"contacted to interested", model.InquiryStatusContacted, model.InquiryStatusInterested, nil},
		{"interested to closed", model.InquiryStatusInterested, model.InquiryStatusClosed, nil},
		{"converted is frozen", model.InquiryStatusConverted, model.InquiryStatusContacted, ErrAlreadyConverted},
		{"closed is frozen", model.InquiryStatusClosed, model.InquiryStatusContacted, ErrInquiryClosed},
		{"converted cannot be assigned", model.InquiryStatusNew, model.InquiryStatusConverted, ErrInvalidTransition},
		{"unknown status rejected", model.InquiryStatusNew, "archived", ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInquiryTransition(tt.from, tt.to)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestUpdateInquiryStatus(t *testing.T) {
	db := newTestDB(t)
	tenant := seedTenant(t, db, unlimitedPlan(), true, "24")
	inquiry := seedInquiry(t, db, tenant.ID)

	updated, err := UpdateInquiryStatus(db, tenant.ID, inquiry.ID, model.InquiryStatusClosed)
	require.NoError(t, err)
	assert.Equal(t, model.InquiryStatusClosed, updated.Status)

	_, err = UpdateInquiryStatus(db, tenant.ID, inquiry.ID, model.InquiryStatusContacted)
	assert.ErrorIs(t, err, ErrInquiryClosed)
}
