package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTaxIntraState(t *testing.T) {
	breakup, err := ComputeTax(dec("15000"), dec("5"), "24", "24", true)
	require.NoError(t, err)

	assert.True(t, breakup.CGST.Equal(dec("375")), "cgst = %s", breakup.CGST)
	assert.True(t, breakup.SGST.Equal(dec("375")), "sgst = %s", breakup.SGST)
	assert.True(t, breakup.IGST.IsZero())
	assert.True(t, breakup.Total().Equal(dec("750")))
}

func TestComputeTaxInterState(t *testing.T) {
	breakup, err := ComputeTax(dec("15000"), dec("5"), "24", "27", true)
	require.NoError(t, err)

	assert.True(t, breakup.IGST.Equal(dec("750")), "igst = %s", breakup.IGST)
	assert.True(t, breakup.CGST.IsZero())
	assert.True(t, breakup.SGST.IsZero())
}

func TestComputeTaxRounding(t *testing.T) {
	// 333.33 * 18% = 59.9994; halves are 29.9997 and round half-up to 30.00
	breakup, err := ComputeTax(dec("333.33"), dec("18"), "24", "24", true)
	require.NoError(t, err)
	assert.True(t, breakup.CGST.Equal(dec("30.00")), "cgst = %s", breakup.CGST)
	assert.True(t, breakup.SGST.Equal(dec("30.00")), "sgst = %s", breakup.SGST)

	// the same supply inter-state rounds once on the full amount
	breakup, err = ComputeTax(dec("333.33"), dec("18"), "24", "27", true)
	require.NoError(t, err)
	assert.True(t, breakup.IGST.Equal(dec("60.00")), "igst = %s", breakup.IGST)
}

func TestComputeTaxDisabledOrZeroRate(t *testing.T) {
	breakup, err := ComputeTax(dec("15000"), dec("5"), "24", "27", false)
	require.NoError(t, err)
	assert.True(t, breakup.Total().IsZero())

	// zero rate needs no jurisdiction at all
	breakup, err = ComputeTax(dec("15000"), dec("0"), "", "", true)
	require.NoError(t, err)
	assert.True(t, breakup.Total().IsZero())
}

func TestComputeTaxMissingStateCodes(t *testing.T) {
	_, err := ComputeTax(dec("100"), dec("5"), "", "27", true)
	assert.ErrorIs(t, err, ErrInvalidJurisdiction)

	_, err = ComputeTax(dec("100"), dec("5"), "24", "", true)
	assert.ErrorIs(t, err, ErrInvalidJurisdiction)
}
