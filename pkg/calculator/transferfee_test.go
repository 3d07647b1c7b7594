package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineByName(t *testing.T, res *Result, line FeeLine) LineResult {
	t.Helper()
	for _, l := range res.Lines {
		if l.Line == line {
			return l
		}
	}
	t.Fatalf("line %s not found in result", line)
	return LineResult{}
}

func TestCalculateIndividualRecentSale(t *testing.T) {
	res, err := Calculate(Input{
		AppraisedValue: 3_000_000,
		SalePrice:      3_500_000,
		LoanAmount:     2_000_000,
		YearsHeld:      2,
	})
	require.NoError(t, err)

	transfer := lineByName(t, res, LineTransferFee)
	assert.True(t, transfer.Applied)
	assert.Equal(t, 60_000.0, transfer.Amount) // 2% of appraised
	assert.Equal(t, 30_000.0, transfer.BuyerAmount)
	assert.Equal(t, 30_000.0, transfer.SellerAmount)

	// Held under 5 years, so SBT on the higher of sale and appraised.
	sbt := lineByName(t, res, LineSpecificBusinessTax)
	assert.True(t, sbt.Applied)
	assert.Equal(t, 115_500.0, sbt.Amount)
	assert.Equal(t, 115_500.0, sbt.SellerAmount)

	stamp := lineByName(t, res, LineStampDuty)
	assert.False(t, stamp.Applied)
	assert.Equal(t, 0.0, stamp.Amount)

	// 2 years held: 84% deduction, 480k assessable over 2 years, all in
	// the 5% bracket.
	wht := lineByName(t, res, LineWithholdingTax)
	assert.True(t, wht.Applied)
	assert.Equal(t, 24_000.0, wht.Amount)

	mortgage := lineByName(t, res, LineMortgageFee)
	assert.True(t, mortgage.Applied)
	assert.Equal(t, 20_000.0, mortgage.Amount)
	assert.Equal(t, 20_000.0, mortgage.BuyerAmount)

	assert.Equal(t, 50_000.0, res.BuyerTotal)
	assert.Equal(t, 169_500.0, res.SellerTotal)
	assert.Equal(t, 219_500.0, res.GrandTotal)
}

func TestCalculateLongHeldGetsStampDuty(t *testing.T) {
	res, err := Calculate(Input{
		AppraisedValue: 2_000_000,
		SalePrice:      2_000_000,
		YearsHeld:      6,
	})
	require.NoError(t, err)

	sbt := lineByName(t, res, LineSpecificBusinessTax)
	assert.False(t, sbt.Applied)
	assert.Contains(t, sbt.Note, "waived")

	stamp := lineByName(t, res, LineStampDuty)
	assert.True(t, stamp.Applied)
	assert.Equal(t, 10_000.0, stamp.Amount)

	// 6 years: 60% deduction leaves 800k assessable, 5% bracket.
	wht := lineByName(t, res, LineWithholdingTax)
	assert.Equal(t, 40_000.0, wht.Amount)

	mortgage := lineByName(t, res, LineMortgageFee)
	assert.False(t, mortgage.Applied)

	assert.Equal(t, 20_000.0, res.BuyerTotal)
	assert.Equal(t, 70_000.0, res.SellerTotal)
	assert.Equal(t, 90_000.0, res.GrandTotal)
}

func TestCalculateRegisteredResidenceWaivesSBT(t *testing.T) {
	res, err := Calculate(Input{
		AppraisedValue:      2_000_000,
		SalePrice:           2_000_000,
		YearsHeld:           1,
		RegisteredResidence: true,
	})
	require.NoError(t, err)

	sbt := lineByName(t, res, LineSpecificBusinessTax)
	assert.False(t, sbt.Applied)
	assert.Contains(t, sbt.Note, "registered residence")

	stamp := lineByName(t, res, LineStampDuty)
	assert.True(t, stamp.Applied)
}

func TestCalculateCompanySeller(t *testing.T) {
	res, err := Calculate(Input{
		AppraisedValue:  10_000_000,
		SalePrice:       12_000_000,
		YearsHeld:       10,
		SellerIsCompany: true,
	})
	require.NoError(t, err)

	// Companies owe SBT regardless of holding period.
	sbt := lineByName(t, res, LineSpecificBusinessTax)
	assert.True(t, sbt.Applied)
	assert.Equal(t, 396_000.0, sbt.Amount)

	wht := lineByName(t, res, LineWithholdingTax)
	// 1% flat on the higher of sale price and appraised value
	assert.Equal(t, 120_000.0, wht.Amount)
	assert.Contains(t, wht.Note, "company")
}

func TestCalculateCustomSplits(t *testing.T) {
	res, err := Calculate(Input{
		AppraisedValue: 1_000_000,
		SalePrice:      1_000_000,
		YearsHeld:      6,
		Splits: map[FeeLine]Split{
			LineTransferFee: {Buyer: 100, Seller: 0},
		},
	})
	require.NoError(t, err)

	transfer := lineByName(t, res, LineTransferFee)
	assert.Equal(t, 20_000.0, transfer.BuyerAmount)
	assert.Equal(t, 0.0, transfer.SellerAmount)
}

func TestCalculateInputErrors(t *testing.T) {
	_, err := Calculate(Input{AppraisedValue: 0, SalePrice: 1_000_000})
	assert.ErrorIs(t, err, ErrAppraisedRequired)

	_, err = Calculate(Input{AppraisedValue: 1_000_000, LoanAmount: -1})
	assert.ErrorIs(t, err, ErrNegativeAmount)

	_, err = Calculate(Input{
		AppraisedValue: 1_000_000,
		Splits:         map[FeeLine]Split{LineTransferFee: {Buyer: 60, Seller: 60}},
	})
	assert.ErrorIs(t, err, ErrBadSplit)

	_, err = Calculate(Input{
		AppraisedValue: 1_000_000,
		Splits:         map[FeeLine]Split{"made_up_line": {Buyer: 50, Seller: 50}},
	})
	assert.Error(t, err)
}

func TestProgressiveTaxBrackets(t *testing.T) {
	assert.Equal(t, 15_000.0, progressiveTax(300_000))
	// 300k @5% + 200k @10% + 250k @15% + 250k @20% + 500k @25%
	assert.Equal(t, 247_500.0, progressiveTax(1_500_000))
	assert.Equal(t, 0.0, progressiveTax(0))
}

func TestPersonalWithholdingYearsClamp(t *testing.T) {
	// Zero years is treated as one year.
	assert.Equal(t, personalWithholding(1_000_000, 1), personalWithholding(1_000_000, 0))

	// Beyond the cap the deduction floor applies and the result stops
	// changing with extra years.
	assert.Equal(t, personalWithholding(1_000_000, 10), personalWithholding(1_000_000, 25))
}
