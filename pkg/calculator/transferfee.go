package calculator

import (
	"errors"
	"fmt"
	"math"
)

// Thai property-transfer cost engine. Rates follow the Land Department /
// Revenue Department schedule:
//
//   - transfer fee: 2% of the appraised value
//   - specific business tax: 3.3% (incl. municipal tax) of the higher of
//     sale price and appraised value, when the seller held the property
//     for under 5 years and had no registered residence for 1+ year
//   - stamp duty: 0.5% of the higher of sale price and appraised value,
//     charged only when SBT does not apply
//   - withholding tax: 1% for company sellers; progressive personal rates
//     over the appraised value with a years-held deduction for individuals
//   - mortgage registration: 1% of the loan amount

type FeeLine string

const (
	LineTransferFee         FeeLine = "transfer_fee"
	LineSpecificBusinessTax FeeLine = "specific_business_tax"
	LineStampDuty           FeeLine = "stamp_duty"
	LineWithholdingTax      FeeLine = "withholding_tax"
	LineMortgageFee         FeeLine = "mortgage_registration"
)

const (
	TransferFeeRate         = 0.02
	SpecificBusinessTaxRate = 0.033
	StampDutyRate           = 0.005
	CompanyWithholdingRate  = 0.01
	MortgageFeeRate         = 0.01

	// SBT no longer applies from the fifth year of ownership.
	SBTExemptYears = 5

	// Years held is capped for the withholding deduction schedule.
	MaxDeductionYears = 10
)

// Split is the buyer/seller allocation of one fee line, in percent.
type Split struct {
	Buyer  float64 `json:"buyer"`
	Seller float64 `json:"seller"`
}

// DefaultSplits reflects common Thai market practice: transfer fee shared,
// seller-side taxes on the seller, mortgage fee on the borrowing buyer.
var DefaultSplits = map[FeeLine]Split{
	LineTransferFee:         {Buyer: 50, Seller: 50},
	LineSpecificBusinessTax: {Buyer: 0, Seller: 100},
	LineStampDuty:           {Buyer: 0, Seller: 100},
	LineWithholdingTax:      {Buyer: 0, Seller: 100},
	LineMortgageFee:         {Buyer: 100, Seller: 0},
}

type Input struct {
	AppraisedValue float64 `json:"appraised_value"` // THB
	SalePrice      float64 `json:"sale_price"`
	LoanAmount     float64 `json:"loan_amount"`
	YearsHeld      int     `json:"years_held"`

	SellerIsCompany bool `json:"seller_is_company"`
	// RegisteredResidence: seller had their registered residence (tabien
	// baan) at the property for at least one year, which waives SBT.
	RegisteredResidence bool `json:"registered_residence"`

	// Splits overrides DefaultSplits per fee line. Each provided split must
	// sum to 100.
	Splits map[FeeLine]Split `json:"splits"`
}

type LineResult struct {
	Line         FeeLine `json:"line"`
	Applied      bool    `json:"applied"`
	Base         float64 `json:"base"`
	Amount       float64 `json:"amount"`
	BuyerAmount  float64 `json:"buyer_amount"`
	SellerAmount float64 `json:"seller_amount"`
	Note         string  `json:"note,omitempty"`
}

type Result struct {
	Lines       []LineResult `json:"lines"`
	BuyerTotal  float64      `json:"buyer_total"`
	SellerTotal float64      `json:"seller_total"`
	GrandTotal  float64      `json:"grand_total"`
}

var (
	ErrAppraisedRequired = errors.New("appraised value must be greater than zero")
	ErrNegativeAmount    = errors.New("amounts must not be negative")
	ErrBadSplit          = errors.New("fee split percentages must sum to 100")
)

// yearsHeldDeduction is the standard cost-deduction percentage applied to
// the appraised value before the progressive withholding calculation.
var yearsHeldDeduction = map[int]float64{
	1: 0.92, 2: 0.84, 3: 0.77, 4: 0.71, 5: 0.65, 6: 0.60, 7: 0.55,
}

const deductionFloorRate = 0.50 // 8 years and beyond

// progressive personal income brackets used for seller withholding. The
// usual 150k exemption does not apply in the transfer calculation.
var withholdingBrackets = []struct {
	upTo float64
	rate float64
}{
	{300_000, 0.05},
	{500_000, 0.10},
	{750_000, 0.15},
	{1_000_000, 0.20},
	{2_000_000, 0.25},
	{5_000_000, 0.30},
	{math.MaxFloat64, 0.35},
}

func Calculate(in Input) (*Result, error) {
	if in.AppraisedValue <= 0 {
		return nil, ErrAppraisedRequired
	}
	if in.SalePrice < 0 || in.LoanAmount < 0 || in.YearsHeld < 0 {
		return nil, ErrNegativeAmount
	}

	splits, err := resolveSplits(in.Splits)
	if err != nil {
		return nil, err
	}

	taxBase := math.Max(in.AppraisedValue, in.SalePrice)

	// Company sellers always owe SBT; individuals escape it after five
	// years or with a year of registered residence.
	sbtApplies := in.SellerIsCompany ||
		(in.YearsHeld < SBTExemptYears && !in.RegisteredResidence)

	res := &Result{}

	res.addLine(LineTransferFee, true, in.AppraisedValue,
		round2(in.AppraisedValue*TransferFeeRate), splits[LineTransferFee], "")

	sbtNote := ""
	if !sbtApplies {
		if in.RegisteredResidence {
			sbtNote = "waived: registered residence for 1+ year"
		} else {
			sbtNote = fmt.Sprintf("waived: held %d+ years", SBTExemptYears)
		}
	}
	res.addLine(LineSpecificBusinessTax, sbtApplies, taxBase,
		round2(taxBase*SpecificBusinessTaxRate), splits[LineSpecificBusinessTax], sbtNote)

	stampNote := ""
	if sbtApplies {
		stampNote = "not charged when specific business tax applies"
	}
	res.addLine(LineStampDuty, !sbtApplies, taxBase,
		round2(taxBase*StampDutyRate), splits[LineStampDuty], stampNote)

	var wht float64
	whtNote := ""
	if in.SellerIsCompany {
		wht = round2(taxBase * CompanyWithholdingRate)
		whtNote = "company seller: 1% flat"
	} else {
		wht = personalWithholding(in.AppraisedValue, in.YearsHeld)
		whtNote = "individual seller: progressive schedule"
	}
	res.addLine(LineWithholdingTax, true, taxBase, wht, splits[LineWithholdingTax], whtNote)

	res.addLine(LineMortgageFee, in.LoanAmount > 0, in.LoanAmount,
		round2(in.LoanAmount*MortgageFeeRate), splits[LineMortgageFee], "")

	res.BuyerTotal = round2(res.BuyerTotal)
	res.SellerTotal = round2(res.SellerTotal)
	res.GrandTotal = round2(res.BuyerTotal + res.SellerTotal)

	return res, nil
}

// personalWithholding computes seller withholding for individuals: the
// appraised value less the years-held deduction is annualized, taxed at
// progressive rates, then multiplied back by the years held.
func personalWithholding(appraised float64, yearsHeld int) float64 {
	years := yearsHeld
	if years < 1 {
		years = 1
	}
	if years > MaxDeductionYears {
		years = MaxDeductionYears
	}

	deduction, ok := yearsHeldDeduction[years]
	if !ok {
		deduction = deductionFloorRate
	}

	assessable := appraised * (1 - deduction)
	perYear := assessable / float64(years)

	tax := progressiveTax(perYear) * float64(years)
	return round2(tax)
}

func progressiveTax(amount float64) float64 {
	var tax float64
	var lower float64
	for _, b := range withholdingBrackets {
		if amount <= lower {
			break
		}
		portion := math.Min(amount, b.upTo) - lower
		tax += portion * b.rate
		lower = b.upTo
	}
	return tax
}

func resolveSplits(overrides map[FeeLine]Split) (map[FeeLine]Split, error) {
	splits := make(map[FeeLine]Split, len(DefaultSplits))
	for line, s := range DefaultSplits {
		splits[line] = s
	}
	for line, s := range overrides {
		if _, known := DefaultSplits[line]; !known {
			return nil, fmt.Errorf("unknown fee line %q", line)
		}
		if s.Buyer < 0 || s.Seller < 0 || math.Abs(s.Buyer+s.Seller-100) > 0.001 {
			return nil, ErrBadSplit
		}
		splits[line] = s
	}
	return splits, nil
}

func (r *Result) addLine(line FeeLine, applied bool, base, amount float64, split Split, note string) {
	lr := LineResult{Line: line, Applied: applied, Base: base, Note: note}
	if applied {
		lr.Amount = amount
		lr.BuyerAmount = round2(amount * split.Buyer / 100)
		lr.SellerAmount = round2(amount - lr.BuyerAmount)
		r.BuyerTotal += lr.BuyerAmount
		r.SellerTotal += lr.SellerAmount
	}
	r.Lines = append(r.Lines, lr)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
