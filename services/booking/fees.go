package booking

import "pijatku/models"

// FeePolicy splits a service price into platform fee, payment fee and the
// therapist's earning. Percentages are whole numbers.
type FeePolicy struct {
	PlatformPercent int64
	PaymentPercent  int64
}

// Fees is a derived breakdown; the three parts always sum to Total.
type Fees struct {
	Total            models.Rupiah
	PlatformFee      models.Rupiah
	PaymentFee       models.Rupiah
	TherapistEarning models.Rupiah
}

// Breakdown rounds each fee down and credits the remainder to the therapist.
func (p FeePolicy) Breakdown(price models.Rupiah) Fees {
	platform := price * models.Rupiah(p.PlatformPercent) / 100
	payment := price * models.Rupiah(p.PaymentPercent) / 100
	return Fees{
		Total:            price,
		PlatformFee:      platform,
		PaymentFee:       payment,
		TherapistEarning: price - platform - payment,
	}
}

// Validate rejects percentages that could leave a negative earning.
func (p FeePolicy) Validate() error {
	if p.PlatformPercent < 0 || p.PaymentPercent < 0 || p.PlatformPercent+p.PaymentPercent > 100 {
		return models.NewValidationError("feePolicy", "percentages must be non-negative and sum to at most 100")
	}
	return nil
}
