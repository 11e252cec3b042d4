// Package pricing holds the money and capacity arithmetic shared by the
// event read path and the checkout path. All amounts are integer cents.
package pricing

import (
	apperrors "pitchpay/pkg/app_errors"
)

// PricePerPlayer splits the total cost evenly across the maximum number of
// players, rounding half-up to the nearest cent.
func PricePerPlayer(totalCost int64, maxPlayers int) (int64, error) {
	if maxPlayers <= 0 {
		return 0, apperrors.ErrInvalidInput
	}
	n := int64(maxPlayers)
	return (totalCost + n/2) / n, nil
}

// CollectedAmount is the amount gathered from participants whose payment
// succeeded.
func CollectedAmount(succeededCount int, pricePerPlayer int64) int64 {
	return int64(succeededCount) * pricePerPlayer
}

// AvailableSpots never goes negative, even if an upstream inconsistency has
// let the succeeded count run past the maximum.
func AvailableSpots(maxPlayers, succeededCount int) int {
	spots := maxPlayers - succeededCount
	if spots < 0 {
		return 0
	}
	return spots
}

// FundingPercentage is the collected amount as a percentage of the total
// cost. A zero total cost is a defect upstream and is reported rather than
// propagated as NaN.
func FundingPercentage(collectedAmount, totalCost int64) (float64, error) {
	if totalCost == 0 {
		return 0, apperrors.ErrDivisionByZero
	}
	return float64(collectedAmount) / float64(totalCost) * 100, nil
}
