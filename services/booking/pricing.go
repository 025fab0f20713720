package booking

import "petties/models"

// Home-visit distance fee: flat call-out charge plus a per-km rate.
const (
	homeVisitCalloutFee = 5.0
	homeVisitPerKmFee   = 1.2
)

// ItemPrice computes the base/weight/unit price breakdown of one service
// performed on one pet. The weight component applies the service's per-kg
// rate to the pet's weight.
func ItemPrice(svc models.Service, pet models.Pet) (base, weight, unit float64) {
	base = svc.BasePrice
	if svc.PricePerKg > 0 && pet.WeightKg > 0 {
		weight = svc.PricePerKg * pet.WeightKg
	}
	unit = base + weight
	return base, weight, unit
}

// TotalPrice sums the unit prices of all service items plus any distance fee.
func TotalPrice(items []models.BookingServiceItem, distanceFee float64) float64 {
	total := distanceFee
	for _, it := range items {
		total += it.UnitPrice
	}
	return total
}

// HomeVisitDistanceFee computes the default distance fee for a home visit or
// SOS booking. Checkout may override it with an explicit amount.
func HomeVisitDistanceFee(distanceKm float64) float64 {
	if distanceKm <= 0 {
		return 0
	}
	return homeVisitCalloutFee + homeVisitPerKmFee*distanceKm
}
