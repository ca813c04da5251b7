package models

// Analytics is a derived, read-only aggregate over bookings and accounts.
type Analytics struct {
	TotalBookings    int               `json:"totalBookings"`
	TotalRevenue     Rupiah            `json:"totalRevenue"`
	ActiveTherapists int               `json:"activeTherapists"`
	ActiveClients    int               `json:"activeClients"`
	AverageRating    float64           `json:"averageRating"`
	BookingsByCity   map[string]int    `json:"bookingsByCity"`
	RevenueByMonth   map[string]Rupiah `json:"revenueByMonth"`
}
