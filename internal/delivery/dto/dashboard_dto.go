package dto

import "github.com/shopspring/decimal"

type PatientStatsResponse struct {
	UpcomingAppointments  int64 `json:"upcomingAppointments"`
	CompletedAppointments int64 `json:"completedAppointments"`
	Notifications         int64 `json:"notifications"`
}

type ProfessionalStatsResponse struct {
	AppointmentsToday int64           `json:"appointmentsToday"`
	TotalPatients     int64           `json:"totalPatients"`
	TotalAppointments int64           `json:"totalAppointments"`
	ActiveListings    int64           `json:"activeListings"`
	ListingsValue     decimal.Decimal `json:"listingsValue"`
}
