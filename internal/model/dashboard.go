package model

// DashboardStats is the per-organization overview.
type DashboardStats struct {
	TotalProperties int     `json:"total_properties"`
	TotalUnits      int     `json:"total_units"`
	OccupiedUnits   int     `json:"occupied_units"`
	OccupancyRate   float64 `json:"occupancy_rate"`
	ActiveTenants   int     `json:"active_tenants"`
	ActiveLeases    int     `json:"active_leases"`
	MonthlyRevenue  int64   `json:"monthly_revenue"`
	Outstanding     int64   `json:"outstanding"`
	OverdueInvoices int     `json:"overdue_invoices"`
	OpenMaintenance int     `json:"open_maintenance"`
	ActiveListings  int     `json:"active_listings"`
	MonthlyExpenses int64   `json:"monthly_expenses"`
	NetIncome       int64   `json:"net_income"`
}
