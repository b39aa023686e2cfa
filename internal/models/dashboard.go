package models

// DashboardSummary is the per-society headline counts shown on the
// society home screen.
type DashboardSummary struct {
	ActiveMembers    int `json:"active_members"`
	UnpaidInvoices   int `json:"unpaid_invoices"`
	UpcomingMeetings int `json:"upcoming_meetings"`
	ShipmentBatches  int `json:"shipment_batches"`
}
