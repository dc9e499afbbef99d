package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type KPIs struct {
	MonthlyRevenue  decimal.Decimal `json:"monthly_revenue"`
	NewClients      int             `json:"new_clients"`
	ActiveOrders    int             `json:"active_orders"`
	CheckedOutUnits int             `json:"checked_out_units"`
}

type ActivityType string

const (
	ActivityClient ActivityType = "client"
	ActivityQuote  ActivityType = "quote"
	ActivityOrder  ActivityType = "order"
)

type ActivityItem struct {
	ID          string       `json:"id"`
	Type        ActivityType `json:"type"`
	Description string       `json:"description"`
	Timestamp   time.Time    `json:"timestamp"`
}

type UpcomingReturn struct {
	OrderID    string    `json:"order_id"`
	ClientName string    `json:"client_name"`
	EndDate    time.Time `json:"end_date"`
	ItemCount  int       `json:"item_count"`
}

// MonthBounds returns the first instant of now's month and of the next one, in UTC.
func MonthBounds(now time.Time) (time.Time, time.Time) {
	y, m, _ := now.UTC().Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
