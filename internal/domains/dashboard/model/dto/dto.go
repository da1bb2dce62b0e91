package dto

import (
	"guestroom/internal/domains/dashboard/model"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type HostelOccupancyResponse struct {
	Hostel           string          `json:"hostel"`
	Rooms            int             `json:"rooms"`
	OccupiedRooms    int             `json:"occupied_rooms"`
	OccupancyPercent decimal.Decimal `json:"occupancy_percent"`
}

type EnquiryStats struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

type StatsResponse struct {
	Date             string                    `json:"date"`
	Hostels          int                       `json:"hostels"`
	Rooms            int                       `json:"rooms"`
	ActiveBookings   int                       `json:"active_bookings"`
	UpcomingBookings int                       `json:"upcoming_bookings"`
	CheckedOut       int                       `json:"checked_out"`
	Enquiries        EnquiryStats              `json:"enquiries"`
	Users            int                       `json:"users"`
	PaidRevenue      decimal.Decimal           `json:"paid_revenue"`
	OccupancyPercent decimal.Decimal           `json:"occupancy_percent"`
	Occupancy        []HostelOccupancyResponse `json:"occupancy"`
}

// Percent is part/whole*100 rounded to two places, zero when whole is zero.
func Percent(part, whole int) decimal.Decimal {
	if whole == 0 {
		return decimal.Zero
	}

	return decimal.NewFromInt(int64(part)).Mul(hundred).Div(decimal.NewFromInt(int64(whole))).Round(2)
}

func (r *StatsResponse) FromModel(date string, stats model.Stats, occupancy []model.HostelOccupancy) {
	r.Date = date
	r.Hostels = stats.Hostels
	r.Rooms = stats.Rooms
	r.ActiveBookings = stats.ActiveBookings
	r.UpcomingBookings = stats.UpcomingBookings
	r.CheckedOut = stats.CheckedOut
	r.Enquiries = EnquiryStats{
		Pending:  stats.PendingEnquiries,
		Approved: stats.ApprovedEnquiries,
		Rejected: stats.RejectedEnquiries,
	}
	r.Users = stats.Users
	r.PaidRevenue = stats.PaidRevenue.Round(2)
	r.OccupancyPercent = Percent(stats.OccupiedRooms, stats.Rooms)

	r.Occupancy = make([]HostelOccupancyResponse, len(occupancy))
	for i, row := range occupancy {
		r.Occupancy[i] = HostelOccupancyResponse{
			Hostel:           row.HostelName,
			Rooms:            row.Rooms,
			OccupiedRooms:    row.OccupiedRooms,
			OccupancyPercent: Percent(row.OccupiedRooms, row.Rooms),
		}
	}
}
