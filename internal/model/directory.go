package model

import "time"

// User is an end-user account record. Accounts are owned by the wider
// platform; the admin console deactivates and reactivates them but never
// creates them.
type User struct {
	ID        int64     `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Phone     string    `json:"phone" db:"phone"`
	UserType  string    `json:"user_type" db:"user_type"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Vendor is a service-provider profile linked to a User account.
type Vendor struct {
	ID               string    `json:"id" db:"id"`
	UserID           int64     `json:"user_id" db:"user_id"`
	BusinessName     string    `json:"business_name" db:"business_name"`
	VendorName       string    `json:"vendor_name" db:"vendor_name"`
	Email            string    `json:"email" db:"email"`
	Phone            string    `json:"phone" db:"phone"`
	Categories       string    `json:"categories" db:"categories"`
	Rating           float64   `json:"rating" db:"rating"`
	TotalReviews     int64     `json:"total_reviews" db:"total_reviews"`
	SubscriptionPlan string    `json:"subscription_plan" db:"subscription_plan"`
	IsVerified       bool      `json:"is_verified" db:"is_verified"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// Customer is an event-organizer profile linked to a User account.
type Customer struct {
	ID        string    `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	City      string    `json:"city" db:"city"`
	State     string    `json:"state" db:"state"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Booking is a customer-to-vendor order record, read here only for the
// revenue and count aggregates on the directory listings.
type Booking struct {
	ID          int64     `json:"id" db:"id"`
	CustomerID  string    `json:"customer_id" db:"customer_id"`
	VendorID    string    `json:"vendor_id" db:"vendor_id"`
	TotalAmount float64   `json:"total_amount" db:"total_amount"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// VendorOverview is one row of the admin vendor listing: the profile plus
// booking aggregates and the moderation-derived is_blocked flag.
type VendorOverview struct {
	Vendor
	IsActive      bool    `json:"is_active" db:"is_active"`
	TotalBookings int64   `json:"total_bookings" db:"total_bookings"`
	TotalRevenue  float64 `json:"total_revenue" db:"total_revenue"`
	IsBlocked     bool    `json:"is_blocked" db:"is_blocked"`
}

// CustomerOverview is one row of the admin customer listing.
type CustomerOverview struct {
	Customer
	Email         string  `json:"email" db:"email"`
	FirstName     string  `json:"first_name" db:"first_name"`
	LastName      string  `json:"last_name" db:"last_name"`
	Phone         string  `json:"phone" db:"phone"`
	IsActive      bool    `json:"is_active" db:"is_active"`
	TotalBookings int64   `json:"total_bookings" db:"total_bookings"`
	TotalSpent    float64 `json:"total_spent" db:"total_spent"`
	IsBlocked     bool    `json:"is_blocked" db:"is_blocked"`
}
