package cli

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/eventsathi/esadmin/internal/model"
	"github.com/eventsathi/esadmin/internal/store"
)

func newSeedCmd() *cobra.Command {
	var (
		vendors   int
		customers int
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo vendors, customers, and bookings",
		Long: `Populate the store with demo directory data so the moderation
listings and dashboard have something to show. Intended for local
development only.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			ctx, cancel := cliContext()
			defer cancel()
			return runSeed(ctx, st, vendors, customers)
		},
	}

	cmd.Flags().IntVar(&vendors, "vendors", 8, "number of demo vendors")
	cmd.Flags().IntVar(&customers, "customers", 12, "number of demo customers")

	return cmd
}

var (
	seedCategories = []string{"catering", "photography", "decor", "music", "venues"}
	seedPlans      = []string{"free", "basic", "premium"}
	seedCities     = [][2]string{
		{"Pune", "Maharashtra"},
		{"Mumbai", "Maharashtra"},
		{"Bengaluru", "Karnataka"},
		{"Jaipur", "Rajasthan"},
		{"Kochi", "Kerala"},
	}
	seedFirstNames = []string{"Aarav", "Isha", "Rohan", "Priya", "Kabir", "Meera", "Dev", "Ananya"}
	seedLastNames  = []string{"Sharma", "Patel", "Reddy", "Nair", "Singh", "Iyer", "Das", "Kulkarni"}
)

func runSeed(ctx context.Context, st *store.Store, nVendors, nCustomers int) error {
	rng := rand.New(rand.NewSource(42))

	vendorIDs := make([]string, 0, nVendors)
	for i := 0; i < nVendors; i++ {
		first := seedFirstNames[rng.Intn(len(seedFirstNames))]
		last := seedLastNames[rng.Intn(len(seedLastNames))]

		u := &model.User{
			Email:     fmt.Sprintf("vendor%d@example.com", i+1),
			FirstName: first,
			LastName:  last,
			Phone:     fmt.Sprintf("+91 98%08d", rng.Intn(100000000)),
			UserType:  "vendor",
			IsActive:  true,
		}
		if err := st.CreateUser(ctx, u); err != nil {
			return fmt.Errorf("seed vendor user: %w", err)
		}

		v := &model.Vendor{
			ID:               uuid.New().String(),
			UserID:           u.ID,
			BusinessName:     fmt.Sprintf("%s %s Events", first, seedCategories[rng.Intn(len(seedCategories))]),
			VendorName:       first + " " + last,
			Email:            u.Email,
			Phone:            u.Phone,
			Categories:       seedCategories[rng.Intn(len(seedCategories))],
			Rating:           3.5 + rng.Float64()*1.5,
			TotalReviews:     int64(rng.Intn(200)),
			SubscriptionPlan: seedPlans[rng.Intn(len(seedPlans))],
			IsVerified:       true,
		}
		if err := st.CreateVendor(ctx, v); err != nil {
			return fmt.Errorf("seed vendor: %w", err)
		}
		vendorIDs = append(vendorIDs, v.ID)
	}

	customerIDs := make([]string, 0, nCustomers)
	for i := 0; i < nCustomers; i++ {
		first := seedFirstNames[rng.Intn(len(seedFirstNames))]
		last := seedLastNames[rng.Intn(len(seedLastNames))]
		city := seedCities[rng.Intn(len(seedCities))]

		u := &model.User{
			Email:     fmt.Sprintf("customer%d@example.com", i+1),
			FirstName: first,
			LastName:  last,
			Phone:     fmt.Sprintf("+91 97%08d", rng.Intn(100000000)),
			UserType:  "customer",
			IsActive:  true,
		}
		if err := st.CreateUser(ctx, u); err != nil {
			return fmt.Errorf("seed customer user: %w", err)
		}

		c := &model.Customer{
			ID:     uuid.New().String(),
			UserID: u.ID,
			City:   city[0],
			State:  city[1],
		}
		if err := st.CreateCustomer(ctx, c); err != nil {
			return fmt.Errorf("seed customer: %w", err)
		}
		customerIDs = append(customerIDs, c.ID)
	}

	nBookings := 0
	if len(vendorIDs) > 0 && len(customerIDs) > 0 {
		nBookings = 3 * len(customerIDs)
		for i := 0; i < nBookings; i++ {
			b := &model.Booking{
				CustomerID:  customerIDs[rng.Intn(len(customerIDs))],
				VendorID:    vendorIDs[rng.Intn(len(vendorIDs))],
				TotalAmount: float64(500 + rng.Intn(50000)),
				Status:      "completed",
			}
			if err := st.CreateBooking(ctx, b); err != nil {
				return fmt.Errorf("seed booking: %w", err)
			}
		}
	}

	fmt.Printf("Seeded %d vendors, %d customers, %d bookings\n",
		len(vendorIDs), len(customerIDs), nBookings)
	return nil
}
