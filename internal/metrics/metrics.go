package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "travelbooking_bookings_created_total",
		Help: "Bookings created, by inventory kind.",
	}, []string{"kind"})

	BookingsCancelled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "travelbooking_bookings_cancelled_total",
		Help: "Bookings cancelled, by inventory kind.",
	}, []string{"kind"})

	BookingConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "travelbooking_booking_conflicts_total",
		Help: "Booking attempts rejected for lack of availability, by inventory kind.",
	}, []string{"kind"})

	ProviderDegradations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "travelbooking_provider_degradations_total",
		Help: "External provider failures absorbed into empty search results.",
	})
)
