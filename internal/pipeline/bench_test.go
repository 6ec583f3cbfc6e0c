package pipeline

import (
	"fmt"
	"testing"

	"github.com/theirongolddev/tripvault/internal/model"
	"github.com/theirongolddev/tripvault/internal/money"
)

// benchItinerary builds a plan of n fully filled days.
func benchItinerary(n int) model.Itinerary {
	ids := &model.SequenceSource{}
	trip := model.DefaultTripSetup()
	trip.People = 4
	it := model.NewItinerary(trip, ids)
	it.Days = it.Days[:0]

	for i := 0; i < n; i++ {
		d := model.NewDay(i+1, model.ModePerPerson, ids)
		d.Distance = money.Number(120 + i)
		d.Stay.Cost = 3200
		d.Food.Breakfast.Amount = 150
		d.Food.Lunch.Amount = 300
		d.Food.Dinner.Amount = 450
		d.Activities[0].Cost = 800
		for j := 0; j < 4; j++ {
			line := model.NewCustomLine(fmt.Sprintf("Extra %d", j), model.ModeGroup, ids)
			line.Cost = money.Number(100 * (j + 1))
			d.CustomExpenses = append(d.CustomExpenses, line)
		}
		if i%3 == 0 {
			d.TransportMode = model.TransportCab
			d.CabCost = 2500
		}
		it.Days = append(it.Days, d)
	}
	return it
}

func BenchmarkAggregate(b *testing.B) {
	for _, n := range []int{1, 14, 60} {
		it := benchItinerary(n)
		b.Run(fmt.Sprintf("days=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				res := Aggregate(it)
				if res.DayCount != n {
					b.Fatalf("DayCount = %d, want %d", res.DayCount, n)
				}
			}
		})
	}
}

func BenchmarkCalcDay(b *testing.B) {
	it := benchItinerary(1)
	d := it.Days[0]

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = CalcDay(d, it.Trip)
	}
}
