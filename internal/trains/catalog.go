package trains

import (
	"fmt"
	"sort"
	"time"
)

// DefaultFare is charged per passenger for a train missing from the fare table
const DefaultFare = 1000

// TimeLayout is the clock format of departure and arrival times
const TimeLayout = "03:04 PM"

var catalog = buildCatalog([]TrainOffering{
	{ID: "12301", Name: "Rajdhani Express", From: "Delhi", To: "Mumbai", Departure: "06:00 AM", Arrival: "04:00 PM", Duration: "10h 00m", Seats: 50},
	{ID: "12302", Name: "Delhi-Mumbai Superfast", From: "Delhi", To: "Mumbai", Departure: "08:00 AM", Arrival: "06:30 PM", Duration: "10h 30m", Seats: 40},
	{ID: "12303", Name: "Delhi-Mumbai Express", From: "Delhi", To: "Mumbai", Departure: "10:00 AM", Arrival: "08:15 PM", Duration: "10h 15m", Seats: 30},
	{ID: "12045", Name: "Shatabdi Express", From: "Chandigarh", To: "Delhi", Departure: "08:00 AM", Arrival: "10:30 AM", Duration: "2h 30m", Seats: 30},
	{ID: "12046", Name: "Chandigarh-Delhi Fast Train", From: "Chandigarh", To: "Delhi", Departure: "10:00 AM", Arrival: "12:45 PM", Duration: "2h 45m", Seats: 20},
	{ID: "12047", Name: "Chandigarh-Delhi Superfast", From: "Chandigarh", To: "Delhi", Departure: "02:00 PM", Arrival: "04:15 PM", Duration: "2h 15m", Seats: 25},
	{ID: "12245", Name: "Duronto Express", From: "Mumbai", To: "Kolkata", Departure: "05:30 PM", Arrival: "09:00 AM", Duration: "15h 30m", Seats: 20},
	{ID: "12246", Name: "Mumbai-Kolkata Duronto", From: "Mumbai", To: "Kolkata", Departure: "06:30 PM", Arrival: "10:00 AM", Duration: "15h 30m", Seats: 15},
	{ID: "12247", Name: "Mumbai-Kolkata Express", From: "Mumbai", To: "Kolkata", Departure: "07:30 PM", Arrival: "11:45 AM", Duration: "16h 15m", Seats: 10},
	{ID: "12615", Name: "Garib Rath", From: "Bangalore", To: "Chennai", Departure: "09:00 AM", Arrival: "01:00 PM", Duration: "4h 00m", Seats: 100},
	{ID: "12616", Name: "Bangalore-Chennai Fast Train", From: "Bangalore", To: "Chennai", Departure: "11:00 AM", Arrival: "03:30 PM", Duration: "4h 30m", Seats: 80},
	{ID: "12617", Name: "Bangalore-Chennai Superfast", From: "Bangalore", To: "Chennai", Departure: "01:00 PM", Arrival: "05:15 PM", Duration: "4h 15m", Seats: 60},
})

var fares = map[string]int{
	"12301": 2850,
	"12302": 2200,
	"12303": 1800,
	"12045": 850,
	"12046": 750,
	"12047": 800,
	"12245": 1950,
	"12246": 1800,
	"12247": 1600,
	"12615": 450,
	"12616": 500,
	"12617": 550,
}

type catalogIndex struct {
	byID    map[string]TrainOffering
	ordered []TrainOffering
}

func buildCatalog(offerings []TrainOffering) catalogIndex {
	idx := catalogIndex{byID: make(map[string]TrainOffering, len(offerings))}
	for _, o := range offerings {
		idx.byID[o.ID] = o
	}
	idx.ordered = append(idx.ordered, offerings...)
	sort.Slice(idx.ordered, func(i, j int) bool { return idx.ordered[i].ID < idx.ordered[j].ID })
	return idx
}

// Lookup resolves a train identifier against the catalog
func Lookup(id string) (TrainOffering, error) {
	o, ok := catalog.byID[id]
	if !ok {
		return TrainOffering{}, fmt.Errorf("%w: %s", ErrTrainNotFound, id)
	}
	return o, nil
}

// FareFor is the per-passenger base fare. Unknown identifiers silently get
// DefaultFare.
func FareFor(id string) int {
	if fare, ok := fares[id]; ok {
		return fare
	}
	return DefaultFare
}

// TotalFare is FareFor(id) times the passenger count
func TotalFare(id string, passengers int) int {
	return FareFor(id) * passengers
}

// List returns the offerings running from -> to ordered by identifier. An
// empty side matches any station.
func List(from, to string) []TrainOffering {
	out := make([]TrainOffering, 0, len(catalog.ordered))
	for _, o := range catalog.ordered {
		if from != "" && o.From != from {
			continue
		}
		if to != "" && o.To != to {
			continue
		}
		out = append(out, o)
	}
	return out
}

// Stations lists every origin and destination in the catalog, sorted
func Stations() []string {
	seen := make(map[string]struct{})
	for _, o := range catalog.ordered {
		seen[o.From] = struct{}{}
		seen[o.To] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Size is the number of offerings in the catalog
func Size() int {
	return len(catalog.ordered)
}

// Duration is the running time between two clock times as "Hh MMm". An
// arrival earlier than the departure is taken to be on the next day.
func Duration(departure, arrival string) (string, error) {
	dep, err := time.Parse(TimeLayout, departure)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTime, departure)
	}
	arr, err := time.Parse(TimeLayout, arrival)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTime, arrival)
	}

	diff := arr.Sub(dep)
	if diff < 0 {
		diff += 24 * time.Hour
	}
	minutes := int(diff.Minutes())
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60), nil
}
