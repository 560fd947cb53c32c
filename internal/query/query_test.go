package query

import (
	"errors"
	"reflect"
	"testing"

	"github.com/tttuuu13/aeroexpress-bot/internal/schedule"
)

func rec(origin, destination, departure, arrival string) schedule.TrainRecord {
	return schedule.TrainRecord{
		Origin:      origin,
		Destination: destination,
		Departure:   schedule.MustTimeOfDay(departure),
		Arrival:     schedule.MustTimeOfDay(arrival),
	}
}

func fixture() []schedule.TrainRecord {
	return []schedule.TrainRecord{
		rec("A", "B", "10:00", "11:00"),
		rec("C", "D", "08:00", "09:30"),
		rec("A", "D", "10:00", "09:00"),
		rec("a", "B", "07:00", "11:00"),
	}
}

func TestFilter(t *testing.T) {
	t.Parallel()

	in := fixture()
	got := Filter(in, schedule.FieldOrigin, "A")
	want := []schedule.TrainRecord{in[0], in[2]}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Filter(origin=A) = %#v, want %#v", got, want)
	}
	got = Filter(in, schedule.FieldDestination, "B")
	want = []schedule.TrainRecord{in[0], in[3]}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Filter(destination=B) = %#v, want %#v", got, want)
	}
	if got := Filter(in, schedule.FieldDeparture, "10:00"); len(got) != 0 {
		t.Fatalf("Filter(departure) = %#v, want empty", got)
	}
	if !reflect.DeepEqual(in, fixture()) {
		t.Fatalf("Filter() mutated its input")
	}
}

func TestFilterIsIdempotentAndHandlesEmpty(t *testing.T) {
	t.Parallel()

	once := Filter(fixture(), schedule.FieldOrigin, "A")
	twice := Filter(once, schedule.FieldOrigin, "A")
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("Filter() not idempotent: %#v vs %#v", once, twice)
	}
	if got := Filter(nil, schedule.FieldOrigin, "A"); got == nil || len(got) != 0 {
		t.Fatalf("Filter(nil) = %#v, want empty slice", got)
	}
	if got := FilterRoute([]schedule.TrainRecord{}, "A", "B"); got == nil || len(got) != 0 {
		t.Fatalf("FilterRoute(empty) = %#v, want empty slice", got)
	}
}

func TestFilterRoute(t *testing.T) {
	t.Parallel()

	in := fixture()
	got := FilterRoute(in, "A", "B")
	want := []schedule.TrainRecord{in[0]}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FilterRoute(A, B) = %#v, want %#v", got, want)
	}
	if again := FilterRoute(got, "A", "B"); !reflect.DeepEqual(again, got) {
		t.Fatalf("FilterRoute() not idempotent")
	}
}

func TestSortIsStable(t *testing.T) {
	t.Parallel()

	in := fixture()
	got := Sort(in, SortByDeparture)
	want := []schedule.TrainRecord{in[3], in[1], in[0], in[2]}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Sort(departure) = %#v, want %#v", got, want)
	}
	got = Sort(in, SortByArrival)
	want = []schedule.TrainRecord{in[2], in[1], in[0], in[3]}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Sort(arrival) = %#v, want %#v", got, want)
	}
	if !reflect.DeepEqual(in, fixture()) {
		t.Fatalf("Sort() mutated its input")
	}
}

func TestSortIsIdempotent(t *testing.T) {
	t.Parallel()

	for _, key := range []SortKey{SortByDeparture, SortByArrival} {
		once := Sort(fixture(), key)
		if twice := Sort(once, key); !reflect.DeepEqual(once, twice) {
			t.Fatalf("Sort(%s) not idempotent", key)
		}
	}
	if got := Sort(nil, SortByDeparture); got == nil || len(got) != 0 {
		t.Fatalf("Sort(nil) = %#v, want empty slice", got)
	}
}

func TestParseRoute(t *testing.T) {
	t.Parallel()

	origin, destination, err := ParseRoute("A-B")
	if err != nil {
		t.Fatalf("ParseRoute(A-B) error = %v", err)
	}
	if origin != "A" || destination != "B" {
		t.Fatalf("ParseRoute(A-B) = %q, %q", origin, destination)
	}

	origin, destination, err = ParseRoute("Savyolovsky station -Lobnya")
	if err != nil || origin != "Savyolovsky station " || destination != "Lobnya" {
		t.Fatalf("ParseRoute() = %q, %q, %v; want untrimmed halves", origin, destination, err)
	}

	for _, in := range []string{"AB", "", "-B", "A-", "-", "A-B-C"} {
		_, _, err := ParseRoute(in)
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("ParseRoute(%q) error = %v, want *ParseError", in, err)
		}
		if perr.Input != in {
			t.Fatalf("ParseError.Input = %q, want %q", perr.Input, in)
		}
	}
}
