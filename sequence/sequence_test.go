/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package sequence

import (
	"errors"
	"testing"

	storeerrors "github.com/suparena/localstore/errors"
)

type user struct {
	ID   string
	Age  int
	Name string
}

func sampleUsers() Sequence[user] {
	return Of(
		user{ID: "1", Age: 25, Name: "Ada"},
		user{ID: "2", Age: 40, Name: "Grace"},
		user{ID: "3", Age: 31, Name: "Edsger"},
		user{ID: "4", Age: 25, Name: "Barbara"},
		user{ID: "5", Age: 52, Name: "Donald"},
	)
}

func TestNewCopiesBacking(t *testing.T) {
	src := []int{1, 2, 3}
	s := New(src)
	src[0] = 99

	if v, _ := s.At(0); v != 1 {
		t.Fatal("sequence must snapshot the caller's slice")
	}
}

func TestSkipTakeClamping(t *testing.T) {
	s := Of(1, 2, 3, 4, 5)

	tests := []struct {
		name    string
		skip    int
		take    int
		wantLen int
	}{
		{"Inside", 1, 2, 2},
		{"TakePastEnd", 3, 10, 2},
		{"SkipPastEnd", 10, 3, 0},
		{"NegativeSkip", -1, 2, 2},
		{"NegativeTake", 0, -5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Skip(tt.skip).Take(tt.take).Len()
			if got != tt.wantLen {
				t.Fatalf("Skip(%d).Take(%d) = %d elements, want %d",
					tt.skip, tt.take, got, tt.wantLen)
			}
		})
	}

	// Law: len(seq.Skip(a).Take(b)) == max(0, min(b, len-a)) for a,b >= 0.
	for a := 0; a <= 6; a++ {
		for b := 0; b <= 6; b++ {
			want := s.Len() - a
			if b < want {
				want = b
			}
			if want < 0 {
				want = 0
			}
			if got := s.Skip(a).Take(b).Len(); got != want {
				t.Fatalf("Skip(%d).Take(%d) = %d, want %d", a, b, got, want)
			}
		}
	}
}

func TestWhereAllLaw(t *testing.T) {
	s := sampleUsers()
	over30 := func(u user) bool { return u.Age > 30 }

	filtered := s.Where(over30)
	if !filtered.All(over30) {
		t.Fatal("seq.Where(p).All(p) must hold")
	}
	if filtered.Len() != 3 {
		t.Fatalf("expected 3 users over 30, got %d", filtered.Len())
	}
}

func TestSelectAndMap(t *testing.T) {
	s := Of(1, 2, 3)

	doubled := s.Select(func(v int) int { return v * 2 })
	if got := doubled.ToSlice(); got[0] != 2 || got[2] != 6 {
		t.Fatalf("unexpected Select result: %v", got)
	}
	// Source unchanged.
	if v, _ := s.At(0); v != 1 {
		t.Fatal("Select must not mutate the source sequence")
	}

	names := Map(sampleUsers(), func(u user) string { return u.Name })
	if names.Len() != 5 {
		t.Fatalf("expected 5 names, got %d", names.Len())
	}
	if first, _ := names.At(0); first != "Ada" {
		t.Fatalf("expected Ada first, got %v", first)
	}
}

func TestFirstLast(t *testing.T) {
	s := sampleUsers()

	first, err := s.First()
	if err != nil || first.ID != "1" {
		t.Fatalf("First() = %v, %v", first, err)
	}

	last, err := s.Last()
	if err != nil || last.ID != "5" {
		t.Fatalf("Last() = %v, %v", last, err)
	}

	over30 := func(u user) bool { return u.Age > 30 }
	first, err = s.First(over30)
	if err != nil || first.ID != "2" {
		t.Fatalf("First(over30) = %v, %v", first, err)
	}
	last, err = s.Last(over30)
	if err != nil || last.ID != "5" {
		t.Fatalf("Last(over30) = %v, %v", last, err)
	}

	empty := Of[user]()
	if _, err := empty.First(); !errors.Is(err, storeerrors.ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult, got %v", err)
	}
	if _, err := empty.Last(); !errors.Is(err, storeerrors.ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult, got %v", err)
	}
	if got := empty.FirstOrDefault(); got.ID != "" {
		t.Fatalf("FirstOrDefault on empty should be zero, got %v", got)
	}
	if got := empty.LastOrDefault(); got.ID != "" {
		t.Fatalf("LastOrDefault on empty should be zero, got %v", got)
	}
}

func TestSingleCardinality(t *testing.T) {
	s := sampleUsers()
	age25 := func(u user) bool { return u.Age == 25 }
	age40 := func(u user) bool { return u.Age == 40 }
	age99 := func(u user) bool { return u.Age == 99 }

	// Exactly one match succeeds.
	got, err := s.Single(age40)
	if err != nil || got.ID != "2" {
		t.Fatalf("Single(age40) = %v, %v", got, err)
	}

	// Zero matches fails with ErrEmptyResult.
	if _, err := s.Single(age99); !errors.Is(err, storeerrors.ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult, got %v", err)
	}

	// Two matches fails with ErrAmbiguousResult.
	if _, err := s.Single(age25); !errors.Is(err, storeerrors.ErrAmbiguousResult) {
		t.Fatalf("expected ErrAmbiguousResult, got %v", err)
	}

	// SingleOrDefault never fails, returns zero for 0 and 2+ matches.
	if got := s.SingleOrDefault(age99); got.ID != "" {
		t.Fatalf("SingleOrDefault(no match) should be zero, got %v", got)
	}
	if got := s.SingleOrDefault(age25); got.ID != "" {
		t.Fatalf("SingleOrDefault(two matches) should be zero, got %v", got)
	}
	if got := s.SingleOrDefault(age40); got.ID != "2" {
		t.Fatalf("SingleOrDefault(one match) = %v", got)
	}
}

func TestAnyAllCount(t *testing.T) {
	s := sampleUsers()

	if !s.Any() {
		t.Fatal("Any() on non-empty sequence should be true")
	}
	if Of[user]().Any() {
		t.Fatal("Any() on empty sequence should be false")
	}
	if !s.Any(func(u user) bool { return u.Age > 50 }) {
		t.Fatal("expected a user over 50")
	}
	if s.All(func(u user) bool { return u.Age > 30 }) {
		t.Fatal("not all users are over 30")
	}
	if !Of[user]().All(func(u user) bool { return false }) {
		t.Fatal("All on empty sequence is vacuously true")
	}
	if got := s.Count(); got != 5 {
		t.Fatalf("Count() = %d, want 5", got)
	}
	if got := s.Count(func(u user) bool { return u.Age == 25 }); got != 2 {
		t.Fatalf("Count(age25) = %d, want 2", got)
	}
}

func TestOrderBy(t *testing.T) {
	s := sampleUsers()

	byAge := OrderBy(s, func(u user) int { return u.Age })
	ages := Map(byAge, func(u user) int { return u.Age }).ToSlice()
	for i := 1; i < len(ages); i++ {
		if ages[i-1] > ages[i] {
			t.Fatalf("not sorted ascending: %v", ages)
		}
	}

	// Stability: the two Age=25 users keep their source order.
	first, _ := byAge.At(0)
	second, _ := byAge.At(1)
	if first.ID != "1" || second.ID != "4" {
		t.Fatalf("stable sort violated: got %s, %s", first.ID, second.ID)
	}

	// Source sequence untouched.
	if v, _ := s.At(0); v.ID != "1" {
		t.Fatal("OrderBy must not reorder the source")
	}

	// Descending reverses a distinct-keyed ascending order.
	distinct := Of(
		user{ID: "a", Age: 1}, user{ID: "b", Age: 2}, user{ID: "c", Age: 3},
	)
	asc := OrderBy(distinct, func(u user) int { return u.Age }).ToSlice()
	desc := OrderByDescending(distinct, func(u user) int { return u.Age }).ToSlice()
	for i := range asc {
		if asc[i].ID != desc[len(desc)-1-i].ID {
			t.Fatalf("descending is not the reverse of ascending: %v / %v", asc, desc)
		}
	}
}

func TestGroupBy(t *testing.T) {
	s := sampleUsers()
	groups := GroupBy(s, func(u user) int { return u.Age })

	if len(groups) != 4 {
		t.Fatalf("expected 4 groups, got %d", len(groups))
	}
	// First-seen key order preserved.
	if groups[0].Key != 25 || groups[1].Key != 40 {
		t.Fatalf("group order not first-seen: %v, %v", groups[0].Key, groups[1].Key)
	}
	if groups[0].Items.Len() != 2 {
		t.Fatalf("expected 2 users aged 25, got %d", groups[0].Items.Len())
	}
	firstInGroup, _ := groups[0].Items.At(0)
	if firstInGroup.ID != "1" {
		t.Fatal("within-group source order not preserved")
	}
}

func TestDistinct(t *testing.T) {
	s := Of(3, 1, 3, 2, 1, 3)
	got := Distinct(s).ToSlice()

	want := []int{3, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("Distinct = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Distinct = %v, want %v (first occurrence order)", got, want)
		}
	}

	// Value structs compare structurally.
	users := Of(user{ID: "1"}, user{ID: "1"}, user{ID: "2"})
	if Distinct(users).Len() != 2 {
		t.Fatal("equal value structs should deduplicate")
	}

	// Pointers compare by identity.
	a, b := &user{ID: "1"}, &user{ID: "1"}
	ptrs := Of(a, b, a)
	if Distinct(ptrs).Len() != 2 {
		t.Fatal("deep-equal values behind distinct pointers are not duplicates")
	}
}
