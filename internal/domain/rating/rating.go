package rating

import "sort"

const (
	MinValue = 0.5
	MaxValue = 5.0
)

// Record is one raw (user, item, rating) row from the source table.
type Record struct {
	UserID int
	ItemID int
	Value  float64
}

func (r Record) InRange() bool {
	return r.Value >= MinValue && r.Value <= MaxValue
}

// Ratings holds one user's item ratings and remembers the order items were
// first inserted in. Updating an existing item keeps its position.
type Ratings struct {
	order  []int
	values map[int]float64
}

func NewRatings() *Ratings {
	return &Ratings{values: make(map[int]float64)}
}

func (r *Ratings) Set(itemID int, value float64) {
	if _, ok := r.values[itemID]; !ok {
		r.order = append(r.order, itemID)
	}
	r.values[itemID] = value
}

func (r *Ratings) Get(itemID int) (float64, bool) {
	v, ok := r.values[itemID]
	return v, ok
}

func (r *Ratings) Len() int {
	return len(r.order)
}

// Items returns item ids in insertion order.
func (r *Ratings) Items() []int {
	out := make([]int, len(r.order))
	copy(out, r.order)
	return out
}

// Values returns rating values in insertion order.
func (r *Ratings) Values() []float64 {
	out := make([]float64, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.values[id])
	}
	return out
}

// Set maps a user id to that user's ratings.
type Set map[int]*Ratings

func (s Set) Add(userID, itemID int, value float64) {
	r, ok := s[userID]
	if !ok {
		r = NewRatings()
		s[userID] = r
	}
	r.Set(itemID, value)
}

// Users returns user ids in ascending order.
func (s Set) Users() []int {
	ids := make([]int, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// ItemUniverse is the union of item ids rated by any user.
func (s Set) ItemUniverse() map[int]struct{} {
	items := make(map[int]struct{})
	for _, r := range s {
		for _, id := range r.order {
			items[id] = struct{}{}
		}
	}
	return items
}

func (s Set) RatingCount() int {
	var n int
	for _, r := range s {
		n += r.Len()
	}
	return n
}

// FromRecords groups records by user, keeping record order within each user.
func FromRecords(records []Record) Set {
	s := make(Set)
	for _, rec := range records {
		s.Add(rec.UserID, rec.ItemID, rec.Value)
	}
	return s
}
