/*
Package sequence provides a chainable, in-memory query surface over an
ordered snapshot of elements: slicing, filtering, projection, ordering,
grouping, deduplication, and single-element assertions.

Sequences are immutable once constructed. Every operator returns a new
Sequence; ordering operators stable-sort a private copy of the backing slice.
Same-type operators are methods so they chain fluently:

	adults := all.Where(func(u User) bool { return u.Age >= 18 }).
	    Skip(10).
	    Take(20)

Operators that change the element type or need extra constraints (Map,
OrderBy, GroupBy, Distinct) are package-level functions, since Go methods
cannot introduce type parameters.

The First/Single family fails with errors.ErrEmptyResult or
errors.ErrAmbiguousResult when its cardinality assumption is violated; the
OrDefault variants degrade to the zero value instead.
*/
package sequence
