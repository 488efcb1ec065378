package filter

import "fmt"

// Expression is a conjunctive list of filter conditions. All conditions must
// hold for a record to match.
type Expression struct {
	conds []Condition
}

// NewExpression creates a filter expression from the given conditions.
func NewExpression(conds ...Condition) Expression {
	return Expression{conds: conds}
}

// Conditions returns the conditions in the order they were added.
func (e Expression) Conditions() []Condition { return e.conds }

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool { return len(e.conds) == 0 }

// Condition is a single filter clause: a tag match, a tag set membership,
// or a numeric range.
type Condition struct {
	key       string
	match     string
	set       []string
	rangeExpr *Range
}

// NewMatch creates an exact tag match condition.
func NewMatch(key, match string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if match == "" {
		return Condition{}, fmt.Errorf("match value is required for key %q", key)
	}
	return Condition{key: key, match: match}, nil
}

// NewSet creates a set membership condition (value in values).
func NewSet(key string, values []string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if len(values) == 0 {
		return Condition{}, fmt.Errorf("at least one value is required for key %q", key)
	}
	return Condition{key: key, set: values}, nil
}

// NewRange creates a numeric range condition.
func NewRange(key string, r Range) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	return Condition{key: key, rangeExpr: &r}, nil
}

// Key returns the field name.
func (c Condition) Key() string { return c.key }

// Match returns the exact match value.
func (c Condition) Match() string { return c.match }

// Set returns the membership values.
func (c Condition) Set() []string { return c.set }

// Range returns the numeric range expression.
func (c Condition) Range() *Range { return c.rangeExpr }

// IsMatch reports whether this is a match condition.
func (c Condition) IsMatch() bool { return c.match != "" }

// IsSet reports whether this is a set membership condition.
func (c Condition) IsSet() bool { return len(c.set) > 0 }

// IsRange reports whether this is a range condition.
func (c Condition) IsRange() bool { return c.rangeExpr != nil }

// Range is a numeric range with gte/lte boundaries. Both boundaries are
// inclusive; either may be nil for an open end.
type Range struct {
	gte *float64
	lte *float64
}

// NewRangeBounds validates and creates a Range. At least one boundary is
// required.
func NewRangeBounds(gte, lte *float64) (Range, error) {
	if gte == nil && lte == nil {
		return Range{}, fmt.Errorf("at least one range boundary is required")
	}
	return Range{gte: gte, lte: lte}, nil
}

// Between creates a closed range [lo, hi].
func Between(lo, hi float64) Range {
	return Range{gte: &lo, lte: &hi}
}

// Exactly creates a degenerate range [v, v] used for numeric equality.
func Exactly(v float64) Range {
	return Between(v, v)
}

// GTE returns the lower inclusive bound.
func (r Range) GTE() *float64 { return r.gte }

// LTE returns the upper inclusive bound.
func (r Range) LTE() *float64 { return r.lte }
