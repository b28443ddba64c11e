package storage

// Order names a field to sort by. Field uses the record's JSON name
// (e.g. "title", "createdAt"). Sorting is stable: records that compare
// equal keep their prior relative order.
type Order struct {
	Field string
	Desc  bool
}

// ListQuery shapes a FindMany call. Where is an equality filter over
// JSON field names; OrderBy sorts after filtering; Skip and Take
// paginate after both. Take <= 0 means no limit.
type ListQuery struct {
	Where   map[string]any
	OrderBy *Order
	Skip    int
	Take    int
}
