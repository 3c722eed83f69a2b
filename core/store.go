package core

// DBOrdering describes a single sort criterion passed down to the record store.
type DBOrdering struct {
	Field     string
	Ascending bool
}
