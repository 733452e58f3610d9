package model

// Status is a reservation status. Values outside the known set are kept as
// they are and classified as CategoryDefault.
type Status string

// Reservation statuses.
const (
	StatusPending  Status = "Pending"
	StatusReturned Status = "Returned"
	StatusOverdue  Status = "Overdue"
)

// Statuses lists the known statuses in display order.
var Statuses = []Status{StatusPending, StatusReturned, StatusOverdue}

// Known reports whether s is one of the known statuses.
func (s Status) Known() bool {
	switch s {
	case StatusPending, StatusReturned, StatusOverdue:
		return true
	}
	return false
}

// Category is the display category of a status badge.
type Category int

// Display categories.
const (
	CategoryDefault Category = iota
	CategoryWarning
	CategorySuccess
	CategoryDanger
)

// DisplayCategory maps a status to its badge category. Unknown statuses get
// CategoryDefault.
func DisplayCategory(s Status) Category {
	switch s {
	case StatusPending:
		return CategoryWarning
	case StatusReturned:
		return CategorySuccess
	case StatusOverdue:
		return CategoryDanger
	default:
		return CategoryDefault
	}
}

// Class returns the badge CSS class for c.
func (c Category) Class() string {
	switch c {
	case CategoryWarning:
		return "badge-warning"
	case CategorySuccess:
		return "badge-success"
	case CategoryDanger:
		return "badge-danger"
	default:
		return "badge-default"
	}
}

// String implements fmt.Stringer.
func (c Category) String() string {
	switch c {
	case CategoryWarning:
		return "warning"
	case CategorySuccess:
		return "success"
	case CategoryDanger:
		return "danger"
	default:
		return "default"
	}
}
