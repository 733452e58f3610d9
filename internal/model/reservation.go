package model

// Reservation books one item for one employee on one date.
//
// ItemName and Type are copied from the item when the reservation is created
// and are not updated afterwards.
type Reservation struct {
	ID         string `json:"id"`
	Date       Date   `json:"date"`
	ItemID     string `json:"item_id"`
	ItemName   string `json:"item_name"`
	Type       string `json:"type"`
	EmployeeID string `json:"employee_id"`
	Status     Status `json:"status"`
	ReturnDate Date   `json:"return_date"`
}

// Category returns the badge category of the reservation's status.
func (r Reservation) Category() Category {
	return DisplayCategory(r.Status)
}
