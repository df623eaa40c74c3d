package ctdf

type PassengerRecord struct {
	PassengerID string `json:"passenger_id" groups:"basic"`

	FullName string `json:"full_name" groups:"basic"`
	Email    string `json:"email" groups:"detailed"`
	Phone    string `json:"phone" groups:"detailed"`
	Address  string `json:"address" groups:"detailed"`

	RegistrationDate string `json:"registration_date" groups:"detailed"`

	TotalBookings int     `json:"total_bookings" groups:"basic"`
	TotalSpent    float64 `json:"total_spent" groups:"basic"`
}

// Contact prefers the phone number and falls back to email.
func (p *PassengerRecord) Contact() string {
	if p.Phone != "" {
		return p.Phone
	}

	return p.Email
}
