package model

type Company struct {
	Name    string `json:"name"`
	Image   string `json:"image,omitempty"`
	Enabled bool   `json:"enabled"`
}

type Event struct {
	Company     string `json:"company"`
	Name        string `json:"name"`
	Image       string `json:"image,omitempty"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date,omitempty"`
	Enabled     bool   `json:"enabled"`
}

type Registration struct {
	Name             string `json:"name"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	Gender           string `json:"gender"`
	College          string `json:"college"`
	Status           string `json:"status"`
	NationalID       string `json:"national_id"`
	RegistrationDate string `json:"registration_date"`
}
