package domain

// RestaurantProfile describes the kitchen the assistant works for. It is a
// singleton; its absence means the app has not been set up yet.
type RestaurantProfile struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Cuisine     string   `json:"cuisine"`
	Specialties []string `json:"specialties"`
}

// SampleProfile is stored when the user skips setup.
func SampleProfile() RestaurantProfile {
	return RestaurantProfile{
		Name:        "Sample Restaurant",
		Description: "A sample restaurant for testing the application",
		Cuisine:     "Mixed Cuisine",
		Specialties: []string{"Various Dishes"},
	}
}
