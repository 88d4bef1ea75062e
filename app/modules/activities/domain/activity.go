package activitiesdomain

// Input is an activity as submitted by staff. StartsAt and EndsAt are schedule strings
// resolved by TimeParser in Timezone.
type Input struct {
	Title       string `json:"title" validate:"required,max=120"`
	Description string `json:"description" validate:"max=5000"`
	Location    string `json:"location" validate:"max=120"`
	StartsAt    string `json:"starts_at" validate:"required,max=100"`
	EndsAt      string `json:"ends_at" validate:"max=100"`
	Timezone    string `json:"timezone" validate:"max=64"`
	ImageURL    string `json:"image_url" validate:"omitempty,url,max=500"`
}
