package formclient

// DefaultSquareMeters is the slider's initial position.
const DefaultSquareMeters = 100

// FormState is the wizard's in-progress data, in the wire shape of the
// submission endpoint.
type FormState struct {
	SpaceType       string   `json:"spaceType"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	City            string   `json:"city"`
	SquareMeters    float64  `json:"squareMeters"`
	Availability    []string `json:"availability"`
	Characteristics string   `json:"characteristics"`
	Notes           string   `json:"notes"`
	Privacy         bool     `json:"privacy"`
	Marketing       bool     `json:"marketing"`
}

// NewFormState returns the wizard's initial state.
func NewFormState() FormState {
	return FormState{
		SquareMeters: DefaultSquareMeters,
		Availability: []string{},
	}
}

// HasStartedFilling reports whether the user entered anything. squareMeters
// is ignored since the slider always carries a value.
func (f FormState) HasStartedFilling() bool {
	for _, v := range []string{f.SpaceType, f.Name, f.Email, f.Phone, f.City, f.Characteristics, f.Notes} {
		if v != "" {
			return true
		}
	}
	return len(f.Availability) > 0
}

// PartialData renders the state as the abandonment beacon's partialData.
func (f FormState) PartialData() map[string]any {
	availability := f.Availability
	if availability == nil {
		availability = []string{}
	}
	return map[string]any{
		"spaceType":       f.SpaceType,
		"name":            f.Name,
		"email":           f.Email,
		"phone":           f.Phone,
		"city":            f.City,
		"squareMeters":    f.SquareMeters,
		"availability":    availability,
		"characteristics": f.Characteristics,
		"notes":           f.Notes,
		"privacy":         f.Privacy,
		"marketing":       f.Marketing,
	}
}
