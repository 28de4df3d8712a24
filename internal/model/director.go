package model

// Director represents a film director.  Birth date, nationality and
// biography are optional.  FullName is a derived view assembled after
// scanning; it is never persisted.
type Director struct {
	ID          uint64  `json:"id"`                    // directors.id
	FirstName   string  `json:"firstName"`             // directors.first_name
	LastName    string  `json:"lastName"`              // directors.last_name
	FullName    string  `json:"fullName"`              // derived: "FirstName LastName"
	BirthDate   *string `json:"birthDate,omitempty"`   // directors.birth_date (YYYY-MM-DD)
	Nationality *string `json:"nationality,omitempty"` // directors.nationality
	Biography   *string `json:"biography,omitempty"`   // directors.biography
	Movies      []Movie `json:"movies,omitempty"`      // populated on detail fetches
	CreatedAt   string  `json:"createdAt"`             // directors.created_at
	UpdatedAt   string  `json:"updatedAt"`             // directors.updated_at
}

// ComputeFullName refreshes the derived FullName field.  Repositories call
// this after every scan so API payloads always carry the assembled name.
func (d *Director) ComputeFullName() {
	d.FullName = d.FirstName + " " + d.LastName
}
