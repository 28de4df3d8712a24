package model

// Genre categorizes movies.  The name is globally unique; description is
// optional.  Timestamps are scanned as strings straight from the driver so
// list payloads serve them verbatim.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – unique genre name (max 100 chars).
//  Description – optional free-form description.
//  Movies      – movies in this genre; populated only by findOne.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Genre struct {
	ID          uint64  `json:"id"`                    // genres.id
	Name        string  `json:"name"`                  // genres.name
	Description *string `json:"description,omitempty"` // genres.description
	Movies      []Movie `json:"movies,omitempty"`      // populated on detail fetches
	CreatedAt   string  `json:"createdAt"`             // genres.created_at
	UpdatedAt   string  `json:"updatedAt"`             // genres.updated_at
}
