package trips

// CreateTripRequest represents the request to create a catalog trip
type CreateTripRequest struct {
	Slug          string     `json:"slug" validate:"required,min=3,max=100"`
	Title         string     `json:"title" validate:"required,min=3,max=200"`
	Subtitle      string     `json:"subtitle" validate:"max=300"`
	HeroImageURL  string     `json:"hero_image_url" validate:"omitempty,url"`
	DescriptionMD string     `json:"description_md"`
	ItineraryMD   string     `json:"itinerary_md"`
	Highlights    StringList `json:"highlights"`
	Difficulty    string     `json:"difficulty" validate:"omitempty,oneof=easy moderate hard"`
	Included      StringList `json:"included"`
	NotIncluded   StringList `json:"not_included"`
	GroupSizeMin  int        `json:"group_size_min" validate:"min=0"`
	GroupSizeMax  int        `json:"group_size_max" validate:"min=0"`
	Languages     StringList `json:"languages"`
	Accommodation string     `json:"accommodation"`
	MeetingPoint  string     `json:"meeting_point"`
	MeetingMapURL string     `json:"meeting_map_url" validate:"omitempty,url"`
	VisaNotesMD   string     `json:"visa_notes_md"`
	PackingListMD string     `json:"packing_list_md"`
	FAQ           FAQList    `json:"faq"`
	Featured      bool       `json:"featured"`
}

// UpdateTripRequest represents a partial trip update
type UpdateTripRequest struct {
	Title         *string    `json:"title,omitempty" validate:"omitempty,min=3,max=200"`
	Subtitle      *string    `json:"subtitle,omitempty" validate:"omitempty,max=300"`
	HeroImageURL  *string    `json:"hero_image_url,omitempty" validate:"omitempty,url"`
	DescriptionMD *string    `json:"description_md,omitempty"`
	ItineraryMD   *string    `json:"itinerary_md,omitempty"`
	Highlights    StringList `json:"highlights,omitempty"`
	Difficulty    *string    `json:"difficulty,omitempty" validate:"omitempty,oneof=easy moderate hard"`
	Included      StringList `json:"included,omitempty"`
	NotIncluded   StringList `json:"not_included,omitempty"`
	Featured      *bool      `json:"featured,omitempty"`
	Active        *bool      `json:"active,omitempty"`
}
