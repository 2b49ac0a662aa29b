package trips

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"denchetravel/internal/departures"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StringList is a []string stored as JSONB
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan StringList: expected []byte")
	}
	return json.Unmarshal(bytes, l)
}

// FAQItem is a question/answer pair shown on the trip page
type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// FAQList is a []FAQItem stored as JSONB
type FAQList []FAQItem

func (l FAQList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *FAQList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan FAQList: expected []byte")
	}
	return json.Unmarshal(bytes, l)
}

// Trip represents a catalog entry. Pricing and availability live on its
// departures, not here.
type Trip struct {
	ID            uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Slug          string         `json:"slug" gorm:"uniqueIndex;not null"`
	Title         string         `json:"title" gorm:"not null"`
	Subtitle      string         `json:"subtitle"`
	HeroImageURL  string         `json:"hero_image_url"`
	DescriptionMD string         `json:"description_md" gorm:"type:text"`
	ItineraryMD   string         `json:"itinerary_md" gorm:"type:text"`
	Highlights    StringList     `json:"highlights" gorm:"type:jsonb"`
	Difficulty    string         `json:"difficulty" gorm:"type:varchar(20)"`
	Included      StringList     `json:"included" gorm:"type:jsonb"`
	NotIncluded   StringList     `json:"not_included" gorm:"type:jsonb"`
	GroupSizeMin  int            `json:"group_size_min"`
	GroupSizeMax  int            `json:"group_size_max"`
	Languages     StringList     `json:"languages" gorm:"type:jsonb"`
	Accommodation string         `json:"accommodation"`
	MeetingPoint  string         `json:"meeting_point"`
	MeetingMapURL string         `json:"meeting_map_url"`
	VisaNotesMD   string         `json:"visa_notes_md" gorm:"type:text"`
	PackingListMD string         `json:"packing_list_md" gorm:"type:text"`
	FAQ           FAQList        `json:"faq" gorm:"type:jsonb"`
	Featured      bool           `json:"featured" gorm:"not null;default:false"`
	Active        bool           `json:"active" gorm:"not null;default:true"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`

	Departures []departures.Departure `json:"departures,omitempty" gorm:"foreignKey:TripID"`
}

// TableName specifies the table name for Trip model
func (Trip) TableName() string {
	return "trips"
}
