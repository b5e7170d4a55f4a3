package buyer

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// City is the closed set of cities a buyer can search in.
type City string

const (
	CityChandigarh City = "Chandigarh"
	CityMohali     City = "Mohali"
	CityZirakpur   City = "Zirakpur"
	CityPanchkula  City = "Panchkula"
	CityOther      City = "Other"
)

// Valid reports membership in the closed city set.
func (c City) Valid() bool {
	switch c {
	case CityChandigarh, CityMohali, CityZirakpur, CityPanchkula, CityOther:
		return true
	}
	return false
}

// PropertyType is the kind of property the buyer is looking for.
type PropertyType string

const (
	PropertyApartment PropertyType = "Apartment"
	PropertyVilla     PropertyType = "Villa"
	PropertyPlot      PropertyType = "Plot"
	PropertyOffice    PropertyType = "Office"
	PropertyRetail    PropertyType = "Retail"
)

// RequiresBHK reports whether a bedroom-count category must accompany
// this property type.
func (p PropertyType) RequiresBHK() bool {
	switch p {
	case PropertyApartment, PropertyVilla:
		return true
	case PropertyPlot, PropertyOffice, PropertyRetail:
		return false
	}
	return false
}

// Valid reports membership in the closed property-type set.
func (p PropertyType) Valid() bool {
	switch p {
	case PropertyApartment, PropertyVilla, PropertyPlot, PropertyOffice, PropertyRetail:
		return true
	}
	return false
}

// BHK is the bedroom-count category. Wire values are "Studio" and the
// plain digits "1".."4".
type BHK string

const (
	BHKStudio BHK = "Studio"
	BHKOne    BHK = "1"
	BHKTwo    BHK = "2"
	BHKThree  BHK = "3"
	BHKFour   BHK = "4"
)

// Valid reports membership in the closed bedroom-count set.
func (b BHK) Valid() bool {
	switch b {
	case BHKStudio, BHKOne, BHKTwo, BHKThree, BHKFour:
		return true
	}
	return false
}

// Purpose is why the buyer wants the property.
type Purpose string

const (
	PurposeBuy  Purpose = "Buy"
	PurposeRent Purpose = "Rent"
)

// Valid reports membership in the closed purpose set.
func (p Purpose) Valid() bool {
	switch p {
	case PurposeBuy, PurposeRent:
		return true
	}
	return false
}

// Timeline is the buyer's purchase horizon.
type Timeline string

const (
	TimelineZeroToThree Timeline = "ZeroToThreeMonths"
	TimelineThreeToSix  Timeline = "ThreeToSixMonths"
	TimelineExploring   Timeline = "Exploring"
)

// Label returns the human-readable form of the timeline.
func (t Timeline) Label() string {
	switch t {
	case TimelineZeroToThree:
		return "0-3m"
	case TimelineThreeToSix:
		return "3-6m"
	case TimelineExploring:
		return "Exploring"
	}
	return string(t)
}

// Valid reports membership in the closed timeline set.
func (t Timeline) Valid() bool {
	switch t {
	case TimelineZeroToThree, TimelineThreeToSix, TimelineExploring:
		return true
	}
	return false
}

// Source is where the lead came from.
type Source string

const (
	SourceWebsite  Source = "Website"
	SourceReferral Source = "Referral"
	SourceWalkIn   Source = "WalkIn"
	SourceCall     Source = "Call"
	SourceOther    Source = "Other"
)

// Valid reports membership in the closed source set.
func (s Source) Valid() bool {
	switch s {
	case SourceWebsite, SourceReferral, SourceWalkIn, SourceCall, SourceOther:
		return true
	}
	return false
}

// Status is the lead's position in the sales funnel.
type Status string

const (
	StatusNew         Status = "New"
	StatusQualified   Status = "Qualified"
	StatusContacted   Status = "Contacted"
	StatusVisited     Status = "Visited"
	StatusNegotiation Status = "Negotiation"
	StatusConverted   Status = "Converted"
	StatusDropped     Status = "Dropped"
)

// Valid reports membership in the closed status set.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusQualified, StatusContacted, StatusVisited,
		StatusNegotiation, StatusConverted, StatusDropped:
		return true
	}
	return false
}

// StringSlice stores an ordered list of strings as a JSON text column.
// Order and duplicates are preserved.
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		s = StringSlice{}
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *StringSlice) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*s = nil
		return nil
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}
}

// Buyer is a buyer lead: contact details plus the property requirement.
// UpdatedAt doubles as the optimistic-concurrency token, so both
// timestamps are managed by the service rather than by gorm.
type Buyer struct {
	ID           string       `json:"id" gorm:"column:id;primaryKey"`
	OwnerID      string       `json:"ownerId" gorm:"column:owner_id;index"`
	FullName     string       `json:"fullName" gorm:"column:full_name"`
	Email        string       `json:"email,omitempty" gorm:"column:email"`
	Phone        string       `json:"phone" gorm:"column:phone;index"`
	City         City         `json:"city" gorm:"column:city"`
	PropertyType PropertyType `json:"propertyType" gorm:"column:property_type"`
	BHK          *BHK         `json:"bhk,omitempty" gorm:"column:bhk"`
	Purpose      Purpose      `json:"purpose" gorm:"column:purpose"`
	BudgetMin    *int         `json:"budgetMin,omitempty" gorm:"column:budget_min"`
	BudgetMax    *int         `json:"budgetMax,omitempty" gorm:"column:budget_max"`
	Timeline     Timeline     `json:"timeline" gorm:"column:timeline"`
	Source       Source       `json:"source" gorm:"column:source"`
	Status       Status       `json:"status" gorm:"column:status"`
	Notes        string       `json:"notes,omitempty" gorm:"column:notes;type:text"`
	Tags         StringSlice  `json:"tags" gorm:"column:tags;type:text"`
	CreatedAt    time.Time    `json:"createdAt" gorm:"column:created_at;autoCreateTime:false"`
	UpdatedAt    time.Time    `json:"updatedAt" gorm:"column:updated_at;autoUpdateTime:false"`
}

func (Buyer) TableName() string { return "buyers" }

// ChangeRecord is one append-only audit entry for a buyer. Diff holds
// the serialized payload produced by the diff recorder. Records are
// removed together with their buyer and are never edited.
type ChangeRecord struct {
	ID        string    `json:"id" gorm:"column:id;primaryKey"`
	BuyerID   string    `json:"buyerId" gorm:"column:buyer_id;index"`
	ChangedBy string    `json:"changedBy" gorm:"column:changed_by"`
	Diff      string    `json:"-" gorm:"column:diff;type:text"`
	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at;autoCreateTime:false"`
}

func (ChangeRecord) TableName() string { return "buyer_history" }
