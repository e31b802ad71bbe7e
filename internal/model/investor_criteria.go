package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// InvestorCriteriaModel is an investor's matching configuration.
// One row per investor; saves are upserts, latest write wins.
type InvestorCriteriaModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	InvestorId int64 `json:"investor_id" gorm:"not null;uniqueIndex"`

	Sectors         StringList `json:"sectors" gorm:"type:text"`
	PreferredSizes  StringList `json:"preferred_sizes" gorm:"type:text"`
	GeographicFocus StringList `json:"geographic_focus" gorm:"type:text"` // empty = all regions

	MinFundingAmount int64 `json:"min_funding_amount" gorm:"default:0"`
	MaxFundingAmount int64 `json:"max_funding_amount" gorm:"default:0"`

	MinReadinessScore    float64 `json:"min_readiness_score" gorm:"default:0"`
	AutoRejectBelowScore float64 `json:"auto_reject_below_score" gorm:"default:0"` // 0 = unset

	RevenueMin int64 `json:"revenue_min" gorm:"default:0"` // 0 = unset
	RevenueMax int64 `json:"revenue_max" gorm:"default:0"`

	RequiredDocuments DocumentList `json:"required_documents" gorm:"type:text"`
}

// TableName overrides the table name.
func (InvestorCriteriaModel) TableName() string {
	return "investor_criteria"
}

// RequiredDocument is one document an investor expects from a campaign.
type RequiredDocument struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Description string `json:"description"`
}

// StringList is a JSON-encoded string slice column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported column type %T for StringList", value)
	}
}

// Contains reports whether s is in the list.
func (l StringList) Contains(s string) bool {
	for _, item := range l {
		if item == s {
			return true
		}
	}
	return false
}

// DocumentList is a JSON-encoded RequiredDocument slice column.
type DocumentList []RequiredDocument

// Value implements driver.Valuer.
func (l DocumentList) Value() (driver.Value, error) {
	if l == nil {
		l = DocumentList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *DocumentList) Scan(value interface{}) error {
	if value == nil {
		*l = DocumentList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported column type %T for DocumentList", value)
	}
}
