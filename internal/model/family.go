package model

import (
	"fmt"
	"strings"
	"time"
)

type PriorityLevel string

const (
	PriorityHigh   PriorityLevel = "High"
	PriorityMedium PriorityLevel = "Medium"
	PriorityLow    PriorityLevel = "Low"
)

// PriorityLevels lists the levels in descending urgency.
var PriorityLevels = []PriorityLevel{PriorityHigh, PriorityMedium, PriorityLow}

// ParsePriorityLevel accepts any casing of High, Medium or Low.
func ParsePriorityLevel(s string) (PriorityLevel, error) {
	for _, p := range PriorityLevels {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown priority level %q", s)
}

type Family struct {
	ID               string        `json:"id"`
	Reference        string        `json:"reference"`
	HeadOfFamily     string        `json:"headOfFamily"`
	Phone            string        `json:"phone"`
	Address          string        `json:"address"`
	Latitude         *float64      `json:"latitude,omitempty"`
	Longitude        *float64      `json:"longitude,omitempty"`
	FamilySize       int           `json:"familySize,omitempty"`
	NeedsDescription string        `json:"needsDescription,omitempty"`
	PriorityLevel    PriorityLevel `json:"priorityLevel"`
	Notes            string        `json:"notes,omitempty"`
	FrequentAidTypes []AidType     `json:"frequentAidTypes,omitempty"`
	CreatedAt        *time.Time    `json:"createdAt,omitempty"`
	UpdatedAt        *time.Time    `json:"updatedAt,omitempty"`
}

// HasLocation reports whether both coordinates are set.
func (f *Family) HasLocation() bool {
	return f.Latitude != nil && f.Longitude != nil
}

type FamilyCreateRequest struct {
	Reference          string        `json:"reference,omitempty"`
	HeadOfFamily       string        `json:"headOfFamily"`
	Phone              string        `json:"phone"`
	Address            string        `json:"address"`
	Latitude           *float64      `json:"latitude,omitempty"`
	Longitude          *float64      `json:"longitude,omitempty"`
	FamilySize         int           `json:"familySize,omitempty"`
	NeedsDescription   string        `json:"needsDescription,omitempty"`
	PriorityLevel      PriorityLevel `json:"priorityLevel"`
	Notes              string        `json:"notes,omitempty"`
	FrequentAidTypeIDs []string      `json:"frequentAidTypeIds,omitempty"`
}

// FamilyUpdateRequest is a partial update: nil fields are left unchanged.
type FamilyUpdateRequest struct {
	HeadOfFamily       *string        `json:"headOfFamily,omitempty"`
	Phone              *string        `json:"phone,omitempty"`
	Address            *string        `json:"address,omitempty"`
	Latitude           *float64       `json:"latitude,omitempty"`
	Longitude          *float64       `json:"longitude,omitempty"`
	FamilySize         *int           `json:"familySize,omitempty"`
	NeedsDescription   *string        `json:"needsDescription,omitempty"`
	PriorityLevel      *PriorityLevel `json:"priorityLevel,omitempty"`
	Notes              *string        `json:"notes,omitempty"`
	ClearLocation      bool           `json:"clearLocation,omitempty"`
	// FrequentAidTypeIDs is sent as null when unchanged and [] to clear.
	FrequentAidTypeIDs []string `json:"frequentAidTypeIds"`
}

// Apply copies the present fields of req onto f. Coordinates only move
// when both are supplied. ClearLocation removes them.
func (req FamilyUpdateRequest) Apply(f *Family) {
	if req.HeadOfFamily != nil {
		f.HeadOfFamily = *req.HeadOfFamily
	}
	if req.Phone != nil {
		f.Phone = *req.Phone
	}
	if req.Address != nil {
		f.Address = *req.Address
	}
	if req.ClearLocation {
		f.Latitude, f.Longitude = nil, nil
	} else if req.Latitude != nil && req.Longitude != nil {
		lat, long := *req.Latitude, *req.Longitude
		f.Latitude = &lat
		f.Longitude = &long
	}
	if req.FamilySize != nil {
		f.FamilySize = *req.FamilySize
	}
	if req.NeedsDescription != nil {
		f.NeedsDescription = *req.NeedsDescription
	}
	if req.PriorityLevel != nil {
		f.PriorityLevel = *req.PriorityLevel
	}
	if req.Notes != nil {
		f.Notes = *req.Notes
	}
}

// GenerateReference formats a console-side family reference, FAM-YYYYMM-NNN.
func GenerateReference(t time.Time, n int) string {
	return fmt.Sprintf("FAM-%04d%02d-%03d", t.Year(), int(t.Month()), n%1000)
}
