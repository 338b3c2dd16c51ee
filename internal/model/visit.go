package model

import (
	"fmt"
	"strings"
	"time"
)

type VisitType string

const (
	VisitRegular  VisitType = "REGULAR"
	VisitUrgent   VisitType = "URGENT"
	VisitFollowUp VisitType = "FOLLOW_UP"
)

var VisitTypes = []VisitType{VisitRegular, VisitUrgent, VisitFollowUp}

func ParseVisitType(s string) (VisitType, error) {
	for _, v := range VisitTypes {
		if strings.EqualFold(strings.TrimSpace(s), string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown visit type %q", s)
}

type Visit struct {
	ID              string     `json:"id"`
	FamilyID        string     `json:"familyId"`
	VolunteerID     string     `json:"volunteerId,omitempty"`
	VisitDate       time.Time  `json:"visitDate"`
	VisitType       VisitType  `json:"visitType"`
	Observations    string     `json:"observations,omitempty"`
	LocationLat     *float64   `json:"locationLat,omitempty"`
	LocationLng     *float64   `json:"locationLng,omitempty"`
	IdentifiedNeeds []string   `json:"identifiedNeeds,omitempty"`
	NextVisitDate   *time.Time `json:"nextVisitDate,omitempty"`
	Synced          bool       `json:"synced"`
	RecordedAt      time.Time  `json:"recordedAt"`
}

type VisitRequest struct {
	VolunteerID     string     `json:"volunteerId,omitempty"`
	VisitDate       *time.Time `json:"visitDate,omitempty"`
	VisitType       VisitType  `json:"visitType,omitempty"`
	Observations    string     `json:"observations,omitempty"`
	LocationLat     *float64   `json:"locationLat,omitempty"`
	LocationLng     *float64   `json:"locationLng,omitempty"`
	IdentifiedNeeds []string   `json:"identifiedNeeds,omitempty"`
	NextVisitDate   *time.Time `json:"nextVisitDate,omitempty"`
}
