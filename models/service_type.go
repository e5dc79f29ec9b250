package models

import (
	"fmt"
	"strings"
)

// VisitType is the closed set of appointment kinds.
type VisitType string

const (
	VisitFollowUp     VisitType = "follow-up"
	VisitWalkIn       VisitType = "walk-in"
	VisitConsultation VisitType = "consultation"
	VisitTelemedicine VisitType = "telemedicine"
)

// VisitTypes lists the accepted visit types in presentation order.
var VisitTypes = []VisitType{VisitFollowUp, VisitWalkIn, VisitConsultation, VisitTelemedicine}

// ParseVisitType normalizes case, surrounding blanks and the space/underscore spellings
// ("follow up", "walk_in") before matching against the enum.
func ParseVisitType(s string) (VisitType, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.Join(strings.FieldsFunc(norm, func(r rune) bool {
		return r == ' ' || r == '_' || r == '-'
	}), "-")
	for _, vt := range VisitTypes {
		if string(vt) == norm {
			return vt, nil
		}
	}
	return "", fmt.Errorf("unknown visit type %q", s)
}

// VisitTypeStrings returns the enum values as plain strings.
func VisitTypeStrings() []string {
	out := make([]string, len(VisitTypes))
	for i, vt := range VisitTypes {
		out[i] = string(vt)
	}
	return out
}
