package employee

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/capacitahr/capacita/core"
)

// AssignmentKind discriminates the criteria an admin may use to bulk-enroll
// employees into a course.
type AssignmentKind string

const (
	AssignByLocation      AssignmentKind = "location"
	AssignByCity          AssignmentKind = "city"
	AssignByCostCenter    AssignmentKind = "costCenter"
	AssignByTenureBracket AssignmentKind = "tenureBracket"
	AssignByExplicitIDs   AssignmentKind = "explicitIds"
)

var errUnknownRuleKind = errors.New("unknown assignment rule kind")

type Employee struct {
	ID            int    `json:"id"`
	Cedula        string `json:"cedula"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	Location      string `json:"location"`
	City          string `json:"city"`
	CostCenter    string `json:"cost_center"`
	TenureBracket string `json:"tenure_bracket"`
}

func (e Employee) DisplayName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// AssignmentRule is the parsed form of an admin's enrollment criterion.
// Attribute kinds carry Value; AssignByExplicitIDs carries IDs instead.
// Build one with ParseAssignmentRule; a zero AssignmentRule is invalid.
type AssignmentRule struct {
	Kind  AssignmentKind
	Value string
	IDs   []int
}

// ParseAssignmentRule validates kind/value at the boundary so the resolver
// never sees raw strings. An unknown kind fails loudly rather than resolving
// to nobody.
func ParseAssignmentRule(kind, value string) (AssignmentRule, error) {
	value = core.CleanString(value)

	switch AssignmentKind(kind) {
	case AssignByLocation, AssignByCity, AssignByCostCenter, AssignByTenureBracket:
		if value == "" {
			return AssignmentRule{}, core.NewValidationError(
				errors.New("missing assignment value"),
				core.FieldError{Field: "assignment_value", Error: "this field is required"},
			)
		}
		return AssignmentRule{Kind: AssignmentKind(kind), Value: value}, nil
	case AssignByExplicitIDs:
		ids := ParseExplicitIDs(value)
		if len(ids) == 0 {
			return AssignmentRule{}, core.NewValidationError(
				errors.New("no valid employee ids"),
				core.FieldError{Field: "assignment_value", Error: "no valid employee ids found"},
			)
		}
		return AssignmentRule{Kind: AssignByExplicitIDs, IDs: ids}, nil
	default:
		return AssignmentRule{}, core.NewValidationError(
			errUnknownRuleKind,
			core.FieldError{Field: "assignment_type", Error: errUnknownRuleKind.Error()},
		)
	}
}

// ParseExplicitIDs turns a free-text comma-separated id list into a set of
// unique positive integers, preserving first-seen order. Malformed tokens
// are dropped.
func ParseExplicitIDs(s string) []int {
	seen := make(map[int]bool)
	var ids []int
	for _, tok := range strings.Split(s, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil || id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// AssignmentValues holds the distinct attribute values available to populate
// assignment-rule pickers.
type AssignmentValues struct {
	Locations      []string `json:"locations"`
	Cities         []string `json:"cities"`
	CostCenters    []string `json:"cost_centers"`
	TenureBrackets []string `json:"tenure_brackets"`
}
