package strategy

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FieldType is the closed set of input kinds a field can render as.
type FieldType string

const (
	FieldText        FieldType = "text"
	FieldDate        FieldType = "date"
	FieldFile        FieldType = "file"
	FieldFiles       FieldType = "files"
	FieldURL         FieldType = "url"
	FieldFilesOrURLs FieldType = "files_or_urls"
)

// Valid reports whether t is one of the known field types.
func (t FieldType) Valid() bool {
	switch t {
	case FieldText, FieldDate, FieldFile, FieldFiles, FieldURL, FieldFilesOrURLs:
		return true
	default:
		return false
	}
}

// Multi reports whether the field holds a list of values (filenames or URLs)
// rather than a single scalar.
func (t FieldType) Multi() bool {
	switch t {
	case FieldFiles, FieldFilesOrURLs:
		return true
	default:
		return false
	}
}

// FieldValue holds either a scalar string or a list of strings, matching the
// persisted JSON shape where "value" is a string for scalar field types and
// an array for multi-valued ones.
type FieldValue struct {
	Scalar string
	List   []string
	IsList bool
}

// Text returns a scalar value.
func Text(s string) FieldValue {
	return FieldValue{Scalar: s}
}

// Values returns a list value.
func Values(items ...string) FieldValue {
	if items == nil {
		items = []string{}
	}
	return FieldValue{List: items, IsList: true}
}

// Empty returns the zero value for the given field type: "" for scalar types
// and [] for multi-valued ones.
func Empty(t FieldType) FieldValue {
	if t.Multi() {
		return Values()
	}
	return Text("")
}

// Completed reports whether the value counts toward progress: a non-empty
// string or a non-empty list.
func (v FieldValue) Completed() bool {
	if v.IsList {
		return len(v.List) > 0
	}
	return v.Scalar != ""
}

// MarshalJSON writes the value as a JSON string or array.
func (v FieldValue) MarshalJSON() ([]byte, error) {
	if v.IsList {
		if v.List == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.List)
	}
	return json.Marshal(v.Scalar)
}

// UnmarshalJSON accepts either a JSON string or an array of strings. null is
// treated as an empty scalar, matching records written before the field had
// a value.
func (v *FieldValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*v = FieldValue{}
		return nil
	}
	if trimmed[0] == '[' {
		var list []string
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return fmt.Errorf("field value: %w", err)
		}
		if list == nil {
			list = []string{}
		}
		*v = FieldValue{List: list, IsList: true}
		return nil
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return fmt.Errorf("field value: %w", err)
	}
	*v = FieldValue{Scalar: s}
	return nil
}

// Field is one input in a demographic section or an evidence instance.
type Field struct {
	Name     string     `json:"name"`
	Label    string     `json:"label"`
	Type     FieldType  `json:"type"`
	Required bool       `json:"required"`
	Hint     string     `json:"hint,omitempty"`
	Value    FieldValue `json:"value"`
}

// Instance is one concrete piece of evidence under a criterion, e.g. one
// publication or one award. Identity is ID, unique within its criterion.
type Instance struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Fields []*Field `json:"fields"`
}

// Criterion is one evidence category. The set of criteria for a strategy is
// fixed at creation; only instances change afterwards.
type Criterion struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Guidance    string      `json:"guidance"`
	Instances   []*Instance `json:"instances"`
}

// DemographicInformation is a flat field list independent of criteria.
type DemographicInformation struct {
	Fields []*Field `json:"fields"`
}

// CaseStrategy is the aggregate root: one persisted record per ProfileType.
type CaseStrategy struct {
	ApplicantName          string                 `json:"applicant_name"`
	ProfileType            string                 `json:"profile_type"`
	DemographicInformation DemographicInformation `json:"demographic_information"`
	Criteria               []*Criterion           `json:"criteria"`
}

// Criterion returns the criterion with the given id, or nil.
func (s *CaseStrategy) Criterion(id string) *Criterion {
	for _, c := range s.Criteria {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Instance returns the instance with the given id, or nil.
func (c *Criterion) Instance(id string) *Instance {
	for _, inst := range c.Instances {
		if inst.ID == id {
			return inst
		}
	}
	return nil
}

// Status describes how far along a criterion is. ReadyForReview is part of
// the vocabulary but is never derived from progress; it is reserved for a
// review flow that does not exist yet.
type Status string

const (
	StatusNotStarted     Status = "not-completed"
	StatusInProgress     Status = "in-progress"
	StatusComplete       Status = "complete"
	StatusReadyForReview Status = "ready-for-review"
)

// Well-known criterion slugs used by the built-in profiles.
const (
	CriterionHighRemuneration      = "high-remuneration"
	CriterionMembership            = "membership"
	CriterionOriginalContributions = "original-contributions"
	CriterionCriticalRole          = "critical-role"
	CriterionAwards                = "awards"
	CriterionPress                 = "press"
	CriterionJudging               = "judging"
	CriterionScholarlyArticles     = "scholarly-articles"
)
