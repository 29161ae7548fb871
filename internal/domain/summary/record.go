package summary

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

// RequiredFields must be present (by key) in a record before it reaches the orchestrator.
var RequiredFields = []string{"farm_name", "harvest_date", "quality_grade"}

// ErrInvalidJSON is returned by ParseRecord when the input is not a non-empty JSON object.
var ErrInvalidJSON = errors.New("invalid JSON")

// FieldError reports a record field whose JSON shape cannot be used.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Message }

// Value is a scalar record field. JSON strings keep their content; numbers and
// booleans keep their literal text. Absent and null fields are both unset.
type Value struct {
	text string
	set  bool
}

// Text returns a set Value holding s.
func Text(s string) Value { return Value{text: s, set: true} }

// IsSet reports whether the field carried a non-null value.
func (v Value) IsSet() bool { return v.set }

func (v Value) String() string { return v.text }

// Or returns the field text, or placeholder when the field is unset.
func (v Value) Or(placeholder string) string {
	if !v.set {
		return placeholder
	}
	return v.text
}

func (v *Value) UnmarshalJSON(b []byte) error {
	*v = valueOf(gjson.ParseBytes(b))
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.set {
		return []byte("null"), nil
	}
	return json.Marshal(v.text)
}

func valueOf(r gjson.Result) Value {
	switch r.Type {
	case gjson.Null:
		return Value{}
	case gjson.String:
		return Text(r.Str)
	default:
		return Text(r.Raw)
	}
}

// Pair is one authority/value item of a certification entry.
type Pair struct {
	Authority string
	Value     Value
}

// Certification is one entry of the certifications sequence, pairs in document order.
type Certification []Pair

// Certifications is the certifications sequence of a record.
type Certifications []Certification

// UnmarshalJSON keeps key order inside each entry so rendering is deterministic.
func (c *Certifications) UnmarshalJSON(b []byte) error {
	r := gjson.ParseBytes(b)
	if r.Type == gjson.Null {
		*c = nil
		return nil
	}
	if !r.IsArray() {
		return &FieldError{Field: "certifications", Message: "must be an array of objects"}
	}

	var (
		out Certifications
		err error
	)
	r.ForEach(func(_, entry gjson.Result) bool {
		if !entry.IsObject() {
			err = &FieldError{Field: "certifications", Message: "entries must be objects"}
			return false
		}
		var cert Certification
		entry.ForEach(func(k, v gjson.Result) bool {
			cert = append(cert, Pair{Authority: k.String(), Value: valueOf(v)})
			return true
		})
		out = append(out, cert)
		return true
	})
	if err != nil {
		return err
	}
	*c = out
	return nil
}

// String renders all pairs of all entries as "authority: value", comma-joined,
// or "None" when there is nothing to render.
func (c Certifications) String() string {
	var parts []string
	for _, entry := range c {
		for _, p := range entry {
			parts = append(parts, p.Authority+": "+p.Value.Or(placeholderNA))
		}
	}
	if len(parts) == 0 {
		return noCertifications
	}
	return strings.Join(parts, ", ")
}

// HarvestRecord is one coffee harvest as submitted by a client.
type HarvestRecord struct {
	FarmName         Value          `json:"farm_name"`
	Location         Value          `json:"location"`
	HarvestDate      Value          `json:"harvest_date"`
	QualityGrade     Value          `json:"quality_grade"`
	Weight           Value          `json:"weight"`
	ProcessingMethod Value          `json:"processing_method"`
	Variety          Value          `json:"coffe_variety"`
	Altitude         Value          `json:"altitude"`
	Certifications   Certifications `json:"certifications"`
	Notes            Value          `json:"notes"`
}

// UnmarshalJSON accepts "coffee_variety" as an alias of the historical "coffe_variety" key.
func (r *HarvestRecord) UnmarshalJSON(b []byte) error {
	type plain HarvestRecord
	var aux struct {
		plain
		CoffeeVariety Value `json:"coffee_variety"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*r = HarvestRecord(aux.plain)
	if !r.Variety.IsSet() {
		r.Variety = aux.CoffeeVariety
	}
	return nil
}

// ParseRecord decodes a record from a JSON object. Empty objects and non-objects
// return ErrInvalidJSON; badly shaped fields return *FieldError.
func ParseRecord(data []byte) (HarvestRecord, error) {
	var rec HarvestRecord
	if !gjson.ValidBytes(data) {
		return rec, ErrInvalidJSON
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() || len(root.Map()) == 0 {
		return rec, ErrInvalidJSON
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, err
	}
	return rec, nil
}

// MissingRequired returns the RequiredFields whose keys are absent from the JSON object.
// A key present with a null value counts as present.
func MissingRequired(data []byte) []string {
	var missing []string
	for _, f := range RequiredFields {
		if !gjson.GetBytes(data, f).Exists() {
			missing = append(missing, f)
		}
	}
	return missing
}
