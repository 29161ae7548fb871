package summary

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func parseRecord(t *testing.T, body string) HarvestRecord {
	t.Helper()
	rec, err := ParseRecord([]byte(body))
	if err != nil {
		t.Fatalf("ParseRecord(%s) error = %v", body, err)
	}
	return rec
}

func TestParseRecord_ScalarShapes(t *testing.T) {
	t.Parallel()

	rec := parseRecord(t, `{
		"farm_name": "Fazenda Bela Vista",
		"harvest_date": "2024-06-01",
		"quality_grade": "AA",
		"weight": 60.5,
		"altitude": 1200,
		"notes": null
	}`)

	if rec.FarmName.String() != "Fazenda Bela Vista" {
		t.Errorf("FarmName = %q", rec.FarmName.String())
	}
	if rec.Weight.String() != "60.5" {
		t.Errorf("expected numeric weight kept as literal, got %q", rec.Weight.String())
	}
	if rec.Altitude.String() != "1200" {
		t.Errorf("expected altitude '1200', got %q", rec.Altitude.String())
	}
	if rec.Notes.IsSet() {
		t.Error("null notes should be unset")
	}
	if rec.Location.IsSet() {
		t.Error("absent location should be unset")
	}
}

func TestParseRecord_VarietyKeys(t *testing.T) {
	t.Parallel()

	if got := parseRecord(t, `{"coffe_variety":"Bourbon"}`).Variety.String(); got != "Bourbon" {
		t.Errorf("coffe_variety: got %q", got)
	}
	if got := parseRecord(t, `{"coffee_variety":"Catuaí"}`).Variety.String(); got != "Catuaí" {
		t.Errorf("coffee_variety alias: got %q", got)
	}
	if got := parseRecord(t, `{"coffe_variety":"Bourbon","coffee_variety":"Catuaí"}`).Variety.String(); got != "Bourbon" {
		t.Errorf("coffe_variety should win over alias, got %q", got)
	}
}

func TestParseRecord_InvalidJSON(t *testing.T) {
	t.Parallel()

	for _, body := range []string{``, `{`, `{}`, `[]`, `[{"farm_name":"x"}]`, `"text"`, `null`} {
		if _, err := ParseRecord([]byte(body)); !errors.Is(err, ErrInvalidJSON) {
			t.Errorf("ParseRecord(%q) error = %v, want ErrInvalidJSON", body, err)
		}
	}
}

func TestParseRecord_BadCertifications(t *testing.T) {
	t.Parallel()

	for _, body := range []string{
		`{"certifications":"organic"}`,
		`{"certifications":["organic"]}`,
	} {
		_, err := ParseRecord([]byte(body))
		var fieldErr *FieldError
		if !errors.As(err, &fieldErr) {
			t.Fatalf("ParseRecord(%s) error = %v, want *FieldError", body, err)
		}
		if fieldErr.Field != "certifications" {
			t.Errorf("Field = %q", fieldErr.Field)
		}
	}
}

func TestCertifications_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"absent", `{"farm_name":"x"}`, "None"},
		{"null", `{"certifications":null}`, "None"},
		{"empty", `{"certifications":[]}`, "None"},
		{"empty entries", `{"certifications":[{}]}`, "None"},
		{"single", `{"certifications":[{"organic":"yes"}]}`, "organic: yes"},
		{
			"flattened in document order",
			`{"certifications":[{"utz":"2023","fairtrade":true},{"rainforest":"pending"}]}`,
			"utz: 2023, fairtrade: true, rainforest: pending",
		},
		{"null value", `{"certifications":[{"organic":null}]}`, "organic: N/A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseRecord(t, tt.body).Certifications.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMissingRequired(t *testing.T) {
	t.Parallel()

	tests := []struct {
		body string
		want []string
	}{
		{`{"farm_name":"a","harvest_date":"b","quality_grade":"c"}`, nil},
		{`{"farm_name":"a"}`, []string{"harvest_date", "quality_grade"}},
		{`{"farm_name":null,"harvest_date":"b","quality_grade":"c"}`, nil},
		{`{"notes":"x"}`, []string{"farm_name", "harvest_date", "quality_grade"}},
	}
	for _, tt := range tests {
		if got := MissingRequired([]byte(tt.body)); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("MissingRequired(%s) = %v, want %v", tt.body, got, tt.want)
		}
	}
}

func TestValue_MarshalJSON(t *testing.T) {
	t.Parallel()

	b, _ := Text("AA").MarshalJSON()
	if string(b) != `"AA"` {
		t.Errorf("set value marshal = %s", b)
	}
	b, _ = Value{}.MarshalJSON()
	if string(b) != "null" {
		t.Errorf("unset value marshal = %s", b)
	}
	if Text("").Or("N/A") != "" || (Value{}).Or("N/A") != "N/A" {
		t.Error("Or should only substitute unset values")
	}
	if !strings.Contains(Text("x").String(), "x") {
		t.Error("String should return the text")
	}
}
