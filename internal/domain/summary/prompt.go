package summary

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/cbroglie/mustache"
)

const (
	placeholderNA     = "N/A"
	placeholderWeight = "0"
	noCertifications  = "None"
)

//go:embed prompt.mustache
var promptSource string

var promptTemplate = mustParse(promptSource)

func mustParse(src string) *mustache.Template {
	tmpl, err := mustache.ParseString(src)
	if err != nil {
		panic(fmt.Sprintf("summary: parse prompt template: %v", err))
	}
	return tmpl
}

// fields is a record with every placeholder already applied.
type fields struct {
	FarmName         string
	Location         string
	HarvestDate      string
	QualityGrade     string
	Weight           string
	ProcessingMethod string
	Variety          string
	Altitude         string
	Certifications   string
	Notes            string
}

func extract(rec HarvestRecord) fields {
	return fields{
		FarmName:         rec.FarmName.Or(placeholderNA),
		Location:         rec.Location.Or(placeholderNA),
		HarvestDate:      rec.HarvestDate.Or(placeholderNA),
		QualityGrade:     rec.QualityGrade.Or(placeholderNA),
		Weight:           rec.Weight.Or(placeholderWeight),
		ProcessingMethod: rec.ProcessingMethod.Or(placeholderNA),
		Variety:          rec.Variety.Or(placeholderNA),
		Altitude:         rec.Altitude.Or(placeholderNA),
		Certifications:   rec.Certifications.String(),
		Notes:            rec.Notes.Or(""),
	}
}

// BuildPrompt renders the generation instruction for rec. It is pure: the same
// record always yields the same prompt.
func BuildPrompt(rec HarvestRecord) string {
	f := extract(rec)
	out, err := promptTemplate.Render(map[string]string{
		"farm_name":         f.FarmName,
		"location":          f.Location,
		"harvest_date":      f.HarvestDate,
		"quality_grade":     f.QualityGrade,
		"weight":            f.Weight,
		"processing_method": f.ProcessingMethod,
		"variety":           f.Variety,
		"altitude":          f.Altitude,
		"certifications":    f.Certifications,
		"notes":             f.Notes,
	})
	if err != nil {
		// Only reachable if the embedded template is broken; mustParse already rejected that.
		panic(fmt.Sprintf("summary: render prompt: %v", err))
	}
	return strings.TrimRight(out, "\n")
}

// FallbackSummary is the deterministic one-sentence summary used whenever
// generation is skipped or fails. It depends only on farm name, grade, weight,
// location, processing method and variety.
func FallbackSummary(rec HarvestRecord) string {
	f := extract(rec)
	return fmt.Sprintf("%s (%s grade) - %s from %s, %s processed %s.",
		f.FarmName, f.QualityGrade, f.Weight, f.Location, f.ProcessingMethod, f.Variety)
}
