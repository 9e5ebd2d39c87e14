package diagfmt

import (
	"encoding/json"
	"io"

	"github.com/texlab-project/texlab-core/internal/diag"
)

// SARIF 2.1.0 output. No example repo in the corpus carries a dedicated
// SARIF library, and the format is a plain JSON document with a fixed
// schema — there's nothing a third-party dependency would buy over
// encoding/json here, so this stays on the standard library.

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID               string          `json:"id"`
	ShortDescription sarifTextRegion `json:"shortDescription"`
}

type sarifTextRegion struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID           string          `json:"ruleId"`
	Level            string          `json:"level"`
	Message          sarifTextRegion `json:"message"`
	Locations        []sarifLocation `json:"locations"`
	RelatedLocations []sarifRelated  `json:"relatedLocations,omitempty"`
}

type sarifRelated struct {
	Message          sarifTextRegion       `json:"message"`
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn"`
	EndLine     uint32 `json:"endLine"`
	EndColumn   uint32 `json:"endColumn"`
}

func severityToSarifLevel(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	case diag.SevInfo:
		return "note"
	default:
		return "none"
	}
}

// Sarif writes every report's diagnostics as a single SARIF 2.1.0 log,
// suitable for upload to code-scanning tools that consume the format.
func Sarif(w io.Writer, reports []Report, meta SarifRunMeta) error {
	rules := map[string]sarifRule{}
	var results []sarifResult

	for _, report := range reports {
		file := report.File
		uri := report.URI
		if uri == "" {
			uri = file.Path
		}
		for _, d := range report.Bag.Items() {
			ruleID := d.Code.ID()
			if _, ok := rules[ruleID]; !ok {
				rules[ruleID] = sarifRule{ID: ruleID, ShortDescription: sarifTextRegion{Text: d.Code.Title()}}
			}

			start := file.Index.Resolve(d.Primary.Start)
			end := file.Index.Resolve(d.Primary.End)

			result := sarifResult{
				RuleID:  ruleID,
				Level:   severityToSarifLevel(d.Severity),
				Message: sarifTextRegion{Text: d.Message},
				Locations: []sarifLocation{{
					PhysicalLocation: sarifPhysicalLocation{
						ArtifactLocation: sarifArtifactLocation{URI: uri},
						Region: sarifRegion{
							StartLine:   start.Line,
							StartColumn: start.Col,
							EndLine:     end.Line,
							EndColumn:   end.Col,
						},
					},
				}},
			}

			for _, note := range d.Notes {
				noteStart := file.Index.Resolve(note.Span.Start)
				noteEnd := file.Index.Resolve(note.Span.End)
				result.RelatedLocations = append(result.RelatedLocations, sarifRelated{
					Message: sarifTextRegion{Text: note.Msg},
					PhysicalLocation: sarifPhysicalLocation{
						ArtifactLocation: sarifArtifactLocation{URI: uri},
						Region: sarifRegion{
							StartLine:   noteStart.Line,
							StartColumn: noteStart.Col,
							EndLine:     noteEnd.Line,
							EndColumn:   noteEnd.Col,
						},
					},
				})
			}

			results = append(results, result)
		}
	}

	ruleList := make([]sarifRule, 0, len(rules))
	for _, r := range rules {
		ruleList = append(ruleList, r)
	}

	log := sarifLog{
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		Version: "2.1.0",
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{
				Name:    meta.ToolName,
				Version: meta.ToolVersion,
				Rules:   ruleList,
			}},
			Results: results,
		}},
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(log)
}
