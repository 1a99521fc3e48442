package schema

import "fmt"

// SessionPayload is one full grid-box preparation event as posted by the
// client: the session record plus its optional nested sections and up to
// four grid-slot records.
type SessionPayload struct {
	Session  map[string]any   `json:"session"`
	Sample   map[string]any   `json:"sample,omitempty"`
	Vitrobot map[string]any   `json:"vitrobot_settings,omitempty"`
	GridInfo map[string]any   `json:"grid_info,omitempty"`
	Grids    []map[string]any `json:"grids"`
}

// sampleFields are the slot-level keys that introduce an inline sample; if
// a grid slot carries any of them, the subset is re-validated against the
// samples schema too.
var sampleFields = []string{"sample_name", "sample_concentration", "additives", "default_volume_ul"}

// ValidatePayload validates every nested section of the payload against its
// table schema and returns one flat error list, each message prefixed with
// the section's human label ("Session: ...", "Grid 2: ...", grids are
// 1-indexed). The payload is acceptable only when the list is empty; there
// is no partial acceptance of individual sections.
func ValidatePayload(p SessionPayload) []string {
	var errs []string

	errs = append(errs, prefix("Session", Validate(TableSessions, orEmpty(p.Session)))...)
	if p.Sample != nil {
		errs = append(errs, prefix("Sample", Validate(TableSamples, p.Sample))...)
	}
	if p.Vitrobot != nil {
		errs = append(errs, prefix("Vitrobot Settings", Validate(TableVitrobotSettings, p.Vitrobot))...)
	}
	if p.GridInfo != nil {
		errs = append(errs, prefix("Grid Info", Validate(TableGrids, p.GridInfo))...)
	}

	for i, grid := range p.Grids {
		label := fmt.Sprintf("Grid %d", i+1)
		errs = append(errs, prefix(label, Validate(TableGridPreparations, orEmpty(grid)))...)

		// A slot may introduce a new sample inline; validate that subset
		// as a samples record as well.
		if sub := inlineSample(grid); sub != nil {
			errs = append(errs, prefix(label+" Sample", Validate(TableSamples, sub))...)
		}
	}

	return errs
}

// SanitizePayload sanitizes each nested section independently and
// reassembles the payload. Call only after ValidatePayload returned empty.
func SanitizePayload(p SessionPayload) SessionPayload {
	out := SessionPayload{
		Session: Sanitize(TableSessions, orEmpty(p.Session)),
	}
	if p.Sample != nil {
		out.Sample = Sanitize(TableSamples, p.Sample)
	}
	if p.Vitrobot != nil {
		out.Vitrobot = Sanitize(TableVitrobotSettings, p.Vitrobot)
	}
	if p.GridInfo != nil {
		out.GridInfo = Sanitize(TableGrids, p.GridInfo)
	}
	if p.Grids != nil {
		out.Grids = make([]map[string]any, len(p.Grids))
		for i, grid := range p.Grids {
			out.Grids[i] = Sanitize(TableGridPreparations, orEmpty(grid))
		}
	}
	return out
}

func inlineSample(grid map[string]any) map[string]any {
	var sub map[string]any
	for _, key := range sampleFields {
		if v, present := grid[key]; present && !isEmpty(v) {
			if sub == nil {
				sub = make(map[string]any, len(sampleFields))
				for _, k := range sampleFields {
					if gv, ok := grid[k]; ok {
						sub[k] = gv
					}
				}
			}
			break
		}
	}
	return sub
}

func prefix(label string, errs []string) []string {
	if len(errs) == 0 {
		return nil
	}
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = fmt.Sprintf("%s: %s", label, e)
	}
	return out
}

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
