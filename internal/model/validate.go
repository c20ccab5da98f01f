package model

import "fmt"

// Validate runs the referential-integrity pass over the fully assembled
// graph. Any violation is fatal to the run: the caller must discard the
// report rather than emit a partially consistent one. Silent repair is
// deliberately not attempted since it would hide a defect upstream.
func (r *Report) Validate() error {
	srcIDs := make(map[string]bool, len(r.Sources))
	for _, s := range r.Sources {
		if srcIDs[s.ID] {
			return fmt.Errorf("duplicate source id: %s", s.ID)
		}
		srcIDs[s.ID] = true
	}

	docIDs := make(map[string]bool, len(r.Documents))
	for _, d := range r.Documents {
		if docIDs[d.ID] {
			return fmt.Errorf("duplicate document id: %s", d.ID)
		}
		docIDs[d.ID] = true
	}
	for _, d := range r.Documents {
		if !srcIDs[d.SourceID] {
			return fmt.Errorf("[Document %s] source_id not present: %s", d.ID, d.SourceID)
		}
	}

	checkCitations := func(citations []Citation, where string) error {
		for _, c := range citations {
			if !srcIDs[c.SourceID] {
				return fmt.Errorf("[%s] source_id not present: %s", where, c.SourceID)
			}
			if c.DocumentID != "" && !docIDs[c.DocumentID] {
				return fmt.Errorf("[%s] document_id not present: %s", where, c.DocumentID)
			}
		}
		return nil
	}

	for _, f := range r.Findings {
		if len(f.Citations) == 0 {
			return fmt.Errorf("[Finding %s] must carry at least one citation", f.ID)
		}
		if f.Confidence < 0 || f.Confidence > 1 {
			return fmt.Errorf("[Finding %s] confidence out of range: %v", f.ID, f.Confidence)
		}
		if err := checkCitations(f.Citations, "Finding "+f.ID); err != nil {
			return err
		}
	}

	for _, e := range r.Timeline {
		if err := checkCitations(e.Citations, "Event "+e.ID); err != nil {
			return err
		}
	}

	actIDs := make(map[string]bool, len(r.Actors))
	for _, a := range r.Actors {
		if actIDs[a.ID] {
			return fmt.Errorf("duplicate actor id: %s", a.ID)
		}
		actIDs[a.ID] = true
	}
	for _, rel := range r.Relationships {
		if !actIDs[rel.From] || !actIDs[rel.To] {
			return fmt.Errorf("[Relationship %s] unknown actor in from/to", rel.ID)
		}
		if err := checkCitations(rel.Citations, "Relationship "+rel.ID); err != nil {
			return err
		}
	}

	for _, ind := range r.Indicators {
		for _, p := range ind.Series {
			where := fmt.Sprintf("Indicator %s point %s", ind.ID, p.DateISO)
			if err := checkCitations(p.Citations, where); err != nil {
				return err
			}
		}
	}

	for _, gf := range r.Geospatial {
		if gf.Properties != nil {
			if err := checkCitations(gf.Properties.Citations, "GeoFeature "+gf.ID); err != nil {
				return err
			}
		}
	}

	tw := r.Scope.TimeWindow
	if tw.From != "" && tw.To != "" && tw.To < tw.From {
		return fmt.Errorf("time window 'to' (%s) precedes 'from' (%s)", tw.To, tw.From)
	}

	return nil
}
