package deck

import (
	"github.com/conorfennell/recall/internal/domain"
	"github.com/conorfennell/recall/internal/fingerprint"
	"github.com/conorfennell/recall/internal/sanitize"
)

// IngestReport breaks a candidate batch into three disjoint counts.
type IngestReport struct {
	Accepted   int `json:"accepted"`
	Rejected   int `json:"rejected"`
	Duplicates int `json:"duplicates"`
}

// Ingest runs a batch of generated candidates through the pipeline:
// sanitize, fingerprint, then drop anything whose fingerprint matches a
// stored item or an earlier acceptance from the same batch. Accepted
// items are stamped with the caller-supplied source. Ingesting the same
// batch twice accepts nothing the second time.
func (d *Deck) Ingest(batch []domain.Candidate, source domain.Source) IngestReport {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	seen := make(map[string]struct{}, len(d.items)+len(batch))
	for _, item := range d.items {
		seen[fingerprint.Key(item.Kind, item.Front)] = struct{}{}
	}

	var report IngestReport
	for _, c := range batch {
		item, err := sanitize.Item(sanitize.FromCandidate(c), now)
		if err != nil {
			report.Rejected++
			continue
		}

		key := fingerprint.Key(item.Kind, item.Front)
		if _, dup := seen[key]; dup {
			report.Duplicates++
			continue
		}

		item.Source = source
		seen[key] = struct{}{}
		d.byID[item.ID] = len(d.items)
		d.items = append(d.items, item)
		report.Accepted++
	}

	if report.Accepted > 0 {
		d.persistItems()
	}
	d.log.Info("ingested candidate batch",
		"source", source,
		"accepted", report.Accepted,
		"rejected", report.Rejected,
		"duplicates", report.Duplicates,
	)
	return report
}
