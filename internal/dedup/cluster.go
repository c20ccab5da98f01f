package dedup

import (
	"github.com/vbascerano/dossier/internal/model"
	"github.com/vbascerano/dossier/internal/util"
)

// Prepare canonicalizes every document URL and computes its fingerprint.
// Run once before clustering.
func Prepare(docs []*model.WebDoc, width int) {
	for _, d := range docs {
		d.URL = CanonicalURL(d.URL)
		d.Simhash = SimHash(d.Text, width)
	}
}

// Cluster partitions documents into near-duplicate groups: a document
// joins the first still-open cluster whose seed is within the Hamming
// threshold. This is deliberately greedy rather than transitive
// single-linkage; representative selection downstream depends on the
// deterministic grouping, so the tie-break order must not be "fixed".
func Cluster(docs []*model.WebDoc, threshold int) [][]*model.WebDoc {
	var clusters [][]*model.WebDoc
	used := make([]bool, len(docs))

	for i, seed := range docs {
		if used[i] {
			continue
		}
		group := []*model.WebDoc{seed}
		for j := i + 1; j < len(docs); j++ {
			if used[j] {
				continue
			}
			if Hamming(seed.Simhash, docs[j].Simhash) <= threshold {
				group = append(group, docs[j])
				used[j] = true
			}
		}
		used[i] = true
		clusters = append(clusters, group)
	}
	return clusters
}

// Representative picks the document that stands for a cluster downstream:
// the longest extracted text wins, ties broken by the most recent
// resolvable date. A missing or unparseable date loses the tie.
func Representative(group []*model.WebDoc) *model.WebDoc {
	if len(group) == 0 {
		return nil
	}
	best := group[0]
	bestEpoch := util.ToEpochSeconds(best.BestDate())
	for _, d := range group[1:] {
		epoch := util.ToEpochSeconds(d.BestDate())
		if len(d.Text) > len(best.Text) ||
			(len(d.Text) == len(best.Text) && epoch > bestEpoch) {
			best = d
			bestEpoch = epoch
		}
	}
	return best
}

// Collapse runs the full dedup stage: canonicalize + fingerprint, cluster
// within the threshold, keep one representative per cluster in cluster
// order. Returns the survivors and the cluster count.
func Collapse(docs []*model.WebDoc, width, threshold int) ([]*model.WebDoc, int) {
	Prepare(docs, width)
	clusters := Cluster(docs, threshold)
	picked := make([]*model.WebDoc, 0, len(clusters))
	for _, group := range clusters {
		picked = append(picked, Representative(group))
	}
	return picked, len(clusters)
}
