package translator

import "github.com/diwise/rdf-to-ngsi-ld/pkg/rdf"

type SubjectGroup struct {
	Subject rdf.Term
	Triples []rdf.Triple
}

// GroupBySubject partitions triples per subject. Groups are returned in the
// order their subjects are first encountered and keep the input order of
// their triples.
func GroupBySubject(triples []rdf.Triple) []SubjectGroup {
	groups := []SubjectGroup{}
	index := map[rdf.Term]int{}

	for _, t := range triples {
		pos, ok := index[t.Subject]
		if !ok {
			pos = len(groups)
			index[t.Subject] = pos
			groups = append(groups, SubjectGroup{Subject: t.Subject})
		}

		groups[pos].Triples = append(groups[pos].Triples, t)
	}

	return groups
}
