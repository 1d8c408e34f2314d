package merge

import (
	"errors"

	"github.com/apkforge/manifmerge/internal/report"
)

// Merge folds a priority-ordered document sequence (highest first) into a
// single tree, mutating the first document in place and returning it. Every
// document's name enters the selector domain shared by the whole run.
//
// Structural merge problems are recorded on the recorder and do not stop the
// merge; the returned error covers only unusable input.
func Merge(docs []*Document, rec *report.Recorder) (*Document, error) {
	if len(docs) == 0 {
		return nil, errors.New("no documents to merge")
	}

	known := map[string]bool{}
	for _, d := range docs {
		known[d.name] = true
	}

	result := docs[0]
	result.setKnownLibraries(known)

	for _, lower := range docs[1:] {
		lower.setKnownLibraries(known)
		rec.Info(report.LocationOf(lower.root.xml), "merging %s manifest %s", lower.typ, lower.name)

		if lower.root.xml.Name != result.root.xml.Name {
			rec.Error(report.LocationOf(lower.root.xml),
				"root element %s does not match the merged document root %s",
				displayName(lower.root.xml), displayName(result.root.xml))
			continue
		}
		result.root.MergeWithLowerPriorityNode(lower.root, rec)
	}

	return result, nil
}
