package compare

import (
	"github.com/dataqe/recon/normalize"
	"github.com/dataqe/recon/recset"
)

type matchedPair struct {
	source recset.Record
	target recset.Record
}

// alignment partitions two record sets on the primary key: matched pairs in
// source iteration order, then records present on one side only, each in
// their own set's order.
type alignment struct {
	pairs      []matchedPair
	sourceOnly []recset.Record
	targetOnly []recset.Record
}

// alignRecords builds a key index over the target set and walks the source
// set against it. On a duplicate key within one set the first occurrence
// wins; later occurrences take no part in alignment and are left to the
// quality validator to report.
func alignRecords(
	source, target *recset.RecordSet, key KeySpec, norm *normalize.Normalizer,
) alignment {
	targetIdx := make(map[string]int, target.NumRecords())
	targetOrder := make([]string, 0, target.NumRecords())
	for i := 0; i < target.NumRecords(); i++ {
		k := key.IndexKey(target.Record(i), norm)
		if _, ok := targetIdx[k]; ok {
			continue
		}
		targetIdx[k] = i
		targetOrder = append(targetOrder, k)
	}

	var ret alignment
	matched := make(map[string]struct{}, len(targetIdx))
	seenSource := make(map[string]struct{}, source.NumRecords())
	for i := 0; i < source.NumRecords(); i++ {
		rec := source.Record(i)
		k := key.IndexKey(rec, norm)
		if _, ok := seenSource[k]; ok {
			continue
		}
		seenSource[k] = struct{}{}
		if tIdx, ok := targetIdx[k]; ok {
			ret.pairs = append(ret.pairs, matchedPair{source: rec, target: target.Record(tIdx)})
			matched[k] = struct{}{}
		} else {
			ret.sourceOnly = append(ret.sourceOnly, rec)
		}
	}
	for _, k := range targetOrder {
		if _, ok := matched[k]; !ok {
			ret.targetOnly = append(ret.targetOnly, target.Record(targetIdx[k]))
		}
	}
	return ret
}
