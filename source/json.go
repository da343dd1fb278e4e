package source

import (
	"encoding/json"
	"io"
	"os"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/dataqe/recon/recset"
)

// ReadJSON builds a record set from a JSON array of flat objects. JSON object
// keys carry no order, so the schema uses the sorted union of all keys; any
// key absent from a document becomes NULL.
func ReadJSON(r io.Reader) (*recset.RecordSet, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var docs []map[string]any
	if err := dec.Decode(&docs); err != nil {
		return nil, errors.Wrap(err, "error decoding JSON array")
	}

	fieldSet := map[string]struct{}{}
	for _, doc := range docs {
		for k := range doc {
			fieldSet[k] = struct{}{}
		}
	}
	fields := make([]string, 0, len(fieldSet))
	for k := range fieldSet {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	builder, err := recset.NewBuilder(fields)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		m := make(map[string]recset.Value, len(doc))
		for k, v := range doc {
			m[k] = jsonValue(v)
		}
		if err := builder.AppendMap(m); err != nil {
			return nil, err
		}
	}
	return builder.Finish(), nil
}

func jsonValue(v any) recset.Value {
	switch v := v.(type) {
	case nil:
		return recset.Null()
	case json.Number:
		return recset.ParseString(v.String())
	default:
		return recset.FromAny(v)
	}
}

func ReadJSONFile(path string) (*recset.RecordSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ReadJSON(f)
}
