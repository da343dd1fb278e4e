package source

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/dataqe/recon/recset"
)

// ReadCSV builds a record set from CSV input. The first row is the header;
// cells are classified as integer, decimal or text.
func ReadCSV(r io.Reader) (*recset.RecordSet, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.Newf("CSV input has no header row")
	}
	if err != nil {
		return nil, errors.Wrap(err, "error reading CSV header")
	}
	builder, err := recset.NewBuilder(header)
	if err != nil {
		return nil, err
	}
	for {
		cells, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "error reading CSV row")
		}
		vals := make([]recset.Value, len(cells))
		for i, cell := range cells {
			vals[i] = recset.ParseString(cell)
		}
		if err := builder.Append(vals...); err != nil {
			return nil, err
		}
	}
	return builder.Finish(), nil
}

func ReadCSVFile(path string) (*recset.RecordSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ReadCSV(f)
}
