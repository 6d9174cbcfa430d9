package file

import (
	"bufio"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

//ColumnDescriptor locates a numeric column in a delimited text file, Delimiter defaults to ','
type ColumnDescriptor struct {
	FileStore FileStorage
	FileName  string
	Header    bool
	Column    int
	Delimiter rune
}

//ReadFloatColumn reads one column of a csv file as float64 values, empty cells are skipped
func ReadFloatColumn(cd ColumnDescriptor) ([]float64, error) {
	reader, err := cd.FileStore.Open(cd.FileName)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	cReader := csv.NewReader(bufio.NewReader(reader))
	cReader.FieldsPerRecord = -1
	if cd.Delimiter != 0 {
		cReader.Comma = cd.Delimiter
		cReader.LazyQuotes = true
	}
	if cd.Header {
		if _, err := cReader.Read(); err != nil {
			if err == io.EOF {
				return nil, nil
			}
			return nil, err
		}
	}
	values := make([]float64, 0)
	first := 1
	if cd.Header {
		first = 2
	}
	for line := first; ; line++ {
		record, err := cReader.Read()
		if err == io.EOF {
			return values, nil
		} else if err != nil {
			return nil, err
		}
		if cd.Column >= len(record) {
			return nil, errors.Errorf("%v line %d has %d fields, column %d requested", cd.FileName, line, len(record), cd.Column)
		}
		cell := strings.TrimSpace(record[cd.Column])
		if cell == "" {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "%v line %d", cd.FileName, line)
		}
		values = append(values, v)
	}
}
