package ioclean

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/apache/arrow/go/v11/arrow"
	"github.com/apache/arrow/go/v11/arrow/array"
	"github.com/apache/arrow/go/v11/arrow/memory"
	"github.com/apache/arrow/go/v11/parquet/file"
	"github.com/apache/arrow/go/v11/parquet/pqarrow"
	"github.com/mdverse/mddb/pkg/catalog"
)

// rawTable is a Parquet file converted to strings. Nulls become empty
// strings.
type rawTable struct {
	path    string
	columns []string
	index   map[string]int
	// values are stored by column.
	values [][]string
	rows   int
	// unsupported maps columns of types that cannot be converted to
	// their arrow type name. Their values are empty.
	unsupported map[string]string
}

func (t *rawTable) has(col string) bool {
	_, ok := t.index[col]
	return ok
}

func (t *rawTable) get(col string, row int) string {
	i, ok := t.index[col]
	if !ok {
		return ""
	}
	return t.values[i][row]
}

func readParquet(ctx context.Context, path string) (*rawTable, error) {
	pf, err := file.OpenParquetFile(path, false)
	if err != nil {
		return nil, ParquetReadError(path, err)
	}
	defer pf.Close()

	mem := memory.NewGoAllocator()
	reader, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, ParquetReadError(path, err)
	}
	tbl, err := reader.ReadTable(ctx)
	if err != nil {
		return nil, ParquetReadError(path, err)
	}
	defer tbl.Release()

	res := &rawTable{
		path:        path,
		unsupported: make(map[string]string),
		index: make(map[string]int),
		rows:  int(tbl.NumRows()),
	}
	for i, f := range tbl.Schema().Fields() {
		res.columns = append(res.columns, f.Name)
		res.index[f.Name] = i

		vals := make([]string, 0, res.rows)
		if !isSupported(f.Type) {
			res.unsupported[f.Name] = f.Type.String()
			slog.Warn("Unsupported parquet column type",
				"file", path, "column", f.Name, "type", f.Type.String())
			res.values = append(res.values, make([]string, res.rows))
			continue
		}
		for _, chunk := range tbl.Column(i).Data().Chunks() {
			for j := 0; j < chunk.Len(); j++ {
				vals = append(vals, cell(chunk, j))
			}
		}
		res.values = append(res.values, vals)
	}
	return res, nil
}

// isSupported reports whether cell can format values of the type.
func isSupported(dt arrow.DataType) bool {
	switch dt.ID() {
	case arrow.STRING, arrow.LARGE_STRING, arrow.BINARY, arrow.BOOL,
		arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64,
		arrow.FLOAT32, arrow.FLOAT64,
		arrow.DATE32, arrow.DATE64, arrow.TIMESTAMP:
		return true
	case arrow.DICTIONARY:
		return isSupported(dt.(*arrow.DictionaryType).ValueType)
	}
	return false
}

// cell formats one value of an arrow array. Types must pass
// isSupported.
func cell(arr arrow.Array, i int) string {
	if arr.IsNull(i) {
		return ""
	}
	switch a := arr.(type) {
	case *array.String:
		return a.Value(i)
	case *array.LargeString:
		return a.Value(i)
	case *array.Binary:
		return string(a.Value(i))
	case *array.Boolean:
		return strconv.FormatBool(a.Value(i))
	case *array.Int64:
		return strconv.FormatInt(a.Value(i), 10)
	case *array.Int32:
		return strconv.FormatInt(int64(a.Value(i)), 10)
	case *array.Int16:
		return strconv.FormatInt(int64(a.Value(i)), 10)
	case *array.Int8:
		return strconv.FormatInt(int64(a.Value(i)), 10)
	case *array.Uint64:
		return strconv.FormatUint(a.Value(i), 10)
	case *array.Uint32:
		return strconv.FormatUint(uint64(a.Value(i)), 10)
	case *array.Uint16:
		return strconv.FormatUint(uint64(a.Value(i)), 10)
	case *array.Uint8:
		return strconv.FormatUint(uint64(a.Value(i)), 10)
	case *array.Float64:
		return strconv.FormatFloat(a.Value(i), 'f', -1, 64)
	case *array.Float32:
		return strconv.FormatFloat(float64(a.Value(i)), 'f', -1, 32)
	case *array.Date32:
		return a.Value(i).ToTime().Format(catalog.DateLayout)
	case *array.Date64:
		return a.Value(i).ToTime().UTC().Format(catalog.DateLayout)
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		return a.Value(i).ToTime(unit).UTC().Format(catalog.CrawlTimeLayout)
	case *array.Dictionary:
		return cell(a.Dictionary(), a.GetValueIndex(i))
	}
	return ""
}
