package database

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"net/netip"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Row is a result row that preserves column order. encoding/json maps
// would reorder keys, so marshalling walks the columns in the order the
// database returned them.
type Row struct {
	columns []string
	values  map[string]interface{}
}

// Set stores a value under a column, appending the column on first use
func (r *Row) Set(column string, value interface{}) {
	if r.values == nil {
		r.values = make(map[string]interface{})
	}
	if _, exists := r.values[column]; !exists {
		r.columns = append(r.columns, column)
	}
	r.values[column] = value
}

// Get returns the value stored under a column
func (r Row) Get(column string) (interface{}, bool) {
	v, ok := r.values[column]
	return v, ok
}

// Columns returns the column names in insertion order
func (r Row) Columns() []string {
	return r.columns
}

// Len returns the number of columns
func (r Row) Len() int {
	return len(r.columns)
}

// MarshalJSON renders the row as a JSON object in column order
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(r.values[col])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// scanRows drains a result set into ordered rows. The rows object is
// closed before returning.
func scanRows(rows pgx.Rows) ([]Row, []string, error) {
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, fd := range fields {
		columns[i] = string(fd.Name)
	}

	out := []Row{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, nil, err
		}
		var row Row
		for i, col := range columns {
			row.Set(col, convertValue(values[i]))
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	return out, columns, nil
}

// convertValue maps driver values to JSON-friendly representations.
// Temporal, uuid, network and arbitrary-precision values become strings
// so nothing silently loses precision on the way to the client.
func convertValue(v interface{}) interface{} {
	switch val := v.(type) {
	case nil:
		return nil
	case time.Time:
		return val.Format(time.RFC3339Nano)
	case time.Duration:
		return val.String()
	case [16]byte:
		return uuid.UUID(val).String()
	case netip.Addr:
		return val.String()
	case netip.Prefix:
		return val.String()
	case []byte:
		// Try to preserve json/jsonb values as structured data
		var parsed interface{}
		if json.Unmarshal(val, &parsed) == nil {
			return parsed
		}
		return string(val)
	case driver.Valuer:
		// Covers numeric, interval and the other pgtype values
		if dv, err := val.Value(); err == nil {
			return convertValue(dv)
		}
		return val
	default:
		return val
	}
}
