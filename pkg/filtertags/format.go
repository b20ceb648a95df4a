package filtertags

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"time"
)

const (
	// DefaultDateLayout renders dates as YYYY/MM/DD.
	DefaultDateLayout = "2006/01/02"
	// DefaultRangeSeparator joins the dates of a range.
	DefaultRangeSeparator = " ~ "
)

// stringify converts a raw value into the text handed to the value labeler.
func stringify(value any, dateLayout string) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case json.Number:
		return v.String()
	case time.Time:
		return v.Format(dateLayout)
	case *time.Time:
		if v == nil {
			return ""
		}
		return v.Format(dateLayout)
	case []byte:
		return string(v)
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64)
	case reflect.String:
		return rv.String()
	}

	if s, ok := value.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(value)
}

func formatDates(dates []time.Time, layout, separator string) string {
	if len(dates) == 0 {
		return ""
	}
	out := dates[0].Format(layout)
	for _, date := range dates[1:] {
		out += separator + date.Format(layout)
	}
	return out
}
