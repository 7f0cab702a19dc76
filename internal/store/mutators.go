package store

import (
	"fmt"
	"strings"
)

// ByName matches records whose trimmed "name" equals name.
func ByName(name string) Locator {
	want := strings.TrimSpace(name)
	return Locator{
		Key: want,
		Match: func(r Record) bool {
			got, ok := r["name"].(string)
			return ok && strings.TrimSpace(got) == want
		},
	}
}

// SetPrice appends {value, date} to the record's statistics.prices list.
// The record must already carry a statistics object.
func SetPrice(value, date string) Mutator {
	return func(r Record) error {
		stats, ok := r["statistics"].(map[string]interface{})
		if !ok {
			return fmt.Errorf("plant %v has no statistics", r["name"])
		}

		var prices []interface{}
		switch v := stats["prices"].(type) {
		case nil:
		case []interface{}:
			prices = v
		default:
			return fmt.Errorf("plant %v: statistics.prices is not a list", r["name"])
		}

		stats["prices"] = append(prices, map[string]interface{}{
			"value": value,
			"date":  date,
		})
		return nil
	}
}
