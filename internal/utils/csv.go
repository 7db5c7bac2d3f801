package utils

import (
	"fmt"
	"strings"
)

// ConvertToCSV sérialise des lignes en CSV, colonnes dans l'ordre de headers.
// Les valeurs contenant virgule, guillemet ou retour à la ligne sont
// entourées de guillemets (guillemets doublés à l'intérieur).
func ConvertToCSV(rows []map[string]interface{}, headers []string) string {
	var b strings.Builder

	for i, h := range headers {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(csvField(h))
	}
	b.WriteByte('\n')

	for _, row := range rows {
		for i, h := range headers {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(csvField(formatCSVValue(row[h])))
		}
		b.WriteByte('\n')
	}

	return b.String()
}

func formatCSVValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		// Les entiers encodés en float64 (JSON) ne prennent pas de décimales
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func csvField(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
