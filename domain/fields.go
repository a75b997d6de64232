package domain

// filterFields keeps only allow-listed fields with meaningful values.
// A field carrying nil or an empty string is treated as absent.
func filterFields(fields map[string]interface{}, allowed map[string]struct{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for name, value := range fields {
		if _, ok := allowed[name]; !ok {
			continue
		}
		if isEmpty(value) {
			continue
		}
		out[name] = value
	}
	return out
}

func isEmpty(value interface{}) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok && s == "" {
		return true
	}
	return false
}

// getString reads an optional string attribute from a raw item
func getString(item map[string]interface{}, name string) string {
	if v, ok := item[name].(string); ok {
		return v
	}
	return ""
}

// getStringPtr reads an optional string attribute, nil when absent
func getStringPtr(item map[string]interface{}, name string) *string {
	if v, ok := item[name].(string); ok {
		return &v
	}
	return nil
}

// getFloatPtr reads an optional numeric attribute, nil when absent or
// not numeric. DynamoDB numbers unmarshal to float64.
func getFloatPtr(item map[string]interface{}, name string) *float64 {
	switch v := item[name].(type) {
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	default:
		return nil
	}
}
