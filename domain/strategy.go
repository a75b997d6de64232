package domain

import (
	"encoding/json"

	"mtp-backend/pkg/utils"
)

// strategyAllowedFields is the set of caller-supplied fields persisted
// on a strategy item.
var strategyAllowedFields = map[string]struct{}{
	"name":      {},
	"market":    {},
	"timeframe": {},
	"dsl":       {},
}

// Strategy is the response shape for a stored strategy. The DSL is
// always rehydrated into a structure, empty when missing or unparseable.
type Strategy struct {
	StrategyID string                 `json:"strategyId"`
	Name       string                 `json:"name"`
	Market     string                 `json:"market"`
	Timeframe  string                 `json:"timeframe"`
	DSL        map[string]interface{} `json:"dsl"`
	CreatedAt  string                 `json:"createdAt"`
	UpdatedAt  string                 `json:"updatedAt"`
}

// FilterStrategyFields keeps the allow-listed, non-empty strategy fields
// and serializes a structured dsl value to its storage representation.
func FilterStrategyFields(fields map[string]interface{}) map[string]interface{} {
	payload := filterFields(fields, strategyAllowedFields)
	if dsl, ok := payload["dsl"]; ok {
		if _, isString := dsl.(string); !isString {
			if encoded, err := json.Marshal(dsl); err == nil {
				payload["dsl"] = string(encoded)
			} else {
				delete(payload, "dsl")
			}
		}
	}
	return payload
}

// BuildStrategyItem assembles the full single-table item for a new
// strategy. The secondary sort key always uses the creation timestamp;
// strategies are not re-sortable by a domain date.
func BuildStrategyItem(userID, strategyID string, fields map[string]interface{}) map[string]interface{} {
	now := utils.NowISO()
	payload := FilterStrategyFields(fields)

	item := map[string]interface{}{
		"PK":         UserPK(userID),
		"SK":         StrategySK(strategyID),
		"GSI1PK":     StrategyGSI1PK(userID),
		"GSI1SK":     GSI1SK(now, strategyID),
		"entityType": EntityTypeStrategy,
		"strategyId": strategyID,
		"userId":     userID,
		"createdAt":  now,
		"updatedAt":  now,
	}
	for name, value := range payload {
		item[name] = value
	}
	return item
}

// StrategyFromItem reshapes a raw item into the strategy response form
func StrategyFromItem(item map[string]interface{}) Strategy {
	return Strategy{
		StrategyID: getString(item, "strategyId"),
		Name:       getString(item, "name"),
		Market:     getString(item, "market"),
		Timeframe:  getString(item, "timeframe"),
		DSL:        ParseDSL(item["dsl"]),
		CreatedAt:  getString(item, "createdAt"),
		UpdatedAt:  getString(item, "updatedAt"),
	}
}

// ParseDSL rehydrates the stored dsl value into a structure
func ParseDSL(value interface{}) map[string]interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		return v
	case string:
		parsed := map[string]interface{}{}
		if err := json.Unmarshal([]byte(v), &parsed); err != nil {
			return map[string]interface{}{}
		}
		return parsed
	default:
		return map[string]interface{}{}
	}
}
