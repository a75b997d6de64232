package dynamodb

import (
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	apperrors "mtp-backend/pkg/errors"
)

// Continuation tokens are JSON objects of the key attributes. Every key
// attribute in this table (PK, SK, GSI1PK, GSI1SK) is a string, so the
// encoding round-trips the store's resumption marker exactly.

func encodeLastKey(key map[string]types.AttributeValue) (string, error) {
	if len(key) == 0 {
		return "", nil
	}

	flat := make(map[string]string, len(key))
	for name, av := range key {
		s, ok := av.(*types.AttributeValueMemberS)
		if !ok {
			return "", fmt.Errorf("unexpected non-string key attribute %q", name)
		}
		flat[name] = s.Value
	}

	encoded, err := json.Marshal(flat)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func decodeLastKey(token string) (map[string]types.AttributeValue, error) {
	if token == "" {
		return nil, nil
	}

	flat := map[string]string{}
	if err := json.Unmarshal([]byte(token), &flat); err != nil {
		return nil, apperrors.NewValidationError("Invalid lastKey cursor")
	}

	key := make(map[string]types.AttributeValue, len(flat))
	for name, value := range flat {
		key[name] = &types.AttributeValueMemberS{Value: value}
	}
	return key, nil
}
