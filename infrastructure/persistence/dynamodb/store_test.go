package dynamodb

import (
	"context"
	"testing"

	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "mtp-backend/pkg/errors"
)

// fakeAPI captures request inputs and plays back canned responses
type fakeAPI struct {
	putErr    error
	putInput  *awsdynamodb.PutItemInput
	getOutput *awsdynamodb.GetItemOutput
	getInput  *awsdynamodb.GetItemInput

	deleteInput *awsdynamodb.DeleteItemInput

	updateOutput *awsdynamodb.UpdateItemOutput
	updateInput  *awsdynamodb.UpdateItemInput

	queryOutput *awsdynamodb.QueryOutput
	queryInput  *awsdynamodb.QueryInput
}

func (f *fakeAPI) PutItem(ctx context.Context, params *awsdynamodb.PutItemInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.PutItemOutput, error) {
	f.putInput = params
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &awsdynamodb.PutItemOutput{}, nil
}

func (f *fakeAPI) GetItem(ctx context.Context, params *awsdynamodb.GetItemInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.GetItemOutput, error) {
	f.getInput = params
	if f.getOutput != nil {
		return f.getOutput, nil
	}
	return &awsdynamodb.GetItemOutput{}, nil
}

func (f *fakeAPI) DeleteItem(ctx context.Context, params *awsdynamodb.DeleteItemInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.DeleteItemOutput, error) {
	f.deleteInput = params
	return &awsdynamodb.DeleteItemOutput{}, nil
}

func (f *fakeAPI) UpdateItem(ctx context.Context, params *awsdynamodb.UpdateItemInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.UpdateItemOutput, error) {
	f.updateInput = params
	if f.updateOutput != nil {
		return f.updateOutput, nil
	}
	return &awsdynamodb.UpdateItemOutput{}, nil
}

func (f *fakeAPI) Query(ctx context.Context, params *awsdynamodb.QueryInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.QueryOutput, error) {
	f.queryInput = params
	if f.queryOutput != nil {
		return f.queryOutput, nil
	}
	return &awsdynamodb.QueryOutput{}, nil
}

func newTestStore(api *fakeAPI) *Store {
	return &Store{
		client:    api,
		tableName: "mtp_app",
		indexName: "GSI1",
		logger:    zap.NewNop(),
	}
}

func TestPutItemIfAbsent_ConditionGuardsKeys(t *testing.T) {
	// Arrange
	api := &fakeAPI{}
	store := newTestStore(api)

	// Act
	err := store.PutItemIfAbsent(context.Background(), map[string]interface{}{
		"PK":   "USER#user123",
		"SK":   "NOTE#note-abc",
		"text": "entry note",
	})

	// Assert
	require.NoError(t, err)
	require.NotNil(t, api.putInput)
	assert.Equal(t, "mtp_app", *api.putInput.TableName)
	assert.Contains(t, *api.putInput.ConditionExpression, "attribute_not_exists")
	assert.Len(t, api.putInput.ExpressionAttributeNames, 2)
}

func TestPutItemIfAbsent_ConditionalFailureIsConflict(t *testing.T) {
	// Arrange
	api := &fakeAPI{putErr: &types.ConditionalCheckFailedException{}}
	store := newTestStore(api)

	// Act
	err := store.PutItemIfAbsent(context.Background(), map[string]interface{}{
		"PK": "USER#user123",
		"SK": "NOTE#note-abc",
	})

	// Assert
	assert.True(t, apperrors.IsConflict(err))
}

func TestGetItem_AbsentIsNil(t *testing.T) {
	// Arrange
	store := newTestStore(&fakeAPI{})

	// Act
	item, err := store.GetItem(context.Background(), "USER#user123", "NOTE#missing")

	// Assert
	assert.NoError(t, err)
	assert.Nil(t, item)
}

func TestGetItem_UnmarshalsAttributes(t *testing.T) {
	// Arrange
	api := &fakeAPI{
		getOutput: &awsdynamodb.GetItemOutput{
			Item: map[string]types.AttributeValue{
				"noteId": &types.AttributeValueMemberS{Value: "note-abc"},
				"risk":   &types.AttributeValueMemberN{Value: "1.5"},
			},
		},
	}
	store := newTestStore(api)

	// Act
	item, err := store.GetItem(context.Background(), "USER#user123", "NOTE#note-abc")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "note-abc", item["noteId"])
	assert.Equal(t, 1.5, item["risk"])
	assert.Equal(t, "USER#user123", api.getInput.Key["PK"].(*types.AttributeValueMemberS).Value)
}

func TestUpdateItem_EmptySetRejected(t *testing.T) {
	// Arrange
	store := newTestStore(&fakeAPI{})

	// Act
	_, err := store.UpdateItem(context.Background(), "USER#user123", "NOTE#note-abc", nil)

	// Assert
	assert.True(t, apperrors.IsValidation(err))
}

func TestUpdateItem_AliasesNamesAndReturnsAllNew(t *testing.T) {
	// Arrange
	api := &fakeAPI{
		updateOutput: &awsdynamodb.UpdateItemOutput{
			Attributes: map[string]types.AttributeValue{
				"text": &types.AttributeValueMemberS{Value: "revised"},
			},
		},
	}
	store := newTestStore(api)

	// Act
	item, err := store.UpdateItem(context.Background(), "USER#user123", "NOTE#note-abc", map[string]interface{}{
		"text": "revised",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "revised", item["text"])
	assert.Equal(t, types.ReturnValueAllNew, api.updateInput.ReturnValues)
	assert.Contains(t, *api.updateInput.UpdateExpression, "SET")
	assert.NotEmpty(t, api.updateInput.ExpressionAttributeNames)
	assert.NotEmpty(t, api.updateInput.ExpressionAttributeValues)
}

func TestQueryGSI1_DescendingOnIndex(t *testing.T) {
	// Arrange
	api := &fakeAPI{
		queryOutput: &awsdynamodb.QueryOutput{
			Items: []map[string]types.AttributeValue{
				{"noteId": &types.AttributeValueMemberS{Value: "note-b"}},
				{"noteId": &types.AttributeValueMemberS{Value: "note-a"}},
			},
			LastEvaluatedKey: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: "USER#user123"},
				"SK": &types.AttributeValueMemberS{Value: "NOTE#note-a"},
			},
		},
	}
	store := newTestStore(api)

	// Act
	page, err := store.QueryGSI1(context.Background(), "NOTE#user123", 2, "")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "GSI1", *api.queryInput.IndexName)
	assert.False(t, *api.queryInput.ScanIndexForward)
	assert.Equal(t, int32(2), *api.queryInput.Limit)
	assert.Len(t, page.Items, 2)
	assert.NotEmpty(t, page.LastKey)
}

func TestQueryGSI1_ResumesFromCursor(t *testing.T) {
	// Arrange
	api := &fakeAPI{}
	store := newTestStore(api)
	token := `{"PK":"USER#user123","SK":"NOTE#note-a"}`

	// Act
	_, err := store.QueryGSI1(context.Background(), "NOTE#user123", 10, token)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, api.queryInput.ExclusiveStartKey)
	assert.Equal(t, "NOTE#note-a", api.queryInput.ExclusiveStartKey["SK"].(*types.AttributeValueMemberS).Value)
}

func TestQueryGSI1_BadCursor(t *testing.T) {
	// Arrange
	store := newTestStore(&fakeAPI{})

	// Act
	_, err := store.QueryGSI1(context.Background(), "NOTE#user123", 10, "broken")

	// Assert
	assert.True(t, apperrors.IsValidation(err))
}

func TestQueryByPartition_SortKeyPrefix(t *testing.T) {
	// Arrange
	api := &fakeAPI{}
	store := newTestStore(api)

	// Act
	_, err := store.QueryByPartition(context.Background(), "USER#user123", "NOTE#", 0, "")

	// Assert
	require.NoError(t, err)
	assert.Nil(t, api.queryInput.IndexName)
	assert.Nil(t, api.queryInput.Limit)
	assert.Contains(t, *api.queryInput.KeyConditionExpression, "begins_with")
}

func TestDeleteItem_SendsKey(t *testing.T) {
	// Arrange
	api := &fakeAPI{}
	store := newTestStore(api)

	// Act
	err := store.DeleteItem(context.Background(), "USER#user123", "NOTE#note-abc")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "NOTE#note-abc", api.deleteInput.Key["SK"].(*types.AttributeValueMemberS).Value)
}
