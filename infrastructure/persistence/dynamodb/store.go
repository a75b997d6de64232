// Package dynamodb implements the key-value access layer over a single
// DynamoDB table with a generic partition/sort key schema and one
// secondary index for per-user listings.
package dynamodb

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"mtp-backend/application/ports"
	apperrors "mtp-backend/pkg/errors"
)

// API is the slice of the DynamoDB client the store needs. Tests supply
// a fake implementation.
type API interface {
	PutItem(ctx context.Context, params *awsdynamodb.PutItemInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *awsdynamodb.GetItemInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *awsdynamodb.DeleteItemInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.DeleteItemOutput, error)
	UpdateItem(ctx context.Context, params *awsdynamodb.UpdateItemInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, params *awsdynamodb.QueryInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.QueryOutput, error)
}

// Store implements ports.Store against DynamoDB
type Store struct {
	client    API
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewStore creates a store bound to one table and its secondary index
func NewStore(client API, tableName, indexName string, logger *zap.Logger) ports.Store {
	return &Store{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// PutItemIfAbsent conditionally creates an item. The condition guards
// both key attributes so an existing item is never silently overwritten.
func (s *Store) PutItemIfAbsent(ctx context.Context, item map[string]interface{}) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return apperrors.NewDatabaseError("put", err)
	}

	cond := expression.AttributeNotExists(expression.Name("PK")).
		And(expression.AttributeNotExists(expression.Name("SK")))
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return apperrors.NewDatabaseError("put", err)
	}

	_, err = s.client.PutItem(ctx, &awsdynamodb.PutItemInput{
		TableName:                aws.String(s.tableName),
		Item:                     av,
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return apperrors.NewConflictError("Item already exists")
		}
		s.logger.Error("PutItem failed", zap.Error(err))
		return apperrors.NewDatabaseError("put", err)
	}
	return nil
}

// GetItem fetches an item by primary key, nil when absent
func (s *Store) GetItem(ctx context.Context, pk, sk string) (map[string]interface{}, error) {
	out, err := s.client.GetItem(ctx, &awsdynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key:       primaryKey(pk, sk),
	})
	if err != nil {
		s.logger.Error("GetItem failed", zap.Error(err), zap.String("pk", pk), zap.String("sk", sk))
		return nil, apperrors.NewDatabaseError("get", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}

	item := map[string]interface{}{}
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, apperrors.NewDatabaseError("get", err)
	}
	return item, nil
}

// DeleteItem removes an item unconditionally
func (s *Store) DeleteItem(ctx context.Context, pk, sk string) error {
	_, err := s.client.DeleteItem(ctx, &awsdynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key:       primaryKey(pk, sk),
	})
	if err != nil {
		s.logger.Error("DeleteItem failed", zap.Error(err), zap.String("pk", pk), zap.String("sk", sk))
		return apperrors.NewDatabaseError("delete", err)
	}
	return nil
}

// UpdateItem applies a SET-only partial update and returns the item as
// it looks afterwards. The expression builder aliases every attribute
// name, so fields colliding with reserved words stay safe to reference.
func (s *Store) UpdateItem(ctx context.Context, pk, sk string, set map[string]interface{}) (map[string]interface{}, error) {
	if len(set) == 0 {
		return nil, apperrors.NewValidationError("No fields to update")
	}

	var update expression.UpdateBuilder
	for name, value := range set {
		update = update.Set(expression.Name(name), expression.Value(value))
	}

	expr, err := expression.NewBuilder().WithUpdate(update).Build()
	if err != nil {
		return nil, apperrors.NewDatabaseError("update", err)
	}

	out, err := s.client.UpdateItem(ctx, &awsdynamodb.UpdateItemInput{
		TableName:                 aws.String(s.tableName),
		Key:                       primaryKey(pk, sk),
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		s.logger.Error("UpdateItem failed", zap.Error(err), zap.String("pk", pk), zap.String("sk", sk))
		return nil, apperrors.NewDatabaseError("update", err)
	}

	item := map[string]interface{}{}
	if err := attributevalue.UnmarshalMap(out.Attributes, &item); err != nil {
		return nil, apperrors.NewDatabaseError("update", err)
	}
	return item, nil
}

// QueryByPartition pages through one partition, optionally narrowed by a
// sort-key prefix.
func (s *Store) QueryByPartition(ctx context.Context, pk, skPrefix string, limit int32, lastKey string) (*ports.Page, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(pk))
	if skPrefix != "" {
		keyCond = keyCond.And(expression.Key("SK").BeginsWith(skPrefix))
	}

	return s.query(ctx, &queryParams{
		keyCond: keyCond,
		limit:   limit,
		lastKey: lastKey,
	})
}

// QueryGSI1 pages through the secondary index in descending sort-key
// order, newest entries first.
func (s *Store) QueryGSI1(ctx context.Context, gsi1pk string, limit int32, lastKey string) (*ports.Page, error) {
	return s.query(ctx, &queryParams{
		keyCond:   expression.Key("GSI1PK").Equal(expression.Value(gsi1pk)),
		indexName: s.indexName,
		backward:  true,
		limit:     limit,
		lastKey:   lastKey,
	})
}

type queryParams struct {
	keyCond   expression.KeyConditionBuilder
	indexName string
	backward  bool
	limit     int32
	lastKey   string
}

func (s *Store) query(ctx context.Context, p *queryParams) (*ports.Page, error) {
	expr, err := expression.NewBuilder().WithKeyCondition(p.keyCond).Build()
	if err != nil {
		return nil, apperrors.NewDatabaseError("query", err)
	}

	startKey, err := decodeLastKey(p.lastKey)
	if err != nil {
		return nil, err
	}

	input := &awsdynamodb.QueryInput{
		TableName:                 aws.String(s.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ExclusiveStartKey:         startKey,
	}
	if p.indexName != "" {
		input.IndexName = aws.String(p.indexName)
	}
	if p.backward {
		input.ScanIndexForward = aws.Bool(false)
	}
	if p.limit > 0 {
		input.Limit = aws.Int32(p.limit)
	}

	out, err := s.client.Query(ctx, input)
	if err != nil {
		s.logger.Error("Query failed", zap.Error(err))
		return nil, apperrors.NewDatabaseError("query", err)
	}

	items := make([]map[string]interface{}, 0, len(out.Items))
	for _, raw := range out.Items {
		item := map[string]interface{}{}
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, apperrors.NewDatabaseError("query", err)
		}
		items = append(items, item)
	}

	token, err := encodeLastKey(out.LastEvaluatedKey)
	if err != nil {
		return nil, apperrors.NewDatabaseError("query", err)
	}

	return &ports.Page{Items: items, LastKey: token}, nil
}

func primaryKey(pk, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: pk},
		"SK": &types.AttributeValueMemberS{Value: sk},
	}
}
