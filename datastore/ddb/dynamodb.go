/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	stderrors "errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/suparena/delta/errors"
	"github.com/suparena/delta/registry"
)

// API is the subset of the DynamoDB client used by the data store. *dynamodb.Client satisfies it.
type API interface {
	GetItem(ctx context.Context, params *sdk.GetItemInput, optFns ...func(*sdk.Options)) (*sdk.GetItemOutput, error)
	PutItem(ctx context.Context, params *sdk.PutItemInput, optFns ...func(*sdk.Options)) (*sdk.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *sdk.UpdateItemInput, optFns ...func(*sdk.Options)) (*sdk.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *sdk.DeleteItemInput, optFns ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error)
}

// DynamodbDataStore implements datastore.DataStore[T] on a single DynamoDB table.
// Item keys come from the index map registered for T with registry.RegisterIndexMap.
type DynamodbDataStore[T any] struct {
	client    API
	tableName string
	logger    *zap.Logger
}

// Option configures a DynamodbDataStore.
type Option func(*options)

type options struct {
	logger    *zap.Logger
	tableName string
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTableName overrides the table name given to the constructor.
func WithTableName(name string) Option {
	return func(o *options) {
		o.tableName = name
	}
}

// NewDynamoDBClient initializes a DynamoDB client from cfg.
func NewDynamoDBClient(ctx context.Context, cfg Config) (*sdk.Client, error) {
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return sdk.NewFromConfig(awsCfg, func(o *sdk.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

// NewDynamodbDataStore constructs a new DynamodbDataStore for type T with static credentials.
func NewDynamodbDataStore[T any](awsAccessKey, awsSecretKey, awsRegion, awsDDBTableName string, opts ...Option) (*DynamodbDataStore[T], error) {
	return FromConfig[T](context.Background(), Config{
		AccessKey: awsAccessKey,
		SecretKey: awsSecretKey,
		Region:    awsRegion,
		TableName: awsDDBTableName,
	}, opts...)
}

// FromConfig constructs a DynamodbDataStore for type T from cfg, see ConfigFromEnv.
func FromConfig[T any](ctx context.Context, cfg Config, opts ...Option) (*DynamodbDataStore[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client, err := NewDynamoDBClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create DynamoDB client: %w", err)
	}

	store := NewWithClient[T](client, cfg.TableName, opts...)
	store.logger.Info("DynamoDB client initialized",
		zap.String("table", store.tableName),
		zap.String("region", cfg.Region))
	return store, nil
}

// NewWithClient constructs a DynamodbDataStore on an existing client.
func NewWithClient[T any](client API, tableName string, opts ...Option) *DynamodbDataStore[T] {
	o := options{logger: zap.NewNop(), tableName: tableName}
	for _, opt := range opts {
		opt(&o)
	}
	return &DynamodbDataStore[T]{
		client:    client,
		tableName: o.tableName,
		logger:    o.logger.With(zap.String("entity", entityName[T]())),
	}
}

// TableName returns the table the store reads and writes.
func (d *DynamodbDataStore[T]) TableName() string {
	return d.tableName
}

// GetOne retrieves a single item by key; every macro of the index map expands to key.
// A missing item is a NotFoundError.
func (d *DynamodbDataStore[T]) GetOne(ctx context.Context, key string) (*T, error) {
	keyMap, err := d.key(key)
	if err != nil {
		return nil, err
	}

	out, err := d.client.GetItem(ctx, &sdk.GetItemInput{
		TableName: &d.tableName,
		Key:       keyMap,
	})
	if err != nil {
		return nil, fmt.Errorf("GetItem error: %w", err)
	}
	if out.Item == nil {
		return nil, errors.NewNotFoundError(entityName[T](), key)
	}

	result := new(T)
	if err := attributevalue.UnmarshalMap(out.Item, result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return result, nil
}

// Put stores the entity, adding the key and index attributes expanded from its fields.
func (d *DynamodbDataStore[T]) Put(ctx context.Context, entity T) error {
	indexMap, ok := registry.GetIndexMap[T]()
	if !ok {
		return errors.ErrNoIndexMap
	}

	av, err := attributevalue.MarshalMap(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	values, err := macroValues(entity)
	if err != nil {
		return err
	}
	expanded, err := expandMacros(indexMap, values)
	if err != nil {
		return err
	}
	if _, err := primaryKey(expanded); err != nil {
		return err
	}
	for k, v := range expanded {
		av[k] = &types.AttributeValueMemberS{Value: v}
	}

	_, err = d.client.PutItem(ctx, &sdk.PutItemInput{
		TableName: &d.tableName,
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("PutItem failed: %w", err)
	}
	d.logger.Debug("item stored", zap.String("pk", expanded[PartitionKey]), zap.String("sk", expanded[SortKey]))
	return nil
}

// Delete removes an item by key.
func (d *DynamodbDataStore[T]) Delete(ctx context.Context, key string) error {
	keyMap, err := d.key(key)
	if err != nil {
		return err
	}

	_, err = d.client.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName: &d.tableName,
		Key:       keyMap,
	})
	if err != nil {
		return fmt.Errorf("failed to delete item in DynamoDB: %w", err)
	}
	return nil
}

// UpdateWithCondition sets the given fields on the item identified by keyInput (a key
// string, a field map or an entity). Field names are Go field names of T and are written
// under their dynamodbav names; values are marshalled with attributevalue. The condition
// may use any placeholders except #fN and :vN. A failed condition is a ConditionFailedError.
func (d *DynamodbDataStore[T]) UpdateWithCondition(ctx context.Context, keyInput any, updates map[string]any, condition string) error {
	keyMap, err := d.key(keyInput)
	if err != nil {
		return err
	}

	updateExpr, exprAttrNames, exprAttrValues, err := buildUpdateExpression(reflect.TypeOf((*T)(nil)).Elem(), updates)
	if err != nil {
		return fmt.Errorf("failed to build update expression: %w", err)
	}

	input := &sdk.UpdateItemInput{
		TableName:                 &d.tableName,
		Key:                       keyMap,
		UpdateExpression:          &updateExpr,
		ExpressionAttributeNames:  exprAttrNames,
		ExpressionAttributeValues: exprAttrValues,
		ReturnValues:              types.ReturnValueNone,
	}
	if condition != "" {
		input.ConditionExpression = aws.String(condition)
	}

	_, err = d.client.UpdateItem(ctx, input)
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if stderrors.As(err, &cfe) {
			return errors.NewConditionFailedError("update", condition)
		}
		return fmt.Errorf("UpdateWithCondition failed: %w", err)
	}

	d.logger.Debug("item updated", zap.String("expression", updateExpr), zap.Bool("conditional", condition != ""))
	return nil
}

func (d *DynamodbDataStore[T]) key(keyInput any) (map[string]types.AttributeValue, error) {
	indexMap, ok := registry.GetIndexMap[T]()
	if !ok {
		return nil, errors.ErrNoIndexMap
	}

	values, err := macroValues(keyInput)
	if err != nil {
		return nil, err
	}
	expanded, err := expandMacros(indexMap, values)
	if err != nil {
		return nil, err
	}
	return primaryKey(expanded)
}

// buildUpdateExpression turns a map of field->value into a "SET #f0 = :v0, ..." expression
// with its attribute names and values. Fields are numbered in sorted name order.
func buildUpdateExpression(t reflect.Type, updates map[string]any) (string,
	map[string]string,
	map[string]types.AttributeValue,
	error) {

	if len(updates) == 0 {
		return "", nil, nil, errors.NewValidationError("updates", "no updates provided")
	}

	fields := make([]string, 0, len(updates))
	for f := range updates {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	setClauses := make([]string, 0, len(fields))
	exprAttrNames := make(map[string]string, len(fields))
	exprAttrValues := make(map[string]types.AttributeValue, len(fields))

	for i, field := range fields {
		placeholderName := fmt.Sprintf("#f%d", i)
		placeholderValue := fmt.Sprintf(":v%d", i)

		av, err := attributevalue.Marshal(updates[field])
		if err != nil {
			return "", nil, nil, fmt.Errorf("field %s: %w", field, err)
		}

		setClauses = append(setClauses, fmt.Sprintf("%s = %s", placeholderName, placeholderValue))
		exprAttrNames[placeholderName] = attributeName(t, field)
		exprAttrValues[placeholderValue] = av
	}

	return "SET " + strings.Join(setClauses, ", "), exprAttrNames, exprAttrValues, nil
}

func entityName[T any]() string {
	return registry.TypeName(reflect.TypeOf((*T)(nil)).Elem())
}
