package preference

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/zhouzirui/billboard/backend/internal/config"
	"github.com/zhouzirui/billboard/backend/internal/model/preference"
)

// DynamoAPI is the slice of the DynamoDB client the backend calls.
type DynamoAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// DynamoBackend stores records as items of one table keyed by id.
type DynamoBackend struct {
	client DynamoAPI
	table  string
}

// NewDynamoBackend builds a client with static credentials from cfg.
func NewDynamoBackend(ctx context.Context, cfg config.StorageConfig) (*DynamoBackend, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewDynamoBackendWithClient(dynamodb.NewFromConfig(awsCfg), cfg.DynamoDBTable), nil
}

// NewDynamoBackendWithClient wraps an existing client.
func NewDynamoBackendWithClient(client DynamoAPI, table string) *DynamoBackend {
	return &DynamoBackend{client: client, table: table}
}

func (d *DynamoBackend) Name() string { return config.BackendDynamoDB }

// Put writes rec unconditionally.
func (d *DynamoBackend) Put(ctx context.Context, rec preference.Record) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	if _, err := d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("dynamodb put item: %w", err)
	}
	return nil
}

// Scan reads the whole table, following pagination.
func (d *DynamoBackend) Scan(ctx context.Context) ([]preference.Record, error) {
	records := make([]preference.Record, 0)
	paginator := dynamodb.NewScanPaginator(d.client, &dynamodb.ScanInput{
		TableName: aws.String(d.table),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("dynamodb scan: %w", err)
		}
		var batch []preference.Record
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshal scan page: %w", err)
		}
		records = append(records, batch...)
	}
	return records, nil
}

func (d *DynamoBackend) Close() error { return nil }
