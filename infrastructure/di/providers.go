// Package di assembles the application's dependency graph.
package di

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-xray-sdk-go/instrumentation/awsv2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"mtp-backend/application/ports"
	"mtp-backend/application/services"
	"mtp-backend/infrastructure/config"
	"mtp-backend/infrastructure/messaging/eventbridge"
	"mtp-backend/infrastructure/persistence/dynamodb"
	"mtp-backend/pkg/auth"
	"mtp-backend/pkg/observability"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	if level, err := zapcore.ParseLevel(cfg.LogLevel); err == nil {
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}

	return zapCfg.Build()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return aws.Config{}, err
	}

	if cfg.EnableTracing {
		awsv2.AWSV2Instrumentor(&awsCfg.APIOptions)
	}
	return awsCfg, nil
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideStore creates the single-table item store
func ProvideStore(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.Store {
	return dynamodb.NewStore(client, cfg.DynamoDBTable, cfg.IndexName, logger)
}

// ProvideEventPublisher creates an event publisher. Without a configured
// bus name, lifecycle events are silently dropped.
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	if cfg.EventBusName == "" {
		return eventbridge.NewNopPublisher()
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideCollector creates the request metrics collector
func ProvideCollector(client *awscloudwatch.Client, cfg *config.Config, logger *zap.Logger) *observability.Collector {
	collector := observability.NewCollector()
	if cfg.EnableMetrics {
		collector = collector.WithCloudWatch(client, cfg.MetricsNamespace, logger)
	}
	return collector
}

// ProvideResolver creates the request identity resolver
func ProvideResolver(cfg *config.Config) *auth.Resolver {
	return auth.NewResolver(cfg.DevMode, cfg.DevUserHeader)
}

// ProvideNoteService creates the note service
func ProvideNoteService(store ports.Store, events ports.EventPublisher, logger *zap.Logger) *services.NoteService {
	return services.NewNoteService(store, events, logger)
}

// ProvideStrategyService creates the strategy service
func ProvideStrategyService(store ports.Store, events ports.EventPublisher, logger *zap.Logger) *services.StrategyService {
	return services.NewStrategyService(store, events, logger)
}

// ProvideReportService creates the report service
func ProvideReportService(store ports.Store, logger *zap.Logger) *services.ReportService {
	return services.NewReportService(store, logger)
}
