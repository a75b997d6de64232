package main

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"github.com/go-chi/chi/v5"

	"mtp-backend/infrastructure/config"
	"mtp-backend/infrastructure/di"
	"mtp-backend/interfaces/http/rest"
	"mtp-backend/pkg/auth"
)

// Global variables for Lambda lifecycle management
var (
	// chiLambda wraps the Chi router for AWS Lambda integration
	chiLambda *chiadapter.ChiLambdaV2

	// container holds the dependency injection container
	container *di.Container
)

// init runs during cold start
func init() {
	start := time.Now()

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err = di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	router := rest.NewRouter(
		container.NoteService,
		container.StrategyService,
		container.ReportService,
		container.Resolver,
		container.Collector,
		container.Config,
		container.Logger,
	)

	handler := router.Setup()
	chiRouter, ok := handler.(*chi.Mux)
	if !ok {
		log.Fatal("Failed to cast handler to chi.Mux")
	}
	chiLambda = chiadapter.NewV2(chiRouter)

	log.Printf("Lambda cold start completed in %v", time.Since(start))
}

// Handler is the Lambda function handler. When the gateway authorizer
// already resolved the caller, the subject travels to the router on a
// trusted header. Any inbound copy of that header is dropped first so
// callers cannot forge it.
func Handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if req.Headers == nil {
		req.Headers = map[string]string{}
	}
	delete(req.Headers, auth.AuthorizerSubHeader)
	delete(req.Headers, "x-authorizer-sub")

	if sub := auth.AuthorizerSub(req); sub != "" {
		req.Headers[auth.AuthorizerSubHeader] = sub
	}

	return chiLambda.ProxyWithContextV2(ctx, req)
}

func main() {
	lambda.Start(Handler)
}
