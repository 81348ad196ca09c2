//go:build integration

package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/iyhunko/product-catalog-service/internal/model"
	"github.com/iyhunko/product-catalog-service/internal/service"
	sqspkg "github.com/iyhunko/product-catalog-service/internal/sqs"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSQSClient stands in for SQS on both the publishing and the consuming side.
type MockSQSClient struct {
	mock.Mock
}

func (m *MockSQSClient) SendMessage(ctx context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sqs.SendMessageOutput), args.Error(1)
}

func (m *MockSQSClient) ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sqs.ReceiveMessageOutput), args.Error(1)
}

func (m *MockSQSClient) DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sqs.DeleteMessageOutput), args.Error(1)
}

func TestProductNotificationFlow_Integration(t *testing.T) {
	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)
	testDB.TruncateTables(t)
	app := newTestApp(testDB, service.WithOutboxEvents())
	ctx := context.Background()
	queueURL := "https://sqs.us-east-1.amazonaws.com/123456789/product-notifications"

	// given a product written through the service, which records an outbox event
	price := decimal.RequireFromString("3500.00")
	stock := 10
	created, err := app.Service.CreateProduct(ctx, service.CreateProductRequest{
		Name: "Notebook", Description: "Notebook Dell Inspiron 15", Price: &price, StockQuantity: &stock,
	})
	require.NoError(t, err)

	pending, err := app.Events.ListPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, model.EventTypeProductCreated, pending[0].EventType)

	// when the outbox worker relays it
	sqsClient := new(MockSQSClient)
	var sentBody string
	sqsClient.On("SendMessage", mock.Anything, mock.MatchedBy(func(in *sqs.SendMessageInput) bool {
		return aws.ToString(in.QueueUrl) == queueURL
	})).Run(func(args mock.Arguments) {
		sentBody = aws.ToString(args.Get(1).(*sqs.SendMessageInput).MessageBody)
	}).Return(&sqs.SendMessageOutput{}, nil).Once()

	worker := service.NewOutboxWorker(app.Events, sqspkg.NewPublisher(sqsClient, queueURL), time.Second)
	worker.ProcessPending(ctx)

	// then the event is processed
	pending, err = app.Events.ListPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
	require.NotEmpty(t, sentBody)

	// and the notification consumer decodes the relayed body
	receipt := "receipt-1"
	sqsClient.On("ReceiveMessage", mock.Anything, mock.Anything).Return(
		&sqs.ReceiveMessageOutput{Messages: []types.Message{{Body: &sentBody, ReceiptHandle: &receipt}}}, nil,
	).Once()
	sqsClient.On("ReceiveMessage", mock.Anything, mock.Anything).Return(&sqs.ReceiveMessageOutput{}, nil).After(10 * time.Millisecond)
	sqsClient.On("DeleteMessage", mock.Anything, mock.MatchedBy(func(in *sqs.DeleteMessageInput) bool {
		return aws.ToString(in.ReceiptHandle) == receipt
	})).Return(&sqs.DeleteMessageOutput{}, nil).Once()

	var (
		mu       sync.Mutex
		received []sqspkg.ProductMessage
	)
	consumer := sqspkg.NewConsumer(sqsClient, queueURL, func(_ context.Context, msg sqspkg.ProductMessage) error {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, msg)
		return nil
	})

	consumeCtx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	err = consumer.Start(consumeCtx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 1)
	assert.Equal(t, sqspkg.ActionCreated, received[0].Action)
	assert.Equal(t, created.ID.String(), received[0].ProductID)
	assert.Equal(t, "Notebook", received[0].Name)
	assert.True(t, price.Equal(received[0].Price))
	assert.Equal(t, 10, received[0].StockQuantity)
	sqsClient.AssertExpectations(t)
}
