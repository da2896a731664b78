package catalog

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/glue"
	"github.com/stretchr/testify/mock"
)

type MockAthenaClient struct {
	mock.Mock
}

func (obj *MockAthenaClient) StartQueryExecution(ctx context.Context, params *athena.StartQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.StartQueryExecutionOutput, error) {
	args := obj.Called(ctx, params)
	var output *athena.StartQueryExecutionOutput
	if args.Get(0) != nil {
		output = args.Get(0).(*athena.StartQueryExecutionOutput)
	}
	return output, args.Error(1)
}

type MockGlueClient struct {
	mock.Mock
}

func (obj *MockGlueClient) GetTable(ctx context.Context, params *glue.GetTableInput, optFns ...func(*glue.Options)) (*glue.GetTableOutput, error) {
	args := obj.Called(ctx, params)
	var output *glue.GetTableOutput
	if args.Get(0) != nil {
		output = args.Get(0).(*glue.GetTableOutput)
	}
	return output, args.Error(1)
}

func (obj *MockGlueClient) CreatePartition(ctx context.Context, params *glue.CreatePartitionInput, optFns ...func(*glue.Options)) (*glue.CreatePartitionOutput, error) {
	args := obj.Called(ctx, params)
	var output *glue.CreatePartitionOutput
	if args.Get(0) != nil {
		output = args.Get(0).(*glue.CreatePartitionOutput)
	}
	return output, args.Error(1)
}
