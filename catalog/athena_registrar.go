package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alekLukanen/errs"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/athena/types"

	"github.com/tylerdata/taxiPipeline/elements"
)

type IAthenaClient interface {
	StartQueryExecution(ctx context.Context, params *athena.StartQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.StartQueryExecutionOutput, error)
}

type AthenaRegistrarOptions struct {
	Database       string
	Table          string
	OutputLocation string
	WorkGroup      string
}

/*
* AthenaRegistrar submits an ALTER TABLE ... ADD PARTITION query and returns
* as soon as athena accepts it. The query result is never polled so a
* statement that later fails inside athena goes unnoticed by the run.
 */
type AthenaRegistrar struct {
	logger *slog.Logger
	client IAthenaClient

	database       string
	table          string
	outputLocation string
	workGroup      string
}

func NewAthenaRegistrar(logger *slog.Logger, client IAthenaClient, options AthenaRegistrarOptions) (*AthenaRegistrar, error) {
	if options.Database == "" || options.Table == "" {
		return nil, fmt.Errorf("%w| database and table are required", ErrRegistrarInvalid)
	}
	if options.OutputLocation == "" {
		return nil, fmt.Errorf("%w| query output location is required", ErrRegistrarInvalid)
	}
	return &AthenaRegistrar{
		logger:         logger,
		client:         client,
		database:       options.Database,
		table:          options.Table,
		outputLocation: options.OutputLocation,
		workGroup:      options.WorkGroup,
	}, nil
}

func NewAthenaRegistrarFromConfig(logger *slog.Logger, awsConfig aws.Config, options AthenaRegistrarOptions) (*AthenaRegistrar, error) {
	return NewAthenaRegistrar(logger, athena.NewFromConfig(awsConfig), options)
}

func (obj *AthenaRegistrar) RegisterPartition(ctx context.Context, partition elements.PartitionKey, location string) (string, error) {
	query, err := BuildPartitionQuery(obj.database, obj.table, partition, location)
	if err != nil {
		return "", err
	}

	input := &athena.StartQueryExecutionInput{
		QueryString: aws.String(query),
		QueryExecutionContext: &types.QueryExecutionContext{
			Database: aws.String(obj.database),
		},
		ResultConfiguration: &types.ResultConfiguration{
			OutputLocation: aws.String(obj.outputLocation),
		},
	}
	if obj.workGroup != "" {
		input.WorkGroup = aws.String(obj.workGroup)
	}

	output, err := obj.client.StartQueryExecution(ctx, input)
	if err != nil {
		return "", errs.Wrap(err, fmt.Errorf("failed submitting partition %s to athena", partition.Path()))
	}
	if output == nil || output.QueryExecutionId == nil {
		return "", errs.NewStackError(fmt.Errorf("%w| athena returned no query execution id", ErrQueryNotSubmitted))
	}

	obj.logger.Info(
		"athena partition query submitted",
		slog.String("table", fmt.Sprintf("%s.%s", obj.database, obj.table)),
		slog.String("partition", partition.Path()),
		slog.String("queryExecutionId", *output.QueryExecutionId),
	)
	return *output.QueryExecutionId, nil
}
