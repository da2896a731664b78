package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alekLukanen/errs"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/glue"
	gluetypes "github.com/aws/aws-sdk-go-v2/service/glue/types"

	"github.com/tylerdata/taxiPipeline/elements"
)

type IGlueClient interface {
	GetTable(ctx context.Context, params *glue.GetTableInput, optFns ...func(*glue.Options)) (*glue.GetTableOutput, error)
	CreatePartition(ctx context.Context, params *glue.CreatePartitionInput, optFns ...func(*glue.Options)) (*glue.CreatePartitionOutput, error)
}

type GlueRegistrarOptions struct {
	Database string
	Table    string
}

// GlueRegistrar writes the partition straight into the glue data catalog,
// reusing the table's storage descriptor with the new location.
type GlueRegistrar struct {
	logger *slog.Logger
	client IGlueClient

	database string
	table    string
}

func NewGlueRegistrar(logger *slog.Logger, client IGlueClient, options GlueRegistrarOptions) (*GlueRegistrar, error) {
	if options.Database == "" || options.Table == "" {
		return nil, fmt.Errorf("%w| database and table are required", ErrRegistrarInvalid)
	}
	return &GlueRegistrar{
		logger:   logger,
		client:   client,
		database: options.Database,
		table:    options.Table,
	}, nil
}

func NewGlueRegistrarFromConfig(logger *slog.Logger, awsConfig aws.Config, options GlueRegistrarOptions) (*GlueRegistrar, error) {
	return NewGlueRegistrar(logger, glue.NewFromConfig(awsConfig), options)
}

func (obj *GlueRegistrar) RegisterPartition(ctx context.Context, partition elements.PartitionKey, location string) (string, error) {
	if err := validatePartition(partition); err != nil {
		return "", err
	}

	tableOut, err := obj.client.GetTable(ctx, &glue.GetTableInput{
		DatabaseName: aws.String(obj.database),
		Name:         aws.String(obj.table),
	})
	if err != nil {
		var notFound *gluetypes.EntityNotFoundException
		if errors.As(err, &notFound) {
			return "", fmt.Errorf("%w| %s.%s", ErrTableNotFound, obj.database, obj.table)
		}
		return "", errs.Wrap(err, fmt.Errorf("failed reading glue table %s.%s", obj.database, obj.table))
	}

	storageDescriptor := &gluetypes.StorageDescriptor{}
	if tableOut.Table != nil && tableOut.Table.StorageDescriptor != nil {
		descriptorCopy := *tableOut.Table.StorageDescriptor
		storageDescriptor = &descriptorCopy
	}
	storageDescriptor.Location = aws.String(location)

	_, err = obj.client.CreatePartition(ctx, &glue.CreatePartitionInput{
		DatabaseName: aws.String(obj.database),
		TableName:    aws.String(obj.table),
		PartitionInput: &gluetypes.PartitionInput{
			Values:            PartitionValues(partition),
			StorageDescriptor: storageDescriptor,
		},
	})
	if err != nil {
		var exists *gluetypes.AlreadyExistsException
		if !errors.As(err, &exists) {
			return "", errs.Wrap(err, fmt.Errorf("failed creating glue partition %s", partition.Path()))
		}
		obj.logger.Debug("glue partition already exists", slog.String("partition", partition.Path()))
	}

	obj.logger.Info(
		"glue partition registered",
		slog.String("table", fmt.Sprintf("%s.%s", obj.database, obj.table)),
		slog.String("partition", partition.Path()),
	)
	return "", nil
}
