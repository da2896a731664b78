package arrowops

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/alekLukanen/errs"
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/parquet"
	"github.com/apache/arrow/go/v17/parquet/compress"
	parquetFileUtils "github.com/apache/arrow/go/v17/parquet/file"
	"github.com/apache/arrow/go/v17/parquet/pqarrow"
)

func WriteParquet(ctx context.Context, record arrow.Record) ([]byte, error) {
	var buf bytes.Buffer

	parquetWriteProps := parquet.NewWriterProperties(
		parquet.WithStats(true),
		parquet.WithCompression(compress.Codecs.Snappy),
	)
	arrowWriteProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())
	parquetFileWriter, err := pqarrow.NewFileWriter(record.Schema(), &buf, parquetWriteProps, arrowWriteProps)
	if err != nil {
		return nil, errs.Wrap(err)
	}

	err = parquetFileWriter.Write(record)
	if err != nil {
		parquetFileWriter.Close()
		return nil, errs.Wrap(err)
	}

	// the footer is only written on close
	err = parquetFileWriter.Close()
	if err != nil {
		return nil, errs.Wrap(err)
	}

	return buf.Bytes(), nil
}

func ReadParquet(ctx context.Context, mem *memory.GoAllocator, data []byte) ([]arrow.Record, error) {

	parquetFileReader, err := parquetFileUtils.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, errs.Wrap(err)
	}
	defer parquetFileReader.Close()

	parquetReadProps := pqarrow.ArrowReadProperties{
		Parallel:  false,
		BatchSize: 1 << 16,
	}
	arrowFileReader, err := pqarrow.NewFileReader(parquetFileReader, parquetReadProps, mem)
	if err != nil {
		return nil, errs.Wrap(err)
	}

	recordReader, err := arrowFileReader.GetRecordReader(ctx, nil, nil)
	if err != nil {
		return nil, errs.Wrap(err)
	}
	defer recordReader.Release()

	records := make([]arrow.Record, 0)
	for recordReader.Next() {
		rec := recordReader.Record()
		rec.Retain()
		records = append(records, rec)
	}
	if err := recordReader.Err(); err != nil && !errors.Is(err, io.EOF) {
		for _, rec := range records {
			rec.Release()
		}
		return nil, errs.Wrap(err)
	}

	return records, nil
}
