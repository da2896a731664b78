package arrowops

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alekLukanen/errs"
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/linkedin/goavro/v2"
)

/*
* Write the record as an avro object container file. Every field is a union
* with null so null cells survive the conversion.
 */
func WriteAvro(record arrow.Record, recordName string) ([]byte, error) {
	codec, err := AvroCodec(record.Schema(), recordName)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	ocfWriter, err := goavro.NewOCFWriter(goavro.OCFConfig{
		W:               &buf,
		Codec:           codec,
		CompressionName: goavro.CompressionDeflateLabel,
	})
	if err != nil {
		return nil, errs.Wrap(err)
	}

	schema := record.Schema()
	fieldNames := AvroFieldNames(schema)
	columnArrays := record.Columns()
	rows := make([]interface{}, record.NumRows())
	for i := int64(0); i < record.NumRows(); i++ {
		row := make(map[string]interface{}, len(columnArrays))
		for colIdx, col := range columnArrays {
			field := schema.Field(colIdx)
			name := fieldNames[colIdx]
			if col.IsNull(int(i)) {
				row[name] = nil
				continue
			}
			val, err := ArrowValueToAvroValue(col, int(i))
			if err != nil {
				return nil, errs.Wrap(err, fmt.Errorf("column %s row %d", field.Name, i))
			}
			avroType, err := ArrowToAvroType(field.Type)
			if err != nil {
				return nil, err
			}
			row[name] = goavro.Union(avroType, val)
		}
		rows[i] = row
	}

	if err := ocfWriter.Append(rows); err != nil {
		return nil, errs.Wrap(err)
	}

	return buf.Bytes(), nil
}

func ArrowValueToAvroValue(arr arrow.Array, idx int) (interface{}, error) {
	switch arr.DataType().ID() {
	case arrow.BOOL:
		return arr.(*array.Boolean).Value(idx), nil
	case arrow.INT32:
		return int64(arr.(*array.Int32).Value(idx)), nil
	case arrow.INT64:
		return arr.(*array.Int64).Value(idx), nil
	case arrow.FLOAT32:
		return float64(arr.(*array.Float32).Value(idx)), nil
	case arrow.FLOAT64:
		return arr.(*array.Float64).Value(idx), nil
	case arrow.STRING:
		return arr.(*array.String).Value(idx), nil
	default:
		return nil, errs.NewStackError(fmt.Errorf("%w| %s", ErrUnsupportedDataType, arr.DataType()))
	}
}

func AvroCodec(arrowSchema *arrow.Schema, recordName string) (*goavro.Codec, error) {
	type avroField struct {
		Name    string      `json:"name"`
		Doc     string      `json:"doc,omitempty"`
		Type    []string    `json:"type"`
		Default interface{} `json:"default"`
	}
	type avroSchemaTemplate struct {
		Type   string      `json:"type"`
		Name   string      `json:"name"`
		Fields []avroField `json:"fields"`
	}

	avroSchema := avroSchemaTemplate{
		Type:   "record",
		Name:   avroName(recordName),
		Fields: make([]avroField, 0, arrowSchema.NumFields()),
	}

	fieldNames := AvroFieldNames(arrowSchema)
	for idx, field := range arrowSchema.Fields() {
		avroType, err := ArrowToAvroType(field.Type)
		if err != nil {
			return nil, err
		}
		fieldDef := avroField{
			Name:    fieldNames[idx],
			Type:    []string{"null", avroType},
			Default: nil,
		}
		if fieldDef.Name != field.Name {
			fieldDef.Doc = field.Name
		}
		avroSchema.Fields = append(avroSchema.Fields, fieldDef)
	}

	codecData, err := json.Marshal(avroSchema)
	if err != nil {
		return nil, errs.Wrap(err)
	}
	codec, err := goavro.NewCodec(string(codecData))
	if err != nil {
		return nil, errs.Wrap(err, fmt.Errorf("invalid avro schema %s", codecData))
	}

	return codec, nil
}

/*
* Map column names onto valid avro names: characters outside [A-Za-z0-9_]
* become underscores, a leading digit gets an underscore prefix and repeated
* names get a numeric suffix. Valid names are kept as is.
 */
func AvroFieldNames(arrowSchema *arrow.Schema) []string {
	names := make([]string, arrowSchema.NumFields())
	used := make(map[string]struct{}, arrowSchema.NumFields())
	for idx, field := range arrowSchema.Fields() {
		name := avroName(field.Name)
		candidate := name
		for suffix := 1; ; suffix++ {
			if _, ok := used[candidate]; !ok {
				break
			}
			candidate = fmt.Sprintf("%s_%d", name, suffix)
		}
		used[candidate] = struct{}{}
		names[idx] = candidate
	}
	return names
}

func avroName(name string) string {
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	out := sb.String()
	if out == "" || (out[0] >= '0' && out[0] <= '9') {
		out = "_" + out
	}
	return out
}

func ArrowToAvroType(arrowType arrow.DataType) (string, error) {
	switch arrowType.ID() {
	case arrow.BOOL:
		return "boolean", nil
	case arrow.INT32, arrow.INT64:
		return "long", nil
	case arrow.FLOAT32, arrow.FLOAT64:
		return "double", nil
	case arrow.STRING:
		return "string", nil
	default:
		return "", errs.NewStackError(fmt.Errorf("%w| %s", ErrUnsupportedDataType, arrowType))
	}
}
