package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/alekLukanen/errs"
	"github.com/joho/godotenv"

	"github.com/tylerdata/taxiPipeline/elements"
	"github.com/tylerdata/taxiPipeline/operations"
)

const (
	DefaultBucket          = "tyler-data-pipeline-2025"
	DefaultRawPrefix       = "raw/"
	DefaultRawSuffix       = ".csv"
	DefaultProcessedPrefix = "processed/"
	DefaultRunLogKey       = "processed/logs/run_history.csv"
	DefaultDatabase        = "taxi_demo"
	DefaultTable           = "trips_processed"

	CatalogEngineAthena = "athena"
	CatalogEngineGlue   = "glue"

	LogFormatJSON = "json"
	LogFormatText = "text"
)

// Config is the full pipeline configuration. Values come from the defaults,
// then the toml file, then the environment.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Dataset DatasetConfig `toml:"dataset"`
	Output  OutputConfig  `toml:"output"`
	RunLog  RunLogConfig  `toml:"run_log"`
	Lock    LockConfig    `toml:"lock"`
	Catalog CatalogConfig `toml:"catalog"`
	Log     LogConfig     `toml:"log"`
}

type StorageConfig struct {
	Bucket          string `toml:"bucket"`
	Region          string `toml:"region"`
	Endpoint        string `toml:"endpoint"`
	UsePathStyle    bool   `toml:"use-path-style"`
	AuthKey         string `toml:"auth-key"`
	AuthSecret      string `toml:"auth-secret"`
	RawPrefix       string `toml:"raw-prefix"`
	RawSuffix       string `toml:"raw-suffix"`
	ProcessedPrefix string `toml:"processed-prefix"`
}

type DatasetConfig struct {
	Name              string `toml:"name"`
	NumeratorColumn   string `toml:"numerator-column"`
	DenominatorColumn string `toml:"denominator-column"`
	DerivedColumn     string `toml:"derived-column"`
}

type OutputConfig struct {
	Format string `toml:"format"`
}

type RunLogConfig struct {
	Key          string   `toml:"key"`
	LockDuration Duration `toml:"lock-duration"`
}

type LockConfig struct {
	Enabled    bool     `toml:"enabled"`
	Address    string   `toml:"address"`
	Password   string   `toml:"password"`
	DB         int      `toml:"db"`
	KeyPrefix  string   `toml:"key-prefix"`
	Tries      int      `toml:"tries"`
	RetryDelay Duration `toml:"retry-delay"`
}

type CatalogConfig struct {
	RegisterPartition bool   `toml:"register-partition"`
	Engine            string `toml:"engine"`
	Database          string `toml:"database"`
	Table             string `toml:"table"`
	OutputLocation    string `toml:"output-location"`
	WorkGroup         string `toml:"workgroup"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Duration decodes toml strings such as "30s" or "1m".
type Duration struct {
	time.Duration
}

func (obj *Duration) UnmarshalText(text []byte) error {
	d, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	obj.Duration = d
	return nil
}

func (obj Duration) MarshalText() ([]byte, error) {
	return []byte(obj.Duration.String()), nil
}

func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Bucket:          DefaultBucket,
			RawPrefix:       DefaultRawPrefix,
			RawSuffix:       DefaultRawSuffix,
			ProcessedPrefix: DefaultProcessedPrefix,
		},
		Dataset: DatasetConfig{
			Name:              elements.DefaultDatasetName,
			NumeratorColumn:   elements.DefaultNumeratorColumn,
			DenominatorColumn: elements.DefaultDenominatorColumn,
			DerivedColumn:     elements.DefaultDerivedColumn,
		},
		Output: OutputConfig{
			Format: string(operations.OutputFormatCSV),
		},
		RunLog: RunLogConfig{
			Key:          DefaultRunLogKey,
			LockDuration: Duration{time.Minute},
		},
		Lock: LockConfig{
			KeyPrefix:  "taxi-pipeline",
			Tries:      32,
			RetryDelay: Duration{250 * time.Millisecond},
		},
		Catalog: CatalogConfig{
			Engine:   CatalogEngineAthena,
			Database: DefaultDatabase,
			Table:    DefaultTable,
		},
		Log: LogConfig{
			Level:  "info",
			Format: LogFormatJSON,
		},
	}
}

/*
* Load builds the configuration. An empty path skips the toml file. The env
* files are read with godotenv without overriding variables that are already
* set; a missing env file is ignored.
 */
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w| %s", ErrConfigFileMissing, path)
		}
		meta, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, errs.Wrap(err, fmt.Errorf("failed decoding config file %s", path))
		}
		if err := checkUndecoded(meta); err != nil {
			return nil, err
		}
	}

	for _, envFile := range envFiles {
		err := godotenv.Load(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, errs.Wrap(err, fmt.Errorf("failed reading env file %s", envFile))
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.applyDerivedDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode reads a toml document on top of the defaults without touching the
// environment.
func Decode(data string) (*Config, error) {
	cfg := Default()
	meta, err := toml.Decode(data, cfg)
	if err != nil {
		return nil, errs.Wrap(err, fmt.Errorf("failed decoding config"))
	}
	if err := checkUndecoded(meta); err != nil {
		return nil, err
	}
	cfg.applyDerivedDefaults()
	return cfg, nil
}

func checkUndecoded(meta toml.MetaData) error {
	undecoded := meta.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}
	keys := make([]string, len(undecoded))
	for i, key := range undecoded {
		keys[i] = key.String()
	}
	return fmt.Errorf("%w| %s", ErrUnknownConfigKeys, strings.Join(keys, ", "))
}

func (obj *Config) applyDerivedDefaults() {
	if obj.Catalog.OutputLocation == "" {
		obj.Catalog.OutputLocation = fmt.Sprintf("s3://%s/athena-results/", obj.Storage.Bucket)
	}
}

// StaticCredentials reports whether an explicit key pair replaces the
// default aws credential chain.
func (obj StorageConfig) StaticCredentials() bool {
	return obj.AuthKey != "" && obj.AuthSecret != ""
}

func (obj *Config) Validate() error {
	if obj.Storage.Bucket == "" {
		return fmt.Errorf("%w| storage: bucket is required", ErrConfigInvalid)
	}
	if obj.Storage.RawPrefix == "" || obj.Storage.ProcessedPrefix == "" {
		return fmt.Errorf("%w| storage: raw-prefix and processed-prefix are required", ErrConfigInvalid)
	}
	if (obj.Storage.AuthKey == "") != (obj.Storage.AuthSecret == "") {
		return fmt.Errorf("%w| storage: auth-key and auth-secret must be set together", ErrConfigInvalid)
	}
	if obj.RunLog.Key == "" {
		return fmt.Errorf("%w| run_log: key is required", ErrConfigInvalid)
	}
	if strings.HasPrefix(obj.RunLog.Key, obj.Storage.RawPrefix) && strings.HasSuffix(obj.RunLog.Key, obj.Storage.RawSuffix) {
		return fmt.Errorf("%w| run_log: key %s would be picked up as raw input", ErrConfigInvalid, obj.RunLog.Key)
	}
	if _, err := operations.ParseOutputFormat(obj.Output.Format); err != nil {
		return fmt.Errorf("%w| output: %v", ErrConfigInvalid, err)
	}
	if err := obj.DatasetDefinition().IsValid(); err != nil {
		return fmt.Errorf("%w| dataset: %v", ErrConfigInvalid, err)
	}
	if obj.Lock.Enabled && obj.Lock.Address == "" {
		return fmt.Errorf("%w| lock: address is required when the lock is enabled", ErrConfigInvalid)
	}
	switch obj.Catalog.Engine {
	case CatalogEngineAthena, CatalogEngineGlue:
	default:
		return fmt.Errorf("%w| catalog: unknown engine %q", ErrConfigInvalid, obj.Catalog.Engine)
	}
	if obj.Catalog.RegisterPartition && (obj.Catalog.Database == "" || obj.Catalog.Table == "") {
		return fmt.Errorf("%w| catalog: database and table are required", ErrConfigInvalid)
	}
	if _, err := obj.Log.SlogLevel(); err != nil {
		return fmt.Errorf("%w| log: %v", ErrConfigInvalid, err)
	}
	switch obj.Log.Format {
	case LogFormatJSON, LogFormatText:
	default:
		return fmt.Errorf("%w| log: unknown format %q", ErrConfigInvalid, obj.Log.Format)
	}
	return nil
}

func (obj *Config) DatasetDefinition() *elements.Dataset {
	return elements.NewDataset(obj.Dataset.Name).
		SetRatio(obj.Dataset.NumeratorColumn, obj.Dataset.DenominatorColumn, obj.Dataset.DerivedColumn)
}

func (obj LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(obj.Level))
	return level, err
}
