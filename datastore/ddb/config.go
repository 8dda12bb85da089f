/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/suparena/delta/errors"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvAccessKey = "AWS_ACCESS_KEY"
	EnvSecretKey = "AWS_SECRET_KEY"
	EnvRegion    = "AWS_REGION"
	EnvTable     = "AWS_DDB_TABLE"
	EnvEndpoint  = "AWS_DDB_ENDPOINT"
)

// Config holds the connection settings of a DynamoDB data store.
type Config struct {
	// AccessKey and SecretKey select static credentials. When empty the default AWS
	// credential chain is used.
	AccessKey string
	SecretKey string
	Region    string
	TableName string
	// Endpoint overrides the service endpoint, e.g. for DynamoDB Local.
	Endpoint string
}

// ConfigFromEnv loads the given .env files (".env" when none are named; missing files
// are skipped) and reads the configuration from the environment. Variables already set
// in the environment take precedence over the files.
func ConfigFromEnv(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load env file: %w", err)
	}

	cfg := Config{
		AccessKey: os.Getenv(EnvAccessKey),
		SecretKey: os.Getenv(EnvSecretKey),
		Region:    os.Getenv(EnvRegion),
		TableName: os.Getenv(EnvTable),
		Endpoint:  os.Getenv(EnvEndpoint),
	}
	return cfg, cfg.Validate()
}

// Validate checks that the region and table are set.
func (c Config) Validate() error {
	if c.Region == "" {
		return errors.NewValidationError(EnvRegion, "region is required")
	}
	if c.TableName == "" {
		return errors.NewValidationError(EnvTable, "table name is required")
	}
	return nil
}
