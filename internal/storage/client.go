// Package storage provides Elasticsearch persistence for funding records.
package storage

import (
	"errors"
	"fmt"

	es "github.com/elastic/go-elasticsearch/v8"

	"github.com/jonesrussell/fundwatch/internal/config"
	"github.com/jonesrussell/fundwatch/internal/logger"
)

// NewClient creates an Elasticsearch client and verifies connectivity.
func NewClient(cfg *config.ElasticsearchConfig, log logger.Interface) (*es.Client, error) {
	if cfg == nil {
		return nil, errors.New("elasticsearch configuration is required")
	}

	if len(cfg.Addresses) > 0 {
		log.Debug("connecting to Elasticsearch", "addresses", cfg.Addresses)
	}

	clientConfig := es.Config{
		Addresses: cfg.Addresses,
	}
	if cfg.APIKey != "" {
		clientConfig.APIKey = cfg.APIKey
	} else if cfg.Username != "" && cfg.Password != "" {
		clientConfig.Username = cfg.Username
		clientConfig.Password = cfg.Password
	}

	client, err := es.NewClient(clientConfig)
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	res, err := client.Ping()
	if err != nil {
		return nil, fmt.Errorf("ping elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch ping error: %s", res.String())
	}

	return client, nil
}
