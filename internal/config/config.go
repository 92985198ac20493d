// Package config loads the updater_app configuration file.
//
// The file is JSON, or YAML when its name ends in .yaml or .yml. Both
// formats use the same keys:
//
//	{
//	  "db_params": {"dbname": "...", "user": "...", "password": "...",
//	                "host": "...", "port": "5432", "sslmode": "prefer"},
//	  "database_url": "postgresql://...",
//	  "api_url": "https://ingest.example.com/",
//	  "api_key": "...",
//	  "encryption_key": "...",
//	  "queries_path": "queries.txt",
//	  "max_artifacts": 2
//	}
//
// Secrets may instead come from the environment, see ApplyEnv.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/updater/internal/db"
	"github.com/vvka-141/updater/pkg/updater"
)

// Environment variables that override file values.
const (
	EnvAPIURL        = "UPDATER_API_URL"
	EnvAPIKey        = "UPDATER_API_KEY"
	EnvEncryptionKey = "UPDATER_ENCRYPTION_KEY"
	EnvPGPassword    = "PGPASSWORD"
	EnvDatabaseURL   = "DATABASE_URL"
)

// AppName is reported to PostgreSQL as application_name.
const AppName = "updater_app"

// Port is a TCP port written either as a number or as a string.
type Port int

func (p *Port) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		*p = 0
		return nil
	}

	var s string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	} else {
		s = string(data)
	}
	return p.set(s)
}

func (p *Port) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: port must be a scalar", node.Line)
	}
	return p.set(node.Value)
}

func (p *Port) set(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*p = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid port %q", s)
	}
	if n < 0 || n > 65535 {
		return fmt.Errorf("port %d is out of range", n)
	}
	*p = Port(n)
	return nil
}

// DBParams are the discrete connection parameters.
type DBParams struct {
	DBName   string `json:"dbname" yaml:"dbname"`
	User     string `json:"user" yaml:"user"`
	Password string `json:"password" yaml:"password"`
	Host     string `json:"host" yaml:"host"`
	Port     Port   `json:"port" yaml:"port"`
	SSLMode  string `json:"sslmode,omitempty" yaml:"sslmode,omitempty"`
}

// File mirrors the configuration file.
type File struct {
	DBParams      DBParams `json:"db_params" yaml:"db_params"`
	DatabaseURL   string   `json:"database_url,omitempty" yaml:"database_url,omitempty"`
	APIURL        string   `json:"api_url" yaml:"api_url"`
	APIKey        string   `json:"api_key" yaml:"api_key"`
	EncryptionKey string   `json:"encryption_key" yaml:"encryption_key"`
	QueriesPath   string   `json:"queries_path,omitempty" yaml:"queries_path,omitempty"`
	MaxArtifacts  int      `json:"max_artifacts,omitempty" yaml:"max_artifacts,omitempty"`
}

// Load reads and decodes the configuration file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", updater.ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var f File
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &f)
	default:
		err = json.Unmarshal(data, &f)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", updater.ErrInvalidConfig, path, err)
	}
	return &f, nil
}

// ApplyEnv overlays environment values on f. lookup is usually os.LookupEnv.
// Empty variables are ignored.
func (f *File) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(dst *string, name string) {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}
	set(&f.APIURL, EnvAPIURL)
	set(&f.APIKey, EnvAPIKey)
	set(&f.EncryptionKey, EnvEncryptionKey)
	set(&f.DBParams.Password, EnvPGPassword)
	set(&f.DatabaseURL, EnvDatabaseURL)
}

// ToRunConfig converts f to a RunConfig with defaults applied.
// database_url, when set, replaces db_params entirely. The result is
// checked by RunConfig.Validate when the run starts.
func (f *File) ToRunConfig() (*updater.RunConfig, error) {
	conn, err := f.connection()
	if err != nil {
		return nil, err
	}

	queriesPath := f.QueriesPath
	if queriesPath == "" {
		queriesPath = updater.DefaultQueriesPath
	}

	return &updater.RunConfig{
		Connection:    *conn,
		APIURL:        f.APIURL,
		APIKey:        f.APIKey,
		EncryptionKey: f.EncryptionKey,
		QueriesPath:   queriesPath,
		MaxArtifacts:  f.MaxArtifacts,
	}, nil
}

func (f *File) connection() (*updater.ConnectionConfig, error) {
	if f.DatabaseURL != "" {
		conn, err := db.ParseConnectionString(f.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("%w: database_url: %v", updater.ErrInvalidConfig, err)
		}
		if conn.AppName == "" {
			conn.AppName = AppName
		}
		return conn, nil
	}

	p := f.DBParams
	conn := &updater.ConnectionConfig{
		Host:     p.Host,
		Port:     int(p.Port),
		Database: p.DBName,
		Username: p.User,
		Password: p.Password,
		SSLMode:  p.SSLMode,
		AppName:  AppName,
	}
	if conn.Host == "" {
		conn.Host = "localhost"
	}
	if conn.Port == 0 {
		conn.Port = updater.DefaultPort
	}
	if conn.SSLMode == "" {
		conn.SSLMode = updater.DefaultSSLMode
	}
	return conn, nil
}
