package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptDatabaseDriver sets the catalog store driver.
// Valid values: "sqlite", "postgres".
func OptDatabaseDriver(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.Driver", s) {
			c.Database.Driver = s
		}
	}
}

// OptDatabasePath sets the SQLite database file.
func OptDatabasePath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Path", s) {
			c.Database.Path = s
		}
	}
}

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptFetchSource sets where raw snapshot files are downloaded from.
// Valid values: "zenodo", "s3".
func OptFetchSource(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Fetch.Source", s) {
			c.Fetch.Source = s
		}
	}
}

// OptFetchZenodoURL sets the base URL of the Zenodo instance.
func OptFetchZenodoURL(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "/")
	return func(c *Config) {
		if isValidString("Zenodo URL", s) {
			c.Fetch.ZenodoURL = s
		}
	}
}

// OptFetchRecordID sets the Zenodo record with the snapshot.
func OptFetchRecordID(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Record ID", s) {
			c.Fetch.RecordID = s
		}
	}
}

// OptFetchRetries sets how many times a failed request is retried.
func OptFetchRetries(i int) Option {
	return func(c *Config) {
		if isValidInt("Fetch Retries", i) {
			c.Fetch.Retries = i
		}
	}
}

// OptFetchS3Bucket sets the bucket of the S3 snapshot mirror.
func OptFetchS3Bucket(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("S3 Bucket", s) {
			c.Fetch.S3.Bucket = s
		}
	}
}

// OptFetchS3Prefix sets the key prefix of snapshot objects.
// An empty prefix is allowed and means the bucket root.
func OptFetchS3Prefix(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "/")
	return func(c *Config) {
		c.Fetch.S3.Prefix = s
	}
}

// OptFetchS3Region sets the AWS region of the bucket.
func OptFetchS3Region(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("S3 Region", s) {
			c.Fetch.S3.Region = s
		}
	}
}

// OptFetchS3Endpoint sets a custom endpoint for S3-compatible stores.
func OptFetchS3Endpoint(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("S3 Endpoint", s) {
			c.Fetch.S3.Endpoint = s
		}
	}
}

// OptFetchS3Credentials sets static S3 credentials.
func OptFetchS3Credentials(key, secret string) Option {
	key = strings.TrimSpace(key)
	secret = strings.TrimSpace(secret)
	return func(c *Config) {
		if isValidString("S3 Access Key", key) &&
			isValidString("S3 Secret Key", secret) {
			c.Fetch.S3.AccessKey = key
			c.Fetch.S3.SecretKey = secret
		}
	}
}

// OptIngestInputDir sets the directory with cleaned tables.
func OptIngestInputDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Ingest Input Directory", s) {
			c.Ingest.InputDir = s
		}
	}
}

// OptIngestReset sets whether fact rows are removed before loading.
// Runtime-only field - not in ToOptions().
func OptIngestReset(b bool) Option {
	return func(c *Config) {
		c.Ingest.Reset = b
	}
}

// OptIngestMetricsFile sets the file for Prometheus metrics of a run.
func OptIngestMetricsFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Metrics File", s) {
			c.Ingest.MetricsFile = s
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of parallel downloads.
// Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config, cache, and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
