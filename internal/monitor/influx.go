// Package monitor ships anonymous usage metrics to InfluxDB, with a
// gzip line-protocol backup file when the server is unreachable.
package monitor

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/influxdata/influxdb-client-go/v2/domain"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// DefaultBucketNames are the InfluxDB buckets the planner writes to.
var DefaultBucketNames = []string{
	"planner_usage",
	"planner_performance",
}

// BucketUsage is the bucket for plan/marking operation counts.
const BucketUsage = "planner_usage"

const bucketRetentionSeconds = 60 * 60 * 24 * 90 // 90 days

// Manager owns the InfluxDB connection. When the server cannot be
// reached at connect time, every point instead lands in the gzip
// backup file as line protocol, so a later session can replay it.
type Manager struct {
	Client       influxdb2.Client
	Writers      map[string]influxdb2_api.WriteAPI
	BackupWriter *gzip.Writer
	IsValid      bool
	BucketNames  []string
	Logger       zerolog.Logger
	BackupPath   string
}

// NewManager creates a manager. Connect decides whether it talks to a
// live server or the backup file.
func NewManager(log zerolog.Logger, backupPath string) *Manager {
	return &Manager{
		Writers:     make(map[string]influxdb2_api.WriteAPI),
		BucketNames: DefaultBucketNames,
		Logger:      log,
		BackupPath:  backupPath,
	}
}

// Connect pings the configured server and settles on a sink: live
// write APIs when reachable, the backup file when not. A dead server
// is not an error; an unusable backup path is.
func (m *Manager) Connect() error {
	if !viper.GetBool("influx.enabled") {
		return errors.New("influx.enabled is false")
	}

	url := fmt.Sprintf("%s://%s:%s",
		viper.GetString("influx.protocol"),
		viper.GetString("influx.host"),
		viper.GetString("influx.port"),
	)
	m.Client = influxdb2.NewClientWithOptions(url,
		viper.GetString("influx.token"),
		influxdb2.DefaultOptions().
			SetBatchSize(500).
			SetFlushInterval(1000),
	)

	running, err := m.Client.Ping(context.Background())
	m.IsValid = err == nil && running

	if !m.IsValid {
		if err := m.openBackup(); err != nil {
			return err
		}
		m.Logger.Warn().Str("url", url).Str("backupPath", m.BackupPath).
			Msg("InfluxDB unreachable, usage points go to backup file")
		return nil
	}

	if err := m.ensureOrgAndBuckets(); err != nil {
		return err
	}
	m.startWriters()
	m.Logger.Info().Str("url", url).Msg("InfluxDB client initialized")
	return nil
}

func (m *Manager) openBackup() error {
	if m.BackupWriter != nil {
		return nil
	}
	file, err := os.OpenFile(m.BackupPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("error creating backup file: %v", err)
	}
	m.BackupWriter = gzip.NewWriter(file)
	return nil
}

// ensureOrgAndBuckets creates the organization and the planner's
// buckets on first contact. Existing ones are left untouched.
func (m *Manager) ensureOrgAndBuckets() error {
	ctx := context.Background()
	orgName := viper.GetString("influx.org")
	orgsAPI := m.Client.OrganizationsAPI()

	org, err := orgsAPI.FindOrganizationByName(ctx, orgName)
	if err != nil {
		m.Logger.Info().Str("org", orgName).Msg("Organization not found, creating")
		org, err = orgsAPI.CreateOrganizationWithName(ctx, orgName)
		if err != nil {
			return fmt.Errorf("error creating organization %q: %w", orgName, err)
		}
	}

	for _, bucket := range m.BucketNames {
		if _, err := m.Client.BucketsAPI().FindBucketByName(ctx, bucket); err == nil {
			continue
		}
		m.Logger.Info().Str("bucket", bucket).Msg("Bucket not found, creating")
		rule := domain.RetentionRuleTypeExpire
		_, err = m.Client.BucketsAPI().CreateBucketWithName(ctx, org, bucket, domain.RetentionRule{
			Type:         &rule,
			EverySeconds: bucketRetentionSeconds,
		})
		if err != nil {
			return fmt.Errorf("error creating bucket %q: %w", bucket, err)
		}
	}
	return nil
}

// startWriters opens one async write API per bucket and drains each
// one's error channel into the log.
func (m *Manager) startWriters() {
	orgName := viper.GetString("influx.org")
	for _, bucket := range m.BucketNames {
		writer := m.Client.WriteAPI(orgName, bucket)
		m.Writers[bucket] = writer

		go func(bucket string, errCh <-chan error) {
			for writeErr := range errCh {
				m.Logger.Error().Err(writeErr).Str("bucket", bucket).
					Msg("Error sending data to InfluxDB")
			}
		}(bucket, writer.Errors())
	}
}

// WritePoint queues a point on the live writer, or appends it to the
// backup file as line protocol.
func (m *Manager) WritePoint(ctx context.Context, bucket string, point *influxdb2_write.Point) error {
	if m.IsValid {
		writer, ok := m.Writers[bucket]
		if !ok {
			return fmt.Errorf("influxDB bucket '%s' not registered", bucket)
		}
		writer.WritePoint(point)
		return nil
	}

	if m.BackupWriter == nil {
		return fmt.Errorf("influxDB client not initialized and backup writer not available")
	}
	line := influxdb2_write.PointToLineProtocol(point, time.Nanosecond)
	if _, err := m.BackupWriter.Write([]byte(line + "\n")); err != nil {
		return fmt.Errorf("error writing to InfluxDB backup file: %s", err)
	}
	return nil
}

// Close flushes writers and the backup file.
func (m *Manager) Close() {
	if m.IsValid {
		for _, w := range m.Writers {
			w.Flush()
		}
		m.Client.Close()
	}
	if m.BackupWriter != nil {
		if err := m.BackupWriter.Close(); err != nil {
			m.Logger.Error().Err(err).Msg("Error closing backup writer")
		}
	}
}
