package cronjobs

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go-reliefdesk/db"
	"go-reliefdesk/metrics"
	"go-reliefdesk/types"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const (
	backupPrefix    = db.SnapshotKey + "-backup-"
	backupKeyLayout = "20060102T150405Z"
)

type Snapshotter interface {
	Snapshot() types.Snapshot
}

// BackupKey names the backup taken at t.
func BackupKey(t time.Time) string {
	return backupPrefix + t.UTC().Format(backupKeyLayout)
}

// BackupSnapshot copies the current state to a timestamped key next to the live snapshot.
func BackupSnapshot(ctx context.Context, src Snapshotter, store db.Store, now time.Time) (string, error) {
	data, err := json.Marshal(src.Snapshot())
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}
	key := BackupKey(now)
	if err := store.Save(ctx, key, data); err != nil {
		return "", fmt.Errorf("failed to save backup %s: %w", key, err)
	}
	return key, nil
}

// PruneBackups deletes all but the newest keep backups. keep <= 0 keeps everything.
// Backup keys sort in the order they were taken.
func PruneBackups(ctx context.Context, store db.Store, keep int) ([]string, error) {
	if keep <= 0 {
		return nil, nil
	}
	keys, err := store.List(ctx, backupPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}
	if len(keys) <= keep {
		return nil, nil
	}
	sort.Strings(keys)
	stale := keys[:len(keys)-keep]
	for _, key := range stale {
		if err := store.Delete(ctx, key); err != nil {
			return nil, fmt.Errorf("failed to delete backup %s: %w", key, err)
		}
	}
	return stale, nil
}

// InitCronJobs schedules the snapshot backup, keeping the newest retention
// backups. An empty schedule disables it and returns a nil scheduler.
// The caller stops the returned cron.
func InitCronJobs(ctx context.Context, schedule string, retention int, src Snapshotter, store db.Store, m *metrics.Metrics) (*cron.Cron, error) {
	if schedule == "" {
		logrus.Info("Snapshot backups disabled")
		return nil, nil
	}

	logrus.Info("Starting Cron Jobs")
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		logrus.Info("CronJob: Snapshot Backup Running")
		key, err := BackupSnapshot(ctx, src, store, time.Now())
		if err != nil {
			logrus.WithError(err).Error("Snapshot backup failed")
			m.Backup("error")
			return
		}
		logrus.Infof("Snapshot backed up to %s", key)
		m.Backup("ok")

		pruned, err := PruneBackups(ctx, store, retention)
		if err != nil {
			logrus.WithError(err).Warn("Pruning old backups failed")
			return
		}
		if len(pruned) > 0 {
			logrus.Infof("Pruned %d old backups", len(pruned))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("error scheduling snapshot backup: %w", err)
	}

	c.Start()
	return c, nil
}
