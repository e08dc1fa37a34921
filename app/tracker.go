package app

import (
	"time"

	"github.com/bitrise-io/go-utils/v2/analytics"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/log"
)

// uploadTracker reports upload events. A zero value tracks nothing.
type uploadTracker struct {
	tracker analytics.Tracker
}

// NewAnalyticsTracker sends upload events to the default analytics endpoint.
func NewAnalyticsTracker(version string, envRepo env.Repository, logger log.Logger) analytics.Tracker {
	p := analytics.Properties{
		"client":  "qrshare-cli",
		"version": version,
		"is_ci":   envRepo.Get("CI") == "true",
	}
	return analytics.NewDefaultTracker(logger, p)
}

func (t uploadTracker) logArchiveCreated(archiveTime time.Duration, fileCount int, size int64) {
	if t.tracker == nil {
		return
	}
	properties := analytics.Properties{
		"archive_time_s":     archiveTime.Truncate(time.Second).Seconds(),
		"file_count":         fileCount,
		"archive_size_bytes": size,
	}
	t.tracker.Enqueue("qrshare_archive_created", properties)
}

func (t uploadTracker) logUploadSucceeded(uploadTime time.Duration, size int64, chunkCount int, isFolder bool) {
	if t.tracker == nil {
		return
	}
	properties := analytics.Properties{
		"upload_time_s":     uploadTime.Truncate(time.Second).Seconds(),
		"upload_size_bytes": size,
		"chunk_count":       chunkCount,
		"is_folder":         isFolder,
	}
	t.tracker.Enqueue("qrshare_upload_succeeded", properties)
}

func (t uploadTracker) logUploadFailed(kind string) {
	if t.tracker == nil {
		return
	}
	properties := analytics.Properties{
		"error_kind": kind,
	}
	t.tracker.Enqueue("qrshare_upload_failed", properties)
}

func (t uploadTracker) wait() {
	if t.tracker == nil {
		return
	}
	t.tracker.Wait()
}
