package metrics

const (
	SyncAttemptsH         = "The total number of network time queries attempted"
	SyncAttemptsN         = "rtcsync_sync_attempts"
	SyncFailuresH         = "The total number of network time queries that failed"
	SyncFailuresN         = "rtcsync_sync_failures"
	SyncClockSetFailuresH = "The total number of failed attempts to set the system clock"
	SyncClockSetFailuresN = "rtcsync_sync_clock_set_failures"
	SyncLastNTPTimeH      = "The last network time applied to the system clock, in seconds since the Unix epoch"
	SyncLastNTPTimeN      = "rtcsync_sync_last_ntp_time"
	SyncWorkerStateH      = "The current state of the sync worker"
	SyncWorkerStateN      = "rtcsync_sync_worker_state"
)
