package scheduler

import "errors"

// ErrSchedulerNotRunning is returned when a manual trigger is requested on a
// stopped scheduler
var ErrSchedulerNotRunning = errors.New("scheduler is not running")
