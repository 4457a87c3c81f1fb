// Package job contains the background jobs scheduled by the web server.
package job

import (
	"time"

	"github.com/secureauth/secureauth/database/repository"
	"github.com/secureauth/secureauth/logger"
	"github.com/secureauth/secureauth/util/common"
)

// ClearLockoutsJob drops lockout expiries that have passed so locked
// rows do not accumulate. Attempt counters are left alone; they reset
// on the next successful login.
type ClearLockoutsJob struct {
	repo repository.UserRepository
}

func NewClearLockoutsJob(repo repository.UserRepository) *ClearLockoutsJob {
	return &ClearLockoutsJob{repo: repo}
}

// Run implements cron.Job.
func (j *ClearLockoutsJob) Run() {
	defer common.Recover("clear lockouts job")
	cleared, err := j.repo.ClearExpiredLocks(time.Now())
	if err != nil {
		logger.Warning("clear lockouts job err:", err)
		return
	}
	if cleared > 0 {
		logger.Debugf("cleared %d expired account locks", cleared)
	}
}
