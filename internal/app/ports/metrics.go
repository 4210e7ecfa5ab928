package ports

import "farmstead/internal/domain/farm"

type ActionMetrics interface {
	RecordSuccess(resultCode farm.ResultCode)
	RecordConflict()
	RecordFailure()
}
