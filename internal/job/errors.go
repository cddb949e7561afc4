package job

import "errors"

// ErrBusy 上一轮任务尚未结束。
var ErrBusy = errors.New("job: previous run still in progress")
