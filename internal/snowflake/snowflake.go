package snowflake

import (
	"fmt"
	"sync"
	"time"
)

// IDs are 42 bits of unix-millis timestamp, 10 bits worker, 12 bits
// increment. Numeric order therefore follows creation order, which the
// message listing relies on.
const (
	timestampLength int64 = 42
	timestampPos          = 64 - timestampLength
	workerLength    int64 = 10
	workerPos             = timestampPos - workerLength
	incrementLength       = 64 - (timestampLength + workerLength)
)

var (
	maxWorkerValue    = int64(1)<<workerLength - 1
	maxIncrementValue = int64(1)<<incrementLength - 1

	mutex                        sync.Mutex
	lastIncrement, lastTimestamp int64

	workerID    int64
	hasWorkerID bool
)

func Setup(id int64) error {
	if id > maxWorkerValue {
		return fmt.Errorf("worker ID value exceeds maximum value of [%d]", maxWorkerValue)
	}
	if hasWorkerID {
		return fmt.Errorf("worker ID for snowflake generator has been already set")
	}
	workerID = id
	hasWorkerID = true
	return nil
}

func Generate() (int64, error) {
	mutex.Lock()
	defer mutex.Unlock()

	timestamp := time.Now().UnixMilli()
	if timestamp == lastTimestamp {
		lastIncrement++
		if lastIncrement > maxIncrementValue {
			return 0, fmt.Errorf("increment overflow after increment reached %d", lastIncrement)
		}
	} else {
		lastIncrement = 0
		lastTimestamp = timestamp
	}

	return timestamp<<timestampPos | workerID<<workerPos | lastIncrement, nil
}

// Timestamp extracts the creation time encoded in a snowflake ID.
func Timestamp(id int64) time.Time {
	return time.UnixMilli(id >> timestampPos)
}
