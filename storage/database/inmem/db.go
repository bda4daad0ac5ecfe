package inmemdb

import (
	"sync"

	"github.com/mwalimu/ratiba/core/schedule"
	"github.com/mwalimu/ratiba/core/user"
)

// DB is an in-memory database used by tests and the dev server.
type DB struct {
	mutex sync.RWMutex

	users     map[string]*user.User         // {id: user}
	schedules map[string]*schedule.Schedule // {requestID: schedule}
}

func Open() (*DB, error) {
	return &DB{
		users:     make(map[string]*user.User),
		schedules: make(map[string]*schedule.Schedule),
	}, nil
}
