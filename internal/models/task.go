package models

import (
	"encoding/json"
	"fmt"
)

const (
	statusInProcess = "in process"
	statusFinished  = "finished"
)

// TaskStatus is the two-state completion flag of a task. It is stored as a
// boolean and serialized as "in process" or "finished".
type TaskStatus bool

const (
	StatusInProcess TaskStatus = false
	StatusFinished  TaskStatus = true
)

func (s TaskStatus) String() string {
	if s == StatusFinished {
		return statusFinished
	}
	return statusInProcess
}

func (s TaskStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *TaskStatus) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := ParseTaskStatus(v)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseTaskStatus converts the wire representation of a task status.
func ParseTaskStatus(v string) (TaskStatus, error) {
	switch v {
	case statusInProcess:
		return StatusInProcess, nil
	case statusFinished:
		return StatusFinished, nil
	default:
		return StatusInProcess, fmt.Errorf("unknown task status %q", v)
	}
}

// Task represents a task owned by a single user
type Task struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	OwnerID     int64      `json:"owner_id"`
	CreatedAt   string     `json:"created_at"`
	UpdatedAt   string     `json:"updated_at"`
}
