package models

import "time"

// TopicResult is the per-topic outcome record of one pipeline run. Created
// once when a topic task settles and never mutated afterwards.
type TopicResult struct {
	ModuleNumber int         `json:"moduleNumber"`
	TopicNumber  string      `json:"topicNumber"`
	TopicName    string      `json:"topicName"`
	Status       TopicStatus `json:"status"`
	Error        string      `json:"error,omitempty"`
	FolderID     string      `json:"folderId,omitempty"`
	Docs         DocumentIDs `json:"docs,omitempty"`
}

// RunReport aggregates the outcome of one pipeline execution. TopicResults
// are ordered by completion, not by spec order.
type RunReport struct {
	RunID           string        `json:"runId"`
	StartTime       time.Time     `json:"startTime"`
	EndTime         time.Time     `json:"endTime"`
	CourseName      string        `json:"courseName"`
	SourceID        string        `json:"sourceId"`
	RootID          string        `json:"rootId"`
	CourseFolderID  string        `json:"courseFolderId,omitempty"`
	TotalTopics     int           `json:"totalTopics"`
	CompletedTopics int           `json:"completedTopics"`
	FailedTopics    int           `json:"failedTopics"`
	TopicResults    []TopicResult `json:"topicResults"`
	Errors          []string      `json:"errors"`
}
