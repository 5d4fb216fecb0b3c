package config

import "time"

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{level: level, format: format, output: output}
}

// NewGeminiForTest creates a Gemini config for testing purposes
func NewGeminiForTest(projectID, location string) *Gemini {
	return &Gemini{
		projectID: projectID,
		location:  location,
	}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, projectID string) *Repository {
	return &Repository{backend: backend, projectID: projectID}
}

// NewSpeciesForTest creates a Species config for testing purposes
func NewSpeciesForTest(path string) *Species {
	return &Species{path: path}
}

// NewTaskForTest creates a Task config with valid defaults
func NewTaskForTest() *Task {
	return &Task{
		poolSize:      2,
		timeout:       time.Minute,
		keepAlive:     20 * time.Second,
		pollInterval:  time.Second,
		ttl:           time.Hour,
		sweepInterval: time.Minute,
	}
}

// SetPoolSize overrides the pool size
func (x *Task) SetPoolSize(n int) {
	x.poolSize = n
}

// SetTTL overrides the TTL
func (x *Task) SetTTL(d time.Duration) {
	x.ttl = d
}

// NewSlackForTest creates a Slack config for testing purposes
func NewSlackForTest(botToken, channelID, apiURL string) *Slack {
	return &Slack{botToken: botToken, channelID: channelID, apiURL: apiURL}
}

// NewSentryForTest creates a Sentry config for testing purposes
func NewSentryForTest(dsn string) *Sentry {
	return &Sentry{dsn: dsn}
}

// NewVectorStoreForTest creates a VectorStore config for testing purposes
func NewVectorStoreForTest(dir string) *VectorStore {
	return &VectorStore{dir: dir}
}
