package storage

import (
	"context"
	"sync"
)

// Memory is the in-process reference backend: a mutex-guarded map of encoded
// record blobs. Not durable and unsuitable for multi-process deployments —
// those must supply a shared backend satisfying the same contract.
//
// Memory implements [Consumer], so get-and-delete is atomic under its lock.
type Memory struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{
		records: make(map[string][]byte),
	}
}

// Set stores an encoded copy of the record under key.
func (m *Memory) Set(_ context.Context, key string, record *Record) error {
	data, err := EncodeRecord(record)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.records[key] = data
	m.mu.Unlock()
	return nil
}

// Get decodes a fresh copy of the stored record, or reports absence.
func (m *Memory) Get(_ context.Context, key string) (*Record, bool, error) {
	m.mu.RLock()
	data, ok := m.records[key]
	m.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}

	record, err := DecodeRecord(data)
	if err != nil {
		return nil, false, err
	}
	return record, true, nil
}

// Delete removes any record under key. Missing keys are a no-op.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.records, key)
	m.mu.Unlock()
	return nil
}

// Consume atomically removes and returns the record under key.
func (m *Memory) Consume(_ context.Context, key string) (*Record, bool, error) {
	m.mu.Lock()
	data, ok := m.records[key]
	if ok {
		delete(m.records, key)
	}
	m.mu.Unlock()

	if !ok {
		return nil, false, nil
	}

	record, err := DecodeRecord(data)
	if err != nil {
		return nil, false, err
	}
	return record, true, nil
}

// Clear drops every stored record. Test helper.
func (m *Memory) Clear() {
	m.mu.Lock()
	m.records = make(map[string][]byte)
	m.mu.Unlock()
}

// Len reports the number of stored records. Test helper.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
