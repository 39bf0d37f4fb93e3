package models

import (
	"encoding/json"
	"time"
)

// FlexString decodes fields the marketplace emits inconsistently as either a
// JSON string or a bare number, normalizing both to a string.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}
		*f = FlexString(value)
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return err
	}
	*f = FlexString(number.String())
	return nil
}

func (f FlexString) String() string { return string(f) }

// Job is one paid cracking job as returned by the marketplace. Jobs are
// immutable snapshots; two fetches are never merged.
type Job struct {
	ID              int64      `json:"id"`
	CreatedAt       string     `json:"createdAt"`
	LastUpdate      string     `json:"lastUpdate"`
	AlgorithmID     FlexString `json:"algorithmId"`
	AlgorithmName   string     `json:"algorithmName"`
	TotalHashes     int64      `json:"totalHashes"`
	FoundHashes     int64      `json:"foundHashes"`
	LeftHashes      int64      `json:"leftHashes"`
	MaxCracksNeeded int64      `json:"maxCracksNeeded"`
	Currency        string     `json:"currency"`
	PricePerHash    FlexString `json:"pricePerHash"`
	PricePerHashUsd FlexString `json:"pricePerHashUsd"`
	LeftList        string     `json:"leftList"`
	Hints           string     `json:"hints"`
}

// LookupResult is one found hash from a bulk search.
type LookupResult struct {
	Hash      string `json:"hash"`
	Salt      string `json:"salt"`
	Plaintext string `json:"plaintext"`
	Algorithm string `json:"algorithm"`
}

// LookupResponse is the payload of one bulk search call.
type LookupResponse struct {
	Founds []LookupResult `json:"founds"`
	Count  int64          `json:"count"`
	Cost   FlexString     `json:"cost"`
}

// RatesCacheEntry holds one whole conversion table and the instant it was
// fetched. The table is replaced wholesale, never merged.
type RatesCacheEntry struct {
	Rates     map[string]string
	FetchedAt time.Time
}

// ProgressUpdate is emitted after every streamed chunk of a left-list
// download.
type ProgressUpdate struct {
	JobIndex   int // 1-based position within the batch
	TotalJobs  int
	BytesDone  int64
	TotalBytes int64 // 0 when the server sent no Content-Length
	Job        Job
}

// Percent reports completion of the current job, or 0 when the total size is
// unknown.
func (p ProgressUpdate) Percent() float64 {
	if p.TotalBytes <= 0 {
		return 0
	}
	return float64(p.BytesDone) / float64(p.TotalBytes) * 100
}

// DownloadFailure records one job that could not be downloaded.
type DownloadFailure struct {
	JobID   int64
	Message string
}

// DownloadOutcome summarizes one batch download: bytes written by successful
// jobs plus the ordered per-job failures.
type DownloadOutcome struct {
	BatchID      string
	BytesWritten int64
	Failures     []DownloadFailure
}
