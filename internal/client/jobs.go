package client

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"hashes-market-client/internal/models"
)

// ListJobsOptions controls post-fetch filtering and ordering of the job
// catalog. Filters are set-membership predicates applied client-side; the
// server is never asked to filter.
type ListJobsOptions struct {
	// SortKey names a Job column; empty means createdAt. Unknown keys leave
	// the server order untouched.
	SortKey    string
	Descending bool
	// CurrencyFilter keys are uppercase currency codes.
	CurrencyFilter map[string]struct{}
	// AlgorithmFilter keys are algorithm id strings, matched exactly.
	AlgorithmFilter map[string]struct{}
}

// ListJobs fetches the current job catalog. Requires authentication.
func (client *Client) ListJobs(ctx context.Context, options ListJobsOptions) ([]models.Job, error) {
	payload, err := client.transport.Request(ctx, http.MethodGet, "/jobs", nil, nil, true)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		List []models.Job `json:"list"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, wrapError(ErrorTypeInvalidResponse, "Received invalid JSON from the marketplace.", err)
	}

	jobs := envelope.List
	if len(options.CurrencyFilter) > 0 {
		kept := make([]models.Job, 0, len(jobs))
		for _, job := range jobs {
			if _, match := options.CurrencyFilter[strings.ToUpper(job.Currency)]; match {
				kept = append(kept, job)
			}
		}
		jobs = kept
	}
	if len(options.AlgorithmFilter) > 0 {
		kept := make([]models.Job, 0, len(jobs))
		for _, job := range jobs {
			if _, match := options.AlgorithmFilter[job.AlgorithmID.String()]; match {
				kept = append(kept, job)
			}
		}
		jobs = kept
	}

	sortKey := options.SortKey
	if sortKey == "" {
		sortKey = "createdAt"
	}
	sortJobs(jobs, sortKey, options.Descending)
	return jobs, nil
}

// jobSortAccessors resolves a sort key to the row value it orders by.
var jobSortAccessors = map[string]func(models.Job) string{
	"id":              func(job models.Job) string { return strconv.FormatInt(job.ID, 10) },
	"createdAt":       func(job models.Job) string { return job.CreatedAt },
	"lastUpdate":      func(job models.Job) string { return job.LastUpdate },
	"algorithmId":     func(job models.Job) string { return job.AlgorithmID.String() },
	"algorithmName":   func(job models.Job) string { return job.AlgorithmName },
	"totalHashes":     func(job models.Job) string { return strconv.FormatInt(job.TotalHashes, 10) },
	"foundHashes":     func(job models.Job) string { return strconv.FormatInt(job.FoundHashes, 10) },
	"leftHashes":      func(job models.Job) string { return strconv.FormatInt(job.LeftHashes, 10) },
	"maxCracksNeeded": func(job models.Job) string { return strconv.FormatInt(job.MaxCracksNeeded, 10) },
	"currency":        func(job models.Job) string { return job.Currency },
	"pricePerHash":    func(job models.Job) string { return job.PricePerHash.String() },
	"pricePerHashUsd": func(job models.Job) string { return job.PricePerHashUsd.String() },
	"hints":           func(job models.Job) string { return job.Hints },
}

func sortJobs(jobs []models.Job, sortKey string, descending bool) {
	accessor, known := jobSortAccessors[sortKey]
	if !known {
		// Unresolvable keys sort as empty string: every row equal, the
		// stable sort preserves server order.
		accessor = func(models.Job) string { return "" }
	}
	sort.SliceStable(jobs, func(i, j int) bool {
		ordering := compareSortValues(accessor(jobs[i]), accessor(jobs[j]))
		if descending {
			return ordering > 0
		}
		return ordering < 0
	})
}

// compareSortValues orders numeric-looking strings numerically (int compare
// first for precision, then float) so mixed columns keep true numeric order
// ("9" before "10"). Numeric values group before non-numeric ones, which fall
// back to case-insensitive lexical order; grouping by class keeps the
// comparison a total order even in columns mixing numbers and text.
func compareSortValues(a, b string) int {
	if aInt, errA := strconv.ParseInt(a, 10, 64); errA == nil {
		if bInt, errB := strconv.ParseInt(b, 10, 64); errB == nil {
			switch {
			case aInt < bInt:
				return -1
			case aInt > bInt:
				return 1
			default:
				return 0
			}
		}
	}
	aFloat, errA := strconv.ParseFloat(a, 64)
	bFloat, errB := strconv.ParseFloat(b, 64)
	switch {
	case errA == nil && errB == nil:
		switch {
		case aFloat < bFloat:
			return -1
		case aFloat > bFloat:
			return 1
		default:
			return 0
		}
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
