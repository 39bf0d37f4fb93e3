package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"hashes-market-client/internal/models"

	"github.com/google/uuid"
)

// ProgressFunc receives one update per streamed chunk.
type ProgressFunc func(models.ProgressUpdate)

// fallbackChunkSize guards the stream loop against a non-positive configured
// chunk size, which would never reach EOF on a zero-length buffer.
const fallbackChunkSize = 8192

// DownloadLeftLists streams every job's left list into destination, in the
// order given: the first write truncates the file, later writes append.
// Per-job problems are reported in the outcome's failure list, not returned
// as errors, so a bad job never aborts the batch. The only terminal error is
// an empty job list, raised before the filesystem is touched.
func (client *Client) DownloadLeftLists(ctx context.Context, jobs []models.Job, destination string, onProgress ProgressFunc) (models.DownloadOutcome, error) {
	if len(jobs) == 0 {
		return models.DownloadOutcome{}, newError(ErrorTypeNoJobsSelected, "No jobs were selected for download.")
	}

	outcome := models.DownloadOutcome{BatchID: uuid.NewString()}
	appendMode := false
	for index, job := range jobs {
		if job.LeftList == "" {
			missing := newError(ErrorTypeNoLeftListURL, "No left list URL")
			outcome.Failures = append(outcome.Failures, models.DownloadFailure{JobID: job.ID, Message: missing.Error()})
			continue
		}

		if index > 0 {
			select {
			case <-time.After(client.configuration.DownloadDelay):
			case <-ctx.Done():
				outcome.Failures = append(outcome.Failures, models.DownloadFailure{JobID: job.ID, Message: ctx.Err().Error()})
				return outcome, nil
			}
		}

		written, opened, err := client.streamLeftList(ctx, job, index+1, len(jobs), destination, appendMode, onProgress)
		if opened {
			// Once the destination has been written to, later jobs must
			// append even after a partial failure.
			appendMode = true
		}
		if err != nil {
			client.logger.Warnf("Left list download failed for job %d: %v", job.ID, err)
			outcome.Failures = append(outcome.Failures, models.DownloadFailure{JobID: job.ID, Message: err.Error()})
			continue
		}
		outcome.BytesWritten += written
	}

	client.logger.Infof("Batch %s: downloaded %d bytes across %d jobs (%d failed)", outcome.BatchID, outcome.BytesWritten, len(jobs), len(outcome.Failures))
	return outcome, nil
}

// streamLeftList fetches one job's file and writes it through in fixed-size
// chunks. The second result reports whether the destination was opened, which
// decides append mode for the rest of the batch.
func (client *Client) streamLeftList(ctx context.Context, job models.Job, position, total int, destination string, appendMode bool, onProgress ProgressFunc) (int64, bool, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, client.configuration.DownloadBaseURL+job.LeftList, nil)
	if err != nil {
		return 0, false, wrapError(ErrorTypeRequestFailed, fmt.Sprintf("Failed downloading '%s'", job.LeftList), err)
	}

	response, err := client.downloadClient.Do(request)
	if err != nil {
		return 0, false, wrapError(ErrorTypeRequestFailed, fmt.Sprintf("Failed downloading '%s'", job.LeftList), err)
	}
	defer response.Body.Close()
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return 0, false, newError(ErrorTypeRequestFailed, fmt.Sprintf("Failed downloading '%s': status %d", job.LeftList, response.StatusCode))
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if appendMode {
		flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}
	output, err := os.OpenFile(destination, flags, 0o644)
	if err != nil {
		return 0, false, wrapError(ErrorTypeIO, fmt.Sprintf("Failed writing file '%s'", destination), err)
	}
	defer output.Close()

	totalBytes := response.ContentLength
	if totalBytes < 0 {
		totalBytes = 0
	}

	chunkSize := client.configuration.DownloadChunkSize
	if chunkSize <= 0 {
		chunkSize = fallbackChunkSize
	}

	var downloaded int64
	buffer := make([]byte, chunkSize)
	for {
		read, readErr := response.Body.Read(buffer)
		if read > 0 {
			wrote, writeErr := output.Write(buffer[:read])
			downloaded += int64(wrote)
			if onProgress != nil {
				onProgress(models.ProgressUpdate{
					JobIndex:   position,
					TotalJobs:  total,
					BytesDone:  downloaded,
					TotalBytes: totalBytes,
					Job:        job,
				})
			}
			if writeErr != nil {
				return downloaded, true, wrapError(ErrorTypeIO, fmt.Sprintf("Failed writing file '%s'", destination), writeErr)
			}
		}
		if readErr == io.EOF {
			return downloaded, true, nil
		}
		if readErr != nil {
			return downloaded, true, wrapError(ErrorTypeRequestFailed, fmt.Sprintf("Failed downloading '%s'", job.LeftList), readErr)
		}
	}
}
