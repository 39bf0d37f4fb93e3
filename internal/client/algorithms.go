package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strconv"

	"hashes-market-client/internal/models"
)

// GetAlgorithms fetches the full algorithm id→name table.
func (client *Client) GetAlgorithms(ctx context.Context) (map[string]string, error) {
	payload, err := client.transport.Request(ctx, http.MethodGet, "/algorithms", nil, nil, false)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		List []struct {
			ID            models.FlexString `json:"id"`
			AlgorithmName models.FlexString `json:"algorithmName"`
		} `json:"list"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, wrapError(ErrorTypeInvalidResponse, "Received invalid JSON from the marketplace.", err)
	}

	algorithms := make(map[string]string, len(envelope.List))
	for _, item := range envelope.List {
		algorithms[item.ID.String()] = item.AlgorithmName.String()
	}
	return algorithms, nil
}

// SyncAlgorithmDirectory refreshes the local algorithm lookup file so filters
// can be populated without a live connection on next startup. Best-effort:
// any fetch or write problem reports (false, empty) instead of an error.
func (client *Client) SyncAlgorithmDirectory(ctx context.Context) (bool, map[string]string) {
	algorithms, err := client.GetAlgorithms(ctx)
	if err != nil {
		client.logger.Warnf("Algorithm directory sync failed: %v", err)
		return false, map[string]string{}
	}
	if len(algorithms) == 0 {
		return false, map[string]string{}
	}
	if err := writeAlgorithmFile(client.configuration.AlgorithmsFile, algorithms); err != nil {
		client.logger.Warnf("Algorithm directory sync failed: %v", err)
		return false, map[string]string{}
	}
	client.logger.Infof("Synced %d algorithms to %s", len(algorithms), client.configuration.AlgorithmsFile)
	return true, algorithms
}

// LoadAlgorithmDirectory reads the previously synced file back as the static
// fallback lookup.
func (client *Client) LoadAlgorithmDirectory() (map[string]string, error) {
	payload, err := os.ReadFile(client.configuration.AlgorithmsFile)
	if err != nil {
		return nil, wrapError(ErrorTypeIO, fmt.Sprintf("Failed reading file '%s'", client.configuration.AlgorithmsFile), err)
	}
	var algorithms map[string]string
	if err := json.Unmarshal(payload, &algorithms); err != nil {
		return nil, wrapError(ErrorTypeInvalidResponse, fmt.Sprintf("Malformed algorithm directory '%s'", client.configuration.AlgorithmsFile), err)
	}
	return algorithms, nil
}

// writeAlgorithmFile serializes the table with numeric ids first in ascending
// order and the rest last lexically, so the file is stable across syncs.
func writeAlgorithmFile(path string, algorithms map[string]string) error {
	ids := make([]string, 0, len(algorithms))
	for id := range algorithms {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return lessAlgorithmID(ids[i], ids[j])
	})

	var buffer bytes.Buffer
	buffer.WriteString("{\n")
	for position, id := range ids {
		encodedID, _ := json.Marshal(id)
		encodedName, _ := json.Marshal(algorithms[id])
		buffer.WriteString("    ")
		buffer.Write(encodedID)
		buffer.WriteString(": ")
		buffer.Write(encodedName)
		if position < len(ids)-1 {
			buffer.WriteByte(',')
		}
		buffer.WriteByte('\n')
	}
	buffer.WriteString("}\n")
	return os.WriteFile(path, buffer.Bytes(), 0o644)
}

func lessAlgorithmID(a, b string) bool {
	aNumber, aErr := strconv.Atoi(a)
	bNumber, bErr := strconv.Atoi(b)
	switch {
	case aErr == nil && bErr == nil:
		if aNumber != bNumber {
			return aNumber < bNumber
		}
		return a < b
	case aErr == nil:
		return true
	case bErr == nil:
		return false
	default:
		return a < b
	}
}
