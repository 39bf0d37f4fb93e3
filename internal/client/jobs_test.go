package client

import (
	"context"
	"testing"

	"hashes-market-client/internal/models"
	"hashes-market-client/internal/testutils"

	"github.com/gin-gonic/gin"
)

func TestListJobs_AuthRequired(t *testing.T) {
	server := testutils.NewMockMarketServer()
	defer server.Close()

	cfg := testutils.MockConfigForServer(server)
	cfg.APIKey = ""
	marketClient := New(cfg, testutils.MockLogger())

	_, err := marketClient.ListJobs(context.Background(), ListJobsOptions{})
	if errorType, _ := TypeOf(err); errorType != ErrorTypeAuthRequired {
		t.Errorf("ListJobs() error type = %v, want ErrorTypeAuthRequired", errorType)
	}
}

func TestListJobs_CurrencyFilter(t *testing.T) {
	server := testutils.NewMockMarketServer()
	defer server.Close()

	marketClient := New(testutils.MockConfigForServer(server), testutils.MockLogger())

	jobs, err := marketClient.ListJobs(context.Background(), ListJobsOptions{
		CurrencyFilter: map[string]struct{}{"BTC": {}},
	})
	if err != nil {
		t.Fatalf("ListJobs() error = %v", err)
	}
	if len(jobs) != 1 || jobs[0].Currency != "BTC" {
		t.Errorf("ListJobs() currency filter kept %d jobs, want the single BTC job", len(jobs))
	}
}

func TestListJobs_AlgorithmFilter(t *testing.T) {
	server := testutils.NewMockMarketServer()
	defer server.Close()

	marketClient := New(testutils.MockConfigForServer(server), testutils.MockLogger())

	jobs, err := marketClient.ListJobs(context.Background(), ListJobsOptions{
		AlgorithmFilter: map[string]struct{}{"220": {}},
	})
	if err != nil {
		t.Fatalf("ListJobs() error = %v", err)
	}
	if len(jobs) != 1 || jobs[0].ID != 102 {
		t.Errorf("ListJobs() algorithm filter kept %d jobs, want only job 102", len(jobs))
	}
}

func TestListJobs_SortNumericColumn(t *testing.T) {
	server := testutils.NewMockMarketServer()
	defer server.Close()
	server.SetPayload("/jobs", gin.H{
		"success": true,
		"list": []gin.H{
			{"id": 1, "pricePerHash": "10", "currency": "BTC"},
			{"id": 2, "pricePerHash": "9", "currency": "BTC"},
			{"id": 3, "pricePerHash": "100", "currency": "BTC"},
		},
	})

	marketClient := New(testutils.MockConfigForServer(server), testutils.MockLogger())

	jobs, err := marketClient.ListJobs(context.Background(), ListJobsOptions{SortKey: "pricePerHash"})
	if err != nil {
		t.Fatalf("ListJobs() error = %v", err)
	}
	got := []string{jobs[0].PricePerHash.String(), jobs[1].PricePerHash.String(), jobs[2].PricePerHash.String()}
	want := []string{"9", "10", "100"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ListJobs() numeric sort order = %v, want %v", got, want)
		}
	}
}

func TestListJobs_DescendingSymmetry(t *testing.T) {
	server := testutils.NewMockMarketServer()
	defer server.Close()

	marketClient := New(testutils.MockConfigForServer(server), testutils.MockLogger())
	ctx := context.Background()

	ascending, err := marketClient.ListJobs(ctx, ListJobsOptions{SortKey: "id", Descending: false})
	if err != nil {
		t.Fatalf("ListJobs() error = %v", err)
	}
	descending, err := marketClient.ListJobs(ctx, ListJobsOptions{SortKey: "id", Descending: true})
	if err != nil {
		t.Fatalf("ListJobs() error = %v", err)
	}

	if len(ascending) != len(descending) {
		t.Fatalf("ListJobs() lengths differ: %d vs %d", len(ascending), len(descending))
	}
	for i := range ascending {
		if ascending[i].ID != descending[len(descending)-1-i].ID {
			t.Errorf("ListJobs() descending is not the reverse of ascending at position %d", i)
		}
	}
}

func TestSortJobs_MixedColumnKeepsNumericsTogether(t *testing.T) {
	jobs := []models.Job{
		{ID: 1, Hints: "1abc"},
		{ID: 2, Hints: "10"},
		{ID: 3, Hints: "9.5"},
	}
	sortJobs(jobs, "hints", false)

	// Numeric values sort among themselves ahead of every non-numeric one,
	// so the order cannot depend on which pairs the sort happens to compare.
	wantIDs := []int64{3, 2, 1}
	for i, want := range wantIDs {
		if jobs[i].ID != want {
			t.Fatalf("sortJobs() mixed column order = %v, want hints 9.5, 10, 1abc", jobs)
		}
	}
}

func TestSortJobs_UnknownKeyKeepsOrder(t *testing.T) {
	jobs := []models.Job{{ID: 3}, {ID: 1}, {ID: 2}}
	sortJobs(jobs, "noSuchColumn", false)
	if jobs[0].ID != 3 || jobs[1].ID != 1 || jobs[2].ID != 2 {
		t.Errorf("sortJobs() with unknown key reordered rows: %v", jobs)
	}
}

func TestCompareSortValues(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{name: "numeric order beats lexical", a: "9", b: "10", want: -1},
		{name: "float comparison", a: "0.5", b: "0.25", want: 1},
		{name: "case-insensitive lexical fallback", a: "MD5", b: "md5", want: 0},
		{name: "mixed numeric and text", a: "12", b: "abc", want: -1},
		{name: "numeric groups before text regardless of digits", a: "9.5", b: "1abc", want: -1},
		{name: "empty sorts first", a: "", b: "x", want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := compareSortValues(tt.a, tt.b)
			if (got < 0) != (tt.want < 0) || (got > 0) != (tt.want > 0) {
				t.Errorf("compareSortValues(%q, %q) = %d, want sign of %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
