package cleaner

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoinsight/domain/datareadiness/cleaning"
)

func recommendationFixture(t *testing.T) []map[string]any {
	t.Helper()
	records := make([]map[string]any, 20)
	for i := range records {
		spend := float64(i)
		switch i {
		case 18:
			spend = 500
		case 19:
			spend = 600
		}
		var score any = i % 5
		if i < 4 {
			score = nil
		}
		var notes any = fmt.Sprintf("n%d", i)
		if i < 12 {
			notes = nil
		}
		records[i] = map[string]any{"spend": spend, "score": score, "notes": notes, "flag": "Y"}
	}
	return records
}

func TestRecommendOrdersHighFirst(t *testing.T) {
	ds := mustDataset(t, []string{"spend", "score", "notes", "flag"}, recommendationFixture(t))

	recs := Recommend(ds, 2)

	var got []string
	for _, r := range recs {
		got = append(got, r.Priority+" "+r.Action)
	}
	assert.Equal(t, []string{
		"High Consider dropping column 'notes'",
		"High Drop constant column 'flag'",
		"Medium Remove duplicate rows",
		"Medium Impute missing values in 'score'",
		"Medium Handle outliers in 'spend'",
	}, got)
	assert.Equal(t, "2 duplicates found (10.0%)", recs[2].Reason)
	assert.Equal(t, "2 outliers (10.0%)", recs[4].Reason)
}

func TestRecommendDuplicateShareEscalates(t *testing.T) {
	ds := mustDataset(t, []string{"spend", "score", "notes", "flag"}, recommendationFixture(t))
	recs := Recommend(ds, 3)
	for _, r := range recs {
		if r.Action == "Remove duplicate rows" {
			assert.Equal(t, cleaning.PriorityHigh, r.Priority)
			return
		}
	}
	t.Fatal("duplicate recommendation missing")
}

func TestCleanAttachesRecommendations(t *testing.T) {
	ds := mustDataset(t, []string{"a", "b"}, []map[string]any{
		{"a": 1, "b": "x"},
		{"a": 1, "b": "x"},
		{"a": 2, "b": "y"},
	})

	result, err := NewCleaner().Clean(context.Background(), ds)
	require.NoError(t, err)
	require.NotEmpty(t, result.Recommendations)
	assert.Equal(t, "Remove duplicate rows", result.Recommendations[0].Action)
	assert.Equal(t, cleaning.PriorityHigh, result.Recommendations[0].Priority, "1 of 3 rows is above 10%")
	assert.Equal(t, 1, result.DuplicatesRemoved())
}
