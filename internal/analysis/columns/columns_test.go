package columns

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"autoinsight/domain/datareadiness/ingestion"
	"autoinsight/domain/dataset"
	domainstats "autoinsight/domain/stats"
)

func nums(xs ...float64) []ingestion.Value {
	out := make([]ingestion.Value, len(xs))
	for i, x := range xs {
		out[i] = ingestion.NewNumericValue(x)
	}
	return out
}

func strs(xs ...string) []ingestion.Value {
	out := make([]ingestion.Value, len(xs))
	for i, x := range xs {
		out[i] = ingestion.NewStringValue(x)
	}
	return out
}

func TestIsNumericValues(t *testing.T) {
	tests := []struct {
		name   string
		values []ingestion.Value
		want   bool
	}{
		{"all numbers", nums(1, 2, 3), true},
		{"numeric strings", strs("1", "2.5", " 3 "), true},
		{"missing ignored", append(nums(1, 2), ingestion.NewMissingValue(), ingestion.NewStringValue("")), true},
		{"exactly ninety percent", append(nums(1, 2, 3, 4, 5, 6, 7, 8, 9), ingestion.NewStringValue("x")), false},
		{"ten of eleven", append(nums(1, 2, 3, 4, 5, 6, 7, 8, 9, 10), ingestion.NewStringValue("x")), true},
		{"words", strs("a", "b"), false},
		{"empty", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNumericValues(tt.values))
		})
	}
}

func TestNumericOfPreservesOrder(t *testing.T) {
	values := []ingestion.Value{
		ingestion.NewStringValue("3"),
		ingestion.NewMissingValue(),
		ingestion.NewNumericValue(1),
		ingestion.NewStringValue("x"),
		ingestion.NewBooleanValue(true),
	}
	assert.Equal(t, []float64{3, 1, 1}, NumericOf(values))
}

func TestIsIDLikeValues(t *testing.T) {
	assert.True(t, IsIDLikeValues("id", strs("a", "a")))
	assert.True(t, IsIDLikeValues("ID", nil))
	assert.True(t, IsIDLikeValues("Row_Num", nil))
	assert.False(t, IsIDLikeValues("identifier_code", strs("a", "a")))

	assert.True(t, IsIDLikeValues("customer", nums(1, 2, 3, 4, 5)))
	assert.False(t, IsIDLikeValues("score", nums(1, 2, 2, 4, 5)))
	assert.False(t, IsIDLikeValues("name", strs("ann", "bob", "cat")))
	assert.False(t, IsIDLikeValues("blank", []ingestion.Value{ingestion.NewMissingValue()}))
}

func TestIsConstantValues(t *testing.T) {
	assert.True(t, IsConstantValues(nums(4, 4, 4)))
	assert.True(t, IsConstantValues(append(nums(4), ingestion.NewMissingValue())))
	assert.True(t, IsConstantValues(nil))
	assert.False(t, IsConstantValues(nums(4, 5)))
	// number 1 and text "1" are different values
	assert.False(t, IsConstantValues(append(nums(1), ingestion.NewStringValue("1"))))
}

func TestIsDatetimeValues(t *testing.T) {
	assert.True(t, IsDatetimeValues(strs("2024-01-01", "2024-02-01", "2024-03-01")))
	assert.True(t, IsDatetimeValues(strs("2024-01-01", "2024-02-01", "2024-03-01", "n/a")))
	assert.False(t, IsDatetimeValues(strs("2024-01-01", "x", "y")))
	assert.False(t, IsDatetimeValues(nums(20240101, 20240102)))
	assert.False(t, IsDatetimeValues(strs("1850-01-01", "1860-01-01")))
	assert.False(t, IsDatetimeValues(nil))
}

func TestIsDatetimeSamplesLeadingRows(t *testing.T) {
	values := make([]ingestion.Value, 0, 300)
	for i := 0; i < 100; i++ {
		values = append(values, ingestion.NewStringValue("2024-05-06"))
	}
	for i := 0; i < 200; i++ {
		values = append(values, ingestion.NewStringValue("word"))
	}
	assert.True(t, IsDatetimeValues(values))
}

func TestDatasetHelpers(t *testing.T) {
	ds, err := dataset.FromRecords([]string{"id", "amount"}, []map[string]any{
		{"id": 1, "amount": "10"},
		{"id": 2, "amount": nil},
		{"id": 3, "amount": 10},
	})
	require.NoError(t, err)
	assert.True(t, IsIDLike(ds, "id"))
	assert.True(t, IsNumericColumn(ds, "amount"))
	assert.Equal(t, []float64{10, 10}, NumericValues(ds, "amount"))
	assert.False(t, IsConstant(ds, "amount"), "string 10 and number 10 differ")
	assert.False(t, IsDatetime(ds, "amount"))
}

func TestEntropy(t *testing.T) {
	assert.Equal(t, 0.0, Entropy([]string{"a", "a", "a"}))
	assert.Equal(t, 0.0, Entropy(nil))
	for k := 2; k <= 8; k++ {
		var values []string
		for i := 0; i < k; i++ {
			values = append(values, string(rune('a'+i)), string(rune('a'+i)))
		}
		assert.InDelta(t, math.Log2(float64(k)), Entropy(values), 1e-12)
	}
}

func TestSkewnessKurtosis(t *testing.T) {
	assert.Equal(t, 0.0, Skewness([]float64{1, 2}))
	assert.Equal(t, 0.0, Kurtosis([]float64{1, 2, 3}))
	assert.Equal(t, 0.0, Skewness([]float64{5, 5, 5, 5}))
	assert.Equal(t, 0.0, Kurtosis([]float64{5, 5, 5, 5}))

	assert.InDelta(t, 0, Skewness([]float64{1, 2, 3, 4, 5}), 1e-12)
	// population excess kurtosis of 1..5 is -1.3
	assert.InDelta(t, -1.3, Kurtosis([]float64{1, 2, 3, 4, 5}), 1e-12)
	assert.Greater(t, Skewness([]float64{1, 1, 1, 1, 10}), 1.0)
}

func TestSampleStd(t *testing.T) {
	assert.Equal(t, 0.0, SampleStd([]float64{3}))
	assert.InDelta(t, math.Sqrt(2.5), SampleStd([]float64{1, 2, 3, 4, 5}), 1e-12)
	assert.InDelta(t, 2.5, SampleVariance([]float64{1, 2, 3, 4, 5}), 1e-12)
}

func TestQuantileLinear(t *testing.T) {
	xs := []float64{4, 1, 3, 2}
	assert.InDelta(t, 1.75, Quantile(xs, 0.25), 1e-12)
	assert.InDelta(t, 2.5, Quantile(xs, 0.5), 1e-12)
	assert.InDelta(t, 3.25, Quantile(xs, 0.75), 1e-12)
	assert.Equal(t, 1.0, Quantile(xs, 0))
	assert.Equal(t, 4.0, Quantile(xs, 1))
	assert.Equal(t, 0.0, Quantile(nil, 0.5))
	assert.Equal(t, []float64{4, 1, 3, 2}, xs, "input must not be reordered")
}

func TestOutlierScenario(t *testing.T) {
	xs := []float64{1, 1, 1, 1, 100}
	b, n := DetectOutliers(xs)
	assert.Equal(t, 1, n)
	assert.False(t, b.Contains(100))

	clipped, count := ClipOutliers(xs)
	assert.Equal(t, 1, count)
	assert.Equal(t, []float64{1, 1, 1, 1, b.Upper}, clipped)
}

func TestClipOutliersStaysInsideBounds(t *testing.T) {
	xs := []float64{-50, 2, 3, 4, 5, 6, 7, 8, 9, 200}
	b := OutlierBounds(xs)
	clipped, count := ClipOutliers(xs)
	assert.Equal(t, 2, count)
	for i, x := range clipped {
		assert.True(t, b.Contains(x))
		if b.Contains(xs[i]) {
			assert.Equal(t, xs[i], x)
		}
	}
}

func TestOutlierBoundsSmallSample(t *testing.T) {
	b := OutlierBounds([]float64{1, 2, 1000})
	assert.True(t, math.IsInf(b.Lower, -1))
	assert.True(t, math.IsInf(b.Upper, 1))
	_, n := ClipOutliers([]float64{1, 2, 1000})
	assert.Equal(t, 0, n)
}

func TestVIF(t *testing.T) {
	corr := mat.NewSymDense(3, []float64{
		1, 0.5, 0.5,
		0.5, 1, 0,
		0.5, 0, 1,
	})
	assert.InDelta(t, 1/(1-0.25), VIF(corr, 0), 1e-12)
	assert.InDelta(t, 1/(1-0.0625), VIF(corr, 1), 1e-12)

	perfect := mat.NewSymDense(2, []float64{1, -1, -1, 1})
	assert.Equal(t, MaxVIF, VIF(perfect, 0))

	nearly := mat.NewSymDense(2, []float64{1, -0.9999999999999998, -0.9999999999999998, 1})
	assert.Greater(t, VIF(nearly, 0), MaxVIF)

	single := mat.NewSymDense(1, []float64{1})
	assert.Equal(t, 1.0, VIF(single, 0))
}

func TestVIFUncappedBelowPerfectCorrelation(t *testing.T) {
	corr := mat.NewSymDense(2, []float64{1, 0.98, 0.98, 1})
	vif := VIF(corr, 0)
	assert.InDelta(t, 1/(1-0.98*0.98), vif, 1e-9)
	assert.InDelta(t, 25.25, vif, 0.01)
	assert.Equal(t, domainstats.VIFHigh, VIFStatus(vif))
}

func TestVIFStatusThresholds(t *testing.T) {
	tests := []struct {
		vif  float64
		want domainstats.VIFStatus
	}{
		{1, domainstats.VIFAcceptable},
		{4.9, domainstats.VIFAcceptable},
		{5.0, domainstats.VIFModerate},
		{9.9, domainstats.VIFModerate},
		{10.0, domainstats.VIFHigh},
		{42, domainstats.VIFHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, VIFStatus(tt.vif), "vif=%v", tt.vif)
	}
}

func TestRound(t *testing.T) {
	assert.Equal(t, 1.23, Round(1.234, 2))
	assert.Equal(t, 1.24, Round(1.235000001, 2))
	assert.Equal(t, -1.0, Round(-1.004, 2))
	assert.True(t, math.IsInf(Round(math.Inf(1), 2), 1))
}

func TestFrequenciesTieBreakByEncounter(t *testing.T) {
	freq := Frequencies([]string{"a", "b", "b", "c", "a"})
	require.Len(t, freq, 3)
	assert.Equal(t, "a", freq[0].Value)
	assert.Equal(t, "b", freq[1].Value)
	assert.Equal(t, "c", freq[2].Value)
	assert.Equal(t, 40.0, freq[0].Percentage)
	assert.Empty(t, Frequencies(nil))
}
