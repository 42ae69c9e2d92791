package decision

// IrisFeatures names the four iris measurements, in centimetres.
var IrisFeatures = []string{"sepal_length", "sepal_width", "petal_length", "petal_width"}

// IrisSample returns 30 rows of Fisher's iris data set, ten per species.
// A fresh slice is returned on every call.
func IrisSample() []Sample {
	rows := []struct {
		f     [4]float64
		label string
	}{
		{[4]float64{5.1, 3.5, 1.4, 0.2}, "setosa"},
		{[4]float64{4.9, 3.0, 1.4, 0.2}, "setosa"},
		{[4]float64{4.7, 3.2, 1.3, 0.2}, "setosa"},
		{[4]float64{4.6, 3.1, 1.5, 0.2}, "setosa"},
		{[4]float64{5.0, 3.6, 1.4, 0.2}, "setosa"},
		{[4]float64{5.4, 3.9, 1.7, 0.4}, "setosa"},
		{[4]float64{4.6, 3.4, 1.4, 0.3}, "setosa"},
		{[4]float64{5.0, 3.4, 1.5, 0.2}, "setosa"},
		{[4]float64{4.4, 2.9, 1.4, 0.2}, "setosa"},
		{[4]float64{4.9, 3.1, 1.5, 0.1}, "setosa"},

		{[4]float64{7.0, 3.2, 4.7, 1.4}, "versicolor"},
		{[4]float64{6.4, 3.2, 4.5, 1.5}, "versicolor"},
		{[4]float64{6.9, 3.1, 4.9, 1.5}, "versicolor"},
		{[4]float64{5.5, 2.3, 4.0, 1.3}, "versicolor"},
		{[4]float64{6.5, 2.8, 4.6, 1.5}, "versicolor"},
		{[4]float64{5.7, 2.8, 4.5, 1.3}, "versicolor"},
		{[4]float64{6.3, 3.3, 4.7, 1.6}, "versicolor"},
		{[4]float64{4.9, 2.4, 3.3, 1.0}, "versicolor"},
		{[4]float64{6.6, 2.9, 4.6, 1.3}, "versicolor"},
		{[4]float64{5.2, 2.7, 3.9, 1.4}, "versicolor"},

		{[4]float64{6.3, 3.3, 6.0, 2.5}, "virginica"},
		{[4]float64{5.8, 2.7, 5.1, 1.9}, "virginica"},
		{[4]float64{7.1, 3.0, 5.9, 2.1}, "virginica"},
		{[4]float64{6.3, 2.9, 5.6, 1.8}, "virginica"},
		{[4]float64{6.5, 3.0, 5.8, 2.2}, "virginica"},
		{[4]float64{7.6, 3.0, 6.6, 2.1}, "virginica"},
		{[4]float64{4.9, 2.5, 4.5, 1.7}, "virginica"},
		{[4]float64{7.3, 2.9, 6.3, 1.8}, "virginica"},
		{[4]float64{6.7, 2.5, 5.8, 1.8}, "virginica"},
		{[4]float64{7.2, 3.6, 6.1, 2.5}, "virginica"},
	}
	out := make([]Sample, len(rows))
	for i, r := range rows {
		out[i] = Sample{Features: r.f[:], Label: r.label}
	}
	return out
}
