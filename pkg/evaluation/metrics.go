package evaluation

import (
	"gonum.org/v1/gonum/stat"
)

// Metrics contains the evaluation results of a test run
type Metrics struct {
	Accuracy        float64            `json:"accuracy"`
	Correct         int                `json:"correct"`
	Total           int                `json:"total"`
	Precision       map[string]float64 `json:"precision"`
	Recall          map[string]float64 `json:"recall"`
	F1Score         map[string]float64 `json:"f1_score"`
	ConfusionMatrix [][]int            `json:"confusion_matrix"`
	CategoryIndices map[string]int     `json:"category_indices"`
	Categories      []string           `json:"categories"`
	MacroPrecision  float64            `json:"macro_precision"`
	MacroRecall     float64            `json:"macro_recall"`
	MacroF1         float64            `json:"macro_f1"`
}

// MacroAverages returns the unweighted per-category means
func (m *Metrics) MacroAverages() map[string]float64 {
	return map[string]float64{
		"precision": m.MacroPrecision,
		"recall":    m.MacroRecall,
		"f1_score":  m.MacroF1,
	}
}

// Count returns the confusion matrix cell for a true and a predicted category
func (m *Metrics) Count(actual, predicted string) int {
	i, ok := m.CategoryIndices[actual]
	if !ok {
		return 0
	}
	j, ok := m.CategoryIndices[predicted]
	if !ok {
		return 0
	}
	return m.ConfusionMatrix[i][j]
}

// ConfusionMatrix counts true × predicted categories.
//
// Rows are true categories and columns predicted ones, both indexed in
// first-seen order. A category that shows up only as a prediction is
// appended as a new row and column instead of failing the run.
type ConfusionMatrix struct {
	categories []string
	indices    map[string]int
	counts     [][]int
	correct    int
	total      int
}

// NewConfusionMatrix creates a matrix indexed by the distinct labels in
// first-seen order
func NewConfusionMatrix(labels []string) *ConfusionMatrix {
	cm := &ConfusionMatrix{indices: make(map[string]int)}
	for _, label := range labels {
		cm.index(label)
	}
	return cm
}

// index returns the index of category, extending the matrix when needed
func (cm *ConfusionMatrix) index(category string) (idx int, extended bool) {
	if idx, ok := cm.indices[category]; ok {
		return idx, false
	}

	idx = len(cm.categories)
	cm.categories = append(cm.categories, category)
	cm.indices[category] = idx

	for i := range cm.counts {
		cm.counts[i] = append(cm.counts[i], 0)
	}
	cm.counts = append(cm.counts, make([]int, idx+1))

	return idx, true
}

// Add records one prediction and reports whether the matrix had to grow
func (cm *ConfusionMatrix) Add(actual, predicted string) bool {
	actualIdx, actualExtended := cm.index(actual)
	predictedIdx, predictedExtended := cm.index(predicted)

	cm.counts[actualIdx][predictedIdx]++
	cm.total++
	if actual == predicted {
		cm.correct++
	}

	return actualExtended || predictedExtended
}

// Size returns the matrix dimension
func (cm *ConfusionMatrix) Size() int {
	return len(cm.categories)
}

// Metrics derives accuracy and per-category precision, recall and F1
func (cm *ConfusionMatrix) Metrics() *Metrics {
	n := len(cm.categories)

	m := &Metrics{
		Correct:         cm.correct,
		Total:           cm.total,
		Precision:       make(map[string]float64, n),
		Recall:          make(map[string]float64, n),
		F1Score:         make(map[string]float64, n),
		ConfusionMatrix: make([][]int, n),
		CategoryIndices: make(map[string]int, n),
		Categories:      make([]string, n),
	}

	copy(m.Categories, cm.categories)
	for category, idx := range cm.indices {
		m.CategoryIndices[category] = idx
	}
	for i, row := range cm.counts {
		m.ConfusionMatrix[i] = append([]int(nil), row...)
	}

	if cm.total > 0 {
		m.Accuracy = float64(cm.correct) / float64(cm.total)
	}

	precisions := make([]float64, n)
	recalls := make([]float64, n)
	f1s := make([]float64, n)

	for idx, category := range cm.categories {
		tp := cm.counts[idx][idx]

		var fp, fn int
		for k := 0; k < n; k++ {
			if k == idx {
				continue
			}
			fp += cm.counts[k][idx]
			fn += cm.counts[idx][k]
		}

		precision := ratio(tp, tp+fp)
		recall := ratio(tp, tp+fn)
		var f1 float64
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}

		m.Precision[category] = precision
		m.Recall[category] = recall
		m.F1Score[category] = f1

		precisions[idx] = precision
		recalls[idx] = recall
		f1s[idx] = f1
	}

	if n > 0 {
		m.MacroPrecision = stat.Mean(precisions, nil)
		m.MacroRecall = stat.Mean(recalls, nil)
		m.MacroF1 = stat.Mean(f1s, nil)
	}

	return m
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
