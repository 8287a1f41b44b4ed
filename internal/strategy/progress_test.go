package strategy

import "testing"

func criterionWithFields(values ...FieldValue) *Criterion {
	fields := make([]*Field, len(values))
	for i, v := range values {
		fields[i] = &Field{Name: "f", Type: FieldText, Value: v}
	}
	return &Criterion{
		ID:        CriterionAwards,
		Instances: []*Instance{{ID: "awards-1", Fields: fields}},
	}
}

func TestProgressNoInstances(t *testing.T) {
	c := &Criterion{ID: CriterionPress}
	if got := Progress(c); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if got := Progress(nil); got != 0 {
		t.Fatalf("expected 0 for nil, got %d", got)
	}
}

func TestProgressCountsPopulatedFields(t *testing.T) {
	c := criterionWithFields(Text("a"), Text("b"), Text(""), Text(""), Text(""))
	if got := Progress(c); got != 40 {
		t.Fatalf("expected 40, got %d", got)
	}
}

func TestProgressRoundsToNearest(t *testing.T) {
	// 1 of 3 fields -> 33.33 -> 33; 2 of 3 -> 66.67 -> 67.
	c := criterionWithFields(Text("a"), Text(""), Text(""))
	if got := Progress(c); got != 33 {
		t.Fatalf("expected 33, got %d", got)
	}
	c = criterionWithFields(Text("a"), Text("b"), Text(""))
	if got := Progress(c); got != 67 {
		t.Fatalf("expected 67, got %d", got)
	}
}

func TestProgressSpansInstances(t *testing.T) {
	c := &Criterion{
		ID: CriterionJudging,
		Instances: []*Instance{
			{ID: "judging-1", Fields: []*Field{
				{Name: "a", Type: FieldText, Value: Text("x")},
				{Name: "b", Type: FieldText, Value: Text("y")},
			}},
			{ID: "judging-2", Fields: []*Field{
				{Name: "a", Type: FieldText, Value: Text("")},
				{Name: "b", Type: FieldFiles, Value: Values()},
			}},
		},
	}
	if got := Progress(c); got != 50 {
		t.Fatalf("expected 50, got %d", got)
	}
}

func TestProgressEmptyListNotCompleted(t *testing.T) {
	c := criterionWithFields(Values(), Values("doc.pdf"))
	if got := Progress(c); got != 50 {
		t.Fatalf("expected 50, got %d", got)
	}
}

func TestStatusForProgress(t *testing.T) {
	cases := []struct {
		progress int
		want     Status
	}{
		{0, StatusNotStarted},
		{1, StatusInProgress},
		{40, StatusInProgress},
		{99, StatusInProgress},
		{100, StatusComplete},
	}
	for _, tc := range cases {
		if got := StatusForProgress(tc.progress); got != tc.want {
			t.Fatalf("progress %d: expected %q, got %q", tc.progress, tc.want, got)
		}
	}
}
