package fuzzutil

import "testing"

func TestLikelyValidJSON(t *testing.T) {
	if !LikelyValidJSON([]byte(`{"a": 1}`)) {
		t.Fatal("expected well-formed JSON to be reported valid")
	}
	if LikelyValidJSON([]byte(`{not json`)) {
		t.Fatal("expected malformed JSON to be reported invalid")
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name        string
		data        string
		qadomFailed bool
		want        Classification
	}{
		{"both accept", `{"a":1}`, false, BothAccepted},
		{"both reject", `{not json`, true, BothRejected},
		{"qadom only rejected", `{"a":1}`, true, QadomOnlyRejected},
		{"qadom only accepted", `{not json`, false, QadomOnlyAccepted},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Classify([]byte(c.data), c.qadomFailed); got != c.want {
				t.Errorf("Classify(%q, %v) = %v, want %v", c.data, c.qadomFailed, got, c.want)
			}
		})
	}
}
