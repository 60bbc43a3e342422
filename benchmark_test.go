package qadom

import "testing"

var benchmarkJSON = []byte(`{
	"id": 1234567890,
	"name": "benchmark fixture",
	"active": true,
	"score": 98.6,
	"tags": ["alpha", "beta", "gamma", "delta"],
	"nested": {"a": 1, "b": 2, "c": {"d": [1,2,3,4,5]}}
}`)

func BenchmarkCalculateMaxBufferSize(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := CalculateMaxBufferSize(benchmarkJSON); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParse(b *testing.B) {
	size, err := CalculateMaxBufferSize(benchmarkJSON)
	if err != nil {
		b.Fatal(err)
	}
	buf := make([]byte, size)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, perr := Parse(benchmarkJSON, buf); perr != nil {
			b.Fatal(perr)
		}
	}
}

func BenchmarkSprint(b *testing.B) {
	size, err := CalculateMaxBufferSize(benchmarkJSON)
	if err != nil {
		b.Fatal(err)
	}
	doc, _, perr := Parse(benchmarkJSON, make([]byte, size))
	if perr != nil {
		b.Fatal(perr)
	}
	out := make([]byte, size*2)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Sprint(doc.Root(), out)
	}
}
