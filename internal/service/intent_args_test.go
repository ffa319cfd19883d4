package service

import "testing"

func TestExtractIntentArgs_CoursePhrase(t *testing.T) {
	cases := []struct {
		text string
		want uint
	}{
		{"show my grades for course 3", 3},
		{"assignments for Course 12 please", 12},
		{"course #7", 7},
		{"COURSE 42", 42},
	}
	for _, tc := range cases {
		args := ExtractIntentArgs(tc.text)
		if args.Kind != ArgFound {
			t.Fatalf("%q: expected ArgFound", tc.text)
		}
		if args.CourseID != tc.want {
			t.Fatalf("%q: expected courseID=%d got %d", tc.text, tc.want, args.CourseID)
		}
	}
}

func TestExtractIntentArgs_FallsBackToFirstNumber(t *testing.T) {
	args := ExtractIntentArgs("what about 5 then")
	if args.Kind != ArgFound || args.CourseID != 5 {
		t.Fatalf("expected courseID=5 got %+v", args)
	}
}

func TestExtractIntentArgs_MissingWhenNoNumber(t *testing.T) {
	args := ExtractIntentArgs("show my assignments")
	if args.Kind != ArgMissing {
		t.Fatalf("expected ArgMissing got %+v", args)
	}
}
