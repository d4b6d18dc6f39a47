package intent

import "testing"

func TestClassifyKeywords(t *testing.T) {
	c := NewClassifier()
	cases := []struct {
		query string
		want  Type
	}{
		{"I want to book an appointment", Booking},
		{"When can you come out?", Booking},
		{"what time are you available", Booking},
		{"How much is a full detail?", Pricing},
		{"can I get a quote", Pricing},
		{"do you offer ceramic coating", Services},
		{"interior and exterior wash", Services},
		{"where are you located", Location},
		{"do you travel to Long Beach", Location},
		{"tell me about quantum physics", General},
	}

	for _, tc := range cases {
		got := c.Classify(tc.query)
		if got.Type != tc.want {
			t.Fatalf("Classify(%q) = %q, want %q", tc.query, got.Type, tc.want)
		}
	}
}

func TestClassifyPriorityTieBreak(t *testing.T) {
	c := NewClassifier()
	// Contains both a pricing keyword ("how much") and a booking keyword
	// ("book", "appointment"); booking is earlier in priority order.
	got := c.Classify("How much to book an appointment?")
	if got.Type != Booking {
		t.Fatalf("Classify() = %q, want %q (priority order tie-break)", got.Type, Booking)
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	c := NewClassifier()
	if got := c.Classify("BOOK ME IN PLEASE"); got.Type != Booking {
		t.Fatalf("Classify() = %q, want %q", got.Type, Booking)
	}
}

func TestClassifyWordBoundaries(t *testing.T) {
	c := NewClassifier()
	// "areaXYZ" must not trigger the location "area" keyword, and "reserved
	// parking" should not leak "serve" out of "reserved".
	if got := c.Classify("tell me about areaXYZ"); got.Type != General {
		t.Fatalf("Classify(areaXYZ) = %q, want %q", got.Type, General)
	}
	if got := c.Classify("the spot is reserved"); got.Type == Location {
		t.Fatalf("Classify(reserved) = %q, location keyword fired inside a word", got.Type)
	}
}

func TestClassifyConfidences(t *testing.T) {
	c := NewClassifier()
	if got := c.Classify("book me"); got.Confidence != matchedConfidence {
		t.Fatalf("matched confidence = %v, want %v", got.Confidence, matchedConfidence)
	}
	if got := c.Classify("hello there"); got.Confidence != generalConfidence {
		t.Fatalf("general confidence = %v, want %v", got.Confidence, generalConfidence)
	}
}
