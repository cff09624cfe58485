package intent

import (
	"reflect"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		text  string
		typ   Type
		slots map[string]string
	}{
		// Price by name.
		{"What is Mehak's rate?", TutorPriceByName, map[string]string{SlotName: "Mehak"}},
		{"How much does John charge?", TutorPriceByName, map[string]string{SlotName: "John"}},
		{"what is the fee of Priya", TutorPriceByName, map[string]string{SlotName: "Priya"}},
		{"Sarah's hourly price", TutorPriceByName, map[string]string{SlotName: "Sarah"}},

		// Tutors by subject.
		{"Python tutors", TutorsBySubject, map[string]string{SlotSubject: "Python"}},
		{"Are there any js tutors?", TutorsBySubject, map[string]string{SlotSubject: "JavaScript"}},
		{"tutors for computer science", TutorsBySubject, map[string]string{SlotSubject: "Computer Science"}},
		{"Who teaches math?", TutorsBySubject, map[string]string{SlotSubject: "Mathematics"}},
		{"show me all tutors", TutorsBySubject, map[string]string{}},
		{"What tutors are available?", TutorsBySubject, map[string]string{}},

		// Rating by name.
		{"What is Mehak's rating?", TutorRatingByName, map[string]string{SlotName: "Mehak"}},
		{"reviews for Daniel", TutorRatingByName, map[string]string{SlotName: "Daniel"}},
		{"How is Priya rated?", TutorRatingByName, map[string]string{SlotName: "Priya"}},

		// Pricing summary.
		{"What is the average price?", PricingSummary, map[string]string{}},
		{"how much do tutors charge", PricingSummary, map[string]string{}},
		{"What's your pricing?", PricingSummary, map[string]string{}},

		// Policy.
		{"refund policy", Policy, map[string]string{SlotKey: "refund"}},
		{"How do I cancel a session?", Policy, map[string]string{SlotKey: "cancel"}},
		{"can I reschedule", Policy, map[string]string{SlotKey: "reschedule"}},
		{"payment methods", Policy, map[string]string{SlotKey: "payment"}},
		{"how does booking work", Policy, map[string]string{SlotKey: "booking"}},
		{"I forgot my password", Policy, map[string]string{SlotKey: "login"}},

		// Freeform.
		{"asdkjh random text", Freeform, map[string]string{}},
		{"tell me about the platform", Freeform, map[string]string{}},
		{"", Freeform, map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := Classify(tt.text)
			if got.Type != tt.typ {
				t.Fatalf("Classify(%q).Type = %s, want %s", tt.text, got.Type, tt.typ)
			}
			if !reflect.DeepEqual(got.Slots, tt.slots) {
				t.Errorf("Classify(%q).Slots = %v, want %v", tt.text, got.Slots, tt.slots)
			}
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	inputs := []string{
		"What is Mehak's rate?",
		"Python tutors",
		"refund policy",
		"asdkjh random text",
	}
	for _, in := range inputs {
		first := Classify(in)
		for i := 0; i < 10; i++ {
			if got := Classify(in); !reflect.DeepEqual(got, first) {
				t.Fatalf("Classify(%q) unstable: %v vs %v", in, got, first)
			}
		}
	}
}

func TestSlotsNeverContainStopwords(t *testing.T) {
	// Noise words must never come back as entities.
	inputs := []string{
		"What is the rate?",
		"how much does the tutor charge",
		"rating of the teacher",
		"what's the tutor's rate?",
	}
	for _, in := range inputs {
		got := Classify(in)
		for slot, value := range got.Slots {
			if stopwords[lowercase(value)] {
				t.Errorf("Classify(%q) returned stop-word slot %s=%q", in, slot, value)
			}
		}
	}
}

func lowercase(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		out = append(out, r)
	}
	return string(out)
}

func TestRuleOrder(t *testing.T) {
	// The cascade order is load-bearing: specific possessive patterns must
	// run before the generic subject capture, and pricing summary before
	// policy keywords.
	want := []Type{
		TutorPriceByName,
		TutorsBySubject,
		TutorRatingByName,
		PricingSummary,
		Policy,
	}
	if len(rules) != len(want) {
		t.Fatalf("rule count = %d, want %d", len(rules), len(want))
	}
	for i, r := range rules {
		if r.typ != want[i] {
			t.Errorf("rules[%d] = %s, want %s", i, r.typ, want[i])
		}
	}
}
