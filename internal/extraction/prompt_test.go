package extraction

import (
	"strings"
	"testing"

	"cloud.google.com/go/civil"
)

func TestBuildPrompt_ResolvedOffsets(t *testing.T) {
	ref := civil.Date{Year: 2024, Month: 6, Day: 10}
	prompt := buildPrompt("Spent Rs 800 on Diesel yesterday.", ref)

	// Each relative phrase must arrive pre-resolved against the reference date.
	for _, want := range []string{
		"2024-06-10", // today
		"2024-06-09", // yesterday
		"2024-06-03", // last week
		"2024-05-11", // last month
		"2023-06-11", // last year
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing resolved date %s", want)
		}
	}

	if !strings.Contains(prompt, "Spent Rs 800 on Diesel yesterday.") {
		t.Error("prompt missing the user description")
	}
}

func TestBuildPrompt_RequiredKeys(t *testing.T) {
	prompt := buildPrompt("paid the bill", civil.Date{Year: 2024, Month: 1, Day: 1})

	for _, key := range []string{
		"Transaction Date",
		"Bank Name",
		"Account Type",
		"Transaction Amount",
		"Transaction Currency",
		"Transaction Category",
		"Transaction desc",
	} {
		if !strings.Contains(prompt, key) {
			t.Errorf("prompt missing key %q", key)
		}
	}
}
