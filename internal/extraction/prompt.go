package extraction

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
)

// buildPrompt renders the extraction instruction for one transaction
// description. Relative-date phrases are resolved against referenceDate by
// pre-computing each offset into the prompt, so the model only has to copy
// the right value rather than do date arithmetic.
func buildPrompt(description string, referenceDate civil.Date) string {
	today := referenceDate.String()
	yesterday := referenceDate.AddDays(-1).String()
	lastWeek := referenceDate.AddDays(-7).String()
	lastMonth := referenceDate.AddDays(-30).String()
	lastYear := referenceDate.AddDays(-365).String()

	var b strings.Builder

	fmt.Fprintf(&b, "Extract the following details from this transaction description: %s\n\n", description)

	fmt.Fprintf(&b, "- Transaction Date: If the description mentions \"today\", return today's date: %s.\n", today)
	fmt.Fprintf(&b, "    If \"yesterday\", return %s.\n", yesterday)
	fmt.Fprintf(&b, "    If \"last week\", return %s.\n", lastWeek)
	fmt.Fprintf(&b, "    If \"last month\", return %s.\n", lastMonth)
	fmt.Fprintf(&b, "    If \"last year\", return %s.\n", lastYear)
	fmt.Fprintf(&b, "    If no date is mentioned, return today's date: %s.\n\n", today)

	b.WriteString("- Bank Name: Extract the bank name, or return null if not mentioned.\n")
	b.WriteString("- Account Type: Extract the type of account (e.g., \"Savings Account\", \"Debit Card\", \"Forex Card\",\n")
	b.WriteString("    \"Cash\", \"Current Account\", \"Credit Card\"), or return null if not mentioned.\n")
	b.WriteString("- Transaction Amount: Extract the amount spent, or return 0 if not mentioned.\n")
	b.WriteString("- Transaction Currency: Extract the currency (e.g., INR), or return null if not mentioned.\n")
	b.WriteString("    String values like 'Rs' or 'Rs.' should be assumed as Rupees and converted into INR.\n")
	b.WriteString("- Transaction Category: Classify the transaction into one of these categories:\n")
	b.WriteString("    [\"Leisure\", \"Education\", \"Utilities\", \"Groceries\", \"Health\", \"Transport\", \"Entertainment\", \"Other\"],\n")
	b.WriteString("    based on the description.\n")
	b.WriteString("- Transaction desc: Extract the description of the transaction (e.g., \"Netflix subscription\" or \"Petrol\")\n")
	b.WriteString("    from the sentence. Truncate the text to a maximum of 50 characters.\n\n")

	b.WriteString("Return the details as a JSON object. Ensure that you return only the JSON object without any\n")
	b.WriteString("additional text, comments, or explanations. The JSON object must have the following keys:\n")
	b.WriteString("- Transaction Date\n")
	b.WriteString("- Bank Name\n")
	b.WriteString("- Account Type\n")
	b.WriteString("- Transaction Amount\n")
	b.WriteString("- Transaction Currency\n")
	b.WriteString("- Transaction Category\n")
	b.WriteString("- Transaction desc\n")

	return b.String()
}
