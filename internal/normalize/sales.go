package normalize

// Client-facing documents: invoices, estimates, credit notes. All three
// carry a nested line array and expand to one record per line.

type invoicesNormalizer struct{}

func (invoicesNormalizer) fields() []string {
	return []string{
		"invoice_id", "invoice_number", "client", "status",
		"create_date", "due_date", "amount", "outstanding", "paid",
		"currency", "description", "quantity", "unit_cost", "line_total",
		"line_items",
	}
}

func (invoicesNormalizer) normalize(item map[string]any) []Record {
	amount := money(firstOf(item, "amount"))
	header := Record{
		"invoice_id":     scalar(firstOf(item, "id", "invoiceid")),
		"invoice_number": scalar(firstOf(item, "invoice_number", "number")),
		"client":         displayName(item),
		"status":         scalar(firstOf(item, "v3_status", "status")),
		"create_date":    formatDate(firstOf(item, "create_date", "date")),
		"due_date":       formatDate(firstOf(item, "due_date")),
		"amount":         amount,
		"outstanding":    money(firstOf(item, "outstanding")),
		"paid":           money(firstOf(item, "paid")),
		"currency":       text(firstOf(item, "currency_code", "currency")),
	}
	return expandLines(item, header, syntheticLine(text(firstOf(item, "description", "notes")), amount))
}

type estimatesNormalizer struct{}

func (estimatesNormalizer) fields() []string {
	return []string{
		"estimate_id", "estimate_number", "client", "status",
		"create_date", "amount", "currency", "description", "quantity",
		"unit_cost", "line_total", "line_items",
	}
}

func (estimatesNormalizer) normalize(item map[string]any) []Record {
	amount := money(firstOf(item, "amount"))
	header := Record{
		"estimate_id":     scalar(firstOf(item, "id", "estimateid")),
		"estimate_number": scalar(firstOf(item, "estimate_number", "number")),
		"client":          displayName(item),
		"status":          scalar(firstOf(item, "v3_status", "status")),
		"create_date":     formatDate(firstOf(item, "create_date", "date")),
		"amount":          amount,
		"currency":        text(firstOf(item, "currency_code", "currency")),
	}
	return expandLines(item, header, syntheticLine(text(firstOf(item, "description", "notes")), amount))
}

type creditNotesNormalizer struct{}

func (creditNotesNormalizer) fields() []string {
	return []string{
		"credit_id", "credit_number", "client", "status", "create_date",
		"amount", "currency", "description", "quantity", "unit_cost",
		"line_total", "line_items",
	}
}

func (creditNotesNormalizer) normalize(item map[string]any) []Record {
	amount := money(firstOf(item, "amount"))
	header := Record{
		"credit_id":     scalar(firstOf(item, "id", "creditid")),
		"credit_number": scalar(firstOf(item, "credit_number", "number")),
		"client":        displayName(item),
		"status":        scalar(firstOf(item, "credit_type", "status")),
		"create_date":   formatDate(firstOf(item, "create_date", "date")),
		"amount":        amount,
		"currency":      text(firstOf(item, "currency_code", "currency")),
	}
	return expandLines(item, header, syntheticLine(text(firstOf(item, "description", "notes")), amount))
}
