package normalize

// Expenses and payments have no natural line concept; each raw item
// becomes exactly one record carrying a synthetic line for the whole
// amount.

type expensesNormalizer struct{}

func (expensesNormalizer) fields() []string {
	return []string{
		"expense_id", "date", "vendor", "category", "status", "amount",
		"tax_amount", "currency", "description", "quantity", "unit_cost",
		"line_total", "line_items",
	}
}

func (expensesNormalizer) normalize(item map[string]any) []Record {
	amount := money(firstOf(item, "amount"))

	var category any
	switch cat := firstOf(item, "category_name", "category").(type) {
	case map[string]any:
		category = text(firstOf(cat, "category", "name"))
	default:
		category = text(cat)
	}

	rec := Record{
		"expense_id": scalar(firstOf(item, "id", "expenseid")),
		"date":       formatDate(firstOf(item, "date")),
		"vendor":     counterparty(item["vendor"], nil),
		"category":   category,
		"status":     scalar(firstOf(item, "status")),
		"amount":     amount,
		"tax_amount": money(firstOf(item, "tax_amount", "taxAmount1")),
		"currency":   text(firstOf(item, "currency_code", "currency")),
	}
	for k, v := range syntheticLine(text(firstOf(item, "notes", "description")), amount) {
		rec[k] = v
	}
	rec["line_items"] = 1
	return []Record{rec}
}

type paymentsNormalizer struct{}

func (paymentsNormalizer) fields() []string {
	return []string{
		"payment_id", "invoice_id", "client", "date", "type", "amount",
		"currency", "description", "quantity", "unit_cost", "line_total",
		"line_items",
	}
}

func (paymentsNormalizer) normalize(item map[string]any) []Record {
	amount := money(firstOf(item, "amount"))
	rec := Record{
		"payment_id": scalar(firstOf(item, "id", "paymentid")),
		"invoice_id": scalar(firstOf(item, "invoiceid", "invoice_id")),
		"client":     counterparty(item["client"], item),
		"date":       formatDate(firstOf(item, "date")),
		"type":       scalar(firstOf(item, "type", "payment_type")),
		"amount":     amount,
		"currency":   text(firstOf(item, "currency_code", "currency")),
	}
	for k, v := range syntheticLine(text(firstOf(item, "note", "notes")), amount) {
		rec[k] = v
	}
	rec["line_items"] = 1
	return []Record{rec}
}
